package upload

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// Blob is an opaque reference to file content that is read on demand.
type Blob interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// PathBlob reads a file from the local filesystem.
type PathBlob string

func (p PathBlob) Name() string { return filepath.Base(string(p)) }

func (p PathBlob) Open() (io.ReadCloser, error) { return os.Open(string(p)) }

// BytesBlob is in-memory content.
type BytesBlob struct {
	Filename string
	Data     []byte
}

func (b BytesBlob) Name() string { return b.Filename }

func (b BytesBlob) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.Data)), nil
}

// Task asks for the file in File to be resolved into the form field Field.
type Task struct {
	Field string
	File  Blob
}

// Queue holds the pending tasks of one submission. Tasks are taken from
// the end, so the most recently pushed task is processed first; callers
// must not depend on that order.
type Queue struct {
	tasks []Task
}

// NewQueue builds a queue holding tasks in push order.
func NewQueue(tasks ...Task) *Queue {
	q := &Queue{}
	for _, t := range tasks {
		q.Push(t)
	}
	return q
}

func (q *Queue) Push(t Task) {
	q.tasks = append(q.tasks, t)
}

// Pop removes and returns the next task.
func (q *Queue) Pop() (Task, bool) {
	if len(q.tasks) == 0 {
		return Task{}, false
	}
	last := len(q.tasks) - 1
	t := q.tasks[last]
	q.tasks[last] = Task{}
	q.tasks = q.tasks[:last]
	return t, true
}

func (q *Queue) Len() int {
	return len(q.tasks)
}
