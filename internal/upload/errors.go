package upload

import (
	"errors"
	"fmt"
)

// Stage names the step of a task that failed.
type Stage string

const (
	StageQueue  Stage = "queue"
	StageRead   Stage = "read"
	StageLookup Stage = "lookup"
	StageUpload Stage = "upload"
	StageRecord Stage = "record"
)

// ErrUnexpectedStatus is wrapped when the server answers a lookup or upload
// with a status the flow cannot continue from.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Error reports why a file could not be resolved. The submission that owns
// the queue is abandoned when it is returned.
type Error struct {
	Field  string
	File   string
	Digest string
	Stage  Stage
	Status int
	Err    error
}

func (e *Error) Error() string {
	name := e.File
	if name == "" {
		name = e.Field
	}
	msg := fmt.Sprintf("upload %s (field %s): %s", name, e.Field, e.Stage)
	if e.Status != 0 {
		msg += fmt.Sprintf(": HTTP %d", e.Status)
	}
	if e.Err != nil && !errors.Is(e.Err, ErrUnexpectedStatus) {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
