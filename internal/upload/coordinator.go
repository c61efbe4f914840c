// Package upload resolves file form fields into server file ids.
//
// Each file is addressed by its content digest. The coordinator asks the
// server whether the digest is known, uploads the content only when it is
// not, and records the returned file id in the form representation. Tasks
// run strictly one at a time, and the first failure ends the run.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/nudibranch/nudi/cli/internal/api"
	"github.com/nudibranch/nudi/cli/internal/logging"
)

// Store is the part of the server API the coordinator talks to.
type Store interface {
	LookupFile(ctx context.Context, digest string) (*api.Response, error)
	PutFile(ctx context.Context, digest string, data []byte) (*api.Response, error)
}

// Target receives resolved file ids. form.Representation implements it.
type Target interface {
	Set(path string, value any) error
}

// Coordinator drains upload queues.
type Coordinator struct {
	store    Store
	hasher   Hasher
	log      logging.Logger
	observer Observer
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithHasher replaces the default SHA-1 hasher.
func WithHasher(h Hasher) Option {
	return func(c *Coordinator) { c.hasher = h }
}

// WithLogger sets the logger; the default discards.
func WithLogger(l logging.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// WithObserver registers a progress observer.
func WithObserver(o Observer) Option {
	return func(c *Coordinator) { c.observer = o }
}

// NewCoordinator creates a coordinator backed by store.
func NewCoordinator(store Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:  store,
		hasher: SHA1Hasher{},
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) emit(ev Event) {
	if c.observer != nil {
		c.observer(ev)
	}
}

// Run resolves every task in q and writes each file id into target at the
// task's field path. It returns nil once the queue is empty; any failure
// stops the run with an *Error and leaves the remaining tasks queued.
func (c *Coordinator) Run(ctx context.Context, q *Queue, target Target) error {
	for {
		task, ok := q.Pop()
		if !ok {
			break
		}
		name := task.File.Name()
		c.emit(Event{Kind: EventStarted, Field: task.Field, File: name, Remaining: q.Len()})

		if err := ctx.Err(); err != nil {
			return c.fail(ctx, &Error{Field: task.Field, File: name, Stage: StageQueue, Err: err}, q)
		}

		id, err := c.Resolve(ctx, task)
		if err != nil {
			return c.fail(ctx, err, q)
		}

		if err := target.Set(task.Field, id.String()); err != nil {
			return c.fail(ctx, &Error{Field: task.Field, File: name, Stage: StageRecord, Err: err}, q)
		}
		c.log.Debug(ctx, "file field resolved", "field", task.Field, "file_id", id.String())
		c.emit(Event{Kind: EventResolved, Field: task.Field, File: name, FileID: id.String(), Remaining: q.Len()})
	}
	c.emit(Event{Kind: EventDone})
	return nil
}

func (c *Coordinator) fail(ctx context.Context, err error, q *Queue) error {
	ev := Event{Kind: EventFailed, Err: err, Remaining: q.Len()}
	var ue *Error
	if errors.As(err, &ue) {
		ev.Field, ev.File, ev.Digest = ue.Field, ue.File, ue.Digest
	}
	c.log.Error(ctx, "file upload failed", "err", err)
	c.emit(ev)
	return err
}

// Resolve ensures one file exists on the server and returns its id: one
// lookup, plus an upload only when the lookup answers 404.
func (c *Coordinator) Resolve(ctx context.Context, task Task) (api.FileID, error) {
	name := task.File.Name()
	abort := func(stage Stage, digest string, status int, err error) (api.FileID, error) {
		return "", &Error{Field: task.Field, File: name, Digest: digest, Stage: stage, Status: status, Err: err}
	}

	data, err := readAll(task.File)
	if err != nil {
		return abort(StageRead, "", 0, err)
	}
	digest := c.hasher.Digest(data)
	log := c.log.With("field", task.Field, "digest", digest)

	log.Debug(ctx, "checking file", "file", name)
	resp, err := c.store.LookupFile(ctx, digest)
	if err != nil {
		return abort(StageLookup, digest, 0, err)
	}

	stage := StageLookup
	switch resp.Status {
	case http.StatusOK:
		c.emit(Event{Kind: EventFound, Field: task.Field, File: name, Digest: digest})
	case http.StatusNotFound:
		log.Info(ctx, "uploading file", "file", name, "bytes", len(data))
		c.emit(Event{Kind: EventUploading, Field: task.Field, File: name, Digest: digest})
		stage = StageUpload
		resp, err = c.store.PutFile(ctx, digest, data)
		if err != nil {
			return abort(StageUpload, digest, 0, err)
		}
		if resp.Status != http.StatusOK {
			return abort(StageUpload, digest, resp.Status, ErrUnexpectedStatus)
		}
	default:
		return abort(StageLookup, digest, resp.Status, ErrUnexpectedStatus)
	}

	rec, err := api.DecodeFileRecord(resp.Body)
	if err != nil {
		return abort(stage, digest, resp.Status, err)
	}
	return rec.FileID, nil
}

func readAll(b Blob) ([]byte, error) {
	rc, err := b.Open()
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return data, nil
}
