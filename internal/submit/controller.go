// Package submit sends forms to the server: file fields are resolved into
// file ids first, then the flattened form is sent as JSON and the response
// is dispatched.
package submit

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/nudibranch/nudi/cli/internal/api"
	"github.com/nudibranch/nudi/cli/internal/dispatch"
	"github.com/nudibranch/nudi/cli/internal/form"
	"github.com/nudibranch/nudi/cli/internal/logging"
	"github.com/nudibranch/nudi/cli/internal/upload"
)

// Sender issues the final form request.
type Sender interface {
	Send(ctx context.Context, method, target string, body []byte) (*api.Response, error)
}

// Controller runs form submissions.
type Controller struct {
	sender      Sender
	coordinator *upload.Coordinator
	dispatcher  *dispatch.Dispatcher
	log         logging.Logger
}

// NewController wires a controller. A nil logger discards.
func NewController(sender Sender, coordinator *upload.Coordinator, dispatcher *dispatch.Dispatcher, log logging.Logger) *Controller {
	if log == nil {
		log = logging.Discard()
	}
	return &Controller{
		sender:      sender,
		coordinator: coordinator,
		dispatcher:  dispatcher,
		log:         log,
	}
}

// Submission is a form submission in flight. It exists as soon as Submit
// returns; the outcome becomes available once Done is closed.
type Submission struct {
	ID      string
	done    chan struct{}
	outcome dispatch.Outcome
	sent    form.Representation
}

// Done is closed when the submission has finished.
func (s *Submission) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the submission finishes and returns its outcome.
func (s *Submission) Wait() dispatch.Outcome {
	<-s.done
	return s.outcome
}

// Sent returns the representation that was sent, or nil if the request was
// never issued. Only valid after Done.
func (s *Submission) Sent() form.Representation {
	<-s.done
	return s.sent
}

// Submit starts submitting f with method; an empty method falls back to
// the form's own, then POST. It never blocks and always returns a
// submission: every failure is reported through the dispatcher and the
// submission's outcome.
func (c *Controller) Submit(ctx context.Context, f form.Form, method string, skipEmpty bool) *Submission {
	s := &Submission{ID: uuid.NewString(), done: make(chan struct{})}
	go func() {
		defer close(s.done)
		s.outcome = c.run(api.WithRequestID(ctx, s.ID), s, f, method, skipEmpty)
	}()
	return s
}

func (c *Controller) run(ctx context.Context, s *Submission, f form.Form, method string, skipEmpty bool) dispatch.Outcome {
	method = resolveMethod(method, f.Method)
	f.Method = method
	log := c.log.With("request_id", s.ID, "method", method, "action", f.Action)

	if err := f.Validate(); err != nil {
		return c.dispatcher.Fail(ctx, err)
	}

	rep, err := form.Flatten(f.Fields, skipEmpty)
	if err != nil {
		return c.dispatcher.Fail(ctx, err)
	}

	queue := upload.NewQueue()
	for _, field := range f.FileFields() {
		path, _ := field.Selected()
		queue.Push(upload.Task{Field: field.Name, File: upload.PathBlob(path)})
	}
	log.Debug(ctx, "resolving file fields", "files", queue.Len())

	if err := c.coordinator.Run(ctx, queue, rep); err != nil {
		return c.dispatcher.Fail(ctx, err)
	}

	body, err := rep.JSON()
	if err != nil {
		return c.dispatcher.Fail(ctx, err)
	}

	log.Info(ctx, "submitting form", "bytes", len(body))
	resp, err := c.sender.Send(ctx, method, f.Action, body)
	if err != nil {
		return c.dispatcher.Fail(ctx, err)
	}
	s.sent = rep
	log.Debug(ctx, "form response", "status", resp.Status)
	return c.dispatcher.Dispatch(ctx, resp)
}

func resolveMethod(method, fallback string) string {
	for _, m := range []string{method, fallback} {
		if m = strings.TrimSpace(m); m != "" {
			return strings.ToUpper(m)
		}
	}
	return http.MethodPost
}
