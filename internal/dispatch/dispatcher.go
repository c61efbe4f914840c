// Package dispatch turns server responses into user-visible actions.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/nudibranch/nudi/cli/internal/api"
	"github.com/nudibranch/nudi/cli/internal/logging"
	"github.com/nudibranch/nudi/cli/internal/upload"
)

// UI performs the actions outcomes map to.
type UI interface {
	// Notify shows a message to the user.
	Notify(message string)
	// Navigate moves the user to location.
	Navigate(location string)
	// Alert surfaces a failure that has no server-provided message.
	Alert(err error)
}

// Dispatcher classifies responses and drives a UI with the result.
type Dispatcher struct {
	ui  UI
	log logging.Logger
}

// NewDispatcher creates a dispatcher. A nil logger discards.
func NewDispatcher(ui UI, log logging.Logger) *Dispatcher {
	if log == nil {
		log = logging.Discard()
	}
	return &Dispatcher{ui: ui, log: log}
}

// Classify maps a status and body to an outcome without side effects.
func Classify(status int, body []byte) Outcome {
	if status > http.StatusInternalServerError {
		return Outcome{
			Kind:   KindServerError,
			Status: status,
			Err:    fmt.Errorf("%w: HTTP %d", ErrServer, status),
		}
	}

	switch status {
	case http.StatusOK, http.StatusCreated, http.StatusBadRequest, http.StatusConflict, http.StatusGone:
	default:
		return Outcome{
			Kind:    KindUnhandled,
			Status:  status,
			Message: fmt.Sprintf("Unhandled status code: %d", status),
			Err:     fmt.Errorf("%w: %d", ErrUnhandledStatus, status),
		}
	}

	b, err := parseBody(body)
	if err != nil {
		return malformed(status, err)
	}

	switch status {
	case http.StatusOK:
		if b.Message != nil {
			return Outcome{Kind: KindMessage, Status: status, Message: *b.Message}
		}
		if b.RedirLocation != "" {
			return Outcome{Kind: KindRedirect, Status: status, Location: b.RedirLocation}
		}
		return malformed(status, fmt.Errorf("%w: missing message", ErrMalformedResponse))

	case http.StatusCreated, http.StatusGone:
		if b.RedirLocation == "" {
			return malformed(status, fmt.Errorf("%w: missing redir_location", ErrMalformedResponse))
		}
		return Outcome{Kind: KindRedirect, Status: status, Location: b.RedirLocation}

	case http.StatusBadRequest:
		msg := b.combined()
		if msg == "" {
			return malformed(status, fmt.Errorf("%w: missing error", ErrMalformedResponse))
		}
		return Outcome{Kind: KindMessage, Status: status, Message: msg, Err: fmt.Errorf("%w: %s", ErrValidation, msg)}

	default: // 409
		msg := ""
		if b.Message != nil {
			msg = *b.Message
		} else {
			msg = b.combined()
		}
		if msg == "" {
			return malformed(status, fmt.Errorf("%w: missing message", ErrMalformedResponse))
		}
		return Outcome{Kind: KindMessage, Status: status, Message: msg, Err: fmt.Errorf("%w: %s", ErrConflict, msg)}
	}
}

func malformed(status int, err error) Outcome {
	return Outcome{Kind: KindMalformed, Status: status, Err: err}
}

// ClassifyError maps a failure that happened before a response was
// available.
func ClassifyError(err error) Outcome {
	var ue *upload.Error
	switch {
	case errors.As(err, &ue):
		return Outcome{Kind: KindUploadFailure, Status: ue.Status, Err: fmt.Errorf("%w: %w", ErrUploadFailed, err)}
	case errors.Is(err, api.ErrNetwork), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Outcome{Kind: KindNetworkFailure, Err: fmt.Errorf("%w: %w", ErrNetwork, err)}
	default:
		return Outcome{Kind: KindClientError, Err: fmt.Errorf("%w: %w", ErrClient, err)}
	}
}

// Dispatch classifies a response and performs its action.
func (d *Dispatcher) Dispatch(ctx context.Context, resp *api.Response) Outcome {
	return d.apply(ctx, Classify(resp.Status, resp.Body), resp.Body)
}

// DispatchStatus is Dispatch for a bare status and body.
func (d *Dispatcher) DispatchStatus(ctx context.Context, status int, body []byte) Outcome {
	return d.apply(ctx, Classify(status, body), body)
}

// Fail surfaces an error that prevented a response.
func (d *Dispatcher) Fail(ctx context.Context, err error) Outcome {
	return d.apply(ctx, ClassifyError(err), nil)
}

func (d *Dispatcher) apply(ctx context.Context, o Outcome, body []byte) Outcome {
	switch o.Kind {
	case KindMessage, KindUnhandled:
		if o.Failed() {
			d.log.Info(ctx, "request rejected", "status", o.Status, "kind", o.Kind.String())
		}
		d.ui.Notify(o.Message)
	case KindRedirect:
		d.log.Debug(ctx, "redirect", "status", o.Status, "location", o.Location)
		d.ui.Navigate(o.Location)
	case KindServerError:
		d.log.Error(ctx, "server error", "status", o.Status, "body", truncate(body, 512))
		d.ui.Alert(o.Err)
	default:
		d.log.Error(ctx, "request failed", "kind", o.Kind.String(), "status", o.Status, "err", o.Err)
		d.ui.Alert(o.Err)
	}
	return o
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
