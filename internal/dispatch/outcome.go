package dispatch

import (
	"errors"
	"fmt"
)

// Failure classes. Outcome.Err wraps one of these.
var (
	ErrServer            = errors.New("server error")
	ErrValidation        = errors.New("validation error")
	ErrConflict          = errors.New("conflict")
	ErrUnhandledStatus   = errors.New("unhandled status")
	ErrMalformedResponse = errors.New("malformed response")
	ErrNetwork           = errors.New("network failure")
	ErrUploadFailed      = errors.New("upload failed")
	ErrClient            = errors.New("request not sent")
)

// Kind is the UI action an outcome maps to.
type Kind int

const (
	// KindMessage shows Message to the user.
	KindMessage Kind = iota
	// KindRedirect navigates to Location.
	KindRedirect
	// KindUnhandled reports a status the client has no rule for.
	KindUnhandled
	// KindServerError is a status above 500.
	KindServerError
	// KindMalformed is a body that does not fit the expected schema.
	KindMalformed
	// KindNetworkFailure is a request that never got a response.
	KindNetworkFailure
	// KindUploadFailure is a file field that could not be resolved.
	KindUploadFailure
	// KindClientError is a request the client refused to build.
	KindClientError
)

func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindRedirect:
		return "redirect"
	case KindUnhandled:
		return "unhandled"
	case KindServerError:
		return "server-error"
	case KindMalformed:
		return "malformed"
	case KindNetworkFailure:
		return "network-failure"
	case KindUploadFailure:
		return "upload-failure"
	case KindClientError:
		return "client-error"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Outcome is the classified result of one request.
type Outcome struct {
	Kind     Kind
	Status   int
	Message  string
	Location string
	// Err is nil for successes and wraps a failure class otherwise.
	Err error
}

// Failed reports whether the outcome ends the attempt unsuccessfully.
func (o Outcome) Failed() bool {
	return o.Err != nil
}
