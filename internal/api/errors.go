package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthenticated is returned when an admin endpoint answers with the
	// login page instead of JSON.
	ErrUnauthenticated = errors.New("admin session required: run 'phishguard admin login'")

	// ErrLoginRejected is returned when the server re-renders the login form.
	ErrLoginRejected = errors.New("incorrect admin password")

	// ErrEmptyScanResponse is returned when a scan answers with an empty array.
	ErrEmptyScanResponse = errors.New("server returned no scan results")

	// ErrUploadTooLarge is returned before sending a file over the size limit.
	ErrUploadTooLarge = errors.New("upload exceeds maximum size")
)

// Kind classifies an *Error.
type Kind int

const (
	// KindTransport means no response was received.
	KindTransport Kind = iota
	// KindStatus means the server answered with a failure.
	KindStatus
	// KindDecode means the response body was not what the endpoint returns.
	KindDecode
	// KindAuth means the admin session is missing or was rejected.
	KindAuth
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	case KindAuth:
		return "auth"
	default:
		return "unknown"
	}
}

// Error is a network or server failure.
type Error struct {
	Kind Kind
	// Op is the endpoint operation, e.g. "scan".
	Op string
	// Status is the HTTP status, 0 when no response was received.
	Status int
	// Message is the user-facing description.
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindAuth && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s: server returned %d %s", e.Op, e.Status, http.StatusText(e.Status))
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": request failed"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
