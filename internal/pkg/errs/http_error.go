package errs

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrAuthExpired is returned by the client transport when the backend rejected the
// session. The auto-logout cascade has already run by the time a caller sees it.
var ErrAuthExpired = errors.New("authentication expired")

// HTTPError is a non-2xx response, an envelope with success=false, or a transport
// failure (Status 0) observed by the client.
type HTTPError struct {
	Status  int
	Message string
	Body    []byte

	// Timeout marks a call that exceeded the configured per-call deadline.
	Timeout bool

	cause error
}

func (e *HTTPError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("request timed out: %v", e.cause)
	case e.Status == 0 && e.cause != nil:
		return fmt.Sprintf("request failed: %v", e.cause)
	case e.Message != "":
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("http %d", e.Status)
	}
}

func (e *HTTPError) Unwrap() error {
	return e.cause
}

// NewTransportError wraps a failure that happened before any response was read.
func NewTransportError(cause error) *HTTPError {
	timeout := errors.Is(cause, context.DeadlineExceeded)
	var netErr net.Error
	if errors.As(cause, &netErr) && netErr.Timeout() {
		timeout = true
	}
	return &HTTPError{Timeout: timeout, cause: cause}
}

// RejectedError is a request refused by a local pre-check before any network call.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return "rejected: " + e.Message
}

// Rejected returns a RejectedError with the given user-facing message.
func Rejected(message string) error {
	return &RejectedError{Message: message}
}

// Kind is the client-side failure taxonomy.
type Kind int

const (
	KindUnknown Kind = iota

	// KindAuthExpired: the session was rejected and auto-logout ran.
	KindAuthExpired

	// KindValidation: the backend rejected the input of a mutation.
	KindValidation

	// KindNotFound: a resource the caller opted to handle was missing.
	KindNotFound

	// KindTransient: timeouts, connectivity and 5xx answers.
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindAuthExpired:
		return "auth_expired"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Classify maps an error returned by the transport to a Kind.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, ErrAuthExpired) {
		return KindAuthExpired
	}
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return KindValidation
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return KindTransient
		}
		return KindUnknown
	}

	switch {
	case httpErr.Status == 0:
		return KindTransient
	case httpErr.Status == http.StatusNotFound:
		return KindNotFound
	case httpErr.Status == http.StatusTooManyRequests, httpErr.Status >= 500:
		return KindTransient
	case httpErr.Status >= 400:
		return KindValidation
	default:
		// success=false inside a 2xx envelope
		return KindValidation
	}
}

// IsNotFound reports whether err is a not-found answer the caller opted to handle.
func IsNotFound(err error) bool {
	return Classify(err) == KindNotFound
}

// MessageOf extracts the backend-provided message, or returns fallback.
func MessageOf(err error, fallback string) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	var rejected *RejectedError
	if errors.As(err, &rejected) && rejected.Message != "" {
		return rejected.Message
	}
	return fallback
}
