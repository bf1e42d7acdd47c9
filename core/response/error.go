package response

import (
	"fmt"
	"net/http"
)

// HTTPError is an error that knows its HTTP status and machine-readable
// code. Handlers return predefined instances (ErrNotFound, ErrConflict, ...)
// customized through the With* methods; the boundary error handler renders
// them into the error envelope.
//
// Methods use value receivers and return copies, so the predefined instances
// are never mutated:
//
//	return response.ErrNotFound.WithMessage("user does not exist")
type HTTPError struct {
	Status  int            `json:"status"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`

	err error
}

func (e HTTPError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

// StatusCode reports the HTTP status for this error.
func (e HTTPError) StatusCode() int { return e.Status }

// Unwrap exposes the wrapped cause for errors.Is/As chains.
func (e HTTPError) Unwrap() error { return e.err }

// Is matches two HTTPErrors by status and code, so
// errors.Is(err, response.ErrNotFound) works on customized copies.
func (e HTTPError) Is(target error) bool {
	t, ok := target.(HTTPError)
	return ok && e.Status == t.Status && e.Code == t.Code
}

// WithMessage returns a copy with a human-readable message.
func (e HTTPError) WithMessage(msg string) HTTPError {
	e.Message = msg
	return e
}

// WithDetails returns a copy with structured details merged in.
func (e HTTPError) WithDetails(details map[string]any) HTTPError {
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	e.Details = merged
	return e
}

// WithError returns a copy wrapping cause. The cause appears in logs and in
// errors.Is/As chains but is never rendered to the client.
func (e HTTPError) WithError(cause error) HTTPError {
	e.err = cause
	return e
}

// NewHTTPError creates an error with the given status and code, using the
// standard status text as the default message.
func NewHTTPError(status int, code string) HTTPError {
	return HTTPError{Status: status, Code: code, Message: http.StatusText(status)}
}

// Predefined errors covering the common REST failure modes.
var (
	ErrBadRequest          = NewHTTPError(http.StatusBadRequest, "bad_request")
	ErrUnauthorized        = NewHTTPError(http.StatusUnauthorized, "unauthorized")
	ErrForbidden           = NewHTTPError(http.StatusForbidden, "forbidden")
	ErrNotFound            = NewHTTPError(http.StatusNotFound, "not_found")
	ErrMethodNotAllowed    = NewHTTPError(http.StatusMethodNotAllowed, "method_not_allowed")
	ErrConflict            = NewHTTPError(http.StatusConflict, "conflict")
	ErrUnprocessableEntity = NewHTTPError(http.StatusUnprocessableEntity, "validation_failed")
	ErrTooManyRequests     = NewHTTPError(http.StatusTooManyRequests, "too_many_requests")
	ErrInternalServerError = NewHTTPError(http.StatusInternalServerError, "internal_server_error")
	ErrServiceUnavailable  = NewHTTPError(http.StatusServiceUnavailable, "service_unavailable")
)
