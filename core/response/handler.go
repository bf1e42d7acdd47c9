package response

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/restkit/core/binder"
	"github.com/dmitrymomot/restkit/core/router"
	"github.com/dmitrymomot/restkit/core/validator"
)

// Envelope is the wire format for error responses.
type Envelope struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// ErrorBody carries the error payload inside the envelope.
type ErrorBody struct {
	Status    int            `json:"status"`
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// HandlerConfig controls error rendering.
type HandlerConfig struct {
	// Production hides internal error messages: 5xx responses render the
	// generic status text instead of the underlying error string. Client
	// errors (4xx) keep their messages in both modes.
	Production bool

	// Logger receives every 5xx error with the request method and path.
	// Defaults to a no-op logger.
	Logger *slog.Logger
}

// JSONErrorHandler returns the boundary error handler: it maps any error to
// an HTTPError, wraps it in the envelope, and writes it as JSON. If the
// response has already been partially written, nothing more can be sent and
// the error is only logged.
func JSONErrorHandler(cfg HandlerConfig) router.ErrorHandler {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return func(ctx *router.Context, err error) {
		httpErr := MapError(err)

		if httpErr.Status >= 500 {
			log.Error("request failed",
				"method", ctx.Method(),
				"path", ctx.Path(),
				"status", httpErr.Status,
				"error", err,
			)
			if cfg.Production {
				httpErr.Message = http.StatusText(httpErr.Status)
				httpErr.Details = nil
			}
		}

		w := ctx.ResponseWriter()
		if w.Written() {
			log.Warn("response already written, dropping error payload",
				"method", ctx.Method(),
				"path", ctx.Path(),
				"status", httpErr.Status,
			)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(httpErr.Status)
		_ = json.NewEncoder(w).Encode(Envelope{
			Error: ErrorBody{
				Status:    httpErr.Status,
				Code:      httpErr.Code,
				Message:   httpErr.Message,
				Details:   httpErr.Details,
				Timestamp: time.Now().UTC(),
			},
		})
	}
}

// MapError converts an arbitrary error into an HTTPError:
//
//   - HTTPError values pass through
//   - validation errors become 422 with per-field details
//   - binder failures become 400 (413 for oversized, 415 for media type)
//   - router sentinels become 404/405
//   - everything else becomes 500 wrapping the cause
func MapError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	if verrs := validator.ExtractValidationErrors(err); len(verrs) > 0 {
		return ErrUnprocessableEntity.
			WithMessage("validation failed").
			WithDetails(map[string]any{"fields": verrs.Fields()}).
			WithError(err)
	}

	switch {
	case errors.Is(err, binder.ErrBodyTooLarge):
		return NewHTTPError(http.StatusRequestEntityTooLarge, "request_too_large").WithError(err)
	case errors.Is(err, binder.ErrUnsupportedMediaType):
		return NewHTTPError(http.StatusUnsupportedMediaType, "unsupported_media_type").WithError(err)
	case errors.Is(err, binder.ErrFailedToParseJSON),
		errors.Is(err, binder.ErrFailedToParseForm),
		errors.Is(err, binder.ErrFailedToParseQuery),
		errors.Is(err, binder.ErrFailedToReadBody):
		return ErrBadRequest.WithMessage(err.Error()).WithError(err)
	case errors.Is(err, router.ErrNotFound):
		return ErrNotFound.WithError(err)
	case errors.Is(err, router.ErrMethodNotAllowed):
		return ErrMethodNotAllowed.WithError(err)
	}

	return ErrInternalServerError.WithMessage(err.Error()).WithError(err)
}
