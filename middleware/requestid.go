package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/restkit/core/router"
)

// requestIDContextKey keys the request ID in the request context.
type requestIDContextKey struct{}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// Skip bypasses the middleware for specific requests.
	Skip func(ctx *router.Context) bool
	// Generator creates new request IDs. Defaults to UUID v4.
	Generator func() string
	// HeaderName is the response header carrying the ID. Defaults to
	// "X-Request-ID".
	HeaderName string
	// UseExisting reuses an incoming request ID header instead of
	// generating a new one.
	UseExisting bool
}

// RequestID assigns a unique identifier to each request, stores it in the
// context, and echoes it in the response headers.
func RequestID() router.Middleware {
	return RequestIDWithConfig(RequestIDConfig{})
}

// RequestIDWithConfig is RequestID with custom configuration.
func RequestIDWithConfig(cfg RequestIDConfig) router.Middleware {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}
	if cfg.Generator == nil {
		cfg.Generator = func() string { return uuid.New().String() }
	}

	return func(ctx *router.Context, next router.Next) (router.Response, error) {
		if cfg.Skip != nil && cfg.Skip(ctx) {
			return next()
		}

		var id string
		if cfg.UseExisting {
			id = ctx.Header(cfg.HeaderName)
		}
		if id == "" {
			id = cfg.Generator()
		}
		ctx.SetValue(requestIDContextKey{}, id)

		resp, err := next()
		if err != nil {
			// The boundary error handler renders; still tag the response.
			ctx.ResponseWriter().Header().Set(cfg.HeaderName, id)
			return resp, err
		}

		return func(w http.ResponseWriter, r *http.Request) error {
			w.Header().Set(cfg.HeaderName, id)
			return resp(w, r)
		}, nil
	}
}

// GetRequestID retrieves the request ID assigned by the middleware.
func GetRequestID(ctx *router.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey{}).(string)
	return id, ok
}
