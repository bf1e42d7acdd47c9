package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/restkit/core/router"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// Skip bypasses logging for specific requests, e.g. health checks.
	Skip func(ctx *router.Context) bool
	// Logger receives the request records. Defaults to a no-op logger.
	Logger *slog.Logger
	// SlowRequestThreshold logs slow requests at warning level (default: 5s).
	SlowRequestThreshold time.Duration
}

// Logging records one structured log line per request with method, path,
// status, and duration. The line is emitted after the response body is
// written, so the status is the one the client actually received. Errors are
// logged immediately and left for the boundary handler to render.
func Logging(logger *slog.Logger) router.Middleware {
	return LoggingWithConfig(LoggingConfig{Logger: logger})
}

// LoggingWithConfig is Logging with custom configuration.
func LoggingWithConfig(cfg LoggingConfig) router.Middleware {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}

	return func(ctx *router.Context, next router.Next) (router.Response, error) {
		if cfg.Skip != nil && cfg.Skip(ctx) {
			return next()
		}

		start := time.Now()
		resp, err := next()
		if err != nil {
			attrs := requestAttrs(ctx, start)
			log.Error("request failed", append(attrs, slog.Any("error", err))...)
			return resp, err
		}

		return func(w http.ResponseWriter, r *http.Request) error {
			writeErr := resp(w, r)
			attrs := requestAttrs(ctx, start)
			attrs = append(attrs, slog.Int("status", ctx.ResponseWriter().Status()))
			switch {
			case writeErr != nil:
				log.Error("response write failed", append(attrs, slog.Any("error", writeErr))...)
			case time.Since(start) > cfg.SlowRequestThreshold:
				log.Warn("slow request", append(attrs, slog.Bool("slow_request", true))...)
			default:
				log.Info("request completed", attrs...)
			}
			return writeErr
		}, nil
	}
}

func requestAttrs(ctx *router.Context, start time.Time) []any {
	attrs := []any{
		slog.String("method", ctx.Method()),
		slog.String("path", ctx.Path()),
		slog.Duration("duration", time.Since(start)),
	}
	if id, ok := GetRequestID(ctx); ok {
		attrs = append(attrs, slog.String("request_id", id))
	}
	return attrs
}
