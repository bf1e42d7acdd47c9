package restkit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/dmitrymomot/restkit/core/di"
	"github.com/dmitrymomot/restkit/core/openapi"
	"github.com/dmitrymomot/restkit/core/response"
	"github.com/dmitrymomot/restkit/core/router"
	"github.com/dmitrymomot/restkit/core/server"
)

// App is the application boundary: it owns the router, the dependency
// container, and the error handler, and implements http.Handler. All wiring
// is explicit; nothing registers itself through package state.
type App struct {
	router       *router.Router
	container    *di.Container
	logger       *slog.Logger
	errorHandler router.ErrorHandler
	wrappers     []func(http.Handler) http.Handler
	routerOpts   []router.Option
	production   bool

	buildOnce sync.Once
	handler   http.Handler
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the application logger, used for panics, registration
// warnings, and the default error handler.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithErrorHandler replaces the boundary error handler. The default renders
// the JSON error envelope in development mode.
func WithErrorHandler(h router.ErrorHandler) Option {
	return func(a *App) {
		if h != nil {
			a.errorHandler = h
		}
	}
}

// WithProduction switches the default error handler to production mode:
// internal error messages are replaced with generic status text.
func WithProduction() Option {
	return func(a *App) { a.production = true }
}

// WithRouterOptions passes options through to the underlying router, e.g.
// router.WithPrefix("/api/v1") or router.WithStrictRoutes().
func WithRouterOptions(opts ...router.Option) Option {
	return func(a *App) { a.routerOpts = append(a.routerOpts, opts...) }
}

// WithHTTPMiddleware wraps the whole application in an http-level middleware.
// Wrappers run outside the routing layer, so they see every request
// including CORS preflights and unmatched paths. Applied in the given order,
// first wrapper outermost.
func WithHTTPMiddleware(wrappers ...func(http.Handler) http.Handler) Option {
	return func(a *App) { a.wrappers = append(a.wrappers, wrappers...) }
}

// New creates an App.
func New(opts ...Option) *App {
	a := &App{
		container: di.New(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.router = router.New(append([]router.Option{router.WithLogger(a.logger)}, a.routerOpts...)...)

	if a.errorHandler == nil {
		a.errorHandler = response.JSONErrorHandler(response.HandlerConfig{
			Production: a.production,
			Logger:     a.logger,
		})
	}
	return a
}

// Router exposes the underlying router.
func (a *App) Router() *router.Router { return a.router }

// Container exposes the dependency container.
func (a *App) Container() *di.Container { return a.container }

// Use appends router-level middleware.
func (a *App) Use(mw ...router.Middleware) { a.router.Use(mw...) }

// Register compiles controllers into the router.
func (a *App) Register(controllers ...router.Controller) error {
	return a.router.Register(controllers...)
}

// MustRegister is Register that panics on failure, for startup wiring.
func (a *App) MustRegister(controllers ...router.Controller) {
	if err := a.Register(controllers...); err != nil {
		panic(err)
	}
}

// Routes returns the registered route projection.
func (a *App) Routes() []router.RouteInfo { return a.router.Routes() }

// OpenAPI builds the OpenAPI document from the registered routes.
func (a *App) OpenAPI(info openapi.Info) openapi.Document {
	return openapi.Generate(info, a.router.Routes())
}

// MountOpenAPI registers a GET route serving the OpenAPI document as JSON.
// The document is assembled per request, so routes registered afterwards are
// included.
func (a *App) MountOpenAPI(path string, info openapi.Info) error {
	return a.Register(router.Controller{
		Name: "openapi",
		Routes: []router.Route{
			{
				Method:  http.MethodGet,
				Path:    path,
				Handler: func() openapi.Document { return a.OpenAPI(info) },
				Name:    "getOpenAPI",
				Summary: "OpenAPI document",
			},
		},
	})
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.buildOnce.Do(func() {
		var h http.Handler = http.HandlerFunc(a.serveRequest)
		for i := len(a.wrappers) - 1; i >= 0; i-- {
			h = a.wrappers[i](h)
		}
		a.handler = h
	})
	a.handler.ServeHTTP(w, r)
}

func (a *App) serveRequest(w http.ResponseWriter, r *http.Request) {
	rw := router.NewResponseWriter(w)
	ctx := router.NewContext(rw, r, nil)

	defer func() {
		if rec := recover(); rec != nil {
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			a.logger.Error("panic recovered",
				"method", r.Method,
				"path", r.URL.Path,
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			a.errorHandler(ctx, fmt.Errorf("panic: %v", rec))
		}
	}()

	match, allowed := a.router.Lookup(r.Method, r.URL.Path)
	if match == nil {
		if len(allowed) > 0 {
			rw.Header().Set("Allow", strings.Join(allowed, ", "))
			a.errorHandler(ctx, router.ErrMethodNotAllowed)
		} else {
			a.errorHandler(ctx, router.ErrNotFound)
		}
		return
	}

	ctx = router.NewContext(rw, r, match.Params)
	resp, err := match.Route.Dispatch(ctx)
	if err != nil {
		a.errorHandler(ctx, err)
		return
	}
	if resp == nil {
		resp = ctx.NoContent()
	}
	if err := resp(rw, r); err != nil {
		if rw.Written() {
			a.logger.Error("response write failed",
				"method", r.Method,
				"path", r.URL.Path,
				"error", err,
			)
			return
		}
		a.errorHandler(ctx, err)
	}
}

// Run serves the application on addr until ctx is canceled, then shuts down
// gracefully.
func (a *App) Run(ctx context.Context, addr string, opts ...server.Option) error {
	srv := server.New(addr, append([]server.Option{server.WithLogger(a.logger)}, opts...)...)
	return srv.Start(ctx, a)
}
