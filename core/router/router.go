package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
)

var allowedMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodOptions: {},
	http.MethodHead:    {},
}

// Router compiles controllers into a segment trie and resolves incoming
// method+path pairs to routes. It performs no I/O itself; the application
// boundary drives Lookup and Dispatch.
type Router struct {
	tree       *node
	prefix     string
	middleware []Middleware
	routes     []*CompiledRoute
	strict     bool
	logger     *slog.Logger
}

// New creates an empty router.
func New(opts ...Option) *Router {
	r := &Router{
		tree:   newNode(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Option configures a Router.
type Option func(*Router)

// WithPrefix sets a global path prefix prepended to every registered route,
// e.g. "/api/v1".
func WithPrefix(prefix string) Option {
	return func(r *Router) { r.prefix = prefix }
}

// WithStrictRoutes makes duplicate method+pattern registration a hard error
// instead of a logged overwrite.
func WithStrictRoutes() Option {
	return func(r *Router) { r.strict = true }
}

// WithLogger sets the logger used for registration warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Use appends router-level middleware, applied to every route registered
// afterwards, ahead of controller and route middleware.
func (r *Router) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

// Register compiles the given controllers into the routing trie. Handler
// signatures and bindings are checked here so misconfigured routes fail at
// startup. Registering the same method+pattern twice overwrites the earlier
// route with a warning, or fails when the router is strict.
func (r *Router) Register(controllers ...Controller) error {
	for _, c := range controllers {
		if err := r.registerController(c); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) registerController(c Controller) error {
	name := c.Name
	if name == "" {
		name = c.Prefix
	}
	if len(c.Routes) == 0 {
		return fmt.Errorf("%w: %s", ErrNoRoutes, name)
	}

	for _, def := range c.Routes {
		if _, ok := allowedMethods[def.Method]; !ok {
			return fmt.Errorf("%w: %q on %s%s", ErrInvalidMethod, def.Method, c.Prefix, def.Path)
		}

		inv, err := newInvoker(def)
		if err != nil {
			return fmt.Errorf("%s %s%s: %w", def.Method, c.Prefix, def.Path, err)
		}

		pattern := joinPaths(r.prefix, c.Prefix, def.Path)

		mw := make([]Middleware, 0, len(r.middleware)+len(c.Middleware)+len(def.Middleware))
		mw = append(mw, r.middleware...)
		mw = append(mw, c.Middleware...)
		mw = append(mw, def.Middleware...)

		tags := make([]string, 0, len(c.Tags)+len(def.Tags))
		tags = append(tags, c.Tags...)
		tags = append(tags, def.Tags...)

		rt := &CompiledRoute{
			Method:     def.Method,
			Pattern:    pattern,
			Controller: name,
			Handler:    handlerName(def),
			Tags:       tags,
			middleware: mw,
			invoker:    inv,
			def:        def,
		}

		prev, err := r.tree.insert(def.Method, splitPath(pattern), rt)
		if err != nil {
			return fmt.Errorf("%s %s: %w", def.Method, pattern, err)
		}
		if prev != nil {
			if r.strict {
				return fmt.Errorf("%w: %s %s", ErrDuplicateRoute, def.Method, pattern)
			}
			r.logger.Warn("duplicate route registration, later route wins",
				"method", def.Method,
				"pattern", pattern,
				"previous_controller", prev.Controller,
				"controller", name,
			)
			r.removeRoute(prev)
		}
		r.routes = append(r.routes, rt)
	}

	return nil
}

func (r *Router) removeRoute(rt *CompiledRoute) {
	for i, cur := range r.routes {
		if cur == rt {
			r.routes = append(r.routes[:i], r.routes[i+1:]...)
			return
		}
	}
}

// Lookup resolves a method and path to a registered route. It returns the
// match with bound path parameters, or nil with the list of methods the
// matched pattern does support. A nil match with an empty method list means
// the path itself is unknown.
func (r *Router) Lookup(method, path string) (*RouteMatch, []string) {
	params := map[string]string{}
	n := r.tree.lookup(splitPath(path), params)
	if n == nil {
		return nil, nil
	}

	if rt, ok := n.routes[method]; ok {
		return &RouteMatch{Route: rt, Params: params}, nil
	}

	allowed := make([]string, 0, len(n.routes))
	for m := range n.routes {
		allowed = append(allowed, m)
	}
	sort.Strings(allowed)
	return nil, allowed
}

// Routes returns the read-only projection of all registered routes in
// registration order. Documentation generators consume this instead of the
// trie.
func (r *Router) Routes() []RouteInfo {
	out := make([]RouteInfo, len(r.routes))
	for i, rt := range r.routes {
		out[i] = RouteInfo{
			Method:      rt.Method,
			Pattern:     rt.Pattern,
			Controller:  rt.Controller,
			Handler:     rt.Handler,
			Summary:     rt.def.Summary,
			Description: rt.def.Description,
			Tags:        rt.Tags,
			Request:     rt.def.Request,
			Response:    rt.def.Response,
		}
	}
	return out
}
