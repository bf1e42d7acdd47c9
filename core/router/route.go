package router

import (
	"reflect"
	"runtime"
	"strings"
)

// Controller groups routes under a shared path prefix, tag set, and
// middleware stack. Controllers are plain values; registration compiles them
// into the routing trie.
type Controller struct {
	// Name identifies the controller in logs and documentation. Defaults to
	// the prefix when empty.
	Name string

	// Prefix is prepended to every route path, e.g. "/users".
	Prefix string

	// Tags are attached to every route for documentation grouping.
	Tags []string

	// Middleware runs for every route of the controller, after router-level
	// middleware and before route-level middleware.
	Middleware []Middleware

	Routes []Route
}

// Route declares a single operation: an HTTP method, a path pattern relative
// to the controller prefix, a handler function, and the bindings that feed
// the handler's parameters.
type Route struct {
	Method string

	// Path supports literal segments, ":name" parameters, and a trailing
	// "*" wildcard.
	Path string

	// Handler is any function. Its parameters are populated positionally
	// from Params; missing bindings yield zero values. It may return
	// nothing, a single value, or (value, error).
	Handler any

	// Name overrides the handler name derived from the function symbol.
	Name string

	// Params maps handler parameters to request data, positionally.
	Params []Binding

	Middleware []Middleware

	// Documentation metadata, surfaced through Router.Routes.
	Summary     string
	Description string
	Tags        []string
	Request     any
	Response    any
}

// CompiledRoute is a registered route with its middleware stack resolved and
// its handler prepared for invocation.
type CompiledRoute struct {
	Method     string
	Pattern    string
	Controller string
	Handler    string
	Tags       []string

	middleware []Middleware
	invoker    *invoker
	def        Route
}

// Definition returns the route declaration this compiled route was built from.
func (rt *CompiledRoute) Definition() Route { return rt.def }

// Dispatch runs the route's middleware chain and handler for ctx.
func (rt *CompiledRoute) Dispatch(ctx *Context) (Response, error) {
	return newChain(rt.middleware, rt.invoker.call).run(ctx)
}

// RouteMatch is the result of a successful lookup: the route plus the path
// parameters bound during trie traversal.
type RouteMatch struct {
	Route  *CompiledRoute
	Params map[string]string
}

// RouteInfo is the read-only projection of a registered route, consumed by
// documentation generators.
type RouteInfo struct {
	Method      string
	Pattern     string
	Controller  string
	Handler     string
	Summary     string
	Description string
	Tags        []string
	Request     any
	Response    any
}

// handlerName derives a short name for a handler function, preferring the
// explicit route name.
func handlerName(rt Route) string {
	if rt.Name != "" {
		return rt.Name
	}
	v := reflect.ValueOf(rt.Handler)
	if v.Kind() != reflect.Func {
		return ""
	}
	fn := runtime.FuncForPC(v.Pointer())
	if fn == nil {
		return ""
	}
	name := fn.Name()
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}
