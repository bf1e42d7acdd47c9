package router

import "errors"

var (
	// ErrNotFound is reported when no registered pattern matches the request path.
	ErrNotFound = errors.New("route not found")

	// ErrMethodNotAllowed is reported when the path matches a registered
	// pattern but no handler exists for the request method.
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrNextCalledTwice is reported when a middleware invokes its
	// continuation more than once during a single request. The chain refuses
	// to re-enter a stage it already passed.
	ErrNextCalledTwice = errors.New("middleware called next more than once")

	// ErrInvalidMethod is reported at registration time for methods outside
	// the supported HTTP method set.
	ErrInvalidMethod = errors.New("invalid HTTP method")

	// ErrNoRoutes is reported when a controller is registered without any
	// route definitions.
	ErrNoRoutes = errors.New("controller has no routes")

	// ErrDuplicateRoute is reported in strict mode when a method+pattern pair
	// is registered twice. Outside strict mode the later registration wins
	// and a warning is logged instead.
	ErrDuplicateRoute = errors.New("duplicate route registration")

	// ErrParamConflict is reported when two patterns declare different
	// parameter names at the same path position, e.g. /users/:id and
	// /users/:uid.
	ErrParamConflict = errors.New("conflicting parameter name in route pattern")

	// ErrInvalidPattern is reported for malformed route patterns, e.g. a
	// wildcard segment that is not the last segment.
	ErrInvalidPattern = errors.New("invalid route pattern")

	// ErrInvalidHandler is reported at registration time when a route handler
	// is not a function, is variadic, or has an unsupported return shape.
	ErrInvalidHandler = errors.New("invalid route handler")

	// ErrInvalidBinding is reported when a declared parameter binding cannot
	// produce a value assignable to the corresponding handler parameter.
	ErrInvalidBinding = errors.New("invalid parameter binding")
)

// ErrorHandler renders an error to the client. The router itself never writes
// error responses; the application installs a handler at the boundary.
type ErrorHandler func(ctx *Context, err error)

// statusCode lets error types carry their HTTP status without this package
// importing the response package.
type statusCode interface {
	StatusCode() int
}

// StatusFromError extracts an HTTP status code from err. Errors that
// implement StatusCode() int report their own status; the router sentinels
// map to 404/405; everything else is a 500.
func StatusFromError(err error) int {
	var sc statusCode
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrMethodNotAllowed):
		return 405
	default:
		return 500
	}
}
