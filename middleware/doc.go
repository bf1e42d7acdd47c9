// Package middleware provides the request middleware shipped with the
// framework: request IDs, structured request logging, bearer token
// authentication, and rate limiting, plus an http-level CORS wrapper.
//
// Chain middleware operates on the routing context:
//
//	r.Use(middleware.RequestID(), middleware.Logging(logger))
//
// CORS is the exception: it wraps the whole http.Handler so preflight
// OPTIONS requests are answered before route lookup.
package middleware
