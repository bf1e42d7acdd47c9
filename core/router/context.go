package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrymomot/restkit/core/binder"
)

// Response writes an HTTP response. Handlers and middleware return a Response
// instead of writing directly, which lets the chain inspect or replace the
// outcome before anything reaches the wire.
type Response func(w http.ResponseWriter, r *http.Request) error

// Context carries a single request through the middleware chain and handler.
// It gives uniform access to path parameters, query values, headers, and the
// lazily parsed body, and collects response state (status override, cookies,
// request-scoped values) set along the way.
//
// Context implements context.Context by delegating to the underlying request
// context, with request-scoped values layered on top.
type Context struct {
	w      *ResponseWriter
	r      *http.Request
	params map[string]string

	query       url.Values
	queryParsed bool

	body       any
	bodyErr    error
	bodyParsed bool

	values    map[any]any
	principal any

	status  int
	cookies []*http.Cookie
}

// NewContext builds the per-request context. params holds the path
// parameters bound during route lookup and may be nil.
func NewContext(w http.ResponseWriter, r *http.Request, params map[string]string) *Context {
	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w)
	}
	if params == nil {
		params = map[string]string{}
	}
	return &Context{w: rw, r: r, params: params}
}

// Request returns the underlying HTTP request.
func (c *Context) Request() *http.Request { return c.r }

// ResponseWriter returns the tracked response writer.
func (c *Context) ResponseWriter() *ResponseWriter { return c.w }

// Method returns the request method.
func (c *Context) Method() string { return c.r.Method }

// Path returns the request URL path.
func (c *Context) Path() string { return c.r.URL.Path }

// Param returns the path parameter bound under name, or "" when absent.
func (c *Context) Param(name string) string { return c.params[name] }

// Params returns a copy of all bound path parameters.
func (c *Context) Params() map[string]string {
	out := make(map[string]string, len(c.params))
	for k, v := range c.params {
		out[k] = v
	}
	return out
}

// Query returns the query parameter under name. When the parameter repeats,
// the last occurrence wins. The query string is parsed once on first access.
func (c *Context) Query(name string) string {
	vs := c.QueryValues()[name]
	if len(vs) == 0 {
		return ""
	}
	return vs[len(vs)-1]
}

// QueryValues returns all query parameters.
func (c *Context) QueryValues() url.Values {
	if !c.queryParsed {
		c.query = c.r.URL.Query()
		c.queryParsed = true
	}
	return c.query
}

// Header returns the request header under name.
func (c *Context) Header(name string) string { return c.r.Header.Get(name) }

// Headers returns the full request header map.
func (c *Context) Headers() http.Header { return c.r.Header }

// Body returns the parsed request body. Parsing happens at most once, on
// first access, and is driven by the Content-Type header: JSON documents,
// url.Values for urlencoded forms, *binder.MultipartBody for multipart, and
// plain strings for text. GET, HEAD, and OPTIONS requests never parse and
// return nil.
func (c *Context) Body() (any, error) {
	if c.bodyParsed {
		return c.body, c.bodyErr
	}
	c.bodyParsed = true

	switch c.r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return nil, nil
	}

	c.body, c.bodyErr = binder.ParseAny(c.r)
	return c.body, c.bodyErr
}

// SetValue stores a request-scoped value, visible to downstream middleware
// and the handler via Value.
func (c *Context) SetValue(key, val any) {
	if c.values == nil {
		c.values = map[any]any{}
	}
	c.values[key] = val
}

// SetPrincipal attaches the authenticated principal for this request.
func (c *Context) SetPrincipal(p any) { c.principal = p }

// Principal returns the authenticated principal, or nil when the request is
// anonymous.
func (c *Context) Principal() any { return c.principal }

// Status overrides the status code used by subsequent response helpers.
// Returns the context for chaining: ctx.Status(201).JSON(user).
func (c *Context) Status(code int) *Context {
	c.status = code
	return c
}

// StatusCode returns the pending status override, or 0 when unset.
func (c *Context) StatusCode() int { return c.status }

// SetCookie queues a cookie to be sent with the response.
func (c *Context) SetCookie(cookie *http.Cookie) {
	c.cookies = append(c.cookies, cookie)
}

// JSON renders v as an application/json response. The status defaults to 200
// unless overridden via Status.
func (c *Context) JSON(v any) Response {
	status := c.statusOr(http.StatusOK)
	cookies := c.cookies
	return func(w http.ResponseWriter, r *http.Request) error {
		writeCookies(w, cookies)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		return json.NewEncoder(w).Encode(v)
	}
}

// String renders s as a text/plain response.
func (c *Context) String(s string) Response {
	status := c.statusOr(http.StatusOK)
	cookies := c.cookies
	return func(w http.ResponseWriter, r *http.Request) error {
		writeCookies(w, cookies)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		_, err := w.Write([]byte(s))
		return err
	}
}

// HTML renders s as a text/html response.
func (c *Context) HTML(s string) Response {
	status := c.statusOr(http.StatusOK)
	cookies := c.cookies
	return func(w http.ResponseWriter, r *http.Request) error {
		writeCookies(w, cookies)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, err := w.Write([]byte(s))
		return err
	}
}

// NoContent renders an empty response, 204 unless overridden via Status.
func (c *Context) NoContent() Response {
	status := c.statusOr(http.StatusNoContent)
	cookies := c.cookies
	return func(w http.ResponseWriter, r *http.Request) error {
		writeCookies(w, cookies)
		w.WriteHeader(status)
		return nil
	}
}

// Redirect renders a redirect to url, 302 unless overridden via Status.
func (c *Context) Redirect(url string) Response {
	status := c.statusOr(http.StatusFound)
	cookies := c.cookies
	return func(w http.ResponseWriter, r *http.Request) error {
		writeCookies(w, cookies)
		http.Redirect(w, r, url, status)
		return nil
	}
}

func (c *Context) statusOr(fallback int) int {
	if c.status != 0 {
		return c.status
	}
	return fallback
}

func writeCookies(w http.ResponseWriter, cookies []*http.Cookie) {
	for _, ck := range cookies {
		http.SetCookie(w, ck)
	}
}

// context.Context implementation.

func (c *Context) Deadline() (time.Time, bool) { return c.r.Context().Deadline() }
func (c *Context) Done() <-chan struct{}       { return c.r.Context().Done() }
func (c *Context) Err() error                  { return c.r.Context().Err() }

// Value checks request-scoped values set via SetValue first, then falls back
// to the request context.
func (c *Context) Value(key any) any {
	if v, ok := c.values[key]; ok {
		return v
	}
	return c.r.Context().Value(key)
}

var _ context.Context = (*Context)(nil)
