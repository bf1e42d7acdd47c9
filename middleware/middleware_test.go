package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restkit/core/router"
)

// runRoute sends req through a single-route router and renders the result,
// returning the recorder and any chain error.
func runRoute(t *testing.T, def router.Route, req *http.Request) (*httptest.ResponseRecorder, error) {
	t.Helper()

	r := router.New()
	require.NoError(t, r.Register(router.Controller{Name: "test", Routes: []router.Route{def}}))

	m, _ := r.Lookup(req.Method, req.URL.Path)
	require.NotNil(t, m)

	rec := httptest.NewRecorder()
	ctx := router.NewContext(rec, req, m.Params)

	resp, err := m.Route.Dispatch(ctx)
	if err != nil {
		return rec, err
	}
	require.NoError(t, resp(ctx.ResponseWriter(), req))
	return rec, nil
}

// run wraps runRoute for plain handlers, binding the context automatically
// when the handler's first parameter is *router.Context.
func run(t *testing.T, handler any, req *http.Request, mw ...router.Middleware) (*httptest.ResponseRecorder, error) {
	t.Helper()

	var params []router.Binding
	if ft := reflect.TypeOf(handler); ft.Kind() == reflect.Func && ft.NumIn() > 0 &&
		ft.In(0) == reflect.TypeOf((*router.Context)(nil)) {
		params = append(params, router.Ctx())
	}

	return runRoute(t, router.Route{
		Method:     req.Method,
		Path:       req.URL.Path,
		Handler:    handler,
		Params:     params,
		Middleware: mw,
	}, req)
}
