package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restkit/core/router"
	"github.com/dmitrymomot/restkit/core/validator"
)

// perform runs one request through a single-route router and renders the
// response, returning the recorder and any dispatch error.
func perform(t *testing.T, def router.Route, req *http.Request) (*httptest.ResponseRecorder, error) {
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

func TestBindings(t *testing.T) {
	t.Parallel()

	t.Run("context injection", func(t *testing.T) {
		t.Parallel()

		rec, err := perform(t, router.Route{
			Method: http.MethodGet,
			Path:   "/ctx",
			Handler: func(ctx *router.Context) string {
				return ctx.Method()
			},
			Params: []router.Binding{router.Ctx()},
		}, httptest.NewRequest(http.MethodGet, "/ctx", nil))

		require.NoError(t, err)
		assert.Equal(t, http.MethodGet, rec.Body.String())
	})

	t.Run("typed body", func(t *testing.T) {
		t.Parallel()

		type createUser struct {
			Name string `json:"name"`
		}

		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"John"}`))
		req.Header.Set("Content-Type", "application/json")

		rec, err := perform(t, router.Route{
			Method: http.MethodPost,
			Path:   "/users",
			Handler: func(in createUser) string {
				return in.Name
			},
			Params: []router.Binding{router.Body()},
		}, req)

		require.NoError(t, err)
		assert.Equal(t, "John", rec.Body.String())
	})

	t.Run("untyped body", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/raw", strings.NewReader(`{"a":1}`))
		req.Header.Set("Content-Type", "application/json")

		var got any
		_, err := perform(t, router.Route{
			Method:  http.MethodPost,
			Path:    "/raw",
			Handler: func(body any) { got = body },
			Params:  []router.Binding{router.Body()},
		}, req)

		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": float64(1)}, got)
	})

	t.Run("query scalar with conversion", func(t *testing.T) {
		t.Parallel()

		var got int
		_, err := perform(t, router.Route{
			Method:  http.MethodGet,
			Path:    "/q",
			Handler: func(page int) { got = page },
			Params:  []router.Binding{router.Query("page")},
		}, httptest.NewRequest(http.MethodGet, "/q?page=5", nil))

		require.NoError(t, err)
		assert.Equal(t, 5, got)
	})

	t.Run("repeated query parameter keeps last value", func(t *testing.T) {
		t.Parallel()

		var got string
		_, err := perform(t, router.Route{
			Method:  http.MethodGet,
			Path:    "/q",
			Handler: func(sort string) { got = sort },
			Params:  []router.Binding{router.Query("sort")},
		}, httptest.NewRequest(http.MethodGet, "/q?sort=asc&sort=desc", nil))

		require.NoError(t, err)
		assert.Equal(t, "desc", got)
	})

	t.Run("query struct", func(t *testing.T) {
		t.Parallel()

		type search struct {
			Q    string `query:"q"`
			Page int    `query:"page"`
		}

		var got search
		_, err := perform(t, router.Route{
			Method:  http.MethodGet,
			Path:    "/search",
			Handler: func(in search) { got = in },
			Params:  []router.Binding{router.Query("")},
		}, httptest.NewRequest(http.MethodGet, "/search?q=go&page=2", nil))

		require.NoError(t, err)
		assert.Equal(t, search{Q: "go", Page: 2}, got)
	})

	t.Run("path parameter conversion", func(t *testing.T) {
		t.Parallel()

		var got int64
		_, err := perform(t, router.Route{
			Method:  http.MethodGet,
			Path:    "/users/:id",
			Handler: func(id int64) { got = id },
			Params:  []router.Binding{router.Path("id")},
		}, httptest.NewRequest(http.MethodGet, "/users/42", nil))

		require.NoError(t, err)
		assert.Equal(t, int64(42), got)
	})

	t.Run("header binding", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/h", nil)
		req.Header.Set("X-Api-Key", "secret")

		var got string
		_, err := perform(t, router.Route{
			Method:  http.MethodGet,
			Path:    "/h",
			Handler: func(key string) { got = key },
			Params:  []router.Binding{router.Header("X-Api-Key")},
		}, req)

		require.NoError(t, err)
		assert.Equal(t, "secret", got)
	})

	t.Run("principal defaults to zero when anonymous", func(t *testing.T) {
		t.Parallel()

		var got string
		_, err := perform(t, router.Route{
			Method:  http.MethodGet,
			Path:    "/me",
			Handler: func(userID string) { got = userID },
			Params:  []router.Binding{router.Principal()},
		}, httptest.NewRequest(http.MethodGet, "/me", nil))

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("custom extractor", func(t *testing.T) {
		t.Parallel()

		var got string
		_, err := perform(t, router.Route{
			Method:  http.MethodGet,
			Path:    "/c",
			Handler: func(v string) { got = v },
			Params: []router.Binding{router.Custom(func(ctx *router.Context) (any, error) {
				return "extracted", nil
			})},
		}, httptest.NewRequest(http.MethodGet, "/c", nil))

		require.NoError(t, err)
		assert.Equal(t, "extracted", got)
	})

	t.Run("transform applies after resolution", func(t *testing.T) {
		t.Parallel()

		var got string
		_, err := perform(t, router.Route{
			Method:  http.MethodGet,
			Path:    "/t",
			Handler: func(v string) { got = v },
			Params: []router.Binding{router.Query("name").WithTransform(func(v any) (any, error) {
				return strings.ToUpper(v.(string)), nil
			})},
		}, httptest.NewRequest(http.MethodGet, "/t?name=john", nil))

		require.NoError(t, err)
		assert.Equal(t, "JOHN", got)
	})

	t.Run("unbound parameters get zero values", func(t *testing.T) {
		t.Parallel()

		var gotName string
		var gotCount int
		_, err := perform(t, router.Route{
			Method: http.MethodGet,
			Path:   "/z",
			Handler: func(name string, count int) {
				gotName, gotCount = name, count
			},
		}, httptest.NewRequest(http.MethodGet, "/z", nil))

		require.NoError(t, err)
		assert.Empty(t, gotName)
		assert.Zero(t, gotCount)
	})
}

func TestValidationAbortsBeforeHandler(t *testing.T) {
	t.Parallel()

	type createUser struct {
		Name  string `json:"name" validate:"required;min:2"`
		Email string `json:"email" validate:"required;email"`
	}

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"J","email":"nope"}`))
	req.Header.Set("Content-Type", "application/json")

	handlerRan := false
	_, err := perform(t, router.Route{
		Method: http.MethodPost,
		Path:   "/users",
		Handler: func(in createUser) {
			handlerRan = true
		},
		Params: []router.Binding{router.Body().WithValidation()},
	}, req)

	require.Error(t, err)
	assert.False(t, handlerRan)

	verrs := validator.ExtractValidationErrors(err)
	require.NotEmpty(t, verrs)
	fields := verrs.Fields()
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
}

func TestResultConversion(t *testing.T) {
	t.Parallel()

	t.Run("no return renders 204", func(t *testing.T) {
		t.Parallel()

		rec, err := perform(t, router.Route{
			Method:  http.MethodGet,
			Path:    "/",
			Handler: func() {},
		}, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("nil value renders 204", func(t *testing.T) {
		t.Parallel()

		rec, err := perform(t, router.Route{
			Method:  http.MethodGet,
			Path:    "/",
			Handler: func() *struct{ X int } { return nil },
		}, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("struct renders JSON", func(t *testing.T) {
		t.Parallel()

		type user struct {
			Name string `json:"name"`
		}

		rec, err := perform(t, router.Route{
			Method:  http.MethodGet,
			Path:    "/",
			Handler: func() user { return user{Name: "John"} },
		}, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

		var got map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "John", got["name"])
	})

	t.Run("response passes through", func(t *testing.T) {
		t.Parallel()

		rec, err := perform(t, router.Route{
			Method: http.MethodGet,
			Path:   "/",
			Handler: func(ctx *router.Context) router.Response {
				return ctx.Status(http.StatusAccepted).String("queued")
			},
			Params: []router.Binding{router.Ctx()},
		}, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, "queued", rec.Body.String())
	})

	t.Run("status override applies to converted result", func(t *testing.T) {
		t.Parallel()

		type user struct {
			Name string `json:"name"`
		}

		rec, err := perform(t, router.Route{
			Method: http.MethodPost,
			Path:   "/",
			Handler: func(ctx *router.Context) user {
				ctx.Status(http.StatusCreated)
				return user{Name: "John"}
			},
			Params: []router.Binding{router.Ctx()},
		}, httptest.NewRequest(http.MethodPost, "/", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("handler error propagates", func(t *testing.T) {
		t.Parallel()

		_, err := perform(t, router.Route{
			Method:  http.MethodGet,
			Path:    "/",
			Handler: func() (string, error) { return "", assert.AnError },
		}, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.ErrorIs(t, err, assert.AnError)
	})
}
