package restkit_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restkit"
	"github.com/dmitrymomot/restkit/core/di"
	"github.com/dmitrymomot/restkit/core/openapi"
	"github.com/dmitrymomot/restkit/core/response"
	"github.com/dmitrymomot/restkit/core/router"
	"github.com/dmitrymomot/restkit/middleware"
)

type userRequest struct {
	Name  string `json:"name" validate:"required;min:2"`
	Email string `json:"email" validate:"required;email"`
}

type user struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newTestApp(t *testing.T) *restkit.App {
	t.Helper()

	app := restkit.New()
	app.MustRegister(router.Controller{
		Name:   "users",
		Prefix: "/users",
		Routes: []router.Route{
			{
				Method: http.MethodGet,
				Path:   "/:id",
				Handler: func(id int64) (user, error) {
					if id == 404 {
						return user{}, response.ErrNotFound.WithMessage("user does not exist")
					}
					return user{ID: id, Name: "John", Email: "john@example.com"}, nil
				},
				Params: []router.Binding{router.Path("id")},
			},
			{
				Method: http.MethodPost,
				Path:   "/",
				Handler: func(ctx *router.Context, in userRequest) user {
					ctx.Status(http.StatusCreated)
					return user{ID: 1, Name: in.Name, Email: in.Email}
				},
				Params: []router.Binding{router.Ctx(), router.Body().WithValidation()},
			},
			{
				Method:  http.MethodDelete,
				Path:    "/:id",
				Handler: func(id int64) {},
				Params:  []router.Binding{router.Path("id")},
			},
		},
	})
	return app
}

func do(app *restkit.App, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestAppRequestLifecycle(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	t.Run("get renders json", func(t *testing.T) {
		t.Parallel()

		rec := do(app, http.MethodGet, "/users/42", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var got user
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, int64(42), got.ID)
	})

	t.Run("post with status override", func(t *testing.T) {
		t.Parallel()

		rec := do(app, http.MethodPost, "/users", `{"name":"Jane","email":"jane@example.com"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var got user
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Jane", got.Name)
	})

	t.Run("delete renders 204", func(t *testing.T) {
		t.Parallel()

		rec := do(app, http.MethodDelete, "/users/42", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestAppErrorRendering(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	t.Run("unknown path is 404", func(t *testing.T) {
		t.Parallel()

		rec := do(app, http.MethodGet, "/orders", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)

		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		assert.Equal(t, "not_found", env.Error.Code)
		assert.False(t, env.Error.Timestamp.IsZero())
	})

	t.Run("unsupported method is 405 with allow header", func(t *testing.T) {
		t.Parallel()

		rec := do(app, http.MethodPatch, "/users/42", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "DELETE, GET", rec.Header().Get("Allow"))
		assert.Equal(t, "method_not_allowed", decodeEnvelope(t, rec).Error.Code)
	})

	t.Run("handler http error", func(t *testing.T) {
		t.Parallel()

		rec := do(app, http.MethodGet, "/users/404", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "user does not exist", decodeEnvelope(t, rec).Error.Message)
	})

	t.Run("validation failure is 422 with field details", func(t *testing.T) {
		t.Parallel()

		rec := do(app, http.MethodPost, "/users", `{"name":"J","email":"nope"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		env := decodeEnvelope(t, rec)
		assert.Equal(t, "validation_failed", env.Error.Code)

		fields, ok := env.Error.Details["fields"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, fields, "name")
		assert.Contains(t, fields, "email")
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		t.Parallel()

		rec := do(app, http.MethodPost, "/users", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAppPanicRecovery(t *testing.T) {
	t.Parallel()

	app := restkit.New()
	app.MustRegister(router.Controller{
		Name: "panics",
		Routes: []router.Route{
			{Method: http.MethodGet, Path: "/boom", Handler: func() { panic("kaput") }},
		},
	})

	rec := do(app, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_server_error", decodeEnvelope(t, rec).Error.Code)
}

func TestAppProductionMode(t *testing.T) {
	t.Parallel()

	app := restkit.New(restkit.WithProduction())
	app.MustRegister(router.Controller{
		Name: "failing",
		Routes: []router.Route{
			{Method: http.MethodGet, Path: "/fail", Handler: func() error {
				return assert.AnError
			}},
		},
	})

	rec := do(app, http.MethodGet, "/fail", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decodeEnvelope(t, rec).Error.Message)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestAppMiddlewareIntegration(t *testing.T) {
	t.Parallel()

	app := restkit.New(restkit.WithHTTPMiddleware(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"https://app.example.com"},
	})))
	app.Use(middleware.RequestID())
	app.MustRegister(router.Controller{
		Name: "ping",
		Routes: []router.Route{
			{Method: http.MethodPost, Path: "/ping", Handler: func() string { return "pong" }},
		},
	})

	t.Run("preflight answered before routing", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)

		// Without the http-level wrapper this would be a 405 from the router.
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("chain middleware tags response", func(t *testing.T) {
		t.Parallel()

		rec := do(app, http.MethodPost, "/ping", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})
}

func TestAppContainer(t *testing.T) {
	t.Parallel()

	app := restkit.New()
	require.NoError(t, app.Container().Register("greeting", func(r *di.Resolver) (any, error) {
		return "hello from di", nil
	}))

	app.MustRegister(router.Controller{
		Name: "di",
		Routes: []router.Route{
			{
				Method: http.MethodGet,
				Path:   "/greet",
				Handler: func(greeting string) string { return greeting },
				Params: []router.Binding{router.Custom(func(ctx *router.Context) (any, error) {
					return di.Resolve[string](app.Container(), "greeting")
				})},
			},
		},
	})

	rec := do(app, http.MethodGet, "/greet", "")
	assert.Equal(t, "hello from di", rec.Body.String())
}

func TestAppOpenAPI(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	require.NoError(t, app.MountOpenAPI("/openapi.json", openapi.Info{Title: "Users API", Version: "1.0.0"}))

	rec := do(app, http.MethodGet, "/openapi.json", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])

	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/users/{id}")
	assert.Contains(t, paths, "/openapi.json")
}
