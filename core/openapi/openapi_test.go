package openapi_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restkit/core/openapi"
	"github.com/dmitrymomot/restkit/core/router"
)

type createUserRequest struct {
	Name  string `json:"name" validate:"required;min:2"`
	Email string `json:"email" validate:"required;email"`
}

type userResponse struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	r := router.New()
	require.NoError(t, r.Register(router.Controller{
		Name:   "users",
		Prefix: "/users",
		Tags:   []string{"users"},
		Routes: []router.Route{
			{
				Method:   http.MethodGet,
				Path:     "/:id",
				Handler:  func() {},
				Name:     "getUser",
				Summary:  "Fetch a user",
				Response: userResponse{},
			},
			{
				Method:   http.MethodPost,
				Path:     "/",
				Handler:  func() {},
				Name:     "createUser",
				Request:  createUserRequest{},
				Response: userResponse{},
			},
			{
				Method:  http.MethodDelete,
				Path:    "/:id",
				Handler: func() {},
				Name:    "deleteUser",
			},
		},
	}))

	doc := openapi.Generate(openapi.Info{Title: "Users API", Version: "1.0.0"}, r.Routes())

	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Equal(t, "Users API", doc.Info.Title)

	t.Run("params become braced segments", func(t *testing.T) {
		t.Parallel()

		ops, ok := doc.Paths["/users/{id}"]
		require.True(t, ok)

		get, ok := ops["get"]
		require.True(t, ok)
		assert.Equal(t, "users.getUser", get.OperationID)
		assert.Equal(t, "Fetch a user", get.Summary)
		require.Len(t, get.Parameters, 1)
		assert.Equal(t, "id", get.Parameters[0].Name)
		assert.Equal(t, "path", get.Parameters[0].In)
		assert.True(t, get.Parameters[0].Required)
	})

	t.Run("request body from sample", func(t *testing.T) {
		t.Parallel()

		post := doc.Paths["/users"]["post"]
		require.NotNil(t, post.RequestBody)

		schema := post.RequestBody.Content["application/json"].Schema
		require.NotNil(t, schema)
		assert.Equal(t, "object", schema.Type)
		assert.Contains(t, schema.Properties, "name")
		assert.Contains(t, schema.Properties, "email")
		assert.ElementsMatch(t, []string{"name", "email"}, schema.Required)
	})

	t.Run("response schema from sample", func(t *testing.T) {
		t.Parallel()

		get := doc.Paths["/users/{id}"]["get"]
		resp, ok := get.Responses["200"]
		require.True(t, ok)

		schema := resp.Content["application/json"].Schema
		require.NotNil(t, schema)
		assert.Equal(t, "integer", schema.Properties["id"].Type)
		assert.Equal(t, "date-time", schema.Properties["created_at"].Format)
		assert.True(t, schema.Properties["deleted_at"].Nullable)
	})

	t.Run("no response sample yields 204", func(t *testing.T) {
		t.Parallel()

		del := doc.Paths["/users/{id}"]["delete"]
		_, ok := del.Responses["204"]
		assert.True(t, ok)
	})
}

func TestSchemaOf(t *testing.T) {
	t.Parallel()

	t.Run("collections", func(t *testing.T) {
		t.Parallel()

		s := openapi.SchemaOf([]string{})
		require.NotNil(t, s)
		assert.Equal(t, "array", s.Type)
		assert.Equal(t, "string", s.Items.Type)

		s = openapi.SchemaOf(map[string]int{})
		assert.Equal(t, "object", s.Type)
		assert.Equal(t, "integer", s.AdditionalProperties.Type)
	})

	t.Run("recursive type terminates", func(t *testing.T) {
		t.Parallel()

		type tree struct {
			Value    string  `json:"value"`
			Children []*tree `json:"children"`
		}

		s := openapi.SchemaOf(tree{})
		require.NotNil(t, s)
		assert.Equal(t, "object", s.Properties["children"].Items.Type)
	})

	t.Run("nil sample", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, openapi.SchemaOf(nil))
	})
}
