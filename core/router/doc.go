// Package router matches HTTP requests to declaratively registered routes
// and runs them through a middleware chain.
//
// Routes are grouped into controllers and compiled at registration time into
// a segment trie supporting literal segments, ":name" parameters, and a
// trailing "*" wildcard, with static > parameter > wildcard precedence and
// backtracking:
//
//	r := router.New(router.WithPrefix("/api/v1"))
//	err := r.Register(router.Controller{
//		Prefix: "/users",
//		Routes: []router.Route{
//			{
//				Method:  http.MethodGet,
//				Path:    "/:id",
//				Handler: getUser,
//				Params:  []router.Binding{router.Path("id")},
//			},
//			{
//				Method:  http.MethodPost,
//				Path:    "/",
//				Handler: createUser,
//				Params:  []router.Binding{router.Body().WithValidation()},
//			},
//		},
//	})
//
// Handlers are plain functions. Their parameters are populated positionally
// from the declared bindings, and their return values convert to responses:
// a Response passes through, nil becomes 204, a string becomes text, and
// anything else becomes JSON.
//
// The router resolves but does not serve. The application calls Lookup to
// distinguish unknown paths from unsupported methods, then Dispatch on the
// matched route to run its middleware chain and handler.
package router
