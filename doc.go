// Package restkit is a declarative REST framework: routes are registered as
// controller definitions, handler parameters are bound from request data,
// and results convert to HTTP responses automatically.
//
//	app := restkit.New(
//		restkit.WithLogger(logger),
//		restkit.WithRouterOptions(router.WithPrefix("/api/v1")),
//		restkit.WithHTTPMiddleware(middleware.CORS()),
//	)
//
//	app.Use(middleware.RequestID(), middleware.Logging(logger))
//
//	app.MustRegister(router.Controller{
//		Prefix: "/users",
//		Routes: []router.Route{
//			{
//				Method:  http.MethodGet,
//				Path:    "/:id",
//				Handler: getUser,
//				Params:  []router.Binding{router.Path("id")},
//			},
//		},
//	})
//
//	if err := app.Run(ctx, ":8080"); err != nil {
//		log.Fatal(err)
//	}
//
// The App resolves requests through the router's segment trie, runs the
// middleware chain, and renders the handler result. Errors reaching the
// boundary, including panics, are rendered as a JSON error envelope; unknown
// paths yield 404 and known paths with an unsupported method yield 405 with
// an Allow header.
package restkit
