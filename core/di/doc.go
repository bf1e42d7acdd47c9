// Package di provides a minimal dependency container with lazy singleton
// construction and cycle detection.
//
//	c := di.New()
//	c.Register("db", func(r *di.Resolver) (any, error) {
//		return openDB(cfg)
//	})
//	c.Register("users", func(r *di.Resolver) (any, error) {
//		db, err := di.ResolveAs[*DB](r, "db")
//		if err != nil {
//			return nil, err
//		}
//		return NewUserService(db), nil
//	})
//
//	svc, err := di.Resolve[*UserService](c, "users")
//
// Providers run at most once; a provider that transitively requests itself
// fails with the full cycle path in the error.
package di
