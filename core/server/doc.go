// Package server runs an http.Server with context-driven graceful shutdown.
//
//	srv := server.New(":8080", server.WithShutdownTimeout(10*time.Second))
//	if err := srv.Start(ctx, handler); err != nil {
//		log.Fatal(err)
//	}
//
// Start blocks until the context is canceled (triggering graceful shutdown)
// or the listener fails. Configuration can also come from the environment
// via Config and NewFromConfig.
package server
