// Package shutdown coordinates graceful termination of respkv-server.
//
// Components register named hooks with OnShutdown. Wait blocks until
// SIGINT or SIGTERM arrives or the given context ends, then runs the hooks
// in reverse registration order under a shared deadline.
//
// Usage:
//
//	h := shutdown.NewHandler(10*time.Second, shutdown.WithLogger(log))
//	h.OnShutdown("redis server", srv.Shutdown)
//	return h.Wait(ctx)
package shutdown
