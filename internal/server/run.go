// internal/server/run.go
//
// Serve-until-signal lifecycle.
//
// Run starts ListenAndServe in one errgroup goroutine and waits for ctx in
// another.  When ctx ends (SIGINT or SIGTERM in main) the server is shut
// down with a grace period so in-flight requests complete.  Event streams
// watch their request context and exit when Shutdown closes listeners, so
// RegisterOnShutdown hooks are used to nudge them.

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ShutdownGrace bounds how long Run waits for in-flight requests.
const ShutdownGrace = 10 * time.Second

// Run serves srv on ln (or srv.Addr when ln is nil) until ctx is done, then
// shuts down gracefully.  It returns nil after a clean shutdown.
func Run(ctx context.Context, srv *http.Server, ln net.Listener, log *zap.SugaredLogger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if ln != nil {
			log.Infow("http server listening", "addr", ln.Addr().String())
			err = srv.Serve(ln)
		} else {
			log.Infow("http server listening", "addr", srv.Addr)
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Infow("http server shutting down", "grace", ShutdownGrace)

		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownGrace)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
