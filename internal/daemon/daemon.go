package daemon

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gighall/gighall/internal/api"
	"github.com/gighall/gighall/internal/app/billing"
	"github.com/gighall/gighall/internal/app/reporting"
	"github.com/gighall/gighall/internal/infra/sqlite"
)

// Run opens the store, wires the services, and serves the API until
// SIGINT/SIGTERM. Shutdown drains in-flight requests; open transactions
// roll back with their requests.
func Run(cfg Config) error {
	if err := os.MkdirAll(cfg.Store.Dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	db, err := sqlite.Open(cfg.Store.Dir)
	if err != nil {
		return err
	}
	defer db.Close()

	server := api.NewServer(db, billing.New(db), reporting.New(db))
	if cfg.API.Metrics {
		server.EnableMetrics()
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("gighall listening on http://%s", cfg.Addr())
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-sigCh:
		log.Printf("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
