package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 5 * time.Second

// NewRouter mounts /metrics and /healthz.
func NewRouter(c *Collector) chi.Router {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/metrics", c.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return r
}

// Serve listens on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, c *Collector, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(c),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("metrics server listening", slog.String("addr", addr))
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
