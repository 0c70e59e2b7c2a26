package watch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const shutdownTimeout = 5 * time.Second

// Handler serves the generated site below root. Hidden paths are not served.
func Handler(root string) http.Handler {
	files := http.FileServer(http.Dir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, segment := range strings.Split(r.URL.Path, "/") {
			if strings.HasPrefix(segment, ".") {
				http.NotFound(w, r)
				return
			}
		}
		files.ServeHTTP(w, r)
	})
}

// Serve runs the preview server until ctx is done.
func Serve(ctx context.Context, addr, root string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Handler(root),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	slog.Info("preview server listening", "addr", addr, "root", root)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		slog.Info("shutting down preview server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
