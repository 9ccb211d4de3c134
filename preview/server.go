// Package preview serves an already-built static site over local HTTP
// so a browser can navigate to real rendered pages. One server exists
// per build invocation; it binds synchronously (so port conflicts
// surface to the caller, not to a background goroutine) and serves the
// document root through a chi router.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server serves one document root until Stop is called.
type Server struct {
	ln     net.Listener
	srv    *http.Server
	logger *slog.Logger
}

// Option configures Start.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Start binds 127.0.0.1:port and begins serving root. Port 0 binds an
// ephemeral port; Port reports whichever was bound. Bind and root
// errors are returned synchronously.
func Start(root string, port int, opts ...Option) (*Server, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	fi, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("preview: root: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("preview: root %s is not a directory", root)
	}

	r := chi.NewRouter()
	r.Use(requestLogger(o.logger))
	r.Handle("/*", http.FileServer(http.Dir(root)))

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("preview: listen: %w", err)
	}

	s := &Server{
		ln:     ln,
		srv:    &http.Server{Handler: r},
		logger: o.logger,
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			o.logger.Warn("preview: serve", "error", err)
		}
	}()

	o.logger.Debug("preview: serving", "root", root, "addr", ln.Addr().String())
	return s, nil
}

// Port returns the bound TCP port.
func (s *Server) Port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

// URL returns the server origin without a trailing slash.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.Port())
}

// Stop shuts the server down, waiting for in-flight requests up to the
// context deadline.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("preview: shutdown: %w", err)
	}
	return nil
}

// requestLogger logs every request at debug level. The preview server
// only ever talks to the local capture browser, so this is diagnostic
// detail rather than an access log.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, req)
			logger.Debug("preview: request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start))
		})
	}
}
