// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

// Package httpserve serves a directory tree over HTTP for local use.
package httpserve

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/toeirei/rcli/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Option configures the handler built by New.
type Option func(*options)

type options struct {
	gzip bool
}

// WithGzip compresses responses for clients that accept gzip.
func WithGzip(enabled bool) Option {
	return func(o *options) { o.gzip = enabled }
}

type fileHandler struct {
	dir  string
	fsys fs.FS
}

// Handler serves one directory tree. It holds the directory open until Close.
type Handler struct {
	http.Handler
	root *os.Root
}

// Close releases the served directory. Requests after Close fail.
func (h *Handler) Close() error { return h.root.Close() }

// New returns a handler serving the files below dir. Requests cannot escape
// dir, neither through ".." nor through symlinks.
func New(dir string, opts ...Option) (*Handler, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open serve root: %w", err)
	}
	var h http.Handler = &fileHandler{dir: dir, fsys: root.FS()}
	if o.gzip {
		h = gzhttp.GzipHandler(h)
	}
	return &Handler{Handler: logRequests(h), root: root}, nil
}

func (h *fileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = "."
	}
	if _, err := fs.Stat(h.fsys, name); err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			http.Error(w, fmt.Sprintf("File %s not found", path.Join(h.dir, name)), http.StatusNotFound)
			return
		}
		logging.Warnf("stat %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.ServeFileFS(w, r, h.fsys, name)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		logging.Infof("%s %s %d %dB %s", r.Method, r.URL.Path, rec.status, rec.bytes, time.Since(start).Round(time.Microsecond))
	})
}

// Serve runs an HTTP server on ln until ctx is cancelled, then shuts it down
// gracefully. h is closed when Serve returns.
func Serve(ctx context.Context, ln net.Listener, h *Handler) error {
	defer func() {
		if err := h.Close(); err != nil {
			logging.Warnf("close %s: %v", h.root.Name(), err)
		}
	}()
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
