// Package site serves static files at the root of the server.
package site

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/okian/addressbook/pkg/logger"
)

// Error constants
var (
	ErrStaticDir = errors.New("static directory unavailable")
)

// Register mounts the static site at "/" so it catches every path the API
// does not claim. An empty dir serves the embedded default page.
func Register(ctx context.Context, mux *http.ServeMux, dir string) error {
	if mux == nil {
		panic("mux is nil")
	}

	root := FS()
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrStaticDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: %s is not a directory", ErrStaticDir, dir)
		}
		root = http.Dir(dir)
		logger.Get().Info(ctx, "serving static files", logger.String("dir", dir))
	}

	mux.Handle("/", NewRootHandler(root))
	return nil
}

// RootHandler serves files from a file system for GET and HEAD.
type RootHandler struct {
	files http.Handler
}

// NewRootHandler creates a new root handler
func NewRootHandler(root http.FileSystem) *RootHandler {
	return &RootHandler{files: http.FileServer(root)}
}

// ServeHTTP implements http.Handler. Other methods get 404 like unknown paths.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	h.files.ServeHTTP(w, r)
}
