package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

// StaticHandler serves regular files below root. Directories and missing
// files answer 404; there is no index fallback.
type StaticHandler struct {
	root string
}

func NewStaticHandler(root string) *StaticHandler {
	return &StaticHandler{root: root}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Get the wildcard path from Chi router context
	rel := chi.URLParam(r, "*")
	if rel == "" {
		http.NotFound(w, r)
		return
	}

	filePath := filepath.Join(h.root, filepath.FromSlash(path.Clean("/"+rel)))

	info, err := os.Stat(filePath)
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeFile(w, r, filePath)
}
