package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// newSPAHandler serves the built frontend from dir. Requests for files that
// exist on disk are served directly; everything else falls back to
// index.html so client-side routing can take over.
func newSPAHandler(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))
	indexPath := filepath.Join(dir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if !strings.HasPrefix(requested, filepath.Clean(dir)) {
			http.NotFound(w, r)
			return
		}

		info, err := os.Stat(requested)
		if err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}

		http.ServeFile(w, r, indexPath)
	})
}
