package http

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"smartvision/internal/handler/http/respond"
)

// UploadsHandler serves stored PDFs from dir. Only .pdf files are served and
// directory listings are never produced. Mount it with http.StripPrefix.
func UploadsHandler(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)
		if name == "/" || !strings.EqualFold(path.Ext(name), ".pdf") {
			http.NotFound(w, r)
			return
		}
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		fileServer.ServeHTTP(w, r)
	})
}

// SPAHandler serves the front end from dir. Paths that do not name an existing
// file get index.html so client-side routing works; unknown /api/ paths get a
// JSON 404 instead.
func SPAHandler(dir string) http.Handler {
	root := os.DirFS(dir)
	fileServer := http.FileServerFS(root)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			respond.Error(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
			return
		}
		if strings.HasPrefix(r.URL.Path, "/api/") {
			respond.Error(w, http.StatusNotFound, errors.New("not found"))
			return
		}

		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if name != "" {
			if info, err := fs.Stat(root, name); err == nil && !info.IsDir() {
				fileServer.ServeHTTP(w, r)
				return
			}
		}

		// index.html へフォールバック
		if _, err := fs.Stat(root, "index.html"); err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFileFS(w, r, root, "index.html")
	})
}
