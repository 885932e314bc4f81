package web

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// contentTypes maps file extensions to the Content-Type served for them.
// Anything else is served as application/octet-stream.
var contentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".js":   "text/javascript; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".json": "application/json; charset=utf-8",
	".svg":  "image/svg+xml",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".ico":  "image/x-icon",
}

const defaultContentType = "application/octet-stream"

func contentTypeFor(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return defaultContentType
}

// resolveBuildPath maps a URL path to a file under root. Directories resolve
// to their index.html. Cleaning the path as rooted keeps ".." segments from
// escaping root.
func resolveBuildPath(root, urlPath string) (string, fs.FileInfo, error) {
	clean := path.Clean("/" + urlPath)
	full := filepath.Join(root, filepath.FromSlash(clean))

	info, err := os.Stat(full)
	if err != nil {
		return "", nil, errFileNotFound
	}
	if info.IsDir() {
		full = filepath.Join(full, "index.html")
		if info, err = os.Stat(full); err != nil {
			return "", nil, errFileNotFound
		}
	}
	if !info.Mode().IsRegular() {
		return "", nil, errFileNotFound
	}
	return full, info, nil
}

// handleFile serves a file from the build directory.
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	full, info, err := resolveBuildPath(s.runner.BuildDir(), r.URL.Path)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.respondError(w, r, errFileNotFound, http.StatusNotFound)
			return
		}
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", contentTypeFor(full))
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
