package web

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"

	"github.com/JonMunkholm/sitegen/internal/web/templates"
)

const noBuildMessage = "No build/ directory yet. Run the generator first."

// listSites returns the names of the directories directly under root.
func listSites(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	sites := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			sites = append(sites, e.Name())
		}
	}
	return sites, nil
}

// handleIndex lists generated sites, or explains that nothing has been
// generated yet.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sites, err := listSites(s.runner.BuildDir())
	if errors.Is(err, fs.ErrNotExist) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, noBuildMessage)
		return
	}
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.SiteListing(sites).Render(r.Context(), w); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
	}
}
