package web

import (
	"net/http"
	"strconv"

	"github.com/JonMunkholm/sitegen/internal/core"
	"github.com/JonMunkholm/sitegen/internal/history"
)

// maxRunsLimit caps the limit query parameter of GET /api/runs.
const maxRunsLimit = 500

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	BuildDir string                `json:"build_dir"`
	Runs     core.RunLimiterStatus `json:"runs"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, StatusResponse{
		BuildDir: s.runner.BuildDir(),
		Runs:     s.runner.LimiterStatus(),
	})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := min(parseIntParam(r, "limit", history.DefaultRecentLimit), maxRunsLimit)

	runs, err := s.runner.RecentRuns(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if runs == nil {
		runs = []history.Run{}
	}
	writeJSON(w, r, http.StatusOK, runs)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := core.ContextWithTrigger(r.Context(), "http "+clientIP(r))

	result, err := s.runner.TryGenerate(ctx)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}
