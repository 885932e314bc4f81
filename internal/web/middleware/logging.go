// Package middleware holds the preview server's request middleware: one
// structured log entry per request and client address resolution behind
// trusted proxies.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/sitegen/internal/logging"
)

// Logger writes one entry per request. Server errors log at error level and
// client errors at warn. Requests for generated files also carry the site
// directory they hit.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(ww, r)

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"bytes", ww.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		}
		if site := siteFromPath(r.URL.Path); site != "" {
			attrs = append(attrs, "site", site)
		}
		logging.FromContext(r.Context()).Log(r.Context(), levelFor(ww.status), "request", attrs...)
	})
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// siteFromPath returns the first path segment of a preview request, or ""
// for the index and the API.
func siteFromPath(p string) string {
	p = strings.TrimPrefix(p, "/")
	site, _, _ := strings.Cut(p, "/")
	if site == "api" {
		return ""
	}
	return site
}

// responseWriter records the status code and body size.
type responseWriter struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.status = status
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
