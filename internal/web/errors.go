package web

// errors.go turns handler errors into responses. The technical error is
// logged with the request ID; the client only sees the mapped user message.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/sitegen/internal/core"
	"github.com/JonMunkholm/sitegen/internal/history"
	"github.com/JonMunkholm/sitegen/internal/logging"
)

// errFileNotFound is returned for paths that do not resolve to a file in
// the build directory.
var errFileNotFound = errors.New("file not found")

// ErrorResponse is the JSON body of API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes the mapped message as JSON or plain text.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	if wantsJSON(r) {
		writeJSON(w, r, statusCode, ErrorResponse{
			Error:   userMsg.Message,
			Message: userMsg.Message,
			Action:  userMsg.Action,
			Code:    userMsg.Code,
		})
		return
	}

	w.Header().Set("X-Error-Code", userMsg.Code)
	http.Error(w, userMsg.Message, statusCode)
}

// statusFor picks the HTTP status for an error returned by the runner.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrSourceNotFound), errors.Is(err, errFileNotFound),
		errors.Is(err, history.ErrDisabled):
		return http.StatusNotFound
	case errors.Is(err, core.ErrSourceTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrSourceNotFile):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrRunInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// wantsJSON reports whether the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
