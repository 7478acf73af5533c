package utils

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dcode-github/gharbari/backend/errs"
	"github.com/dcode-github/gharbari/backend/models"
)

var kindStatus = map[errs.Kind]int{
	errs.KindNotFound:     http.StatusNotFound,
	errs.KindValidation:   http.StatusBadRequest,
	errs.KindUnauthorized: http.StatusUnauthorized,
	errs.KindForbidden:    http.StatusForbidden,
	errs.KindUpstream:     http.StatusBadGateway,
	errs.KindInternal:     http.StatusInternalServerError,
}

// StatusOf maps an error to its HTTP status code.
func StatusOf(err error) int {
	if code, ok := kindStatus[errs.KindOf(err)]; ok {
		return code
	}
	return http.StatusInternalServerError
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", slog.String("error", err.Error()))
	}
}

// WriteError answers with the error envelope. Internal errors are logged
// with their cause and answered with a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	kind := errs.KindOf(err)
	msg := errs.MessageOf(err)
	if kind == errs.KindInternal {
		slog.ErrorContext(r.Context(), "Internal error",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		msg = "Internal server error"
	}
	WriteJSON(w, StatusOf(err), models.ErrorResponse{Success: false, Message: msg, Code: string(kind)})
}
