// Package respond writes JSON responses and renders application errors.
// It is the single boundary every failure path funnels into.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/svillar/quiet/internal/apperr"
)

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error renders an application error as {status, message}. Anything that is
// not an *apperr.Error is logged and hidden behind a generic 500 so internal
// detail never leaks.
func Error(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		JSON(w, appErr.Status, map[string]any{
			"status":  appErr.Status,
			"message": appErr.Message,
		})
		return
	}

	slog.Error("unhandled error", "error", err)
	JSON(w, http.StatusInternalServerError, map[string]any{
		"status":  http.StatusInternalServerError,
		"message": "Something went wrong",
	})
}
