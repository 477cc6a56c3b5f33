// Package httputil holds the JSON response helpers and the terminal
// error handler shared by all HTTP features.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zebraboard/zebra-board-api/pkg/domain"
)

// errorBody is the uniform error response contract.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error writes a plain error response with an explicit status. Used by
// middleware that fails before any flow runs.
func Error(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

// WriteError is the single place flow failures become wire responses.
// Known kinds map to their designated status and machine code; anything
// else is logged in full and surfaced as an opaque internal error.
func WriteError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		if de.Kind == domain.KindInternal {
			logger.Error("internal error", "error", err)
			Error(w, http.StatusInternalServerError, string(domain.KindInternal), "internal error")
			return
		}
		Error(w, de.Status(), string(de.Kind), de.Message)
		return
	}

	logger.Error("unhandled error", "error", err)
	Error(w, http.StatusInternalServerError, string(domain.KindInternal), "internal error")
}
