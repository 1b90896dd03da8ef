package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/oatsaysai/lend-reminder/internal/logger"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func WriteError(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, ErrorResponse{Error: msg})
}

// WriteFieldError reports a rejected input field
func WriteFieldError(w http.ResponseWriter, code int, field, msg string) {
	WriteJSON(w, code, ErrorResponse{Error: msg, Field: field})
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", zap.Error(err))
	}
}
