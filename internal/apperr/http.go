package apperr

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes data with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

// Write sends e as {"error":{"code","message"}} with its mapped status.
func Write(w http.ResponseWriter, e *Error) {
	WriteJSON(w, e.Code.HTTPStatus(), errorBody{Error: errorDetail{Code: e.Code, Message: e.Message}})
}
