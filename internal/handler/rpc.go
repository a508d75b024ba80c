package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/templui/carepledge/internal/apperr"
	"github.com/templui/carepledge/internal/ctxkeys"
	"github.com/templui/carepledge/internal/validation"
)

const maxBodyBytes = 1 << 20

type resultBody struct {
	Result any `json:"result"`
}

// decodeInput reads the JSON input object. An empty body leaves v zeroed.
func decodeInput(w http.ResponseWriter, r *http.Request, v any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return validation.Field("input", "must be a valid JSON object")
}

func writeResult(w http.ResponseWriter, result any) {
	apperr.WriteJSON(w, http.StatusOK, resultBody{Result: result})
}

// writeError classifies err and logs anything that is not the caller's
// fault with the original detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	e := apperr.From(err)
	if e.Code == apperr.CodeInternal {
		slog.Error("rpc failed", "error", err, "path", r.URL.Path, "request_id", ctxkeys.RequestID(r.Context()))
	} else {
		slog.Debug("rpc rejected", "code", e.Code, "error", err, "path", r.URL.Path, "request_id", ctxkeys.RequestID(r.Context()))
	}
	apperr.Write(w, e)
}

// UnknownProcedure answers any /rpc/ path no handler claims.
func UnknownProcedure(w http.ResponseWriter, r *http.Request) {
	apperr.Write(w, apperr.New(apperr.CodeNotFound, "Unknown procedure "+r.PathValue("procedure")))
}

func Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
