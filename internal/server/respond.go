package server

import (
	"encoding/json"
	"errors"
	"github.com/rs/zerolog/log"
	"github.com/tablegate/tablegate/internal/gateway"
	"io"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

// fail maps a gateway error onto a status code. Validation problems are the
// caller's fault, everything else is reported as a server error.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var gErr *gateway.Error
	switch {
	case gateway.IsValidation(err) && errors.As(err, &gErr):
		writeError(w, http.StatusBadRequest, gErr.Message())
	case gateway.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Str("requestId", requestID(r.Context())).Msg("request failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decode reads a single JSON value into v. Unknown fields are ignored,
// anything after the value is not.
func decode(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("request body required")
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body: " + err.Error())
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("invalid JSON body: unexpected data after JSON value")
	}
	return nil
}
