package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/RIxiV1/SubSentry/internal/core"
	"github.com/RIxiV1/SubSentry/internal/log"
)

// maxBodyBytes caps request bodies; every payload here is small JSON.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to encode response",
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
	}
}

// writeError maps domain errors to status codes. Validation failures carry
// the first violated rule's message; everything unrecognized is treated as a
// persistence failure.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case core.IsValidationError(err):
		s.writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, core.ErrNoSession):
		s.writeJSON(w, r, http.StatusUnauthorized, errorResponse{Error: core.ErrNoSession.Error()})
	case errors.Is(err, core.ErrNotFound):
		s.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: core.ErrNotFound.Error()})
	default:
		s.logger.ErrorContext(r.Context(), "request failed",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
		s.writeJSON(w, r, http.StatusBadGateway, errorResponse{Error: "persistence unavailable"})
	}
}

// decodeBody parses the JSON request body into dst, rejecting unknown fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func (s *Server) writeBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	s.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: msg})
}
