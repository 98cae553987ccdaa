package http

import (
	"net/http"
	"time"

	"github.com/RIxiV1/SubSentry/internal/currency"
	"github.com/RIxiV1/SubSentry/internal/session"
)

type startSessionRequest struct {
	UserID string `json:"user_id"`
}

type sessionResponse struct {
	Token     string        `json:"token"`
	UserID    string        `json:"user_id"`
	Currency  currency.Info `json:"currency"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// handleStartSession exchanges an optional user id for a bearer token. The
// display currency is detected once here, from Accept-Language with the
// X-Timezone header as fallback.
func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			s.writeBadRequest(w, r, "malformed request body")
			return
		}
	}

	info := currency.Detect(r.Header.Get("Accept-Language"), r.Header.Get("X-Timezone"))
	sess := s.sessions.Start(req.UserID, info)

	s.writeJSON(w, r, http.StatusCreated, sessionResponse{
		Token:     sess.Token,
		UserID:    sess.UserID,
		Currency:  sess.Currency,
		ExpiresAt: sess.ExpiresAt,
	})
}

// handleEndSession invalidates the presented token. It succeeds even when the
// token is already gone.
func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.End(bearerToken(r))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, sess session.Session) {
	s.writeJSON(w, r, http.StatusOK, sessionResponse{
		Token:     sess.Token,
		UserID:    sess.UserID,
		Currency:  sess.Currency,
		ExpiresAt: sess.ExpiresAt,
	})
}
