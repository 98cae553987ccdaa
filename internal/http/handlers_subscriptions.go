package http

import (
	"net/http"

	"github.com/RIxiV1/SubSentry/internal/core"
	"github.com/RIxiV1/SubSentry/internal/session"
)

type subscriptionListResponse struct {
	Subscriptions []core.Subscription `json:"subscriptions"`
}

// handleListSubscriptions lists the user's subscriptions with the query's
// filter and sort applied. q is a substring match on the name, category
// narrows to one category ("all" and empty disable it), sort is one of
// name, cost-high, cost-low, renewal.
func (s *Server) handleListSubscriptions(w http.ResponseWriter, r *http.Request, sess session.Session) {
	subs, err := s.store.ListSubscriptions(r.Context(), sess.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	params := r.URL.Query()
	query := core.ListQuery{
		Search:   params.Get("q"),
		Category: params.Get("category"),
		Sort:     core.SortKey(params.Get("sort")),
	}
	subs = core.FilterSort(subs, query, nil)

	s.writeJSON(w, r, http.StatusOK, subscriptionListResponse{Subscriptions: subs})
}

func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request, sess session.Session) {
	var sub core.Subscription
	if err := decodeBody(r, &sub); err != nil {
		s.writeBadRequest(w, r, "malformed request body")
		return
	}

	created, err := s.svc.Create(r.Context(), sess.UserID, sub)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.invalidateDashboard(sess.UserID)
	s.writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) handleUpdateSubscription(w http.ResponseWriter, r *http.Request, sess session.Session) {
	var patch core.SubscriptionPatch
	if err := decodeBody(r, &patch); err != nil {
		s.writeBadRequest(w, r, "malformed request body")
		return
	}

	updated, err := s.svc.Update(r.Context(), sess.UserID, r.PathValue("id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.invalidateDashboard(sess.UserID)
	s.writeJSON(w, r, http.StatusOK, updated)
}

// handleCancelSubscription deletes the subscription and returns the savings
// ledger entry the cancel produced.
func (s *Server) handleCancelSubscription(w http.ResponseWriter, r *http.Request, sess session.Session) {
	entry, err := s.svc.Cancel(r.Context(), sess.UserID, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.invalidateDashboard(sess.UserID)
	s.writeJSON(w, r, http.StatusOK, entry)
}
