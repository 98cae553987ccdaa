package http

import (
	"net/http"

	"github.com/RIxiV1/SubSentry/internal/session"
)

type budgetResponse struct {
	// MonthlyBudget is null until the user saves one.
	MonthlyBudget *float64 `json:"monthly_budget"`
}

type setBudgetRequest struct {
	MonthlyBudget float64 `json:"monthly_budget"`
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request, sess session.Session) {
	setting, err := s.store.GetBudgetSetting(r.Context(), sess.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var resp budgetResponse
	if setting != nil {
		resp.MonthlyBudget = &setting.MonthlyBudget
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request, sess session.Session) {
	var req setBudgetRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeBadRequest(w, r, "malformed request body")
		return
	}

	if err := s.svc.SetBudget(r.Context(), sess.UserID, req.MonthlyBudget); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.invalidateDashboard(sess.UserID)
	s.writeJSON(w, r, http.StatusOK, budgetResponse{MonthlyBudget: &req.MonthlyBudget})
}
