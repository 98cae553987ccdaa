package http

import (
	"net/http"

	"github.com/RIxiV1/SubSentry/internal/core"
	"github.com/RIxiV1/SubSentry/internal/currency"
	"github.com/RIxiV1/SubSentry/internal/session"
)

type savingsResponse struct {
	Entries                      []core.SavingsEntry `json:"entries"`
	TotalMonthlySavings          float64             `json:"total_monthly_savings"`
	TotalYearlySavings           float64             `json:"total_yearly_savings"`
	TotalMonthlySavingsFormatted string              `json:"total_monthly_savings_formatted"`
	TotalYearlySavingsFormatted  string              `json:"total_yearly_savings_formatted"`
}

func (s *Server) handleListSavings(w http.ResponseWriter, r *http.Request, sess session.Session) {
	entries, err := s.store.ListSavingsEntries(r.Context(), sess.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	monthly := core.TotalMonthlySavings(entries)
	yearly := core.TotalYearlySavings(entries)
	f := currency.NewFormatter(sess.Currency)

	s.writeJSON(w, r, http.StatusOK, savingsResponse{
		Entries:                      entries,
		TotalMonthlySavings:          monthly,
		TotalYearlySavings:           yearly,
		TotalMonthlySavingsFormatted: f.Format(monthly),
		TotalYearlySavingsFormatted:  f.Format(yearly),
	})
}

func (s *Server) handleDeleteSavings(w http.ResponseWriter, r *http.Request, sess session.Session) {
	if err := s.store.DeleteSavingsEntry(r.Context(), sess.UserID, r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.invalidateDashboard(sess.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// handleClearSavings wipes the user's whole ledger history.
func (s *Server) handleClearSavings(w http.ResponseWriter, r *http.Request, sess session.Session) {
	if err := s.store.DeleteAllSavingsEntries(r.Context(), sess.UserID); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.invalidateDashboard(sess.UserID)
	w.WriteHeader(http.StatusNoContent)
}
