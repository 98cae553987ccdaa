package http

import (
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/RIxiV1/SubSentry/internal/core"
	"github.com/RIxiV1/SubSentry/internal/currency"
	"github.com/RIxiV1/SubSentry/internal/session"
)

// renewalWindowDays is the dashboard's upcoming-renewal horizon.
const renewalWindowDays = 7

type subscriptionCard struct {
	core.Subscription
	MonthlyCost      float64 `json:"monthly_cost"`
	DaysUntilRenewal int     `json:"days_until_renewal"`
}

// dashboardData is the cached, currency-independent part of the dashboard.
type dashboardData struct {
	MonthlyTotal        float64            `json:"monthly_total"`
	AnnualTotal         float64            `json:"annual_total"`
	SubscriptionCount   int                `json:"subscription_count"`
	UpcomingRenewals    int                `json:"upcoming_renewals"`
	Subscriptions       []subscriptionCard `json:"subscriptions"`
	BudgetStatus        *core.BudgetStatus `json:"budget_status,omitempty"`
	TotalMonthlySavings float64            `json:"total_monthly_savings"`
	TotalYearlySavings  float64            `json:"total_yearly_savings"`
}

type dashboardResponse struct {
	dashboardData
	MonthlyTotalFormatted string `json:"monthly_total_formatted"`
	AnnualTotalFormatted  string `json:"annual_total_formatted"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, sess session.Session) {
	data, ok := s.dashCache.Get(sess.UserID)
	if !ok {
		fresh, err := s.buildDashboard(r, sess.UserID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		data = fresh
		s.dashCache.Set(sess.UserID, data)
	}

	f := currency.NewFormatter(sess.Currency)
	s.writeJSON(w, r, http.StatusOK, dashboardResponse{
		dashboardData:         data,
		MonthlyTotalFormatted: f.Format(data.MonthlyTotal),
		AnnualTotalFormatted:  f.Format(data.AnnualTotal),
	})
}

// buildDashboard fetches subscriptions, budget, and the savings ledger
// concurrently and assembles the view model.
func (s *Server) buildDashboard(r *http.Request, userID string) (dashboardData, error) {
	var (
		subs    []core.Subscription
		budget  *core.BudgetSetting
		savings []core.SavingsEntry
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		subs, err = s.store.ListSubscriptions(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		budget, err = s.store.GetBudgetSetting(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		savings, err = s.store.ListSavingsEntries(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return dashboardData{}, err
	}

	today := core.DateOf(time.Now())
	cards := make([]subscriptionCard, 0, len(subs))
	for _, sub := range subs {
		cards = append(cards, subscriptionCard{
			Subscription:     sub,
			MonthlyCost:      sub.MonthlyEquivalent(),
			DaysUntilRenewal: sub.DaysUntil(today),
		})
	}

	data := dashboardData{
		MonthlyTotal:        core.MonthlyTotal(subs),
		AnnualTotal:         core.AnnualTotal(subs),
		SubscriptionCount:   len(subs),
		UpcomingRenewals:    core.UpcomingRenewals(subs, today, renewalWindowDays),
		Subscriptions:       cards,
		TotalMonthlySavings: core.TotalMonthlySavings(savings),
		TotalYearlySavings:  core.TotalYearlySavings(savings),
	}
	if budget != nil {
		status := core.EvaluateBudget(subs, budget.MonthlyBudget)
		data.BudgetStatus = &status
	}
	return data, nil
}

type trendPoint struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

type categoryTotal struct {
	Category core.Category `json:"category"`
	Total    float64       `json:"total"`
}

type comparisonItem struct {
	Name        string  `json:"name"`
	MonthlyCost float64 `json:"monthly_cost"`
	AnnualCost  float64 `json:"annual_cost"`
}

// handleInsights serves the spending insight views. The trend view has no
// real history behind it, so each month carries the current monthly total.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request, sess session.Session) {
	subs, err := s.store.ListSubscriptions(r.Context(), sess.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	view := r.URL.Query().Get("view")
	switch view {
	case "", "trends":
		total := core.MonthlyTotal(subs)
		now := time.Now()
		points := make([]trendPoint, 0, 6)
		for i := 5; i >= 0; i-- {
			m := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
			points = append(points, trendPoint{Month: m.Format("Jan"), Total: total})
		}
		s.writeJSON(w, r, http.StatusOK, map[string]any{"view": "trends", "months": points})

	case "categories":
		totals := core.CategoryTotals(subs)
		out := make([]categoryTotal, 0, len(totals))
		for cat, total := range totals {
			out = append(out, categoryTotal{Category: cat, Total: total})
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Total != out[j].Total {
				return out[i].Total > out[j].Total
			}
			return out[i].Category < out[j].Category
		})
		s.writeJSON(w, r, http.StatusOK, map[string]any{"view": "categories", "categories": out})

	case "comparison":
		items := make([]comparisonItem, 0, len(subs))
		for _, sub := range subs {
			annual := sub.Cost
			if sub.BillingCycle == core.Monthly {
				annual = sub.Cost * 12
			}
			items = append(items, comparisonItem{
				Name:        sub.Name,
				MonthlyCost: sub.MonthlyEquivalent(),
				AnnualCost:  annual,
			})
		}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].MonthlyCost > items[j].MonthlyCost
		})
		s.writeJSON(w, r, http.StatusOK, map[string]any{"view": "comparison", "subscriptions": items})

	default:
		s.writeBadRequest(w, r, "unknown view: use trends, categories, or comparison")
	}
}

type recommendationsResponse struct {
	Recommendations  []core.Recommendation `json:"recommendations"`
	PotentialSavings float64               `json:"potential_savings"`
	BudgetStatus     *core.BudgetStatus    `json:"budget_status,omitempty"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request, sess session.Session) {
	var (
		subs   []core.Subscription
		budget *core.BudgetSetting
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		subs, err = s.store.ListSubscriptions(ctx, sess.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		budget, err = s.store.GetBudgetSetting(ctx, sess.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.writeError(w, r, err)
		return
	}

	recs := core.Recommendations(subs)
	resp := recommendationsResponse{
		Recommendations:  recs,
		PotentialSavings: core.PotentialSavings(recs),
	}
	if budget != nil {
		status := core.EvaluateBudget(subs, budget.MonthlyBudget)
		resp.BudgetStatus = &status
	}

	s.writeJSON(w, r, http.StatusOK, resp)
}
