package http

import (
	"net/http"
	"testing"

	"github.com/RIxiV1/SubSentry/internal/core"
)

func createSub(t *testing.T, s *Server, token, name string, cost float64, cycle core.BillingCycle, cat core.Category) core.Subscription {
	t.Helper()
	body := map[string]any{
		"name":              name,
		"cost":              cost,
		"billing_cycle":     string(cycle),
		"next_renewal_date": "2030-01-15",
		"category":          string(cat),
	}
	rec := do(t, s, http.MethodPost, "/api/v1/subscriptions", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create %s status = %d, body %s", name, rec.Code, rec.Body.String())
	}
	return decode[core.Subscription](t, rec)
}

func TestCreateSubscription(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)

	sub := createSub(t, s, token, "Netflix", 15.99, core.Monthly, core.Entertainment)
	if sub.ID == "" {
		t.Fatal("expected a generated ID")
	}
	if sub.Name != "Netflix" || sub.Cost != 15.99 {
		t.Fatalf("created = %+v", sub)
	}
}

func TestCreateSubscriptionValidation(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)

	body := map[string]any{
		"name":              "",
		"cost":              10,
		"billing_cycle":     "monthly",
		"next_renewal_date": "2030-01-15",
		"category":          "Entertainment",
	}
	rec := do(t, s, http.MethodPost, "/api/v1/subscriptions", token, body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if got := decode[errorResponse](t, rec).Error; got != "name cannot be empty" {
		t.Fatalf("error = %q, want first violated rule", got)
	}
}

func TestCreateSubscriptionMalformedBody(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)

	rec := do(t, s, http.MethodPost, "/api/v1/subscriptions", token, map[string]any{"unknown_field": true})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestListSubscriptionsFilterSort(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)

	createSub(t, s, token, "Netflix", 15.99, core.Monthly, core.Entertainment)
	createSub(t, s, token, "Spotify", 9.99, core.Monthly, core.Entertainment)
	createSub(t, s, token, "Notion", 96, core.Yearly, core.Productivity)

	rec := do(t, s, http.MethodGet, "/api/v1/subscriptions?category=Entertainment&sort=cost-high", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decode[subscriptionListResponse](t, rec).Subscriptions
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "Netflix" || got[1].Name != "Spotify" {
		t.Fatalf("order = %s, %s", got[0].Name, got[1].Name)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/subscriptions?q=not", token, nil)
	got = decode[subscriptionListResponse](t, rec).Subscriptions
	if len(got) != 1 || got[0].Name != "Notion" {
		t.Fatalf("search result = %+v", got)
	}
}

func TestUpdateSubscription(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)

	sub := createSub(t, s, token, "Netflix", 15.99, core.Monthly, core.Entertainment)

	rec := do(t, s, http.MethodPatch, "/api/v1/subscriptions/"+sub.ID, token, map[string]any{"cost": 19.99})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := decode[core.Subscription](t, rec); got.Cost != 19.99 || got.Name != "Netflix" {
		t.Fatalf("updated = %+v", got)
	}
}

func TestUpdateSubscriptionNotFound(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)

	rec := do(t, s, http.MethodPatch, "/api/v1/subscriptions/missing", token, map[string]any{"cost": 5})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCancelSubscriptionRecordsSavings(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)

	sub := createSub(t, s, token, "Spotify", 120, core.Yearly, core.Entertainment)

	rec := do(t, s, http.MethodDelete, "/api/v1/subscriptions/"+sub.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel status = %d", rec.Code)
	}
	entry := decode[core.SavingsEntry](t, rec)
	if entry.SubscriptionName != "Spotify" || entry.MonthlySavings != 10 {
		t.Fatalf("entry = %+v", entry)
	}

	list := decode[subscriptionListResponse](t, do(t, s, http.MethodGet, "/api/v1/subscriptions", token, nil))
	if len(list.Subscriptions) != 0 {
		t.Fatalf("subscription survived cancel: %+v", list.Subscriptions)
	}

	savings := decode[savingsResponse](t, do(t, s, http.MethodGet, "/api/v1/savings", token, nil))
	if len(savings.Entries) != 1 {
		t.Fatalf("ledger len = %d, want 1", len(savings.Entries))
	}
	if savings.TotalMonthlySavings != 10 || savings.TotalYearlySavings != 120 {
		t.Fatalf("totals = %v / %v", savings.TotalMonthlySavings, savings.TotalYearlySavings)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	s := newTestServer(t)
	alice := login(t, s)
	bob := login(t, s)

	sub := createSub(t, s, alice, "Netflix", 15.99, core.Monthly, core.Entertainment)

	if rec := do(t, s, http.MethodDelete, "/api/v1/subscriptions/"+sub.ID, bob, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("cross-user cancel status = %d, want 404", rec.Code)
	}
	list := decode[subscriptionListResponse](t, do(t, s, http.MethodGet, "/api/v1/subscriptions", bob, nil))
	if len(list.Subscriptions) != 0 {
		t.Fatalf("bob sees alice's subscriptions: %+v", list.Subscriptions)
	}
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)

	createSub(t, s, token, "Netflix", 12, core.Monthly, core.Entertainment)
	createSub(t, s, token, "Notion", 120, core.Yearly, core.Productivity)

	rec := do(t, s, http.MethodGet, "/api/v1/dashboard", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	dash := decode[dashboardResponse](t, rec)

	if dash.MonthlyTotal != 22 {
		t.Fatalf("MonthlyTotal = %v, want 22", dash.MonthlyTotal)
	}
	if dash.AnnualTotal != 264 {
		t.Fatalf("AnnualTotal = %v, want 264", dash.AnnualTotal)
	}
	if dash.SubscriptionCount != 2 {
		t.Fatalf("SubscriptionCount = %d, want 2", dash.SubscriptionCount)
	}
	if len(dash.Subscriptions) != 2 {
		t.Fatalf("cards = %d, want 2", len(dash.Subscriptions))
	}
	if dash.BudgetStatus != nil {
		t.Fatal("budget status present without a saved budget")
	}
	if dash.MonthlyTotalFormatted == "" || dash.AnnualTotalFormatted == "" {
		t.Fatal("formatted totals missing")
	}
}

func TestDashboardCacheInvalidatedOnWrite(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)

	createSub(t, s, token, "Netflix", 12, core.Monthly, core.Entertainment)

	first := decode[dashboardResponse](t, do(t, s, http.MethodGet, "/api/v1/dashboard", token, nil))
	if first.MonthlyTotal != 12 {
		t.Fatalf("MonthlyTotal = %v, want 12", first.MonthlyTotal)
	}

	createSub(t, s, token, "Spotify", 8, core.Monthly, core.Entertainment)

	second := decode[dashboardResponse](t, do(t, s, http.MethodGet, "/api/v1/dashboard", token, nil))
	if second.MonthlyTotal != 20 {
		t.Fatalf("MonthlyTotal after write = %v, want 20", second.MonthlyTotal)
	}
}

func TestDashboardBudgetStatus(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)

	createSub(t, s, token, "Netflix", 80, core.Monthly, core.Entertainment)
	if rec := do(t, s, http.MethodPut, "/api/v1/budget", token, map[string]any{"monthly_budget": 100}); rec.Code != http.StatusOK {
		t.Fatalf("set budget status = %d", rec.Code)
	}

	dash := decode[dashboardResponse](t, do(t, s, http.MethodGet, "/api/v1/dashboard", token, nil))
	if dash.BudgetStatus == nil {
		t.Fatal("expected budget status")
	}
	if dash.BudgetStatus.UsedPercent != 80 {
		t.Fatalf("UsedPercent = %v, want 80", dash.BudgetStatus.UsedPercent)
	}
	if dash.BudgetStatus.OverBudget {
		t.Fatal("not over budget at 80%")
	}
}

func TestInsightsViews(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)

	createSub(t, s, token, "Netflix", 12, core.Monthly, core.Entertainment)
	createSub(t, s, token, "Gym", 30, core.Monthly, core.Health)

	trends := decode[struct {
		View   string       `json:"view"`
		Months []trendPoint `json:"months"`
	}](t, do(t, s, http.MethodGet, "/api/v1/insights?view=trends", token, nil))
	if len(trends.Months) != 6 {
		t.Fatalf("months = %d, want 6", len(trends.Months))
	}
	for i, p := range trends.Months {
		if p.Total != 42 {
			t.Fatalf("month %d total = %v, want 42", i, p.Total)
		}
	}

	cats := decode[struct {
		Categories []categoryTotal `json:"categories"`
	}](t, do(t, s, http.MethodGet, "/api/v1/insights?view=categories", token, nil))
	if len(cats.Categories) != 2 {
		t.Fatalf("categories = %d, want 2", len(cats.Categories))
	}
	if cats.Categories[0].Category != core.Health || cats.Categories[0].Total != 30 {
		t.Fatalf("top category = %+v", cats.Categories[0])
	}

	comp := decode[struct {
		Subscriptions []comparisonItem `json:"subscriptions"`
	}](t, do(t, s, http.MethodGet, "/api/v1/insights?view=comparison", token, nil))
	if len(comp.Subscriptions) != 2 {
		t.Fatalf("comparison = %d items", len(comp.Subscriptions))
	}
	if comp.Subscriptions[0].Name != "Gym" || comp.Subscriptions[0].AnnualCost != 360 {
		t.Fatalf("top comparison = %+v", comp.Subscriptions[0])
	}

	if rec := do(t, s, http.MethodGet, "/api/v1/insights?view=bogus", token, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown view status = %d, want 400", rec.Code)
	}
}

func TestRecommendations(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)

	body := map[string]any{
		"name":              "Dusty",
		"cost":              9.99,
		"billing_cycle":     "monthly",
		"next_renewal_date": "2030-01-15",
		"category":          "Entertainment",
		"usage_frequency":   "never",
	}
	if rec := do(t, s, http.MethodPost, "/api/v1/subscriptions", token, body); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	resp := decode[recommendationsResponse](t, do(t, s, http.MethodGet, "/api/v1/recommendations", token, nil))
	if len(resp.Recommendations) != 1 {
		t.Fatalf("recommendations = %d, want 1", len(resp.Recommendations))
	}
	rec := resp.Recommendations[0]
	if rec.Priority != core.PriorityHigh {
		t.Fatalf("Priority = %q, want high", rec.Priority)
	}
	if rec.Reason != "Never used - easy savings!" {
		t.Fatalf("Reason = %q", rec.Reason)
	}
	if resp.PotentialSavings != 9.99 {
		t.Fatalf("PotentialSavings = %v, want 9.99", resp.PotentialSavings)
	}
}

func TestBudgetEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)

	unset := decode[budgetResponse](t, do(t, s, http.MethodGet, "/api/v1/budget", token, nil))
	if unset.MonthlyBudget != nil {
		t.Fatalf("MonthlyBudget = %v, want null", *unset.MonthlyBudget)
	}

	if rec := do(t, s, http.MethodPut, "/api/v1/budget", token, map[string]any{"monthly_budget": 0}); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("zero budget status = %d, want 422", rec.Code)
	}
	if rec := do(t, s, http.MethodPut, "/api/v1/budget", token, map[string]any{"monthly_budget": 250.5}); rec.Code != http.StatusOK {
		t.Fatalf("set budget status = %d", rec.Code)
	}

	got := decode[budgetResponse](t, do(t, s, http.MethodGet, "/api/v1/budget", token, nil))
	if got.MonthlyBudget == nil || *got.MonthlyBudget != 250.5 {
		t.Fatalf("MonthlyBudget = %v, want 250.5", got.MonthlyBudget)
	}
}

func TestSavingsDeleteAndClear(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)

	for _, name := range []string{"A", "B", "C"} {
		sub := createSub(t, s, token, name, 10, core.Monthly, core.Other)
		if rec := do(t, s, http.MethodDelete, "/api/v1/subscriptions/"+sub.ID, token, nil); rec.Code != http.StatusOK {
			t.Fatalf("cancel %s status = %d", name, rec.Code)
		}
	}

	entries := decode[savingsResponse](t, do(t, s, http.MethodGet, "/api/v1/savings", token, nil)).Entries
	if len(entries) != 3 {
		t.Fatalf("ledger len = %d, want 3", len(entries))
	}

	if rec := do(t, s, http.MethodDelete, "/api/v1/savings/"+entries[0].ID, token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete entry status = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/api/v1/savings/"+entries[0].ID, token, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("double delete status = %d, want 404", rec.Code)
	}

	if rec := do(t, s, http.MethodDelete, "/api/v1/savings", token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d", rec.Code)
	}
	after := decode[savingsResponse](t, do(t, s, http.MethodGet, "/api/v1/savings", token, nil))
	if len(after.Entries) != 0 {
		t.Fatalf("ledger not cleared: %d entries", len(after.Entries))
	}
}
