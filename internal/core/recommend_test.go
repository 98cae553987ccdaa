package core

import (
	"math"
	"strings"
	"testing"
)

func usageSub(name string, cost float64, cycle BillingCycle, cat Category, usage UsageFrequency) Subscription {
	s := sub(name, cost, cycle, cat)
	s.UsageFrequency = usage
	return s
}

func TestRecommendationLadder(t *testing.T) {
	cases := []struct {
		name     string
		sub      Subscription
		others   []Subscription
		priority Priority
		reason   string
		none     bool
	}{
		{
			name:     "never used is high",
			sub:      usageSub("a", 5, Monthly, Other, UsageNever),
			priority: PriorityHigh,
			reason:   "Never used - easy savings!",
		},
		{
			name:     "rarely used is high",
			sub:      usageSub("a", 5, Monthly, Other, UsageRarely),
			priority: PriorityHigh,
			reason:   "Rarely used - easy savings!",
		},
		{
			name:     "expensive with monthly usage is medium",
			sub:      usageSub("a", 16, Monthly, Other, UsageMonthly),
			priority: PriorityMedium,
			reason:   "Expensive with limited use - consider alternatives",
		},
		{
			name:     "expensive with unset usage is medium",
			sub:      usageSub("a", 200, Yearly, Other, UsageUnset),
			priority: PriorityMedium,
		},
		{
			name: "expensive but frequently used falls through",
			sub:  usageSub("a", 50, Monthly, Other, UsageFrequently),
			none: true,
		},
		{
			name: "exactly 15 is not expensive",
			sub:  usageSub("a", 15, Monthly, Other, UsageMonthly),
			none: true,
		},
		{
			name: "three in category is low",
			sub:  usageSub("a", 5, Monthly, Health, UsageFrequently),
			others: []Subscription{
				usageSub("b", 5, Monthly, Health, UsageFrequently),
				usageSub("c", 5, Monthly, Health, UsageFrequently),
			},
			priority: PriorityLow,
			reason:   "Multiple Health subscriptions - consolidate?",
		},
		{
			name: "two in category is fine",
			sub:  usageSub("a", 5, Monthly, Entertainment, UsageFrequently),
			others: []Subscription{
				usageSub("b", 5, Monthly, Entertainment, UsageFrequently),
			},
			none: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			subs := append([]Subscription{tc.sub}, tc.others...)
			recs := Recommendations(subs)

			var found *Recommendation
			for i := range recs {
				if recs[i].Subscription.ID == tc.sub.ID {
					found = &recs[i]
					break
				}
			}
			if tc.none {
				if found != nil {
					t.Fatalf("expected no recommendation, got %+v", *found)
				}
				return
			}
			if found == nil {
				t.Fatalf("expected a recommendation, got none")
			}
			if found.Priority != tc.priority {
				t.Fatalf("priority: got %s want %s", found.Priority, tc.priority)
			}
			if tc.reason != "" && found.Reason != tc.reason {
				t.Fatalf("reason: got %q want %q", found.Reason, tc.reason)
			}
			if found.Savings != tc.sub.MonthlyEquivalent() {
				t.Fatalf("savings: got %v want %v", found.Savings, tc.sub.MonthlyEquivalent())
			}
		})
	}
}

func TestRecommendationsAtMostOnePerSubscription(t *testing.T) {
	// Never-used AND expensive AND crowded category: only rule 1 fires.
	subs := []Subscription{
		usageSub("a", 50, Monthly, Health, UsageNever),
		usageSub("b", 5, Monthly, Health, UsageFrequently),
		usageSub("c", 5, Monthly, Health, UsageFrequently),
	}
	recs := Recommendations(subs)
	seen := map[string]int{}
	for _, r := range recs {
		seen[r.Subscription.ID]++
	}
	for id, n := range seen {
		if n > 1 {
			t.Fatalf("subscription %s recommended %d times", id, n)
		}
	}
	if recs[0].Subscription.ID != "a" || recs[0].Priority != PriorityHigh {
		t.Fatalf("rule 1 should win for a: %+v", recs[0])
	}
}

func TestRecommendationsOrdering(t *testing.T) {
	// A never-used sub outranks a monthly-used expensive one regardless of
	// input order.
	never := usageSub("never", 5, Monthly, Other, UsageNever)
	pricey := usageSub("pricey", 20, Monthly, Other, UsageMonthly)

	for _, subs := range [][]Subscription{
		{never, pricey},
		{pricey, never},
	} {
		recs := Recommendations(subs)
		if len(recs) != 2 {
			t.Fatalf("got %d recs want 2", len(recs))
		}
		if recs[0].Subscription.ID != "never" {
			t.Fatalf("never-used should rank first, got %s", recs[0].Subscription.ID)
		}
	}
}

func TestRecommendationsStableTies(t *testing.T) {
	// Same priority, same savings: input order must be kept.
	subs := []Subscription{
		usageSub("first", 5, Monthly, Other, UsageNever),
		usageSub("second", 5, Monthly, Other, UsageNever),
		usageSub("third", 5, Monthly, Other, UsageNever),
	}
	recs := Recommendations(subs)
	for i, want := range []string{"first", "second", "third"} {
		if recs[i].Subscription.ID != want {
			t.Fatalf("pos %d: got %s want %s", i, recs[i].Subscription.ID, want)
		}
	}
}

func TestRecommendationsWithinPriorityBySavings(t *testing.T) {
	subs := []Subscription{
		usageSub("cheap", 5, Monthly, Other, UsageNever),
		usageSub("dear", 30, Monthly, Other, UsageRarely),
	}
	recs := Recommendations(subs)
	if recs[0].Subscription.ID != "dear" {
		t.Fatalf("higher savings should rank first within priority, got %s", recs[0].Subscription.ID)
	}
}

func TestPotentialSavings(t *testing.T) {
	subs := []Subscription{
		usageSub("a", 12, Monthly, Other, UsageNever),
		usageSub("b", 120, Yearly, Other, UsageRarely),
	}
	recs := Recommendations(subs)
	if got := PotentialSavings(recs); got != 22 {
		t.Fatalf("got %v want 22", got)
	}
	if got := PotentialSavings(nil); got != 0 {
		t.Fatalf("empty: got %v want 0", got)
	}
}

func TestConsolidationReasonNamesCategory(t *testing.T) {
	subs := []Subscription{
		usageSub("a", 5, Monthly, Health, UsageFrequently),
		usageSub("b", 5, Monthly, Health, UsageFrequently),
		usageSub("c", 5, Monthly, Health, UsageFrequently),
		usageSub("d", 5, Monthly, Health, UsageFrequently),
	}
	recs := Recommendations(subs)
	if len(recs) != 4 {
		t.Fatalf("all four Health subs should qualify, got %d", len(recs))
	}
	for _, r := range recs {
		if !strings.Contains(r.Reason, "Health") {
			t.Fatalf("reason should name the category: %q", r.Reason)
		}
	}
}

func TestEvaluateBudget(t *testing.T) {
	subs := []Subscription{sub("a", 80, Monthly, Other)}

	st := EvaluateBudget(subs, 100)
	if st.UsedPercent != 80 || st.OverBudget {
		t.Fatalf("under budget: %+v", st)
	}

	st = EvaluateBudget(subs, 50)
	if !st.OverBudget || st.AmountOver != 30 {
		t.Fatalf("over budget: %+v", st)
	}

	st = EvaluateBudget(subs, 0)
	if !math.IsInf(st.UsedPercent, 1) {
		t.Fatalf("zero budget should yield +Inf, got %v", st.UsedPercent)
	}
}
