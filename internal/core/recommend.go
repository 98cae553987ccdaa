package core

import (
	"fmt"
	"math"
	"sort"
)

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// expensiveThreshold is the monthly-equivalent cost above which a
// subscription with monthly-or-unknown usage is flagged.
const expensiveThreshold = 15

type (
	Priority string

	// Recommendation is a derived cancellation suggestion. It is recomputed
	// from the current subscription list on every read and never persisted.
	Recommendation struct {
		Subscription Subscription `json:"subscription"`
		Reason       string       `json:"reason"`
		Priority     Priority     `json:"priority"`
		Savings      float64      `json:"savings"`
	}

	// BudgetStatus describes current spend against the monthly budget.
	BudgetStatus struct {
		MonthlyTotal  float64 `json:"monthly_total"`
		MonthlyBudget float64 `json:"monthly_budget"`
		UsedPercent   float64 `json:"used_percent"`
		OverBudget    bool    `json:"over_budget"`
		AmountOver    float64 `json:"amount_over"`
	}
)

func (p Priority) weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Recommendations applies the decision ladder to each subscription in list
// order, first match wins, at most one suggestion per subscription:
//
//  1. never/rarely used            -> high
//  2. monthly-equivalent > 15 and usage monthly or unset -> medium
//  3. more than 2 subscriptions in the same category     -> low
//
// The result is sorted by priority descending, then savings descending; the
// sort is stable so remaining ties keep input order.
func Recommendations(subs []Subscription) []Recommendation {
	var recs []Recommendation
	for _, sub := range subs {
		monthly := sub.MonthlyEquivalent()
		var priority Priority
		var reason string

		switch {
		case sub.UsageFrequency == UsageNever || sub.UsageFrequency == UsageRarely:
			priority = PriorityHigh
			if sub.UsageFrequency == UsageNever {
				reason = "Never used - easy savings!"
			} else {
				reason = "Rarely used - easy savings!"
			}
		case monthly > expensiveThreshold && (sub.UsageFrequency == UsageMonthly || sub.UsageFrequency == UsageUnset):
			priority = PriorityMedium
			reason = "Expensive with limited use - consider alternatives"
		default:
			if countCategory(subs, sub.Category) > 2 {
				priority = PriorityLow
				reason = fmt.Sprintf("Multiple %s subscriptions - consolidate?", sub.Category)
			}
		}

		if reason == "" {
			continue
		}
		recs = append(recs, Recommendation{
			Subscription: sub,
			Reason:       reason,
			Priority:     priority,
			Savings:      monthly,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if d := recs[i].Priority.weight() - recs[j].Priority.weight(); d != 0 {
			return d > 0
		}
		return recs[i].Savings > recs[j].Savings
	})
	return recs
}

func countCategory(subs []Subscription, cat Category) int {
	n := 0
	for _, sub := range subs {
		if sub.Category == cat {
			n++
		}
	}
	return n
}

// PotentialSavings sums the monthly savings over all recommendations.
func PotentialSavings(recs []Recommendation) float64 {
	var sum float64
	for _, rec := range recs {
		sum += rec.Savings
	}
	return sum
}

// EvaluateBudget computes utilization of the monthly budget. A zero budget
// yields +Inf used percent; callers must guard before display.
func EvaluateBudget(subs []Subscription, monthlyBudget float64) BudgetStatus {
	total := MonthlyTotal(subs)
	used := total / monthlyBudget * 100
	if monthlyBudget == 0 && total == 0 {
		used = math.NaN()
	}
	return BudgetStatus{
		MonthlyTotal:  total,
		MonthlyBudget: monthlyBudget,
		UsedPercent:   used,
		OverBudget:    total > monthlyBudget,
		AmountOver:    total - monthlyBudget,
	}
}
