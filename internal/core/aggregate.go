// Package core holds the domain model and the pure computation engines:
// spend aggregation, recommendations, filtering/sorting, and savings math.
// Everything here is stateless and side-effect-free over its inputs.
package core

import (
	"math"
	"time"
)

// MonthlyEquivalent normalizes the subscription's cost to a per-month
// figure: the cost itself for monthly billing, cost/12 for yearly.
// No rounding happens here; rounding is a display concern.
func (s Subscription) MonthlyEquivalent() float64 {
	if s.BillingCycle == Yearly {
		return s.Cost / 12
	}
	return s.Cost
}

// MonthlyTotal sums monthly-equivalent costs. Empty input yields 0.
func MonthlyTotal(subs []Subscription) float64 {
	var total float64
	for _, sub := range subs {
		total += sub.MonthlyEquivalent()
	}
	return total
}

// AnnualTotal sums yearly costs directly: cost for yearly billing,
// cost*12 for monthly. Not MonthlyTotal*12; float rounding differs.
func AnnualTotal(subs []Subscription) float64 {
	var total float64
	for _, sub := range subs {
		if sub.BillingCycle == Yearly {
			total += sub.Cost
		} else {
			total += sub.Cost * 12
		}
	}
	return total
}

// UpcomingRenewals counts subscriptions whose renewal date falls within
// [ref, ref+windowDays], both ends inclusive, at calendar-day granularity.
func UpcomingRenewals(subs []Subscription, ref Date, windowDays int) int {
	start := DateOf(ref.Time)
	end := Date{Time: start.AddDate(0, 0, windowDays)}
	count := 0
	for _, sub := range subs {
		renewal := DateOf(sub.NextRenewalDate.Time)
		if !renewal.Before(start.Time) && !renewal.After(end.Time) {
			count++
		}
	}
	return count
}

// DaysUntil returns the number of whole days from ref to the renewal date.
// Negative when the renewal is in the past.
func (s Subscription) DaysUntil(ref Date) int {
	return int(DateOf(s.NextRenewalDate.Time).Sub(DateOf(ref.Time).Time) / (24 * time.Hour))
}

// CategoryTotals maps each category to its summed monthly-equivalent cost,
// rounded to 2 decimals per category. Rounding per entry means the parts may
// not sum exactly to MonthlyTotal; that mismatch is the observed product
// behavior and is kept.
func CategoryTotals(subs []Subscription) map[Category]float64 {
	totals := make(map[Category]float64)
	for _, sub := range subs {
		totals[sub.Category] += sub.MonthlyEquivalent()
	}
	for cat, v := range totals {
		totals[cat] = Round2(v)
	}
	return totals
}

// Round2 rounds half away from zero to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
