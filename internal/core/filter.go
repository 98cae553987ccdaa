package core

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	SortName     SortKey = "name"
	SortCostHigh SortKey = "cost-high"
	SortCostLow  SortKey = "cost-low"
	SortRenewal  SortKey = "renewal"

	// CategoryAll disables category filtering.
	CategoryAll = "all"
)

type (
	SortKey string

	// ListQuery is the view's filter/sort request: a case-insensitive
	// substring search on name, a category filter, and a sort key.
	ListQuery struct {
		Search   string
		Category string
		Sort     SortKey
	}
)

// FilterSort applies the query to subs and returns a new slice; the input is
// never mutated. Filters are ANDed and run before sorting. An unknown sort
// key leaves the filtered order untouched.
func FilterSort(subs []Subscription, q ListQuery, coll *collate.Collator) []Subscription {
	out := make([]Subscription, 0, len(subs))
	search := strings.ToLower(strings.TrimSpace(q.Search))
	for _, sub := range subs {
		if search != "" && !strings.Contains(strings.ToLower(sub.Name), search) {
			continue
		}
		if q.Category != "" && q.Category != CategoryAll && string(sub.Category) != q.Category {
			continue
		}
		out = append(out, sub)
	}

	switch q.Sort {
	case SortName:
		if coll == nil {
			coll = collate.New(language.English)
		}
		sort.SliceStable(out, func(i, j int) bool {
			return coll.CompareString(out[i].Name, out[j].Name) < 0
		})
	case SortCostHigh:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].MonthlyEquivalent() > out[j].MonthlyEquivalent()
		})
	case SortCostLow:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].MonthlyEquivalent() < out[j].MonthlyEquivalent()
		})
	case SortRenewal:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].NextRenewalDate.Before(out[j].NextRenewalDate.Time)
		})
	}
	return out
}
