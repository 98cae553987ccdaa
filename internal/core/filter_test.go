package core

import (
	"reflect"
	"testing"
)

func names(subs []Subscription) []string {
	out := make([]string, len(subs))
	for i, s := range subs {
		out[i] = s.Name
	}
	return out
}

func TestFilterByCategory(t *testing.T) {
	subs := []Subscription{
		sub("a", 5, Monthly, Shopping),
		sub("b", 5, Monthly, Health),
		sub("c", 5, Monthly, Shopping),
		sub("d", 5, Monthly, Other),
		sub("e", 5, Monthly, Entertainment),
	}
	got := FilterSort(subs, ListQuery{Category: "Shopping"}, nil)
	if want := []string{"a", "c"}; !reflect.DeepEqual(names(got), want) {
		t.Fatalf("got %v want %v", names(got), want)
	}

	// "all" and empty disable the filter.
	for _, cat := range []string{CategoryAll, ""} {
		if got := FilterSort(subs, ListQuery{Category: cat}, nil); len(got) != 5 {
			t.Fatalf("category %q: got %d want 5", cat, len(got))
		}
	}
}

func TestFilterBySearch(t *testing.T) {
	subs := []Subscription{
		sub("Netflix", 15, Monthly, Entertainment),
		sub("Spotify", 10, Monthly, Entertainment),
		sub("NETFLIX Games", 5, Monthly, Entertainment),
	}
	got := FilterSort(subs, ListQuery{Search: "netflix"}, nil)
	if want := []string{"Netflix", "NETFLIX Games"}; !reflect.DeepEqual(names(got), want) {
		t.Fatalf("got %v want %v", names(got), want)
	}
}

func TestFiltersAreANDed(t *testing.T) {
	subs := []Subscription{
		sub("Netflix", 15, Monthly, Entertainment),
		sub("Netflix DVD", 8, Monthly, Shopping),
	}
	got := FilterSort(subs, ListQuery{Search: "netflix", Category: "Shopping"}, nil)
	if want := []string{"Netflix DVD"}; !reflect.DeepEqual(names(got), want) {
		t.Fatalf("got %v want %v", names(got), want)
	}
}

func TestSortCostHighUsesMonthlyEquivalent(t *testing.T) {
	subs := []Subscription{
		sub("cheap", 5, Monthly, Other),   // 5/mo
		sub("yearly", 120, Yearly, Other), // 10/mo
	}
	got := FilterSort(subs, ListQuery{Sort: SortCostHigh}, nil)
	if want := []string{"yearly", "cheap"}; !reflect.DeepEqual(names(got), want) {
		t.Fatalf("got %v want %v", names(got), want)
	}

	got = FilterSort(subs, ListQuery{Sort: SortCostLow}, nil)
	if want := []string{"cheap", "yearly"}; !reflect.DeepEqual(names(got), want) {
		t.Fatalf("cost-low: got %v want %v", names(got), want)
	}
}

func TestSortByName(t *testing.T) {
	subs := []Subscription{
		sub("banana", 5, Monthly, Other),
		sub("Apple", 5, Monthly, Other),
		sub("cherry", 5, Monthly, Other),
	}
	got := FilterSort(subs, ListQuery{Sort: SortName}, nil)
	if want := []string{"Apple", "banana", "cherry"}; !reflect.DeepEqual(names(got), want) {
		t.Fatalf("got %v want %v", names(got), want)
	}
}

func TestSortByRenewal(t *testing.T) {
	a := sub("a", 5, Monthly, Other)
	a.NextRenewalDate = NewDate(2024, 7, 1)
	b := sub("b", 5, Monthly, Other)
	b.NextRenewalDate = NewDate(2024, 6, 1)
	got := FilterSort([]Subscription{a, b}, ListQuery{Sort: SortRenewal}, nil)
	if want := []string{"b", "a"}; !reflect.DeepEqual(names(got), want) {
		t.Fatalf("got %v want %v", names(got), want)
	}
}

func TestUnknownSortKeyIsPassThrough(t *testing.T) {
	subs := []Subscription{
		sub("z", 9, Monthly, Other),
		sub("a", 1, Monthly, Other),
	}
	got := FilterSort(subs, ListQuery{Sort: "bogus"}, nil)
	if want := []string{"z", "a"}; !reflect.DeepEqual(names(got), want) {
		t.Fatalf("got %v want %v", names(got), want)
	}
}

func TestFilterSortDoesNotMutateInput(t *testing.T) {
	subs := []Subscription{
		sub("z", 9, Monthly, Other),
		sub("a", 1, Monthly, Other),
	}
	before := names(subs)
	_ = FilterSort(subs, ListQuery{Sort: SortName}, nil)
	if !reflect.DeepEqual(names(subs), before) {
		t.Fatalf("input mutated: %v", names(subs))
	}
}

func TestFilterSortIsIdempotent(t *testing.T) {
	subs := []Subscription{
		sub("z", 9, Monthly, Other),
		sub("a", 1, Monthly, Shopping),
		sub("m", 5, Yearly, Other),
	}
	q := ListQuery{Search: "", Category: CategoryAll, Sort: SortCostHigh}
	first := FilterSort(subs, q, nil)
	second := FilterSort(subs, q, nil)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("not idempotent:\n%v\n%v", first, second)
	}
}
