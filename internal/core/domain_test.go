package core

import (
	"encoding/json"
	"strings"
	"testing"
)

func validSub() Subscription {
	return Subscription{
		ID:              "id-1",
		UserID:          "user-1",
		Name:            "Netflix",
		Cost:            15.99,
		BillingCycle:    Monthly,
		NextRenewalDate: NewDate(2024, 6, 15),
		Category:        Entertainment,
	}
}

func TestSubscriptionValidate(t *testing.T) {
	if err := validSub().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Subscription)
		want   error
	}{
		{"empty name", func(s *Subscription) { s.Name = "  " }, ErrEmptyName},
		{"long name", func(s *Subscription) { s.Name = strings.Repeat("x", 101) }, ErrNameTooLong},
		{"long multibyte name", func(s *Subscription) { s.Name = strings.Repeat("日", 101) }, ErrNameTooLong},
		{"zero cost", func(s *Subscription) { s.Cost = 0 }, ErrInvalidCost},
		{"negative cost", func(s *Subscription) { s.Cost = -1 }, ErrInvalidCost},
		{"bad cycle", func(s *Subscription) { s.BillingCycle = "weekly" }, ErrInvalidCycle},
		{"zero date", func(s *Subscription) { s.NextRenewalDate = Date{} }, ErrInvalidDate},
		{"bad category", func(s *Subscription) { s.Category = "Games" }, ErrInvalidCategory},
		{"bad usage", func(s *Subscription) { s.UsageFrequency = "sometimes" }, ErrInvalidUsage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validSub()
			tc.mutate(&s)
			if err := s.Validate(); err != tc.want {
				t.Fatalf("got %v want %v", err, tc.want)
			}
			if !IsValidationError(s.Validate()) {
				t.Fatalf("%v should be a validation error", tc.want)
			}
		})
	}
}

func TestNameLimitCountsCharacters(t *testing.T) {
	name := strings.Repeat("日", 100)

	s := validSub()
	s.Name = name
	if err := s.Validate(); err != nil {
		t.Fatalf("100-character name should be valid, got %v", err)
	}

	if err := (SubscriptionPatch{Name: &name}).Validate(); err != nil {
		t.Fatalf("100-character patch name should be valid, got %v", err)
	}

	long := strings.Repeat("日", 101)
	if err := (SubscriptionPatch{Name: &long}).Validate(); err != ErrNameTooLong {
		t.Fatalf("got %v want %v", err, ErrNameTooLong)
	}
}

func TestValidateFirstViolationWins(t *testing.T) {
	s := validSub()
	s.Name = ""
	s.Cost = -5
	if err := s.Validate(); err != ErrEmptyName {
		t.Fatalf("first rule should win, got %v", err)
	}
}

func TestPatchApply(t *testing.T) {
	s := validSub()
	cost := 19.99
	cat := Productivity
	patched := SubscriptionPatch{Cost: &cost, Category: &cat}.Apply(s)

	if patched.Cost != 19.99 || patched.Category != Productivity {
		t.Fatalf("patch not applied: %+v", patched)
	}
	if patched.Name != s.Name || patched.BillingCycle != s.BillingCycle {
		t.Fatalf("untouched fields changed: %+v", patched)
	}
	if s.Cost != 15.99 {
		t.Fatalf("input mutated")
	}
}

func TestPatchValidate(t *testing.T) {
	bad := -1.0
	if err := (SubscriptionPatch{Cost: &bad}).Validate(); err != ErrInvalidCost {
		t.Fatalf("got %v want %v", err, ErrInvalidCost)
	}
	if err := (SubscriptionPatch{}).Validate(); err != nil {
		t.Fatalf("empty patch should validate, got %v", err)
	}
}

func TestValidateBudget(t *testing.T) {
	cases := []struct {
		amount float64
		ok     bool
	}{
		{50, true},
		{1_000_000, true},
		{0, false},
		{-10, false},
		{1_000_000.01, false},
	}
	for i, tc := range cases {
		err := ValidateBudget(tc.amount)
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDateJSON(t *testing.T) {
	s := validSub()
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"next_renewal_date":"2024-06-15"`) {
		t.Fatalf("date not serialized as calendar day: %s", b)
	}

	var back Subscription
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.NextRenewalDate.Equal(s.NextRenewalDate.Time) {
		t.Fatalf("round trip changed date: %v", back.NextRenewalDate)
	}
}
