// Package memory is the in-process Store used as the default backend and as
// the test double for the engines and HTTP layer.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/RIxiV1/SubSentry/internal/core"
)

type Store struct {
	mu      sync.Mutex
	subs    map[string]core.Subscription // keyed by subscription ID
	budgets map[string]float64           // keyed by user ID
	savings map[string]core.SavingsEntry // keyed by entry ID
}

func New() *Store {
	return &Store{
		subs:    make(map[string]core.Subscription),
		budgets: make(map[string]float64),
		savings: make(map[string]core.SavingsEntry),
	}
}

func (s *Store) ListSubscriptions(_ context.Context, userID string) ([]core.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Subscription
	for _, sub := range s.subs {
		if sub.UserID == userID {
			out = append(out, sub)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NextRenewalDate.Before(out[j].NextRenewalDate.Time)
	})
	return out, nil
}

func (s *Store) GetSubscription(_ context.Context, userID, id string) (core.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[id]
	if !ok || sub.UserID != userID {
		return core.Subscription{}, core.ErrNotFound
	}
	return sub, nil
}

func (s *Store) InsertSubscription(_ context.Context, sub core.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[sub.ID] = sub
	return nil
}

func (s *Store) UpdateSubscription(_ context.Context, userID, id string, patch core.SubscriptionPatch) (core.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[id]
	if !ok || sub.UserID != userID {
		return core.Subscription{}, core.ErrNotFound
	}
	sub = patch.Apply(sub)
	s.subs[id] = sub
	return sub, nil
}

func (s *Store) DeleteSubscription(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[id]
	if !ok || sub.UserID != userID {
		return core.ErrNotFound
	}
	delete(s.subs, id)
	return nil
}

func (s *Store) GetBudgetSetting(_ context.Context, userID string) (*core.BudgetSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	amount, ok := s.budgets[userID]
	if !ok {
		return nil, nil
	}
	return &core.BudgetSetting{UserID: userID, MonthlyBudget: amount}, nil
}

func (s *Store) UpsertBudgetSetting(_ context.Context, userID string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets[userID] = amount
	return nil
}

func (s *Store) ListSavingsEntries(_ context.Context, userID string) ([]core.SavingsEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.SavingsEntry
	for _, e := range s.savings {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SavedAt.After(out[j].SavedAt)
	})
	return out, nil
}

func (s *Store) InsertSavingsEntry(_ context.Context, entry core.SavingsEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savings[entry.ID] = entry
	return nil
}

func (s *Store) DeleteSavingsEntry(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.savings[id]
	if !ok || e.UserID != userID {
		return core.ErrNotFound
	}
	delete(s.savings, id)
	return nil
}

func (s *Store) DeleteAllSavingsEntries(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.savings {
		if e.UserID == userID {
			delete(s.savings, id)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}
