// Package store defines the persistence contract. Any backend that
// satisfies it (the bundled memory, sqlite, and postgres implementations or
// a test double) can serve the engines, which never touch the network.
package store

import (
	"context"

	"github.com/RIxiV1/SubSentry/internal/core"
)

type (
	SubscriptionStore interface {
		// ListSubscriptions returns the user's subscriptions ordered by
		// next_renewal_date ascending.
		ListSubscriptions(ctx context.Context, userID string) ([]core.Subscription, error)
		GetSubscription(ctx context.Context, userID, id string) (core.Subscription, error)
		InsertSubscription(ctx context.Context, sub core.Subscription) error
		UpdateSubscription(ctx context.Context, userID, id string, patch core.SubscriptionPatch) (core.Subscription, error)
		DeleteSubscription(ctx context.Context, userID, id string) error
	}

	BudgetStore interface {
		// GetBudgetSetting returns nil when the user never saved a budget.
		GetBudgetSetting(ctx context.Context, userID string) (*core.BudgetSetting, error)
		UpsertBudgetSetting(ctx context.Context, userID string, amount float64) error
	}

	SavingsStore interface {
		// ListSavingsEntries returns entries ordered by saved_at descending.
		ListSavingsEntries(ctx context.Context, userID string) ([]core.SavingsEntry, error)
		InsertSavingsEntry(ctx context.Context, entry core.SavingsEntry) error
		DeleteSavingsEntry(ctx context.Context, userID, id string) error
		DeleteAllSavingsEntries(ctx context.Context, userID string) error
	}

	// Store is the full persistence surface.
	Store interface {
		SubscriptionStore
		BudgetStore
		SavingsStore
		Close() error
	}
)
