// Package postgres is the pgx-backed Store for deployments that share a
// database between instances. Dates map to DATE columns and come back as
// time.Time from the driver.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RIxiV1/SubSentry/internal/core"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

const subscriptionColumns = `id, user_id, name, cost, billing_cycle, next_renewal_date, category, usage_frequency, last_used_date`

func (s *Store) ListSubscriptions(ctx context.Context, userID string) ([]core.Subscription, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE user_id = $1 ORDER BY next_renewal_date ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var out []core.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return out, nil
}

func (s *Store) GetSubscription(ctx context.Context, userID, id string) (core.Subscription, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE user_id = $1 AND id = $2`,
		userID, id)

	sub, err := scanSubscription(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Subscription{}, core.ErrNotFound
	}
	if err != nil {
		return core.Subscription{}, err
	}
	return sub, nil
}

func (s *Store) InsertSubscription(ctx context.Context, sub core.Subscription) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO subscriptions (`+subscriptionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sub.ID, sub.UserID, sub.Name, sub.Cost, string(sub.BillingCycle),
		sub.NextRenewalDate.Time, string(sub.Category), string(sub.UsageFrequency), lastUsedValue(sub))
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

func (s *Store) UpdateSubscription(ctx context.Context, userID, id string, patch core.SubscriptionPatch) (core.Subscription, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE user_id = $1 AND id = $2 FOR UPDATE`,
		userID, id)

	sub, err := scanSubscription(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Subscription{}, core.ErrNotFound
	}
	if err != nil {
		return core.Subscription{}, err
	}

	sub = patch.Apply(sub)

	_, err = tx.Exec(ctx,
		`UPDATE subscriptions
		    SET name = $1, cost = $2, billing_cycle = $3, next_renewal_date = $4,
		        category = $5, usage_frequency = $6, last_used_date = $7
		  WHERE user_id = $8 AND id = $9`,
		sub.Name, sub.Cost, string(sub.BillingCycle), sub.NextRenewalDate.Time,
		string(sub.Category), string(sub.UsageFrequency), lastUsedValue(sub),
		userID, id)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("update subscription: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return core.Subscription{}, fmt.Errorf("commit update: %w", err)
	}
	return sub, nil
}

func (s *Store) DeleteSubscription(ctx context.Context, userID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM subscriptions WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) GetBudgetSetting(ctx context.Context, userID string) (*core.BudgetSetting, error) {
	var setting core.BudgetSetting
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, monthly_budget FROM budget_settings WHERE user_id = $1`,
		userID).Scan(&setting.UserID, &setting.MonthlyBudget)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get budget setting: %w", err)
	}
	return &setting, nil
}

func (s *Store) UpsertBudgetSetting(ctx context.Context, userID string, amount float64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO budget_settings (user_id, monthly_budget) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET monthly_budget = EXCLUDED.monthly_budget`,
		userID, amount)
	if err != nil {
		return fmt.Errorf("upsert budget setting: %w", err)
	}
	return nil
}

func (s *Store) ListSavingsEntries(ctx context.Context, userID string) ([]core.SavingsEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, subscription_name, monthly_savings, saved_at
		   FROM savings_entries WHERE user_id = $1 ORDER BY saved_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list savings entries: %w", err)
	}
	defer rows.Close()

	var out []core.SavingsEntry
	for rows.Next() {
		var entry core.SavingsEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.SubscriptionName, &entry.MonthlySavings, &entry.SavedAt); err != nil {
			return nil, fmt.Errorf("scan savings entry: %w", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list savings entries: %w", err)
	}
	return out, nil
}

func (s *Store) InsertSavingsEntry(ctx context.Context, entry core.SavingsEntry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO savings_entries (id, user_id, subscription_name, monthly_savings, saved_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.UserID, entry.SubscriptionName, entry.MonthlySavings, entry.SavedAt)
	if err != nil {
		return fmt.Errorf("insert savings entry: %w", err)
	}
	return nil
}

func (s *Store) DeleteSavingsEntry(ctx context.Context, userID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM savings_entries WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete savings entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAllSavingsEntries(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM savings_entries WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete savings entries: %w", err)
	}
	return nil
}

func lastUsedValue(sub core.Subscription) *time.Time {
	if sub.LastUsedDate == nil {
		return nil
	}
	t := sub.LastUsedDate.Time
	return &t
}

func scanSubscription(row pgx.Row) (core.Subscription, error) {
	var (
		sub      core.Subscription
		renewal  time.Time
		lastUsed *time.Time
	)
	err := row.Scan(&sub.ID, &sub.UserID, &sub.Name, &sub.Cost, &sub.BillingCycle,
		&renewal, &sub.Category, &sub.UsageFrequency, &lastUsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.Subscription{}, err
		}
		return core.Subscription{}, fmt.Errorf("scan subscription: %w", err)
	}

	sub.NextRenewalDate = core.DateOf(renewal)
	if lastUsed != nil {
		d := core.DateOf(*lastUsed)
		sub.LastUsedDate = &d
	}
	return sub, nil
}
