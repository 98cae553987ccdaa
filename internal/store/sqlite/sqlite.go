// Package sqlite is the file-backed Store. It keeps the schema current with
// embedded migrations and maps rows through scanSubscription so the date
// columns stay in the YYYY-MM-DD wire format.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RIxiV1/SubSentry/internal/core"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const subscriptionColumns = `id, user_id, name, cost, billing_cycle, next_renewal_date, category, usage_frequency, last_used_date`

func (s *Store) ListSubscriptions(ctx context.Context, userID string) ([]core.Subscription, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE user_id = ? ORDER BY next_renewal_date ASC`,
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
	row := s.db.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE user_id = ? AND id = ?`,
		userID, id)

	sub, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Subscription{}, core.ErrNotFound
	}
	if err != nil {
		return core.Subscription{}, err
	}
	return sub, nil
}

func (s *Store) InsertSubscription(ctx context.Context, sub core.Subscription) error {
	var lastUsed sql.NullString
	if sub.LastUsedDate != nil {
		lastUsed = sql.NullString{String: sub.LastUsedDate.String(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscriptions (`+subscriptionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.UserID, sub.Name, sub.Cost, string(sub.BillingCycle),
		sub.NextRenewalDate.String(), string(sub.Category), string(sub.UsageFrequency), lastUsed)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

func (s *Store) UpdateSubscription(ctx context.Context, userID, id string, patch core.SubscriptionPatch) (core.Subscription, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE user_id = ? AND id = ?`,
		userID, id)

	sub, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Subscription{}, core.ErrNotFound
	}
	if err != nil {
		return core.Subscription{}, err
	}

	sub = patch.Apply(sub)

	var lastUsed sql.NullString
	if sub.LastUsedDate != nil {
		lastUsed = sql.NullString{String: sub.LastUsedDate.String(), Valid: true}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE subscriptions
		    SET name = ?, cost = ?, billing_cycle = ?, next_renewal_date = ?,
		        category = ?, usage_frequency = ?, last_used_date = ?
		  WHERE user_id = ? AND id = ?`,
		sub.Name, sub.Cost, string(sub.BillingCycle), sub.NextRenewalDate.String(),
		string(sub.Category), string(sub.UsageFrequency), lastUsed,
		userID, id)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("update subscription: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Subscription{}, fmt.Errorf("commit update: %w", err)
	}
	return sub, nil
}

func (s *Store) DeleteSubscription(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) GetBudgetSetting(ctx context.Context, userID string) (*core.BudgetSetting, error) {
	var setting core.BudgetSetting
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, monthly_budget FROM budget_settings WHERE user_id = ?`,
		userID).Scan(&setting.UserID, &setting.MonthlyBudget)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get budget setting: %w", err)
	}
	return &setting, nil
}

func (s *Store) UpsertBudgetSetting(ctx context.Context, userID string, amount float64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budget_settings (user_id, monthly_budget) VALUES (?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET monthly_budget = excluded.monthly_budget`,
		userID, amount)
	if err != nil {
		return fmt.Errorf("upsert budget setting: %w", err)
	}
	return nil
}

func (s *Store) ListSavingsEntries(ctx context.Context, userID string) ([]core.SavingsEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, subscription_name, monthly_savings, saved_at
		   FROM savings_entries WHERE user_id = ? ORDER BY saved_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list savings entries: %w", err)
	}
	defer rows.Close()

	var out []core.SavingsEntry
	for rows.Next() {
		var (
			entry   core.SavingsEntry
			savedAt string
		)
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.SubscriptionName, &entry.MonthlySavings, &savedAt); err != nil {
			return nil, fmt.Errorf("scan savings entry: %w", err)
		}
		entry.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt)
		if err != nil {
			return nil, fmt.Errorf("parse saved_at: %w", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list savings entries: %w", err)
	}
	return out, nil
}

func (s *Store) InsertSavingsEntry(ctx context.Context, entry core.SavingsEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO savings_entries (id, user_id, subscription_name, monthly_savings, saved_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.SubscriptionName, entry.MonthlySavings,
		entry.SavedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert savings entry: %w", err)
	}
	return nil
}

func (s *Store) DeleteSavingsEntry(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM savings_entries WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete savings entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete savings entry: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAllSavingsEntries(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM savings_entries WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete savings entries: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (core.Subscription, error) {
	var (
		sub      core.Subscription
		renewal  string
		lastUsed sql.NullString
	)
	err := row.Scan(&sub.ID, &sub.UserID, &sub.Name, &sub.Cost, &sub.BillingCycle,
		&renewal, &sub.Category, &sub.UsageFrequency, &lastUsed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Subscription{}, err
		}
		return core.Subscription{}, fmt.Errorf("scan subscription: %w", err)
	}

	sub.NextRenewalDate, err = core.ParseDate(renewal)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("parse next_renewal_date: %w", err)
	}
	if lastUsed.Valid {
		d, err := core.ParseDate(lastUsed.String)
		if err != nil {
			return core.Subscription{}, fmt.Errorf("parse last_used_date: %w", err)
		}
		sub.LastUsedDate = &d
	}
	return sub, nil
}
