// Package services orchestrates writes across the store and the export
// queue. Reads go straight to the store; every mutation passes through here
// so validation and publishing happen in one place.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/RIxiV1/SubSentry/internal/amqp"
	"github.com/RIxiV1/SubSentry/internal/core"
	"github.com/RIxiV1/SubSentry/internal/log"
	"github.com/RIxiV1/SubSentry/internal/store"
)

// SavingsPublisher announces recorded savings to the export pipeline.
type SavingsPublisher interface {
	PublishSavingsRecorded(ctx context.Context, msg *amqp.SavingsRecordedMessage) error
}

type SubscriptionService struct {
	store     store.Store
	publisher SavingsPublisher
	logger    *log.Logger
	now       func() time.Time
}

// NewSubscriptionService wires the service. publisher may be nil, in which
// case recorded savings stay local.
func NewSubscriptionService(st store.Store, publisher SavingsPublisher, logger *log.Logger) *SubscriptionService {
	return &SubscriptionService{
		store:     st,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentSubscription),
		now:       time.Now,
	}
}

// Create validates the subscription and persists it under a fresh ID.
func (s *SubscriptionService) Create(ctx context.Context, userID string, sub core.Subscription) (core.Subscription, error) {
	sub.ID = uuid.NewString()
	sub.UserID = userID

	if err := sub.Validate(); err != nil {
		return core.Subscription{}, err
	}

	if err := s.store.InsertSubscription(ctx, sub); err != nil {
		return core.Subscription{}, fmt.Errorf("insert subscription: %w", err)
	}

	s.logger.InfoContext(ctx, "subscription created",
		log.FieldUserID, userID,
		log.FieldSubscription, sub.ID,
		log.FieldName, sub.Name)

	return sub, nil
}

// Update applies a partial change to an existing subscription.
func (s *SubscriptionService) Update(ctx context.Context, userID, id string, patch core.SubscriptionPatch) (core.Subscription, error) {
	if err := patch.Validate(); err != nil {
		return core.Subscription{}, err
	}

	sub, err := s.store.UpdateSubscription(ctx, userID, id, patch)
	if err != nil {
		return core.Subscription{}, err
	}

	s.logger.InfoContext(ctx, "subscription updated",
		log.FieldUserID, userID,
		log.FieldSubscription, id)

	return sub, nil
}

// Cancel records the subscription's monthly cost in the savings ledger and
// removes the subscription. The ledger insert happens first; if the delete
// then fails the entry is removed again and the cancel reports failure.
func (s *SubscriptionService) Cancel(ctx context.Context, userID, id string) (core.SavingsEntry, error) {
	sub, err := s.store.GetSubscription(ctx, userID, id)
	if err != nil {
		return core.SavingsEntry{}, err
	}

	entry := core.SavingsEntry{
		ID:               uuid.NewString(),
		UserID:           userID,
		SubscriptionName: sub.Name,
		MonthlySavings:   sub.MonthlyEquivalent(),
		SavedAt:          s.now(),
	}

	if err := s.store.InsertSavingsEntry(ctx, entry); err != nil {
		return core.SavingsEntry{}, fmt.Errorf("record savings: %w", err)
	}

	if err := s.store.DeleteSubscription(ctx, userID, id); err != nil {
		if rbErr := s.store.DeleteSavingsEntry(ctx, userID, entry.ID); rbErr != nil {
			s.logger.ErrorContext(ctx, "failed to roll back savings entry",
				log.FieldEntryID, entry.ID,
				log.FieldError, rbErr)
		}
		return core.SavingsEntry{}, fmt.Errorf("delete subscription: %w", err)
	}

	s.logger.InfoContext(ctx, "subscription cancelled",
		log.FieldUserID, userID,
		log.FieldSubscription, id,
		log.FieldSavings, entry.MonthlySavings)

	// Export is best effort. The cancel already succeeded locally.
	if s.publisher != nil {
		if err := s.publisher.PublishSavingsRecorded(ctx, amqp.NewSavingsRecordedMessage(entry)); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish savings message",
				log.FieldEntryID, entry.ID,
				log.FieldError, err)
		}
	}

	return entry, nil
}

// SetBudget validates and stores the user's monthly budget.
func (s *SubscriptionService) SetBudget(ctx context.Context, userID string, amount float64) error {
	if err := core.ValidateBudget(amount); err != nil {
		return err
	}

	if err := s.store.UpsertBudgetSetting(ctx, userID, amount); err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}

	s.logger.InfoContext(ctx, "budget updated", log.FieldUserID, userID, "budget", amount)
	return nil
}
