// Package worker moves recorded savings from the queue to the ledger
// exporter. Messages carry the full entry so no store access is needed here.
package worker

import (
	"context"
	"fmt"

	"github.com/RIxiV1/SubSentry/internal/amqp"
	"github.com/RIxiV1/SubSentry/internal/log"
	"github.com/RIxiV1/SubSentry/internal/sheets"
)

type ExportWorker struct {
	exporter sheets.LedgerExporter
	logger   *log.Logger
}

func NewExportWorker(exporter sheets.LedgerExporter, logger *log.Logger) *ExportWorker {
	return &ExportWorker{
		exporter: exporter,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleSavingsMessage exports one recorded saving. Returning an error makes
// the consumer requeue the delivery.
func (w *ExportWorker) HandleSavingsMessage(ctx context.Context, msg *amqp.SavingsRecordedMessage) error {
	entry := msg.Entry()

	ref, err := w.exporter.AppendSavings(ctx, entry)
	if err != nil {
		return fmt.Errorf("append savings to ledger export: %w", err)
	}

	w.logger.InfoContext(ctx, "exported savings entry",
		log.FieldEntryID, entry.ID,
		log.FieldUserID, entry.UserID,
		log.FieldSavings, entry.MonthlySavings,
		log.FieldExportRef, ref)

	return nil
}

// Run consumes savings messages until ctx is cancelled.
func (w *ExportWorker) Run(ctx context.Context, client *amqp.Client) error {
	return client.ConsumeSavingsRecorded(ctx, func(msg *amqp.SavingsRecordedMessage) error {
		return w.HandleSavingsMessage(ctx, msg)
	})
}
