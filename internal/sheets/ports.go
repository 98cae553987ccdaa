// Package sheets holds the outbound port for the savings ledger export and
// its implementations.
package sheets

import (
	"context"

	"github.com/RIxiV1/SubSentry/internal/core"
)

// LedgerExporter writes ledger entries to an external destination. rowRef
// identifies where the entry landed so logs can point at it.
type LedgerExporter interface {
	AppendSavings(ctx context.Context, entry core.SavingsEntry) (rowRef string, err error)
}
