// Package memory is the in-process LedgerExporter used in development and in
// the worker tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/RIxiV1/SubSentry/internal/core"
)

type Exporter struct {
	mu      sync.Mutex
	entries []core.SavingsEntry
}

func New() *Exporter {
	return &Exporter{}
}

// AppendSavings stores the entry and returns a synthetic row reference.
func (e *Exporter) AppendSavings(_ context.Context, entry core.SavingsEntry) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = append(e.entries, entry)
	return fmt.Sprintf("mem:%d", len(e.entries)), nil
}

// Entries returns a copy of everything exported so far.
func (e *Exporter) Entries() []core.SavingsEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]core.SavingsEntry(nil), e.entries...)
}
