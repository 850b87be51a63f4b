// Package reconcile implements the read-only consistency check of spec
// §4.F: an account's cached balance must always equal the sum of its
// completed journal entries. It never mutates anything — a mismatch is a
// bug to report, not a drift to silently correct.
package reconcile

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"corebank/internal/domain/money"
	"corebank/internal/events"
	"corebank/internal/logging"
	"corebank/internal/store"
	"corebank/internal/telemetry"
)

// Report is the result of reconciling a single account.
type Report struct {
	AccountID     uuid.UUID    `json:"account_id"`
	CachedBalance money.Amount `json:"cached_balance"`
	LedgerBalance money.Amount `json:"ledger_balance"`
	EntryCount    int          `json:"entry_count"`
	Reconciled    bool         `json:"reconciled"`
}

// Reconciler runs the check against a Store.
type Reconciler struct {
	Store  store.Store
	Events events.Publisher
}

func New(s store.Store) *Reconciler {
	return &Reconciler{Store: s, Events: events.NoopPublisher{}}
}

// Account compares accountID's cached balance to the sum of its completed
// journal entries. A mismatch is logged at ERROR (never corrected here) and
// counted in the ledger_reconciliation_mismatches_total metric.
func (r *Reconciler) Account(ctx context.Context, accountID uuid.UUID) (*Report, error) {
	tx, err := r.Store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconcile: beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	acc, err := tx.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("reconcile: loading account: %w", err)
	}

	sumCents, count, err := tx.SumCompletedJournalEntries(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("reconcile: summing journal entries: %w", err)
	}
	ledgerBalance := money.FromCents(sumCents)

	report := &Report{
		AccountID:     accountID,
		CachedBalance: acc.CachedBalance,
		LedgerBalance: ledgerBalance,
		EntryCount:    count,
		Reconciled:    acc.CachedBalance.Equal(ledgerBalance),
	}

	if !report.Reconciled {
		telemetry.RecordReconciliationMismatch()
		logging.Error("reconciliation mismatch detected", nil, map[string]any{
			"account_id":     accountID.String(),
			"cached_balance": acc.CachedBalance.String(),
			"ledger_balance": ledgerBalance.String(),
			"entry_count":    count,
		})
		if r.Events != nil {
			_ = r.Events.Publish(ctx, events.Event{
				Kind:      events.KindReconciliationMismatch,
				AccountID: accountID,
				Amount:    ledgerBalance,
				Balance:   acc.CachedBalance,
			})
		}
	}

	return report, nil
}
