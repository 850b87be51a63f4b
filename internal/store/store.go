// Package store defines the narrow transactional interface the banking
// engine requires (spec §4.A). Two implementations satisfy it:
// internal/store/postgres (the production store, pgx-backed) and
// internal/store/memory (an in-process store for fast unit and property
// tests — the engine never knows which one it is talking to).
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"corebank/internal/domain/ledger"
)

// ErrVersionConflict is returned by UpdateAccount when the row's current
// version no longer matches the version the caller read. It is the only
// error the engine treats as retryable within its own retry loop (spec §5).
var ErrVersionConflict = errors.New("account version conflict")

// ErrNotFound is returned by the Find* methods when no matching row exists.
var ErrNotFound = errors.New("not found")

// ErrDuplicateTransferKey is returned by InsertTransfer when a transfer row
// with the same operation key already exists (spec §4.D, unique constraint
// defense against a duplicate-request race).
var ErrDuplicateTransferKey = errors.New("duplicate transfer operation key")

// ErrIdempotencyConflict is returned by InsertIdempotencyPlaceholder when a
// record for (key, userID) already exists. It is the signal that turns a
// racing duplicate request into Replay or InFlight instead of a second
// write (spec §4.D).
var ErrIdempotencyConflict = errors.New("idempotency key already recorded")

// Store begins transactions against the ledger's persistent store.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is a single store transaction. Every engine operation runs inside
// exactly one Tx, from the first read to the final write (spec §5).
type Tx interface {
	FindAccountByID(ctx context.Context, id uuid.UUID) (*ledger.Account, error)
	FindAccountByNumber(ctx context.Context, number string) (*ledger.Account, error)

	// UpdateAccount performs a compare-and-swap on the account row: it
	// succeeds only if the row's current version still equals
	// expectedVersion, and on success advances the version by exactly one.
	// It must signal ErrVersionConflict — never a read-then-write race —
	// when the version no longer matches (spec §4.A).
	UpdateAccount(ctx context.Context, acc *ledger.Account, expectedVersion int64) error

	InsertJournalEntry(ctx context.Context, entry *ledger.JournalEntry) error
	SumCompletedJournalEntries(ctx context.Context, accountID uuid.UUID) (sum int64, count int, err error)

	InsertTransfer(ctx context.Context, t *ledger.TransferRecord) error
	FindTransferByOperationKey(ctx context.Context, operationKey string) (*ledger.TransferRecord, error)

	FindIdempotencyRecord(ctx context.Context, key string, userID uuid.UUID) (*ledger.IdempotencyRecord, error)
	UpsertIdempotencyRecord(ctx context.Context, rec *ledger.IdempotencyRecord) error
	// InsertIdempotencyPlaceholder reserves (key, userID) for an in-flight
	// operation. It must return ErrIdempotencyConflict — never silently
	// overwrite — when a record already exists, so two concurrent callers
	// racing on the same key can never both proceed.
	InsertIdempotencyPlaceholder(ctx context.Context, key string, userID uuid.UUID, path string, now time.Time) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
