// Package engine is the only component that writes journal entries or
// mutates account rows (spec §4.E). Every operation — Deposit, Withdraw,
// Transfer — is wrapped in the same template: validate cheaply, consult
// idempotency, run a bounded retry loop over a store transaction, and
// record the result. No other package may reach into the store to change a
// balance or append a journal entry.
package engine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"corebank/internal/domain/bankerrors"
	"corebank/internal/domain/ledger"
	"corebank/internal/domain/money"
	"corebank/internal/events"
	"corebank/internal/idempotency"
	"corebank/internal/logging"
	"corebank/internal/store"
	"corebank/internal/telemetry"
)

// Retry policy (spec §5): up to MaxAttempts total attempts, waiting
// baseBackoff * 2^(attempt-1) between them.
const (
	MaxAttempts = 3
	baseBackoff = 50 * time.Millisecond
)

// Clock abstracts time.Now so tests can control timestamps deterministically.
type Clock func() time.Time

// Engine orchestrates deposit, withdraw, and transfer operations against a
// Store, under optimistic concurrency control with bounded retry.
type Engine struct {
	Store  store.Store
	Now    Clock
	Events events.Publisher
}

func New(s store.Store) *Engine {
	return &Engine{Store: s, Now: time.Now, Events: events.NoopPublisher{}}
}

// AccountByID looks up an account by internal ID, read-only.
func (e *Engine) AccountByID(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	tx, err := e.Store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)
	return tx.FindAccountByID(ctx, id)
}

// AccountByNumber looks up an account by its human-readable account number,
// read-only. Transport layers use this to translate the account-number
// identifiers callers supply (spec §6) into the internal IDs the engine's
// operations take.
func (e *Engine) AccountByNumber(ctx context.Context, number string) (*ledger.Account, error) {
	tx, err := e.Store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)
	return tx.FindAccountByNumber(ctx, number)
}

func (e *Engine) publish(ctx context.Context, evt events.Event) {
	if e.Events == nil {
		return
	}
	if err := e.Events.Publish(ctx, evt); err != nil {
		logging.Warn("failed to publish ledger event", map[string]any{
			"kind": string(evt.Kind), "error": err.Error(),
		})
	}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// DepositResult, WithdrawResult, TransferResult are the full success
// results the engine returns — and exactly what gets serialized into an
// idempotency record for replay.
type DepositResult struct {
	AccountID uuid.UUID    `json:"account_id"`
	Balance   money.Amount `json:"balance"`
	EntryID   uuid.UUID    `json:"entry_id"`
}

type WithdrawResult struct {
	AccountID uuid.UUID    `json:"account_id"`
	Balance   money.Amount `json:"balance"`
	EntryID   uuid.UUID    `json:"entry_id"`
}

type TransferResult struct {
	TransferID    uuid.UUID    `json:"transfer_id"`
	SourceBalance money.Amount `json:"source_balance"`
	DestBalance   money.Amount `json:"dest_balance"`
	CompletedAt   time.Time    `json:"completed_at"`
}

// backoffFor returns the wait before retry attempt N (1-indexed: the wait
// taken after attempt N failed, before attempt N+1).
func backoffFor(attempt int) time.Duration {
	d := baseBackoff
	for i := 1; i < attempt; i++ {
		d *= 2
	}
	return d
}

// sleep waits for d or until ctx is cancelled, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// attemptError distinguishes, inside a single attempt, between "the
// validator rejected this" (abort, no retry), "the store detected a
// version conflict" (retry), and "an unrelated store failure happened"
// (abort, surfaced as STORAGE_ERROR).
type attemptError struct {
	engine    *bankerrors.EngineError // non-nil: abort, surface this
	retryable bool                    // true: this attempt lost a version race
}

func validationFailure(ee *bankerrors.EngineError) *attemptError {
	return &attemptError{engine: ee}
}

func storageFailure(err error) *attemptError {
	return &attemptError{engine: bankerrors.StorageError(err)}
}

func versionConflict() *attemptError {
	return &attemptError{retryable: true}
}

// runWithRetry is the common retry-loop shell used by Deposit, Withdraw,
// and Transfer (spec §4.E step 3-4, §5). fn runs one attempt inside a fresh
// transaction, reading and writing through tx; it signals outcome via the
// returned *attemptError (nil on success). operation names the caller for
// the retry/error metrics recorded along the way.
func runWithRetry[T any](ctx context.Context, e *Engine, operation string, fn func(ctx context.Context, tx store.Tx) (T, *attemptError)) (T, *bankerrors.EngineError) {
	var zero T
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		tx, err := e.Store.Begin(ctx)
		if err != nil {
			return zero, bankerrors.StorageError(err)
		}

		result, attemptErr := fn(ctx, tx)
		if attemptErr != nil {
			_ = tx.Rollback(ctx)
			if attemptErr.retryable {
				if attempt < MaxAttempts {
					telemetry.RecordRetry(operation)
					if sleepErr := sleep(ctx, backoffFor(attempt)); sleepErr != nil {
						return zero, bankerrors.StorageError(sleepErr)
					}
					continue
				}
				engErr := bankerrors.ConcurrencyConflict()
				telemetry.RecordEngineError(operation, string(engErr.Code))
				return zero, engErr
			}
			telemetry.RecordEngineError(operation, string(attemptErr.engine.Code))
			return zero, attemptErr.engine
		}

		if commitErr := tx.Commit(ctx); commitErr != nil {
			// A store may only detect a lost-update race at commit time (the
			// in-memory store does: the CAS check and the write it guards
			// cannot be split across two lock acquisitions), so a commit-time
			// version conflict drives the same bounded retry as one detected
			// earlier inside fn.
			if commitErr == store.ErrVersionConflict {
				if attempt < MaxAttempts {
					telemetry.RecordRetry(operation)
					if sleepErr := sleep(ctx, backoffFor(attempt)); sleepErr != nil {
						return zero, bankerrors.StorageError(sleepErr)
					}
					continue
				}
				engErr := bankerrors.ConcurrencyConflict()
				telemetry.RecordEngineError(operation, string(engErr.Code))
				return zero, engErr
			}
			engErr := bankerrors.StorageError(commitErr)
			telemetry.RecordEngineError(operation, string(engErr.Code))
			return zero, engErr
		}
		return result, nil
	}
	engErr := bankerrors.ConcurrencyConflict()
	telemetry.RecordEngineError(operation, string(engErr.Code))
	return zero, engErr
}

// beginIdempotent consults the idempotency layer for (key, userID) before an
// operation runs (spec §4.D, §4.E step 2). key == "" means the caller asked
// for no deduplication: Proceed is returned unconditionally. Otherwise it
// reports one of:
//   - replayed != nil: a prior call already completed; decode and return it
//     verbatim without touching the store again.
//   - engErr != nil: the key is in flight from a concurrent call.
//   - both nil: no record exists yet; the caller must run the operation and
//     call recordOperation on success.
func beginIdempotent[T any](ctx context.Context, e *Engine, userID uuid.UUID, key, path string) (replayed *T, engErr *bankerrors.EngineError) {
	if key == "" {
		return nil, nil
	}
	tx, err := e.Store.Begin(ctx)
	if err != nil {
		return nil, bankerrors.StorageError(err)
	}
	defer tx.Rollback(ctx)

	outcome, body, err := idempotency.Begin(ctx, tx, userID, key, path, e.now())
	if err != nil {
		return nil, bankerrors.StorageError(err)
	}
	switch outcome {
	case idempotency.Replay:
		var result T
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, bankerrors.StorageError(err)
		}
		return &result, nil
	case idempotency.InFlight:
		return nil, bankerrors.DuplicateOperation()
	default:
		if err := tx.Commit(ctx); err != nil {
			return nil, bankerrors.StorageError(err)
		}
		return nil, nil
	}
}

func recordOperation(ctx context.Context, e *Engine, userID uuid.UUID, key, path string, result any) {
	if key == "" {
		return
	}
	body, err := json.Marshal(result)
	if err != nil {
		logging.Warn("failed to marshal idempotency response body", map[string]any{"path": path, "error": err.Error()})
		return
	}
	if err := idempotency.Record(ctx, e.Store, userID, key, path, body); err != nil {
		logging.Warn("failed to record idempotency result; replay semantics weakened for this key", map[string]any{
			"path": path, "operation_key": key, "error": err.Error(),
		})
	}
}

func logCompletedOperation(kind string, accountID uuid.UUID, amount money.Amount, balance money.Amount) {
	logging.Info("banking operation completed", map[string]any{
		"operation": kind,
		"account_id": accountID.String(),
		"amount":     amount.String(),
		"balance":    balance.String(),
	})
	telemetry.RecordOperation(kind, "success")
}
