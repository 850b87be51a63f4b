// Package idempotency implements the deduplication layer the engine
// consults before attempting any write (spec §4.D). Begin runs inside a
// store.Tx the caller supplies; Record opens its own short transaction after
// the guarded operation has committed. Neither shares a transaction with the
// operation itself.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"corebank/internal/domain/ledger"
	"corebank/internal/store"
)

// Outcome is the result of consulting the idempotency layer for a key.
type Outcome int

const (
	// Proceed means no record exists yet; the caller must execute the
	// operation and call Record on success.
	Proceed Outcome = iota
	// Replay means the operation already completed; Begin's returned body
	// holds the response to return verbatim.
	Replay
	// InFlight means a record exists but is not yet marked complete —
	// another attempt at the same key is concurrently in progress.
	InFlight
)

// Begin reserves (key, userID) for this call by inserting a placeholder
// record. The insert itself is the concurrency check: if another call
// already reserved or completed this key, the unique constraint on
// (operation_key, user_id) rejects the insert and Begin reports Replay or
// InFlight instead of letting two callers both proceed (spec §4.D).
func Begin(ctx context.Context, tx store.Tx, userID uuid.UUID, key, path string, now time.Time) (Outcome, []byte, error) {
	err := tx.InsertIdempotencyPlaceholder(ctx, key, userID, path, now)
	if err == nil {
		return Proceed, nil, nil
	}
	if !errors.Is(err, store.ErrIdempotencyConflict) {
		return Proceed, nil, err
	}

	rec, findErr := tx.FindIdempotencyRecord(ctx, key, userID)
	if findErr != nil {
		return Proceed, nil, findErr
	}
	if rec.Completed {
		return Replay, rec.ResponseBody, nil
	}
	return InFlight, nil, nil
}

// Record writes the completed record with its response body attached, in
// its own short transaction. It runs after the operation's own transaction
// has already committed (spec §4.E step 5: "best-effort; a failure to
// record does NOT fail the operation — it only weakens replay semantics
// for this key"), so it cannot simply reuse that transaction.
func Record(ctx context.Context, s store.Store, userID uuid.UUID, key, path string, body []byte) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	if err := tx.UpsertIdempotencyRecord(ctx, &ledger.IdempotencyRecord{
		OperationKey: key,
		UserID:       userID,
		Path:         path,
		Completed:    true,
		ResponseBody: body,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
