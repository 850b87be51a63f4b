package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corebank/internal/domain/ledger"
	"corebank/internal/domain/money"
	"corebank/internal/engine"
	"corebank/internal/store"
	"corebank/internal/store/memory"
)

// alwaysConflictingStore wraps a memory.Store and forces every UpdateAccount
// call to report a version conflict, so the engine's bounded retry budget
// (spec §5: 3 attempts) can be exercised deterministically.
type alwaysConflictingStore struct {
	inner *memory.Store
}

func (s *alwaysConflictingStore) Begin(ctx context.Context) (store.Tx, error) {
	tx, err := s.inner.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &conflictingTx{Tx: tx}, nil
}

type conflictingTx struct {
	store.Tx
}

func (t *conflictingTx) UpdateAccount(ctx context.Context, acc *ledger.Account, expectedVersion int64) error {
	return store.ErrVersionConflict
}

func TestDeposit_ExhaustsRetryBudgetOnPersistentConflict(t *testing.T) {
	inner := memory.New()
	userID := uuid.New()
	accID := uuid.New()
	inner.SeedAccount(ledger.Account{
		ID:            accID,
		AccountNumber: "CHK-20260305-EEEEEE",
		UserID:        userID,
		Status:        ledger.AccountStatusActive,
		CachedBalance: money.Zero,
		Currency:      "USD",
		CreatedAt:     time.Now(),
	})

	eng := engine.New(&alwaysConflictingStore{inner: inner})

	start := time.Now()
	_, engErr := eng.Deposit(context.Background(), userID, accID, mustAmount(t, "10.00"), "", "")
	elapsed := time.Since(start)

	require.NotNil(t, engErr)
	assert.Equal(t, "CONCURRENCY_CONFLICT", string(engErr.Code))
	// three attempts, two backoffs of 50ms and 100ms between them (spec §5).
	assert.GreaterOrEqual(t, elapsed, 150*time.Millisecond)
}
