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
	"corebank/internal/store/memory"
)

func mustAmount(t *testing.T, s string) money.Amount {
	t.Helper()
	a, err := money.FromString(s)
	require.NoError(t, err)
	return a
}

func newTestEngine() (*engine.Engine, *memory.Store) {
	s := memory.New()
	return engine.New(s), s
}

func seedAccount(s *memory.Store, userID uuid.UUID, balance money.Amount) ledger.Account {
	acc := ledger.Account{
		ID:            uuid.New(),
		AccountNumber: "CHK-20260305-AAAAAA",
		UserID:        userID,
		Type:          ledger.AccountTypeChecking,
		Status:        ledger.AccountStatusActive,
		CachedBalance: balance,
		Currency:      "USD",
		Version:       0,
		CreatedAt:     time.Now(),
	}
	s.SeedAccount(acc)
	return acc
}

// TestDeposit_SimpleDeposit exercises spec §8 scenario 1.
func TestDeposit_SimpleDeposit(t *testing.T) {
	eng, s := newTestEngine()
	userID := uuid.New()
	acc := seedAccount(s, userID, money.Zero)

	result, engErr := eng.Deposit(context.Background(), userID, acc.ID, mustAmount(t, "100.00"), "", "test")

	require.Nil(t, engErr)
	assert.Equal(t, "100.00", result.Balance.String())

	stored, err := eng.AccountByID(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", stored.CachedBalance.String())
	assert.Equal(t, int64(1), stored.Version)
}

func TestDeposit_DefaultsDescription(t *testing.T) {
	eng, s := newTestEngine()
	userID := uuid.New()
	acc := seedAccount(s, userID, money.Zero)

	_, engErr := eng.Deposit(context.Background(), userID, acc.ID, mustAmount(t, "10.00"), "", "")
	require.Nil(t, engErr)
}

func TestDeposit_RejectsInvalidAmounts(t *testing.T) {
	eng, s := newTestEngine()
	userID := uuid.New()
	acc := seedAccount(s, userID, money.Zero)

	cases := []string{"0.00", "-5.00", "1.999", "1000000000.01"}
	for _, c := range cases {
		_, engErr := eng.Deposit(context.Background(), userID, acc.ID, mustAmount(t, c), "", "")
		require.NotNil(t, engErr, "amount %q should be rejected", c)
		assert.Equal(t, "INVALID_AMOUNT", string(engErr.Code))
	}
}

func TestDeposit_AccountNotFound(t *testing.T) {
	eng, _ := newTestEngine()
	userID := uuid.New()

	_, engErr := eng.Deposit(context.Background(), userID, uuid.New(), mustAmount(t, "10.00"), "", "")

	require.NotNil(t, engErr)
	assert.Equal(t, "ACCOUNT_NOT_FOUND", string(engErr.Code))
}

func TestDeposit_UnauthorizedAccess(t *testing.T) {
	eng, s := newTestEngine()
	owner := uuid.New()
	other := uuid.New()
	acc := seedAccount(s, owner, money.Zero)

	_, engErr := eng.Deposit(context.Background(), other, acc.ID, mustAmount(t, "10.00"), "", "")

	require.NotNil(t, engErr)
	assert.Equal(t, "UNAUTHORIZED_ACCESS", string(engErr.Code))
}

// TestDeposit_IdempotentReplay exercises spec §8 P5: a second call with the
// same operation key returns the first call's result verbatim, with no
// further mutation.
func TestDeposit_IdempotentReplay(t *testing.T) {
	eng, s := newTestEngine()
	userID := uuid.New()
	acc := seedAccount(s, userID, money.Zero)

	first, engErr := eng.Deposit(context.Background(), userID, acc.ID, mustAmount(t, "50.00"), "dep-key-1", "first")
	require.Nil(t, engErr)

	second, engErr := eng.Deposit(context.Background(), userID, acc.ID, mustAmount(t, "50.00"), "dep-key-1", "first")
	require.Nil(t, engErr)

	assert.Equal(t, first.Balance.String(), second.Balance.String())
	assert.Equal(t, first.EntryID, second.EntryID)

	stored, err := eng.AccountByID(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "50.00", stored.CachedBalance.String())
}

// TestDeposit_ConcurrentRetry exercises spec §8 P7: N parallel deposits of
// equal amount to one account land exactly once each, regardless of how
// many OCC retries were needed.
func TestDeposit_ConcurrentRetry(t *testing.T) {
	eng, s := newTestEngine()
	userID := uuid.New()
	acc := seedAccount(s, userID, money.Zero)

	const n = 20
	amount := mustAmount(t, "5.00")

	results := make(chan bool, n)
	for i := 0; i < n; i++ {
		go func() {
			_, engErr := eng.Deposit(context.Background(), userID, acc.ID, amount, "", "concurrent")
			results <- engErr == nil
		}()
	}
	for i := 0; i < n; i++ {
		require.True(t, <-results, "unexpected deposit failure under concurrency")
	}

	stored, err := eng.AccountByID(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", stored.CachedBalance.String())
	assert.Equal(t, int64(n), stored.Version)
}
