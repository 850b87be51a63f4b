package reconcile_test

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
	"corebank/internal/reconcile"
	"corebank/internal/store/memory"
)

func mustAmount(t *testing.T, s string) money.Amount {
	t.Helper()
	a, err := money.FromString(s)
	require.NoError(t, err)
	return a
}

// TestReconciler_MixedOperations exercises spec §8 scenario 5.
func TestReconciler_MixedOperations(t *testing.T) {
	s := memory.New()
	eng := engine.New(s)
	rec := reconcile.New(s)

	userID := uuid.New()
	acc := ledger.Account{
		ID:            uuid.New(),
		AccountNumber: "CHK-20260305-BBBBBB",
		UserID:        userID,
		Type:          ledger.AccountTypeChecking,
		Status:        ledger.AccountStatusActive,
		CachedBalance: money.Zero,
		Currency:      "USD",
		CreatedAt:     time.Now(),
	}
	s.SeedAccount(acc)

	ctx := context.Background()
	_, engErr := eng.Deposit(ctx, userID, acc.ID, mustAmount(t, "1000.00"), "", "")
	require.Nil(t, engErr)
	_, engErr = eng.Withdraw(ctx, userID, acc.ID, mustAmount(t, "250.00"), "", "")
	require.Nil(t, engErr)
	_, engErr = eng.Deposit(ctx, userID, acc.ID, mustAmount(t, "75.50"), "", "")
	require.Nil(t, engErr)

	report, err := rec.Account(ctx, acc.ID)
	require.NoError(t, err)

	assert.Equal(t, "825.50", report.CachedBalance.String())
	assert.Equal(t, "825.50", report.LedgerBalance.String())
	assert.True(t, report.Reconciled)
	assert.Equal(t, 3, report.EntryCount)
}

func TestReconciler_SimpleDepositReconciles(t *testing.T) {
	s := memory.New()
	eng := engine.New(s)
	rec := reconcile.New(s)

	userID := uuid.New()
	acc := ledger.Account{
		ID:            uuid.New(),
		AccountNumber: "CHK-20260305-CCCCCC",
		UserID:        userID,
		Status:        ledger.AccountStatusActive,
		CachedBalance: money.Zero,
		Currency:      "USD",
		CreatedAt:     time.Now(),
	}
	s.SeedAccount(acc)

	ctx := context.Background()
	_, engErr := eng.Deposit(ctx, userID, acc.ID, mustAmount(t, "100.00"), "", "test")
	require.Nil(t, engErr)

	report, err := rec.Account(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, report.Reconciled)
}
