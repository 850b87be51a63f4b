package engine_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWithdraw_InsufficientFunds exercises spec §8 scenario 2: balance is
// unchanged and no journal entry is written when funds are insufficient.
func TestWithdraw_InsufficientFunds(t *testing.T) {
	eng, s := newTestEngine()
	userID := uuid.New()
	acc := seedAccount(s, userID, mustAmount(t, "50.00"))

	_, engErr := eng.Withdraw(context.Background(), userID, acc.ID, mustAmount(t, "100.00"), "", "")

	require.NotNil(t, engErr)
	assert.Equal(t, "INSUFFICIENT_FUNDS", string(engErr.Code))

	stored, err := eng.AccountByID(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "50.00", stored.CachedBalance.String())
	assert.Equal(t, int64(0), stored.Version)
}

func TestWithdraw_Success(t *testing.T) {
	eng, s := newTestEngine()
	userID := uuid.New()
	acc := seedAccount(s, userID, mustAmount(t, "100.00"))

	result, engErr := eng.Withdraw(context.Background(), userID, acc.ID, mustAmount(t, "40.00"), "", "atm")

	require.Nil(t, engErr)
	assert.Equal(t, "60.00", result.Balance.String())
}

func TestWithdraw_FrozenAccount(t *testing.T) {
	eng, s := newTestEngine()
	userID := uuid.New()
	acc := seedAccount(s, userID, mustAmount(t, "100.00"))
	acc.Status = "FROZEN"
	s.SeedAccount(acc)

	_, engErr := eng.Withdraw(context.Background(), userID, acc.ID, mustAmount(t, "10.00"), "", "")

	require.NotNil(t, engErr)
	assert.Equal(t, "ACCOUNT_FROZEN", string(engErr.Code))
}

func TestWithdraw_ClosedAccount(t *testing.T) {
	eng, s := newTestEngine()
	userID := uuid.New()
	acc := seedAccount(s, userID, mustAmount(t, "100.00"))
	acc.Status = "CLOSED"
	s.SeedAccount(acc)

	_, engErr := eng.Withdraw(context.Background(), userID, acc.ID, mustAmount(t, "10.00"), "", "")

	require.NotNil(t, engErr)
	assert.Equal(t, "ACCOUNT_CLOSED", string(engErr.Code))
}
