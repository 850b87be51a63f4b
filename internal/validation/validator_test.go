package validation_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corebank/internal/domain/bankerrors"
	"corebank/internal/domain/ledger"
	"corebank/internal/domain/money"
	"corebank/internal/validation"
)

func mustAmount(t *testing.T, s string) money.Amount {
	t.Helper()
	a, err := money.FromString(s)
	require.NoError(t, err)
	return a
}

func TestAmount_Boundaries(t *testing.T) {
	assert.Equal(t, bankerrors.CodeInvalidAmount, validation.Amount(money.Zero).Code)
	assert.Equal(t, bankerrors.CodeInvalidAmount, validation.Amount(mustAmount(t, "-5.00")).Code)
	assert.Equal(t, bankerrors.CodeInvalidAmount, validation.Amount(mustAmount(t, "1.999")).Code)
	assert.Equal(t, bankerrors.CodeInvalidAmount, validation.Amount(mustAmount(t, "1000000000.01")).Code)
	assert.Nil(t, validation.Amount(mustAmount(t, "1000000000.00")))
	assert.Nil(t, validation.Amount(mustAmount(t, "0.01")))
}

func TestOperationKey_LengthBounds(t *testing.T) {
	assert.NotNil(t, validation.OperationKey(""))
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}
	assert.NotNil(t, validation.OperationKey(string(long)))
	assert.Nil(t, validation.OperationKey("k"))
}

func account(status ledger.AccountStatus, userID uuid.UUID, balance money.Amount) *ledger.Account {
	return &ledger.Account{
		ID:            uuid.New(),
		UserID:        userID,
		Status:        status,
		CachedBalance: balance,
		Currency:      "USD",
	}
}

func TestWithdraw_InsufficientFunds(t *testing.T) {
	userID := uuid.New()
	acc := account(ledger.AccountStatusActive, userID, mustAmount(t, "50.00"))

	err := validation.Withdraw(acc, userID, mustAmount(t, "100.00"))

	require.NotNil(t, err)
	assert.Equal(t, bankerrors.CodeInsufficientFunds, err.Code)
}

func TestWithdraw_FrozenAccount(t *testing.T) {
	userID := uuid.New()
	acc := account(ledger.AccountStatusFrozen, userID, mustAmount(t, "500.00"))

	err := validation.Withdraw(acc, userID, mustAmount(t, "10.00"))

	require.NotNil(t, err)
	assert.Equal(t, bankerrors.CodeAccountFrozen, err.Code)
}

func TestDeposit_NotFound(t *testing.T) {
	err := validation.Deposit(nil, uuid.New())

	require.NotNil(t, err)
	assert.Equal(t, bankerrors.CodeAccountNotFound, err.Code)
}

func TestDeposit_UnauthorizedAccess(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	acc := account(ledger.AccountStatusActive, owner, mustAmount(t, "0.00"))

	err := validation.Deposit(acc, other)

	require.NotNil(t, err)
	assert.Equal(t, bankerrors.CodeUnauthorizedAccess, err.Code)
}

// TestTransfer_PrecedenceOrder exercises the exact check ordering spec
// §4.E prescribes: existence, self-transfer, ownership, status, funds.
func TestTransfer_PrecedenceOrder(t *testing.T) {
	userID := uuid.New()
	other := uuid.New()

	t.Run("missing account wins over everything else", func(t *testing.T) {
		dest := account(ledger.AccountStatusActive, userID, mustAmount(t, "0.00"))
		err := validation.Transfer(nil, dest, userID, mustAmount(t, "10.00"))
		require.NotNil(t, err)
		assert.Equal(t, bankerrors.CodeAccountNotFound, err.Code)
	})

	t.Run("self transfer beats ownership and status checks", func(t *testing.T) {
		acc := account(ledger.AccountStatusFrozen, other, mustAmount(t, "0.00"))
		acc2 := *acc // same ID, so this is a self-transfer regardless of status/owner
		err := validation.Transfer(acc, &acc2, userID, mustAmount(t, "10.00"))
		require.NotNil(t, err)
		assert.Equal(t, bankerrors.CodeSelfTransfer, err.Code)
	})

	t.Run("ownership beats status and funds", func(t *testing.T) {
		source := account(ledger.AccountStatusFrozen, other, mustAmount(t, "0.00"))
		dest := account(ledger.AccountStatusActive, userID, mustAmount(t, "0.00"))
		err := validation.Transfer(source, dest, userID, mustAmount(t, "10.00"))
		require.NotNil(t, err)
		assert.Equal(t, bankerrors.CodeUnauthorizedAccess, err.Code)
	})

	t.Run("status beats funds", func(t *testing.T) {
		source := account(ledger.AccountStatusFrozen, userID, mustAmount(t, "0.00"))
		dest := account(ledger.AccountStatusActive, other, mustAmount(t, "0.00"))
		err := validation.Transfer(source, dest, userID, mustAmount(t, "10.00"))
		require.NotNil(t, err)
		assert.Equal(t, bankerrors.CodeAccountFrozen, err.Code)
	})

	t.Run("insufficient funds is the last check", func(t *testing.T) {
		source := account(ledger.AccountStatusActive, userID, mustAmount(t, "5.00"))
		dest := account(ledger.AccountStatusActive, other, mustAmount(t, "0.00"))
		err := validation.Transfer(source, dest, userID, mustAmount(t, "10.00"))
		require.NotNil(t, err)
		assert.Equal(t, bankerrors.CodeInsufficientFunds, err.Code)
	})

	t.Run("all checks pass", func(t *testing.T) {
		source := account(ledger.AccountStatusActive, userID, mustAmount(t, "50.00"))
		dest := account(ledger.AccountStatusActive, other, mustAmount(t, "0.00"))
		err := validation.Transfer(source, dest, userID, mustAmount(t, "10.00"))
		assert.Nil(t, err)
	})
}
