// Package validation holds the engine's pure, synchronous checks (spec
// §4.C). Nothing here touches the store; the cheap amount checks run before
// a transaction is opened, and the post-read checks run again once the
// engine has the account rows in hand.
package validation

import (
	"github.com/google/uuid"

	"corebank/internal/domain/bankerrors"
	"corebank/internal/domain/ledger"
	"corebank/internal/domain/money"
)

// Amount validates a caller-supplied amount before any store access.
func Amount(a money.Amount) *bankerrors.EngineError {
	if !a.IsPositive() {
		return bankerrors.InvalidAmount("amount must be greater than zero")
	}
	if a.GreaterThan(money.MaxAmount) {
		return bankerrors.InvalidAmount("amount exceeds the maximum of 1,000,000,000")
	}
	if a.HasExcessPrecision() {
		return bankerrors.InvalidAmount("amount cannot carry sub-cent precision")
	}
	return nil
}

// OperationKey validates a caller-supplied operation key. The spec's error
// taxonomy (§7) has no dedicated "malformed request" code, so this reuses
// CodeInvalidAmount as the general pre-transaction input-shape bucket —
// the code is a stand-in for "bad request", not a claim about the amount.
func OperationKey(key string) *bankerrors.EngineError {
	if len(key) < 1 || len(key) > 100 {
		return bankerrors.InvalidAmount("operation key must be between 1 and 100 characters")
	}
	return nil
}

// AccountAccessible runs the ownership and status checks shared by every
// operation touching a single account (deposit, withdraw, and each leg of
// a transfer).
func AccountAccessible(acc *ledger.Account, userID uuid.UUID) *bankerrors.EngineError {
	if acc == nil {
		return bankerrors.AccountNotFound()
	}
	if acc.UserID != userID {
		return bankerrors.UnauthorizedAccess()
	}
	switch acc.Status {
	case ledger.AccountStatusFrozen:
		return bankerrors.AccountFrozen()
	case ledger.AccountStatusClosed:
		return bankerrors.AccountClosed()
	}
	return nil
}

// SufficientFunds checks that an account can cover a debit of amount.
func SufficientFunds(acc *ledger.Account, amount money.Amount) *bankerrors.EngineError {
	if acc.CachedBalance.LessThan(amount) {
		return bankerrors.InsufficientFunds()
	}
	return nil
}

// Deposit runs the post-read checks for a deposit.
func Deposit(acc *ledger.Account, userID uuid.UUID) *bankerrors.EngineError {
	return AccountAccessible(acc, userID)
}

// Withdraw runs the post-read checks for a withdrawal, in the order
// spec §4.C prescribes: existence/ownership/status, then funds.
func Withdraw(acc *ledger.Account, userID uuid.UUID, amount money.Amount) *bankerrors.EngineError {
	if err := AccountAccessible(acc, userID); err != nil {
		return err
	}
	return SufficientFunds(acc, amount)
}

// Transfer runs the post-read checks for a transfer, in the exact order of
// precedence spec §4.E mandates: existence, self-transfer, ownership,
// status (both accounts), then source funds.
func Transfer(source, destination *ledger.Account, userID uuid.UUID, amount money.Amount) *bankerrors.EngineError {
	if source == nil || destination == nil {
		return bankerrors.AccountNotFound()
	}
	if source.ID == destination.ID {
		return bankerrors.SelfTransfer()
	}
	if source.UserID != userID {
		return bankerrors.UnauthorizedAccess()
	}
	if err := statusActive(source); err != nil {
		return err
	}
	if err := statusActive(destination); err != nil {
		return err
	}
	return SufficientFunds(source, amount)
}

func statusActive(acc *ledger.Account) *bankerrors.EngineError {
	switch acc.Status {
	case ledger.AccountStatusFrozen:
		return bankerrors.AccountFrozen()
	case ledger.AccountStatusClosed:
		return bankerrors.AccountClosed()
	}
	return nil
}
