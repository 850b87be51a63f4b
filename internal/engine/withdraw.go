package engine

import (
	"context"

	"github.com/google/uuid"

	"corebank/internal/domain/bankerrors"
	"corebank/internal/domain/ledger"
	"corebank/internal/domain/money"
	"corebank/internal/events"
	"corebank/internal/store"
	"corebank/internal/validation"
)

const withdrawPath = "POST /accounts/withdraw"

// Withdraw debits amount from accountID on behalf of userID (spec §4.E,
// "Withdraw"). Same replay semantics as Deposit.
func (e *Engine) Withdraw(ctx context.Context, userID, accountID uuid.UUID, amount money.Amount, operationKey, description string) (*WithdrawResult, *bankerrors.EngineError) {
	if err := validation.Amount(amount); err != nil {
		return nil, err
	}
	if operationKey != "" {
		if err := validation.OperationKey(operationKey); err != nil {
			return nil, err
		}
	}
	if replayed, err := beginIdempotent[WithdrawResult](ctx, e, userID, operationKey, withdrawPath); err != nil {
		return nil, err
	} else if replayed != nil {
		return replayed, nil
	}

	result, engErr := runWithRetry(ctx, e, "withdraw", func(ctx context.Context, tx store.Tx) (*WithdrawResult, *attemptError) {
		acc, err := tx.FindAccountByID(ctx, accountID)
		if err != nil && err != store.ErrNotFound {
			return nil, storageFailure(err)
		}
		if err == store.ErrNotFound {
			acc = nil
		}
		if verr := validation.Withdraw(acc, userID, amount); verr != nil {
			return nil, validationFailure(verr)
		}

		expectedVersion := acc.Version
		acc.CachedBalance = acc.CachedBalance.Sub(amount)

		entry := &ledger.JournalEntry{
			ID:           uuid.New(),
			AccountID:    acc.ID,
			Amount:       amount.Neg(),
			Kind:         ledger.EntryKindWithdrawal,
			Status:       ledger.EntryStatusCompleted,
			BalanceAfter: acc.CachedBalance,
			Description:  description,
			CreatedAt:    e.now(),
		}
		if err := tx.InsertJournalEntry(ctx, entry); err != nil {
			return nil, storageFailure(err)
		}
		if err := tx.UpdateAccount(ctx, acc, expectedVersion); err != nil {
			if err == store.ErrVersionConflict {
				return nil, versionConflict()
			}
			return nil, storageFailure(err)
		}

		return &WithdrawResult{AccountID: acc.ID, Balance: acc.CachedBalance, EntryID: entry.ID}, nil
	})
	if engErr != nil {
		return nil, engErr
	}

	logCompletedOperation("withdraw", result.AccountID, amount, result.Balance)
	recordOperation(ctx, e, userID, operationKey, withdrawPath, result)
	e.publish(ctx, events.Event{
		Kind:       events.KindWithdrawal,
		AccountID:  result.AccountID,
		Amount:     amount,
		Balance:    result.Balance,
		OccurredAt: e.now(),
	})
	return result, nil
}
