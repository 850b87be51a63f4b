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

const depositPath = "POST /accounts/deposit"

// Deposit credits amount to accountID on behalf of userID (spec §4.E,
// "Deposit"). operationKey, if non-empty, guards the call against replay:
// a second call with the same key returns the first call's result verbatim
// without crediting the account again. An empty description is recorded as
// "Cash deposit".
func (e *Engine) Deposit(ctx context.Context, userID, accountID uuid.UUID, amount money.Amount, operationKey, description string) (*DepositResult, *bankerrors.EngineError) {
	if err := validation.Amount(amount); err != nil {
		return nil, err
	}
	if description == "" {
		description = "Cash deposit"
	}
	if operationKey != "" {
		if err := validation.OperationKey(operationKey); err != nil {
			return nil, err
		}
	}
	if replayed, err := beginIdempotent[DepositResult](ctx, e, userID, operationKey, depositPath); err != nil {
		return nil, err
	} else if replayed != nil {
		return replayed, nil
	}

	result, engErr := runWithRetry(ctx, e, "deposit", func(ctx context.Context, tx store.Tx) (*DepositResult, *attemptError) {
		acc, err := tx.FindAccountByID(ctx, accountID)
		if err != nil && err != store.ErrNotFound {
			return nil, storageFailure(err)
		}
		if err == store.ErrNotFound {
			acc = nil
		}
		if verr := validation.Deposit(acc, userID); verr != nil {
			return nil, validationFailure(verr)
		}

		expectedVersion := acc.Version
		acc.CachedBalance = acc.CachedBalance.Add(amount)

		entry := &ledger.JournalEntry{
			ID:           uuid.New(),
			AccountID:    acc.ID,
			Amount:       amount,
			Kind:         ledger.EntryKindDeposit,
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

		return &DepositResult{AccountID: acc.ID, Balance: acc.CachedBalance, EntryID: entry.ID}, nil
	})
	if engErr != nil {
		return nil, engErr
	}

	logCompletedOperation("deposit", result.AccountID, amount, result.Balance)
	recordOperation(ctx, e, userID, operationKey, depositPath, result)
	e.publish(ctx, events.Event{
		Kind:       events.KindDeposit,
		AccountID:  result.AccountID,
		Amount:     amount,
		Balance:    result.Balance,
		OccurredAt: e.now(),
	})
	return result, nil
}
