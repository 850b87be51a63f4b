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

const transferPath = "POST /transfers"

// Transfer moves amount from sourceAccountID to destinationAccountID on
// behalf of userID (spec §4.E, "Transfer"). Both legs post within the same
// store transaction: either both journal entries and both account updates
// land, or none do (spec invariant 5, "no partial transfer").
func (e *Engine) Transfer(ctx context.Context, userID, sourceAccountID, destinationAccountID uuid.UUID, amount money.Amount, operationKey, description string) (*TransferResult, *bankerrors.EngineError) {
	if err := validation.Amount(amount); err != nil {
		return nil, err
	}
	// Unlike deposit/withdraw, a transfer's operation key is mandatory (spec
	// §4.E): it is the only thing that makes InsertTransfer's dedup check
	// meaningful, so an empty key must never reach that far.
	if err := validation.OperationKey(operationKey); err != nil {
		return nil, err
	}
	if replayed, err := beginIdempotent[TransferResult](ctx, e, userID, operationKey, transferPath); err != nil {
		return nil, err
	} else if replayed != nil {
		return replayed, nil
	}

	result, engErr := runWithRetry(ctx, e, "transfer", func(ctx context.Context, tx store.Tx) (*TransferResult, *attemptError) {
		source, err := tx.FindAccountByID(ctx, sourceAccountID)
		if err != nil && err != store.ErrNotFound {
			return nil, storageFailure(err)
		}
		if err == store.ErrNotFound {
			source = nil
		}
		destination, err := tx.FindAccountByID(ctx, destinationAccountID)
		if err != nil && err != store.ErrNotFound {
			return nil, storageFailure(err)
		}
		if err == store.ErrNotFound {
			destination = nil
		}

		if verr := validation.Transfer(source, destination, userID, amount); verr != nil {
			return nil, validationFailure(verr)
		}

		sourceExpectedVersion := source.Version
		destExpectedVersion := destination.Version
		now := e.now()

		source.CachedBalance = source.CachedBalance.Sub(amount)
		destination.CachedBalance = destination.CachedBalance.Add(amount)

		transferID := uuid.New()
		transfer := &ledger.TransferRecord{
			ID:                   transferID,
			SourceAccountID:      source.ID,
			DestinationAccountID: destination.ID,
			Amount:               amount,
			Currency:             source.Currency,
			Status:               ledger.TransferStatusCompleted,
			Description:          description,
			OperationKey:         operationKey,
			CreatedAt:            now,
			CompletedAt:          now,
		}
		if err := tx.InsertTransfer(ctx, transfer); err != nil {
			if err == store.ErrDuplicateTransferKey {
				return nil, validationFailure(bankerrors.DuplicateOperation())
			}
			return nil, storageFailure(err)
		}

		debitEntry := &ledger.JournalEntry{
			ID:           uuid.New(),
			AccountID:    source.ID,
			Amount:       amount.Neg(),
			Kind:         ledger.EntryKindTransferDebit,
			Status:       ledger.EntryStatusCompleted,
			BalanceAfter: source.CachedBalance,
			TransferID:   &transferID,
			Description:  description,
			CreatedAt:    now,
		}
		if err := tx.InsertJournalEntry(ctx, debitEntry); err != nil {
			return nil, storageFailure(err)
		}
		creditEntry := &ledger.JournalEntry{
			ID:           uuid.New(),
			AccountID:    destination.ID,
			Amount:       amount,
			Kind:         ledger.EntryKindTransferCredit,
			Status:       ledger.EntryStatusCompleted,
			BalanceAfter: destination.CachedBalance,
			TransferID:   &transferID,
			Description:  description,
			CreatedAt:    now,
		}
		if err := tx.InsertJournalEntry(ctx, creditEntry); err != nil {
			return nil, storageFailure(err)
		}

		if err := tx.UpdateAccount(ctx, source, sourceExpectedVersion); err != nil {
			if err == store.ErrVersionConflict {
				return nil, versionConflict()
			}
			return nil, storageFailure(err)
		}
		if err := tx.UpdateAccount(ctx, destination, destExpectedVersion); err != nil {
			if err == store.ErrVersionConflict {
				return nil, versionConflict()
			}
			return nil, storageFailure(err)
		}

		return &TransferResult{
			TransferID:    transferID,
			SourceBalance: source.CachedBalance,
			DestBalance:   destination.CachedBalance,
			CompletedAt:   now,
		}, nil
	})
	if engErr != nil {
		return nil, engErr
	}

	logCompletedOperation("transfer", sourceAccountID, amount.Neg(), result.SourceBalance)
	recordOperation(ctx, e, userID, operationKey, transferPath, result)
	e.publish(ctx, events.Event{
		Kind:       events.KindTransfer,
		AccountID:  sourceAccountID,
		TransferID: &result.TransferID,
		Amount:     amount,
		Balance:    result.SourceBalance,
		OccurredAt: result.CompletedAt,
	})
	return result, nil
}
