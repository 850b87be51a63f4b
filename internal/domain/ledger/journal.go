package ledger

import (
	"time"

	"github.com/google/uuid"

	"corebank/internal/domain/money"
)

// EntryKind identifies what kind of movement a journal entry records.
type EntryKind string

const (
	EntryKindDeposit         EntryKind = "DEPOSIT"
	EntryKindWithdrawal      EntryKind = "WITHDRAWAL"
	EntryKindTransferDebit   EntryKind = "TRANSFER_DEBIT"
	EntryKindTransferCredit  EntryKind = "TRANSFER_CREDIT"
)

// EntryStatus tracks the lifecycle of a journal entry. In the current
// engine, only Completed is ever produced; Failed and Reversed exist so a
// future compensating-entry flow has somewhere to live (spec §3).
type EntryStatus string

const (
	EntryStatusCompleted EntryStatus = "COMPLETED"
	EntryStatusFailed    EntryStatus = "FAILED"
	EntryStatusReversed  EntryStatus = "REVERSED"
)

// JournalEntry is the atomic, append-only accounting record. Once written
// with status Completed it is never updated or deleted (spec invariant 6).
type JournalEntry struct {
	ID            uuid.UUID
	AccountID     uuid.UUID
	Amount        money.Amount // signed: positive = credit, negative = debit
	Kind          EntryKind
	Status        EntryStatus
	BalanceAfter  money.Amount
	TransferID    *uuid.UUID // present iff Kind is TransferDebit/TransferCredit
	Description   string
	CreatedAt     time.Time
}
