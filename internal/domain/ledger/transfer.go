package ledger

import (
	"time"

	"github.com/google/uuid"

	"corebank/internal/domain/money"
)

// TransferStatus is the lifecycle state of a transfer record. Pending is
// kept as a compile-time constant to support a future two-phase flow; the
// engine's current code path always commits a transfer as Completed within
// the same transaction it was created in, so no committed row ever bears
// status Pending (spec §4.E "State machine"). Failed is reserved for
// externally reported failures and is not produced by the engine.
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "PENDING"
	TransferStatusCompleted TransferStatus = "COMPLETED"
	TransferStatusFailed    TransferStatus = "FAILED"
)

// TransferRecord identifies the paired legs of a transfer.
type TransferRecord struct {
	ID                   uuid.UUID
	SourceAccountID      uuid.UUID
	DestinationAccountID uuid.UUID
	Amount               money.Amount // unsigned
	Currency             string
	Status               TransferStatus
	Description          string
	OperationKey         string
	FailureReason        string
	CreatedAt            time.Time
	CompletedAt          time.Time
}
