// Package events defines the ledger-level events the engine emits after a
// commit and the Publisher interface that carries them to the surrounding
// system (spec §6, "Observability: ... the sink is external"). The engine
// depends only on this interface; KafkaPublisher is one implementation.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"corebank/internal/domain/money"
)

// Kind identifies the ledger event type.
type Kind string

const (
	KindDeposit                Kind = "DEPOSIT_COMPLETED"
	KindWithdrawal             Kind = "WITHDRAWAL_COMPLETED"
	KindTransfer               Kind = "TRANSFER_COMPLETED"
	KindReconciliationMismatch Kind = "RECONCILIATION_MISMATCH"
)

// Event is the payload published for a completed operation or a detected
// reconciliation mismatch.
type Event struct {
	Kind       Kind         `json:"kind"`
	AccountID  uuid.UUID    `json:"account_id"`
	TransferID *uuid.UUID   `json:"transfer_id,omitempty"`
	Amount     money.Amount `json:"amount"`
	Balance    money.Amount `json:"balance"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// Publisher carries an Event to whatever message bus or log sink the
// surrounding system provides. Publish failures must never roll back the
// operation that produced the event — the engine treats publication as
// best-effort, matching its idempotency-recording policy (spec §4.E step 5).
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// NoopPublisher discards every event; it is the Engine's default so that
// running without a configured message bus is not an error.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
