package ledger

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyRecord deduplicates retried operations. Uniquely keyed by
// (OperationKey, UserID) — spec invariant 7.
type IdempotencyRecord struct {
	OperationKey string
	UserID       uuid.UUID
	Path         string // operation path identifier, e.g. "deposit", "withdraw", "transfer"
	Completed    bool
	ResponseBody []byte // serialized response, replayed verbatim on retry
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OperationKey is a caller-supplied opaque string identifying "the same
// intent" across retries. Length must be in [1, 100] (spec §4.B).
type OperationKey string

func (k OperationKey) Valid() bool {
	return len(k) >= 1 && len(k) <= 100
}
