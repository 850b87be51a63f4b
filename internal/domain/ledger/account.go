package ledger

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"corebank/internal/domain/money"
)

// AccountType classifies the product behind an account.
type AccountType string

const (
	AccountTypeChecking AccountType = "CHECKING"
	AccountTypeSavings  AccountType = "SAVINGS"
	AccountTypeBusiness AccountType = "BUSINESS"
)

func (t AccountType) prefix() string {
	switch t {
	case AccountTypeChecking:
		return "CHK"
	case AccountTypeSavings:
		return "SAV"
	case AccountTypeBusiness:
		return "BUS"
	default:
		return "CHK"
	}
}

// AccountStatus is the lifecycle state of an account. Status transitions
// are driven by an external collaborator, never by the engine itself.
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "ACTIVE"
	AccountStatusFrozen AccountStatus = "FROZEN"
	AccountStatusClosed AccountStatus = "CLOSED"
)

// Account is the durable record of a single ledger account. CachedBalance
// and Version are owned exclusively by the engine (see internal/engine);
// no other component may mutate them.
type Account struct {
	ID            uuid.UUID
	AccountNumber string
	UserID        uuid.UUID
	Type          AccountType
	Status        AccountStatus
	CachedBalance money.Amount
	Currency      string
	Version       int64
	CreatedAt     time.Time
}

// GenerateAccountNumber produces an account number of the form
// {prefix}-{YYYYMMDD}-{6 hex uppercase}, drawing the random suffix from a
// cryptographic source (spec §4.B). Uniqueness is enforced by the store.
func GenerateAccountNumber(t AccountType, now time.Time) (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating account number: %w", err)
	}
	suffix := strings.ToUpper(hex.EncodeToString(buf))
	return fmt.Sprintf("%s-%s-%s", t.prefix(), now.Format("20060102"), suffix), nil
}
