package ledger_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corebank/internal/domain/ledger"
)

var accountNumberPattern = regexp.MustCompile(`^(CHK|SAV|BUS)-\d{8}-[0-9A-F]{6}$`)

func TestGenerateAccountNumber_Format(t *testing.T) {
	now := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		typ    ledger.AccountType
		prefix string
	}{
		{ledger.AccountTypeChecking, "CHK"},
		{ledger.AccountTypeSavings, "SAV"},
		{ledger.AccountTypeBusiness, "BUS"},
	}
	for _, c := range cases {
		number, err := ledger.GenerateAccountNumber(c.typ, now)
		require.NoError(t, err)
		assert.Len(t, number, 19)
		assert.Regexp(t, accountNumberPattern, number)
		assert.Contains(t, number, c.prefix+"-20260305-")
	}
}

func TestGenerateAccountNumber_Unique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		number, err := ledger.GenerateAccountNumber(ledger.AccountTypeChecking, now)
		require.NoError(t, err)
		assert.False(t, seen[number], "account number collision: %s", number)
		seen[number] = true
	}
}
