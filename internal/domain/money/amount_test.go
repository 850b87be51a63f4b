package money_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corebank/internal/domain/money"
)

func TestAmount_AddSub(t *testing.T) {
	a := money.New(decimal.NewFromFloat(100.00))
	b := money.New(decimal.NewFromFloat(25.50))

	assert.Equal(t, "125.50", a.Add(b).String())
	assert.Equal(t, "74.50", a.Sub(b).String())
}

func TestAmount_FromCentsRoundTrip(t *testing.T) {
	a := money.FromCents(82550)
	assert.Equal(t, "825.50", a.String())
	assert.Equal(t, int64(82550), a.Cents())
}

func TestAmount_HasExcessPrecision(t *testing.T) {
	sub, err := money.FromString("1.999")
	require.NoError(t, err)
	assert.True(t, sub.HasExcessPrecision())

	clean, err := money.FromString("1.99")
	require.NoError(t, err)
	assert.False(t, clean.HasExcessPrecision())
}

func TestAmount_Comparisons(t *testing.T) {
	small := money.FromCents(100)
	big := money.FromCents(200)

	assert.True(t, big.GreaterThan(small))
	assert.True(t, small.LessThan(big))
	assert.True(t, small.Equal(money.FromCents(100)))
	assert.False(t, money.Zero.IsPositive())
	assert.True(t, money.FromCents(1).IsPositive())
	assert.True(t, money.FromCents(-1).IsNegative())
}

func TestAmount_JSONRoundTrip(t *testing.T) {
	original := money.FromCents(12345)

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Equal(t, `"123.45"`, string(data))

	var decoded money.Amount
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, original.Equal(decoded))
}

func TestAmount_MaxAmountBoundary(t *testing.T) {
	atMax := money.New(money.MaxAmount)
	overMax, err := money.FromString("1000000000.01")
	require.NoError(t, err)

	assert.False(t, atMax.GreaterThan(atMax))
	assert.True(t, overMax.GreaterThan(atMax))
}
