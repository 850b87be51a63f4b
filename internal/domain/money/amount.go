// Package money provides the fixed-scale monetary value used throughout the
// ledger. Amounts are backed by shopspring/decimal so arithmetic stays exact
// at all times — no floating point ever appears in a balance calculation.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of digits kept after the decimal point.
const Scale = 2

// MaxAmount is the largest amount the engine will accept for a single
// operation (spec §4.C).
var MaxAmount = decimal.NewFromInt(1_000_000_000)

// Amount is a monetary value rendered with Scale digits after the point.
// New and FromCents produce values at Scale; FromString keeps whatever
// precision its input carries, so HasExcessPrecision can detect sub-cent
// input.
type Amount struct {
	d decimal.Decimal
}

// Zero is the additive identity.
var Zero = Amount{d: decimal.Zero}

// New builds an Amount from a decimal.Decimal, rounding to Scale.
func New(d decimal.Decimal) Amount {
	return Amount{d: d.Round(Scale)}
}

// FromCents builds an Amount from an integer number of cents.
func FromCents(cents int64) Amount {
	return Amount{d: decimal.New(cents, -int32(Scale))}
}

// FromString parses a decimal string (e.g. "100.00") into an Amount.
func FromString(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{d: d}, nil
}

func (a Amount) Decimal() decimal.Decimal { return a.d }

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }
func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }
func (a Amount) Neg() Amount         { return Amount{d: a.d.Neg()} }

func (a Amount) IsPositive() bool { return a.d.IsPositive() }
func (a Amount) IsNegative() bool { return a.d.IsNegative() }
func (a Amount) IsZero() bool     { return a.d.IsZero() }

func (a Amount) GreaterThan(b Amount) bool        { return a.d.GreaterThan(b.d) }
func (a Amount) GreaterThanOrEqual(b Amount) bool { return a.d.GreaterThanOrEqual(b.d) }
func (a Amount) LessThan(b Amount) bool           { return a.d.LessThan(b.d) }
func (a Amount) Equal(b Amount) bool              { return a.d.Equal(b.d) }

func (a Amount) String() string { return a.d.StringFixed(Scale) }

// Cents returns the amount as an integer count of the smallest currency
// unit, assuming Scale == 2. Used by storage layers that persist integers.
func (a Amount) Cents() int64 {
	return a.d.Shift(int32(Scale)).Round(0).IntPart()
}

// HasExcessPrecision reports whether rounding to Scale digits would change
// the value — i.e. the caller supplied sub-cent precision.
func (a Amount) HasExcessPrecision() bool {
	return !a.d.Equal(a.d.Round(Scale))
}

// MarshalJSON renders the amount as a plain decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON parses a JSON string containing a decimal amount.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := FromString(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
