// Package money provides an exact fixed-point amount with two fractional digits.
//
// Amounts are backed by shopspring/decimal so that sums and products never pick up
// binary floating-point error: 0.10 + 0.20 is exactly 0.30. Intermediate results keep
// their full precision; rounding to two digits only happens when an amount is
// serialized (String, JSON, database).
package money

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits of a currency subunit.
const Places = 2

var (
	// ErrNegative is returned when constructing an amount below zero.
	ErrNegative = errors.New("money: amount must not be negative")
	// ErrPrecision is returned when an input carries more than two fractional digits.
	ErrPrecision = errors.New("money: amount has more than 2 fractional digits")
)

// Money is an exact, non-negative decimal amount. The zero value is 0.00.
type Money struct {
	d decimal.Decimal
}

// Zero is 0.00.
var Zero = Money{}

// Parse reads a decimal string such as "10.10" or "7".
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("money: parse %q: %w", s, err)
	}
	return FromDecimal(d)
}

// MustParse is Parse for constants and tests. It panics on invalid input.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// FromDecimal checks d against the domain rules (non-negative, at most two fractional digits).
func FromDecimal(d decimal.Decimal) (Money, error) {
	if d.Sign() < 0 {
		return Money{}, ErrNegative
	}
	if !d.Equal(d.Truncate(Places)) {
		return Money{}, ErrPrecision
	}
	return Money{d: d}, nil
}

// FromInt returns a whole amount of currency units.
func FromInt(units int64) Money {
	if units < 0 {
		panic(ErrNegative)
	}
	return Money{d: decimal.NewFromInt(units)}
}

// FromCents returns cents/100 units.
func FromCents(cents int64) Money {
	if cents < 0 {
		panic(ErrNegative)
	}
	return Money{d: decimal.New(cents, -Places)}
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{d: m.d.Add(o.d)}
}

// MulInt returns m × n. Quantities are always positive in this domain; a negative n panics.
func (m Money) MulInt(n int) Money {
	if n < 0 {
		panic(ErrNegative)
	}
	return Money{d: m.d.Mul(decimal.NewFromInt(int64(n)))}
}

// Equal reports whether both amounts are numerically equal ("1.5" equals "1.50").
func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }

// Cmp returns -1, 0 or +1.
func (m Money) Cmp(o Money) int { return m.d.Cmp(o.d) }

func (m Money) IsZero() bool { return m.d.IsZero() }

// Decimal exposes the underlying value.
func (m Money) Decimal() decimal.Decimal { return m.d }

// String formats the amount with exactly two fractional digits.
func (m Money) String() string { return m.d.StringFixed(Places) }

// MarshalJSON encodes the amount as a JSON string ("40.40") so clients never round-trip through a float.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts a JSON string or number literal. Number literals are parsed
// from their textual form, not through float64.
func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("money: %w", err)
	}
	v, err := FromDecimal(d)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Value implements driver.Valuer.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements sql.Scanner. Stored values are trusted and not re-validated.
func (m *Money) Scan(src any) error {
	return m.d.Scan(src)
}
