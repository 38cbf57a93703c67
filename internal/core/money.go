package core

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decoded JSON argument into Money.
//
// Numbers and numeric strings are accepted; strings may use either a dot
// (12.34) or a comma (12,34) as decimal separator. Anything beyond two
// decimal places is rounded half-up. Negative values are rejected, zero is
// allowed.
//
// Examples:
//
//	ParseAmount(45.99)   -> Money{4599}, nil
//	ParseAmount("12,34") -> Money{1234}, nil
//	ParseAmount("1.005") -> Money{101}, nil (rounds up)
//	ParseAmount(-1)      -> Money{}, ErrInvalidAmount
func ParseAmount(v any) (Money, error) {
	switch a := v.(type) {
	case float64:
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return Money{}, ErrInvalidAmount
		}
		return moneyFromDecimal(decimal.NewFromFloat(a))
	case int:
		return moneyFromDecimal(decimal.NewFromInt(int64(a)))
	case int64:
		return moneyFromDecimal(decimal.NewFromInt(a))
	case json.Number:
		return ParseAmountString(string(a))
	case string:
		return ParseAmountString(a)
	default:
		return Money{}, ErrInvalidAmount
	}
}

// ParseAmountString parses a decimal string into Money.
func ParseAmountString(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return moneyFromDecimal(d)
}

func moneyFromDecimal(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Round(2).Shift(2).BigInt()
	if !cents.IsInt64() {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.Int64()}, nil
}

func MoneyFromCents(cents int64) Money {
	return Money{Cents: cents}
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Decimal returns the exact decimal value (cents shifted two places).
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String renders the amount with exactly two decimal places.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON emits a plain JSON number with two decimal places, so totals
// like 45.99 survive the wire without binary float drift.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().StringFixed(2)), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ErrInvalidAmount
	}
	parsed, err := moneyFromDecimal(d)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
