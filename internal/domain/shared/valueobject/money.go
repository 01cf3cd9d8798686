package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a value object representing a monetary amount in the tenant's
// currency. It is immutable - all operations return new Money instances.
// Amounts are kept as exact decimals; binary floating point is never used
// for storage or arithmetic.
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates Money from a decimal amount
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// NewMoneyFromFloat creates Money from a float64 value.
// Intended for literals in tests and fixtures; use ParseMoney for external input.
func NewMoneyFromFloat(amount float64) Money {
	return Money{amount: decimal.NewFromFloat(amount)}
}

// NewMoneyFromInt creates Money from an int64 value
func NewMoneyFromInt(amount int64) Money {
	return Money{amount: decimal.NewFromInt(amount)}
}

// ZeroMoney returns a zero-value Money
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// ParseMoney creates Money from a raw string representation
func ParseMoney(raw string) (Money, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Money{}, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return Money{amount: d}, nil
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns a new Money with the sum of both amounts
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Subtract returns a new Money with the difference
func (m Money) Subtract(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// Negate returns a new Money with the sign reversed
func (m Money) Negate() Money {
	return Money{amount: m.amount.Neg()}
}

// ClampNonNegative returns the amount, floored at zero
func (m Money) ClampNonNegative() Money {
	if m.amount.IsNegative() {
		return ZeroMoney()
	}
	return m
}

// Multiply returns a new Money multiplied by the given factor
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor)}
}

// Equals returns true if both Money values are equal
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// LessThan returns true if this Money is less than the other
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// LessThanOrEqual returns true if this Money is less than or equal to the other
func (m Money) LessThanOrEqual(other Money) bool {
	return m.amount.LessThanOrEqual(other.amount)
}

// GreaterThan returns true if this Money is greater than the other
func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// GreaterThanOrEqual returns true if this Money is greater than or equal to the other
func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.amount.GreaterThanOrEqual(other.amount)
}

// String returns the amount with two fixed decimal places
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// Float64 returns the amount as a float64 (may lose precision)
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// MarshalJSON implements json.Marshaler, encoding as a fixed two-decimal string
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.amount.StringFixed(2))
}

// UnmarshalJSON implements json.Unmarshaler. Accepts both string and bare
// numeric encodings so the engine can bind rows from loosely typed upstream
// payloads.
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParseMoney(s)
		if err != nil {
			return err
		}
		m.amount = parsed.amount
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("invalid money value %s: %w", data, err)
	}
	m.amount = d
	return nil
}

// Value implements driver.Valuer for database storage
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan implements sql.Scanner for database retrieval. NULL scans to zero so
// optional amount columns do not fail a whole row.
func (m *Money) Scan(value any) error {
	if value == nil {
		m.amount = decimal.Zero
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	case int64:
		m.amount = decimal.NewFromInt(v)
		return nil
	case float64:
		m.amount = decimal.NewFromFloat(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}

	amount, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	m.amount = amount
	return nil
}
