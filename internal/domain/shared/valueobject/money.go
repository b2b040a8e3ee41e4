package valueobject

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	BRL Currency = "BRL" // Brazilian Real (default)
	USD Currency = "USD" // US Dollar
)

// DefaultCurrency is the default currency for the system
const DefaultCurrency = BRL

// Money is a value object representing a monetary amount in minor
// units (centavos). All arithmetic is integer arithmetic, so sums
// across sale items, receivables and payables are exact.
// It is immutable - all operations return new Money values.
type Money struct {
	cents int64
}

// NewMoney creates Money from an amount in minor units
func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

// NewMoneyFromDecimal creates Money from a decimal amount in major
// units (reais), e.g. "150.00" becomes 15000 centavos.
// Returns an error when the amount has sub-cent precision.
func NewMoneyFromDecimal(amount decimal.Decimal) (Money, error) {
	cents := amount.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return Money{}, fmt.Errorf("amount %s has sub-cent precision", amount.String())
	}
	return Money{cents: cents.IntPart()}, nil
}

// NewMoneyFromString creates Money from a decimal string in major units
func NewMoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoneyFromDecimal(d)
}

// Zero returns a zero-value Money
func Zero() Money {
	return Money{}
}

// Cents returns the amount in minor units
func (m Money) Cents() int64 {
	return m.cents
}

// Decimal returns the amount in major units (reais)
func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(m.cents).Div(decimal.NewFromInt(100))
}

// Float64 returns the amount in major units as a float64.
// Intended for payment provider APIs that take a float amount.
func (m Money) Float64() float64 {
	f, _ := m.Decimal().Float64()
	return f
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.cents == 0
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.cents > 0
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.cents < 0
}

// Add returns a new Money with the sum of both amounts
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Subtract returns a new Money with the difference
func (m Money) Subtract(other Money) Money {
	return Money{cents: m.cents - other.cents}
}

// MultiplyByInt returns a new Money multiplied by an integer factor
func (m Money) MultiplyByInt(factor int64) Money {
	return Money{cents: m.cents * factor}
}

// Negate returns a new Money with the sign reversed
func (m Money) Negate() Money {
	return Money{cents: -m.cents}
}

// Equals returns true if both amounts are equal
func (m Money) Equals(other Money) bool {
	return m.cents == other.cents
}

// LessThan returns true if this Money is less than the other
func (m Money) LessThan(other Money) bool {
	return m.cents < other.cents
}

// GreaterThanOrEqual returns true if this Money is at least the other
func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.cents >= other.cents
}

// String returns the amount formatted in major units, e.g. "150.00 BRL"
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(2), DefaultCurrency)
}

// MarshalJSON serializes the amount as integer minor units
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%d", m.cents)), nil
}

// UnmarshalJSON reads an integer minor-unit amount
func (m *Money) UnmarshalJSON(data []byte) error {
	var cents int64
	if _, err := fmt.Sscanf(string(data), "%d", &cents); err != nil {
		return fmt.Errorf("invalid money value %q: %w", string(data), err)
	}
	m.cents = cents
	return nil
}

// Value implements driver.Valuer for database storage
func (m Money) Value() (driver.Value, error) {
	return m.cents, nil
}

// Scan implements sql.Scanner for database retrieval
func (m *Money) Scan(value any) error {
	if value == nil {
		m.cents = 0
		return nil
	}
	switch v := value.(type) {
	case int64:
		m.cents = v
	case int:
		m.cents = int64(v)
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}
	return nil
}
