package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Money is a value object representing a monetary amount with fixed-point
// decimal semantics. It is immutable - all operations return new Money
// instances. Every money-bearing field in the system goes through this type;
// float64 never participates in the arithmetic chain.
//
// Rounding to two decimal places happens only at the presentation boundary
// (StringFixed2 / Round2), never inside a calculation.
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates a Money from a decimal amount
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// NewMoneyFromInt creates a Money from an int64 value
func NewMoneyFromInt(amount int64) Money {
	return Money{amount: decimal.NewFromInt(amount)}
}

// NewMoneyFromFloat creates a Money from a float64 value.
// Intended for literals in tests and request binding; the float is converted
// once and all subsequent math is decimal.
func NewMoneyFromFloat(amount float64) Money {
	return Money{amount: decimal.NewFromFloat(amount)}
}

// NewMoneyFromString creates a Money from a string representation
func NewMoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return Money{amount: d}, nil
}

// MoneyOrZero creates a Money from a string, yielding zero for empty or
// unparseable input. It never fails; use NewMoneyFromString when the caller
// needs to distinguish garbage from zero.
func MoneyOrZero(amount string) Money {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Money{}
	}
	return Money{amount: d}
}

// Zero returns a zero-value Money
func Zero() Money {
	return Money{}
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

// Sub returns a new Money with the difference
func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// Mul returns a new Money multiplied by the given factor
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor)}
}

// Div returns a new Money divided by the given divisor.
// Returns error if divisor is zero.
func (m Money) Div(divisor decimal.Decimal) (Money, error) {
	if divisor.IsZero() {
		return Money{}, errors.New("cannot divide by zero")
	}
	return Money{amount: m.amount.Div(divisor)}, nil
}

// Percent returns the given percentage of this Money, computed as
// amount * rate / 100 in decimal arithmetic.
func (m Money) Percent(rate decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(rate).Div(oneHundred)}
}

// Negate returns a new Money with the sign reversed
func (m Money) Negate() Money {
	return Money{amount: m.amount.Neg()}
}

// ClampZero returns zero when the amount is negative, the Money unchanged
// otherwise
func (m Money) ClampZero() Money {
	if m.amount.IsNegative() {
		return Money{}
	}
	return m
}

// Round2 returns a new Money rounded to two decimal places.
// Presentation/persistence boundary only.
func (m Money) Round2() Money {
	return Money{amount: m.amount.Round(2)}
}

// Equal returns true if both Money values are equal
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Cmp compares two Money values: -1 if m < other, 0 if equal, 1 if m > other
func (m Money) Cmp(other Money) int {
	return m.amount.Cmp(other.amount)
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

// String returns the exact decimal representation
func (m Money) String() string {
	return m.amount.String()
}

// StringFixed2 returns the amount formatted to two decimal places
func (m Money) StringFixed2() string {
	return m.amount.StringFixed(2)
}

// MarshalJSON implements json.Marshaler, encoding the amount as a string to
// keep exact decimal digits on the wire
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.amount.String())
}

// UnmarshalJSON implements json.Unmarshaler. Accepts a JSON string or a bare
// number; null yields zero.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		m.amount = decimal.Zero
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		d, err := decimal.NewFromString(str)
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		m.amount = d
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	m.amount = d
	return nil
}

// Value implements driver.Valuer for database storage
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan implements sql.Scanner for database retrieval
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

// SumMoney returns the sum of the given Money values
func SumMoney(values ...Money) Money {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v.amount)
	}
	return Money{amount: total}
}
