package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoneyFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"integer", "100", "100", false},
		{"two decimals", "99.99", "99.99", false},
		{"many decimals", "0.123456789", "0.123456789", false},
		{"negative", "-5.50", "-5.5", false},
		{"whitespace", "  12.30 ", "12.3", false},
		{"garbage", "abc", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoneyFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.String())
		})
	}
}

func TestMoneyOrZero(t *testing.T) {
	assert.True(t, MoneyOrZero("").IsZero())
	assert.True(t, MoneyOrZero("not-a-number").IsZero())
	assert.Equal(t, "42.42", MoneyOrZero("42.42").String())
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyFromFloat(10.10)
	b := NewMoneyFromFloat(0.20)

	assert.Equal(t, "10.3", a.Add(b).String())
	assert.Equal(t, "9.9", a.Sub(b).String())
	assert.Equal(t, "20.2", a.Mul(decimal.NewFromInt(2)).String())
}

// 0.1 + 0.2 must be exactly 0.3, the binary-float classic.
func TestMoney_NoBinaryRoundingError(t *testing.T) {
	sum := NewMoneyFromFloat(0.1).Add(NewMoneyFromFloat(0.2))
	assert.True(t, sum.Equal(mustMoney(t, "0.3")))
}

func mustMoney(t *testing.T, s string) Money {
	t.Helper()
	m, err := NewMoneyFromString(s)
	require.NoError(t, err)
	return m
}

func TestMoney_Percent(t *testing.T) {
	subtotal := NewMoneyFromInt(1000)

	assert.Equal(t, "100", subtotal.Percent(decimal.NewFromInt(10)).String())
	assert.Equal(t, "81", NewMoneyFromInt(900).Percent(decimal.NewFromInt(9)).String())
	assert.True(t, subtotal.Percent(decimal.Zero).IsZero())
}

func TestMoney_Div(t *testing.T) {
	m := NewMoneyFromInt(100)

	half, err := m.Div(decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.Equal(t, "50", half.String())

	_, err = m.Div(decimal.Zero)
	assert.Error(t, err)
}

func TestMoney_ClampZero(t *testing.T) {
	assert.True(t, NewMoneyFromFloat(-3.33).ClampZero().IsZero())
	assert.Equal(t, "3.33", NewMoneyFromFloat(3.33).ClampZero().String())
	assert.True(t, Zero().ClampZero().IsZero())
}

func TestMoney_Round2AndFormat(t *testing.T) {
	m, err := NewMoneyFromString("10.005")
	require.NoError(t, err)

	assert.Equal(t, "10.01", m.Round2().String())
	assert.Equal(t, "10.01", m.StringFixed2())
	// the original value keeps full precision
	assert.Equal(t, "10.005", m.String())
}

func TestMoney_Comparisons(t *testing.T) {
	a := NewMoneyFromInt(5)
	b := NewMoneyFromInt(7)

	assert.True(t, a.LessThan(b))
	assert.True(t, b.GreaterThan(a))
	assert.True(t, a.LessThanOrEqual(a))
	assert.True(t, a.GreaterThanOrEqual(a))
	assert.Equal(t, -1, a.Cmp(b))
	assert.Equal(t, 0, a.Cmp(a))
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := mustMoney(t, "1234.5678")

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `"1234.5678"`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equal(decoded))

	// bare numbers and null are accepted on input
	require.NoError(t, json.Unmarshal([]byte(`99.5`), &decoded))
	assert.Equal(t, "99.5", decoded.String())
	require.NoError(t, json.Unmarshal([]byte(`null`), &decoded))
	assert.True(t, decoded.IsZero())
}

func TestMoney_ScanValue(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("55.25"))
	assert.Equal(t, "55.25", m.String())

	require.NoError(t, m.Scan([]byte("7")))
	assert.Equal(t, "7", m.String())

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())

	assert.Error(t, m.Scan(struct{}{}))

	v, err := mustMoney(t, "3.14").Value()
	require.NoError(t, err)
	assert.Equal(t, "3.14", v)
}

func TestSumMoney(t *testing.T) {
	sum := SumMoney(
		NewMoneyFromInt(5000),
		NewMoneyFromInt(3000),
		NewMoneyFromInt(2000),
	)
	assert.Equal(t, "10000", sum.String())
	assert.True(t, SumMoney().IsZero())
}
