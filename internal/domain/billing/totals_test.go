package billing

import (
	"testing"

	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/quoteflow/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func money(t *testing.T, s string) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoneyFromString(s)
	require.NoError(t, err)
	return m
}

func testItem(t *testing.T, quantity, unitPrice string) LineItem {
	t.Helper()
	item, err := NewLineItem(dec(t, quantity), money(t, unitPrice))
	require.NoError(t, err)
	return item
}

func TestCalculateTotals(t *testing.T) {
	t.Run("full breakdown with discount, taxes and shipping", func(t *testing.T) {
		items := []LineItem{
			testItem(t, "2", "300"),
			testItem(t, "4", "100"),
		}
		rates, err := NewTaxRates(dec(t, "9"), dec(t, "9"), decimal.Zero)
		require.NoError(t, err)

		totals, err := CalculateTotals(items, dec(t, "10"), money(t, "50"), rates)
		require.NoError(t, err)

		assert.True(t, totals.Subtotal.Equal(money(t, "1000")), "subtotal = %s", totals.Subtotal)
		assert.True(t, totals.DiscountAmount.Equal(money(t, "100")), "discount = %s", totals.DiscountAmount)
		assert.True(t, totals.TaxableAmount.Equal(money(t, "900")), "taxable = %s", totals.TaxableAmount)
		assert.True(t, totals.CGSTAmount.Equal(money(t, "81")), "cgst = %s", totals.CGSTAmount)
		assert.True(t, totals.SGSTAmount.Equal(money(t, "81")), "sgst = %s", totals.SGSTAmount)
		assert.True(t, totals.IGSTAmount.IsZero())
		assert.True(t, totals.ShippingCharges.Equal(money(t, "50")))
		assert.True(t, totals.Total.Equal(money(t, "1112")), "total = %s", totals.Total)
		assert.True(t, totals.Verify())
	})

	t.Run("empty items yield zero subtotal but shipping still counts", func(t *testing.T) {
		totals, err := CalculateTotals(nil, decimal.Zero, money(t, "50"), ZeroTaxRates())
		require.NoError(t, err)

		assert.True(t, totals.Subtotal.IsZero())
		assert.True(t, totals.DiscountAmount.IsZero())
		assert.True(t, totals.TaxableAmount.IsZero())
		assert.True(t, totals.TaxTotal().IsZero())
		assert.True(t, totals.Total.Equal(money(t, "50")))
		assert.True(t, totals.Verify())
	})

	t.Run("no intermediate rounding", func(t *testing.T) {
		// 3 × 33.333 = 99.999; 5% discount = 4.99995; taxable = 95.00905.
		// Every figure stays exact until display.
		items := []LineItem{testItem(t, "3", "33.333")}

		totals, err := CalculateTotals(items, dec(t, "5"), valueobject.Zero(), ZeroTaxRates())
		require.NoError(t, err)

		assert.Equal(t, "99.999", totals.Subtotal.String())
		assert.Equal(t, "4.99995", totals.DiscountAmount.String())
		assert.Equal(t, "95.00905", totals.TaxableAmount.String())
		assert.Equal(t, "95.00905", totals.Total.String())
		assert.True(t, totals.Verify())
	})

	t.Run("tax components never compound", func(t *testing.T) {
		items := []LineItem{testItem(t, "1", "200")}
		rates, err := NewTaxRates(dec(t, "10"), dec(t, "10"), dec(t, "10"))
		require.NoError(t, err)

		totals, err := CalculateTotals(items, decimal.Zero, valueobject.Zero(), rates)
		require.NoError(t, err)

		// each component is 10% of the taxable 200, not of a running total
		assert.True(t, totals.CGSTAmount.Equal(money(t, "20")))
		assert.True(t, totals.SGSTAmount.Equal(money(t, "20")))
		assert.True(t, totals.IGSTAmount.Equal(money(t, "20")))
		assert.True(t, totals.Total.Equal(money(t, "260")))
	})

	t.Run("hundred percent discount", func(t *testing.T) {
		items := []LineItem{testItem(t, "2", "500")}
		rates, err := NewTaxRates(dec(t, "9"), dec(t, "9"), decimal.Zero)
		require.NoError(t, err)

		totals, err := CalculateTotals(items, dec(t, "100"), money(t, "25"), rates)
		require.NoError(t, err)

		assert.True(t, totals.TaxableAmount.IsZero())
		assert.True(t, totals.TaxTotal().IsZero())
		assert.True(t, totals.Total.Equal(money(t, "25")))
	})

	t.Run("deterministic across invocations", func(t *testing.T) {
		items := []LineItem{
			testItem(t, "7", "13.37"),
			testItem(t, "0.5", "99.99"),
		}
		rates, err := NewTaxRates(dec(t, "2.5"), dec(t, "2.5"), decimal.Zero)
		require.NoError(t, err)

		first, err := CalculateTotals(items, dec(t, "12.5"), money(t, "15"), rates)
		require.NoError(t, err)

		for i := 0; i < 10; i++ {
			again, err := CalculateTotals(items, dec(t, "12.5"), money(t, "15"), rates)
			require.NoError(t, err)
			assert.True(t, first.Total.Equal(again.Total))
			assert.True(t, first.DiscountAmount.Equal(again.DiscountAmount))
		}
	})

	t.Run("validation failures", func(t *testing.T) {
		validItems := []LineItem{testItem(t, "1", "100")}

		tests := []struct {
			name     string
			items    []LineItem
			discount decimal.Decimal
			rates    TaxRates
			wantCode string
		}{
			{
				name:     "negative quantity",
				items:    []LineItem{{Quantity: dec(t, "-1"), UnitPrice: money(t, "100")}},
				discount: decimal.Zero,
				rates:    ZeroTaxRates(),
				wantCode: "INVALID_LINE_ITEM",
			},
			{
				name:     "negative unit price",
				items:    []LineItem{{Quantity: dec(t, "1"), UnitPrice: money(t, "-5")}},
				discount: decimal.Zero,
				rates:    ZeroTaxRates(),
				wantCode: "INVALID_LINE_ITEM",
			},
			{
				name:     "discount above hundred",
				items:    validItems,
				discount: dec(t, "101"),
				rates:    ZeroTaxRates(),
				wantCode: "INVALID_RATE",
			},
			{
				name:     "negative discount",
				items:    validItems,
				discount: dec(t, "-1"),
				rates:    ZeroTaxRates(),
				wantCode: "INVALID_RATE",
			},
			{
				name:     "tax rate above hundred",
				items:    validItems,
				discount: decimal.Zero,
				rates:    TaxRates{CGST: dec(t, "150"), SGST: decimal.Zero, IGST: decimal.Zero},
				wantCode: "INVALID_RATE",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				totals, err := CalculateTotals(tt.items, tt.discount, valueobject.Zero(), tt.rates)
				require.Error(t, err)
				assert.Nil(t, totals)

				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, tt.wantCode, domainErr.Code)
			})
		}
	})
}

func TestTaxRates(t *testing.T) {
	t.Run("valid rates", func(t *testing.T) {
		rates, err := NewTaxRates(dec(t, "9"), dec(t, "9"), dec(t, "18"))
		require.NoError(t, err)
		assert.False(t, rates.IsZero())
	})

	t.Run("zero rates", func(t *testing.T) {
		assert.True(t, ZeroTaxRates().IsZero())
	})

	t.Run("boundary values accepted", func(t *testing.T) {
		_, err := NewTaxRates(decimal.Zero, dec(t, "100"), decimal.Zero)
		assert.NoError(t, err)
	})

	t.Run("out of range component rejected", func(t *testing.T) {
		_, err := NewTaxRates(dec(t, "9"), dec(t, "-0.01"), decimal.Zero)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_RATE", domainErr.Code)
	})
}

func TestLineItem(t *testing.T) {
	t.Run("amount is quantity times price", func(t *testing.T) {
		item := testItem(t, "2.5", "19.99")
		assert.Equal(t, "49.975", item.Amount().String())
	})

	t.Run("zero quantity is allowed", func(t *testing.T) {
		item := testItem(t, "0", "100")
		assert.True(t, item.Amount().IsZero())
	})
}
