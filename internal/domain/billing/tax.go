package billing

import (
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var maxPercent = decimal.NewFromInt(100)

// TaxRates holds the three GST component percentages applied to a document's
// taxable amount. CGST and SGST are the intra-state pair (typically equal);
// IGST applies to inter-state supplies. The components never compound: each
// is computed from the taxable amount independently.
type TaxRates struct {
	CGST decimal.Decimal `json:"cgst"`
	SGST decimal.Decimal `json:"sgst"`
	IGST decimal.Decimal `json:"igst"`
}

// ZeroTaxRates returns a TaxRates with all components at zero
func ZeroTaxRates() TaxRates {
	return TaxRates{CGST: decimal.Zero, SGST: decimal.Zero, IGST: decimal.Zero}
}

// NewTaxRates creates a TaxRates, validating each component against [0, 100]
func NewTaxRates(cgst, sgst, igst decimal.Decimal) (TaxRates, error) {
	rates := TaxRates{CGST: cgst, SGST: sgst, IGST: igst}
	if err := rates.Validate(); err != nil {
		return TaxRates{}, err
	}
	return rates, nil
}

// Validate checks that every component lies in [0, 100]
func (r TaxRates) Validate() error {
	for _, rate := range []decimal.Decimal{r.CGST, r.SGST, r.IGST} {
		if err := validatePercent(rate); err != nil {
			return err
		}
	}
	return nil
}

// IsZero returns true if all components are zero
func (r TaxRates) IsZero() bool {
	return r.CGST.IsZero() && r.SGST.IsZero() && r.IGST.IsZero()
}

// validatePercent rejects rates outside [0, 100]
func validatePercent(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(maxPercent) {
		return shared.NewDomainError("INVALID_RATE", "Rate must be between 0 and 100")
	}
	return nil
}
