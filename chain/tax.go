package chain

import (
	"docchain-backend/models"

	"github.com/shopspring/decimal"
)

// Breakdown is the result of applying a tax configuration to a line-item
// subtotal. All monetary fields are rounded to 2 decimal places
// (half-up on the cent).
type Breakdown struct {
	Subtotal          float64 `json:"subtotal"`
	VATAmount         float64 `json:"vat_amount"`
	WithholdingAmount float64 `json:"withholding_amount"`
	GrossUpAmount     float64 `json:"gross_up_amount"`
	Total             float64 `json:"total"`
}

var one = decimal.NewFromInt(1)

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// ItemsSubtotal sums quantity × unit price over the items, rounded to cents.
func ItemsSubtotal(items []models.LineItem) float64 {
	sum := decimal.Zero
	for _, it := range items {
		q := decimal.NewFromFloat(it.Quantity)
		p := decimal.NewFromFloat(it.UnitPrice)
		sum = sum.Add(q.Mul(p))
	}
	return round2(sum)
}

// CalculateTaxBreakdown computes VAT, withholding, and totals for a subtotal.
//
// Normal mode bills the subtotal as-is: total = subtotal + VAT − WHT.
//
// Gross-up mode reads the subtotal as the net amount the issuer wants to
// receive and solves for the larger billed amount; the returned Subtotal is
// the gross (billed) figure, Total is the requested net, and GrossUpAmount
// is billed − net. Rates that would zero the denominator (or flip its sign)
// are rejected with ErrInvalidTaxConfig instead of dividing through.
func CalculateTaxBreakdown(itemsSubtotal float64, cfg models.TaxConfig) (Breakdown, error) {
	if err := validateTaxConfig(cfg); err != nil {
		return Breakdown{}, err
	}

	sub := decimal.NewFromFloat(itemsSubtotal)
	vatRate := decimal.Zero
	if cfg.VATEnabled {
		vatRate = decimal.NewFromFloat(cfg.VATRate)
	}
	whtRate := decimal.Zero
	if cfg.WHTEnabled {
		whtRate = decimal.NewFromFloat(cfg.WHTRate)
	}

	if !cfg.GrossUp {
		subtotal := sub.Round(2)
		vat := sub.Mul(vatRate).Round(2)
		wht := sub.Mul(whtRate).Round(2)
		return Breakdown{
			Subtotal:          round2(subtotal),
			VATAmount:         round2(vat),
			WithholdingAmount: round2(wht),
			Total:             round2(subtotal.Add(vat).Sub(wht)),
		}, nil
	}

	// Gross-up: net is the input, gross = net / denom.
	denom := one
	switch {
	case cfg.VATEnabled && cfg.WHTEnabled:
		denom = one.Add(vatRate).Sub(whtRate)
	case cfg.WHTEnabled:
		denom = one.Sub(whtRate)
	case cfg.VATEnabled:
		denom = one.Add(vatRate)
	}
	if denom.Cmp(decimal.Zero) <= 0 {
		return Breakdown{}, ruleErr(ErrInvalidTaxConfig, "gross-up denominator %s is not positive", denom.String())
	}

	gross := sub.Div(denom)
	vat := decimal.Zero
	if cfg.VATEnabled {
		vat = gross.Mul(vatRate)
	}
	wht := decimal.Zero
	if cfg.WHTEnabled {
		wht = gross.Mul(whtRate)
	}
	return Breakdown{
		Subtotal:          round2(gross),
		VATAmount:         round2(vat),
		WithholdingAmount: round2(wht),
		GrossUpAmount:     round2(gross.Sub(sub)), // billed − net
		Total:             round2(sub),
	}, nil
}

func validateTaxConfig(cfg models.TaxConfig) error {
	if cfg.VATEnabled && cfg.VATRate < 0 {
		return ruleErr(ErrInvalidTaxConfig, "negative VAT rate %v", cfg.VATRate)
	}
	if cfg.WHTEnabled && cfg.WHTRate < 0 {
		return ruleErr(ErrInvalidTaxConfig, "negative withholding rate %v", cfg.WHTRate)
	}
	if cfg.GrossUp {
		// A 100% rate on the sole active tax makes the gross amount
		// undefined (division by zero in the source system).
		if cfg.VATEnabled && cfg.VATRate >= 1 {
			return ruleErr(ErrInvalidTaxConfig, "VAT rate %v out of range for gross-up", cfg.VATRate)
		}
		if cfg.WHTEnabled && cfg.WHTRate >= 1 {
			return ruleErr(ErrInvalidTaxConfig, "withholding rate %v out of range for gross-up", cfg.WHTRate)
		}
	}
	return nil
}
