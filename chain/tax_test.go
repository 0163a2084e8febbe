package chain

import (
	"testing"

	"docchain-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func thaiTax(grossUp bool) models.TaxConfig {
	return models.TaxConfig{
		VATEnabled: true, VATRate: 0.07,
		WHTEnabled: true, WHTRate: 0.03,
		GrossUp: grossUp,
	}
}

func TestCalculateTaxBreakdown_NormalMode(t *testing.T) {
	tests := []struct {
		name     string
		subtotal float64
		cfg      models.TaxConfig
		want     Breakdown
	}{
		{
			name:     "vat and withholding",
			subtotal: 1000,
			cfg:      thaiTax(false),
			want:     Breakdown{Subtotal: 1000, VATAmount: 70, WithholdingAmount: 30, Total: 1040},
		},
		{
			name:     "vat only",
			subtotal: 500,
			cfg:      models.TaxConfig{VATEnabled: true, VATRate: 0.07},
			want:     Breakdown{Subtotal: 500, VATAmount: 35, Total: 535},
		},
		{
			name:     "withholding only",
			subtotal: 2000,
			cfg:      models.TaxConfig{WHTEnabled: true, WHTRate: 0.03},
			want:     Breakdown{Subtotal: 2000, WithholdingAmount: 60, Total: 1940},
		},
		{
			name:     "no taxes",
			subtotal: 123.45,
			cfg:      models.TaxConfig{},
			want:     Breakdown{Subtotal: 123.45, Total: 123.45},
		},
		{
			name:     "cent rounding half-up",
			subtotal: 333.33,
			cfg:      models.TaxConfig{VATEnabled: true, VATRate: 0.07},
			// 333.33 * 0.07 = 23.3331 -> 23.33
			want: Breakdown{Subtotal: 333.33, VATAmount: 23.33, Total: 356.66},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateTaxBreakdown(tt.subtotal, tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateTaxBreakdown_GrossUp(t *testing.T) {
	t.Run("vat and withholding", func(t *testing.T) {
		got, err := CalculateTaxBreakdown(1000, thaiTax(true))
		require.NoError(t, err)
		// gross = 1000 / (1 + 0.07 - 0.03) = 961.538...
		assert.InDelta(t, 961.54, got.Subtotal, 0.01)
		assert.InDelta(t, 67.31, got.VATAmount, 0.01)
		assert.InDelta(t, 28.85, got.WithholdingAmount, 0.01)
		assert.Equal(t, 1000.0, got.Total)
		assert.InDelta(t, got.Subtotal-1000, got.GrossUpAmount, 0.01)
	})

	t.Run("withholding only", func(t *testing.T) {
		got, err := CalculateTaxBreakdown(970, models.TaxConfig{WHTEnabled: true, WHTRate: 0.03, GrossUp: true})
		require.NoError(t, err)
		// gross = 970 / 0.97 = 1000
		assert.Equal(t, 1000.0, got.Subtotal)
		assert.Equal(t, 30.0, got.WithholdingAmount)
		assert.Equal(t, 970.0, got.Total)
		assert.Equal(t, 30.0, got.GrossUpAmount)
	})

	t.Run("vat only", func(t *testing.T) {
		got, err := CalculateTaxBreakdown(1070, models.TaxConfig{VATEnabled: true, VATRate: 0.07, GrossUp: true})
		require.NoError(t, err)
		assert.Equal(t, 1000.0, got.Subtotal)
		assert.Equal(t, 70.0, got.VATAmount)
		assert.Equal(t, 1070.0, got.Total)
	})

	t.Run("neither tax is a no-op", func(t *testing.T) {
		got, err := CalculateTaxBreakdown(800, models.TaxConfig{GrossUp: true})
		require.NoError(t, err)
		assert.Equal(t, Breakdown{Subtotal: 800, Total: 800}, got)
	})
}

// Applying normal-mode tax to the gross amount must recover the requested net.
func TestGrossUpInverse(t *testing.T) {
	for _, net := range []float64{1.0, 57.5, 1000, 99999.99} {
		up, err := CalculateTaxBreakdown(net, thaiTax(true))
		require.NoError(t, err)

		down, err := CalculateTaxBreakdown(up.Subtotal, thaiTax(false))
		require.NoError(t, err)
		assert.InDelta(t, net, down.Total, 0.05, "net %v did not round-trip", net)
	}
}

// Re-deriving the subtotal from the normal-mode outputs must recover the input.
func TestTaxRoundTrip(t *testing.T) {
	for _, sub := range []float64{0, 0.01, 10, 333.33, 12345.67} {
		b, err := CalculateTaxBreakdown(sub, thaiTax(false))
		require.NoError(t, err)
		assert.InDelta(t, sub, b.Total-b.VATAmount+b.WithholdingAmount, 0.01)
	}
}

func TestCalculateTaxBreakdown_RejectsDegenerateRates(t *testing.T) {
	tests := []struct {
		name string
		cfg  models.TaxConfig
	}{
		{"full withholding gross-up", models.TaxConfig{WHTEnabled: true, WHTRate: 1.0, GrossUp: true}},
		{"over-full withholding gross-up", models.TaxConfig{WHTEnabled: true, WHTRate: 1.5, GrossUp: true}},
		{"full vat gross-up", models.TaxConfig{VATEnabled: true, VATRate: 1.0, GrossUp: true}},
		{"negative vat", models.TaxConfig{VATEnabled: true, VATRate: -0.07}},
		{"negative withholding", models.TaxConfig{WHTEnabled: true, WHTRate: -0.03}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateTaxBreakdown(1000, tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidTaxConfig)
		})
	}
}

func TestItemsSubtotal(t *testing.T) {
	items := []models.LineItem{
		{Description: "design", Quantity: 10, Unit: "hour", UnitPrice: 150.50},
		{Description: "hosting", Quantity: 1, Unit: "month", UnitPrice: 0}, // zero price is valid
		{Description: "copywriting", Quantity: 3, Unit: "page", UnitPrice: 33.33},
	}
	assert.Equal(t, 1604.99, ItemsSubtotal(items))
	assert.Equal(t, 0.0, ItemsSubtotal(nil))
}
