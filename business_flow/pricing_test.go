package businessflow

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plakatpro/plakatpro/models"
)

func item(quantity int, size models.PosterSize, fee string) *models.DistributionListItem {
	it := &models.DistributionListItem{
		Quantity:   quantity,
		PosterSize: size,
	}
	if fee != "" {
		d, err := decimal.NewFromString(fee)
		if err != nil {
			panic(err)
		}
		it.Fee = decimal.NullDecimal{Decimal: d, Valid: true}
	}
	return it
}

func TestCalculateQuoteCosts(t *testing.T) {
	t.Run("TwoCityQuote", func(t *testing.T) {
		// 10x A1 in a city charging 20 EUR, 5x A0 in a city with no fee.
		items := []*models.DistributionListItem{
			item(10, models.PosterSizeA1, "20.00"),
			item(5, models.PosterSizeA0, ""),
		}

		costs := CalculateQuoteCosts(items, DefaultVATRate)

		assert.Equal(t, 10, costs.QuantityA1)
		assert.Equal(t, 5, costs.QuantityA0)
		assert.Equal(t, 0, costs.QuantityOther)
		assert.Equal(t, 15, costs.TotalQuantity)
		assert.True(t, costs.CostA1.Equal(decimal.NewFromFloat(30.00)), "CostA1 = %s", costs.CostA1)
		assert.True(t, costs.CostA0.Equal(decimal.NewFromFloat(30.00)), "CostA0 = %s", costs.CostA0)
		assert.True(t, costs.ApplicationCost.Equal(decimal.NewFromFloat(10.00)), "ApplicationCost = %s", costs.ApplicationCost)
		assert.True(t, costs.CityFees.Equal(decimal.NewFromFloat(20.00)), "CityFees = %s", costs.CityFees)
		assert.True(t, costs.Subtotal.Equal(decimal.NewFromFloat(90.00)), "Subtotal = %s", costs.Subtotal)
		assert.True(t, costs.VAT.Equal(decimal.NewFromFloat(17.10)), "VAT = %s", costs.VAT)
		assert.True(t, costs.Total.Equal(decimal.NewFromFloat(107.10)), "Total = %s", costs.Total)
	})

	t.Run("EmptyList", func(t *testing.T) {
		costs := CalculateQuoteCosts(nil, DefaultVATRate)

		assert.True(t, costs.Subtotal.IsZero())
		assert.True(t, costs.VAT.IsZero())
		assert.True(t, costs.Total.IsZero())
	})

	t.Run("OversizePricedByFeeOnly", func(t *testing.T) {
		items := []*models.DistributionListItem{
			item(3, models.PosterSize120x180, "45.50"),
		}

		costs := CalculateQuoteCosts(items, DefaultVATRate)

		assert.Equal(t, 3, costs.QuantityOther)
		assert.Equal(t, 3, costs.TotalQuantity)
		assert.True(t, costs.CostA1.IsZero())
		assert.True(t, costs.CostA0.IsZero())
		// One application fee plus the city fee, nothing per poster.
		assert.True(t, costs.Subtotal.Equal(decimal.NewFromFloat(50.50)), "Subtotal = %s", costs.Subtotal)
	})

	t.Run("ApplicationFeePerItemNotPerPoster", func(t *testing.T) {
		items := []*models.DistributionListItem{
			item(100, models.PosterSizeA1, ""),
			item(1, models.PosterSizeA1, ""),
		}

		costs := CalculateQuoteCosts(items, decimal.Zero)

		assert.True(t, costs.ApplicationCost.Equal(decimal.NewFromFloat(10.00)), "ApplicationCost = %s", costs.ApplicationCost)
	})

	t.Run("CustomVATRate", func(t *testing.T) {
		items := []*models.DistributionListItem{
			item(1, models.PosterSizeA1, ""),
		}

		costs := CalculateQuoteCosts(items, decimal.NewFromFloat(0.07))

		require.True(t, costs.Subtotal.Equal(decimal.NewFromFloat(8.00)))
		assert.True(t, costs.VAT.Equal(decimal.NewFromFloat(0.56)), "VAT = %s", costs.VAT)
		assert.True(t, costs.Total.Equal(decimal.NewFromFloat(8.56)), "Total = %s", costs.Total)
	})
}

func TestItemEffectiveFee(t *testing.T) {
	withFee := item(1, models.PosterSizeA1, "12.34")
	assert.True(t, withFee.EffectiveFee().Equal(decimal.NewFromFloat(12.34)))

	withoutFee := item(1, models.PosterSizeA1, "")
	assert.True(t, withoutFee.EffectiveFee().IsZero())
}
