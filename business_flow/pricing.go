package businessflow

import (
	"github.com/plakatpro/plakatpro/models"
	"github.com/shopspring/decimal"
)

// Fixed poster prices in EUR. City fees come from the item rows;
// everything else is derived.
var (
	PriceA1             = decimal.NewFromFloat(3.00)
	PriceA0             = decimal.NewFromFloat(6.00)
	PricePerApplication = decimal.NewFromFloat(5.00)
	DefaultVATRate      = decimal.NewFromFloat(0.19)
)

// QuoteCosts is the cost breakdown of a distribution list. All amounts are
// unrounded; callers round to two decimals at display time only.
type QuoteCosts struct {
	QuantityA1      int
	QuantityA0      int
	QuantityOther   int
	TotalQuantity   int
	CostA1          decimal.Decimal
	CostA0          decimal.Decimal
	ApplicationCost decimal.Decimal
	CityFees        decimal.Decimal
	Subtotal        decimal.Decimal
	VAT             decimal.Decimal
	Total           decimal.Decimal
}

// CalculateQuoteCosts computes the cost breakdown for a set of list items.
// Poster cost covers A1 and A0 sizes; other sizes are priced by city fee
// alone. Every item is one permit application regardless of quantity.
func CalculateQuoteCosts(items []*models.DistributionListItem, vatRate decimal.Decimal) QuoteCosts {
	costs := QuoteCosts{
		CostA1:          decimal.Zero,
		CostA0:          decimal.Zero,
		ApplicationCost: decimal.Zero,
		CityFees:        decimal.Zero,
	}

	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))

		switch item.PosterSize {
		case models.PosterSizeA1:
			costs.QuantityA1 += item.Quantity
			costs.CostA1 = costs.CostA1.Add(PriceA1.Mul(qty))
		case models.PosterSizeA0:
			costs.QuantityA0 += item.Quantity
			costs.CostA0 = costs.CostA0.Add(PriceA0.Mul(qty))
		default:
			costs.QuantityOther += item.Quantity
		}

		costs.TotalQuantity += item.Quantity
		costs.ApplicationCost = costs.ApplicationCost.Add(PricePerApplication)
		costs.CityFees = costs.CityFees.Add(item.EffectiveFee())
	}

	costs.Subtotal = costs.CostA1.
		Add(costs.CostA0).
		Add(costs.ApplicationCost).
		Add(costs.CityFees)
	costs.VAT = costs.Subtotal.Mul(vatRate)
	costs.Total = costs.Subtotal.Add(costs.VAT)

	return costs
}
