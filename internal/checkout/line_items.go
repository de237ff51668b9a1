package checkout

import (
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	"github.com/storefrontlabs/storefront-backend/internal/cart"
)

var hundred = decimal.NewFromInt(100)

// MinorUnits converts a decimal price into the provider's integer minor
// units, rounding half away from zero. 9.99 becomes 999.
func MinorUnits(price decimal.Decimal) int64 {
	return price.Mul(hundred).Round(0).IntPart()
}

// buildLineItems maps cart lines onto provider line items using inline price
// data, so no catalog sync with the provider is needed. Quantities carry over
// as-is; unit prices are converted to minor units.
func buildLineItems(items []cart.ItemDTO, currency string) []*stripe.CheckoutSessionCreateLineItemParams {
	lines := make([]*stripe.CheckoutSessionCreateLineItemParams, 0, len(items))
	for _, item := range items {
		lines = append(lines, &stripe.CheckoutSessionCreateLineItemParams{
			Quantity: stripe.Int64(int64(item.Quantity)),
			PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(MinorUnits(item.UnitPrice)),
				ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
		})
	}
	return lines
}
