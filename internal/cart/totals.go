package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/buyzaar/storefront/pkg/config"
)

// Totals is derived from the line-item list and never stored independently
// of it; persistence keeps the items and recomputes on rehydration.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Rates carries the pricing constants applied on every recomputation.
type Rates struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	TaxRate               decimal.Decimal
}

// RatesFromConfig parses the configured rate strings into exact decimals.
func RatesFromConfig(cfg config.CartConfig) (Rates, error) {
	threshold, err := decimal.NewFromString(cfg.FreeShippingThreshold)
	if err != nil {
		return Rates{}, fmt.Errorf("parsing free shipping threshold: %w", err)
	}
	fee, err := decimal.NewFromString(cfg.FlatShippingFee)
	if err != nil {
		return Rates{}, fmt.Errorf("parsing flat shipping fee: %w", err)
	}
	rate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		return Rates{}, fmt.Errorf("parsing tax rate: %w", err)
	}
	return Rates{FreeShippingThreshold: threshold, FlatShippingFee: fee, TaxRate: rate}, nil
}

// CalculateTotals derives the cart totals from the line items. It is pure
// and idempotent: subtotal is the exact sum of price times quantity, shipping
// is waived only when the subtotal exceeds the threshold, tax is the subtotal
// times the rate rounded to cents. An empty cart totals to zero across the
// board, including shipping.
func CalculateTotals(items []LineItem, rates Rates) Totals {
	if len(items) == 0 {
		return Totals{
			Subtotal: decimal.Zero,
			Shipping: decimal.Zero,
			Tax:      decimal.Zero,
			Total:    decimal.Zero,
		}
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	shipping := rates.FlatShippingFee
	if subtotal.GreaterThan(rates.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(rates.TaxRate).Round(2)

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}
