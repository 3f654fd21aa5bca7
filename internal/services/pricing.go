package services

import (
	"shopkart/internal/models"

	"github.com/shopspring/decimal"
)

// Pricing constants. Shipping is free only when the subtotal strictly
// exceeds the threshold; an order of exactly 50.00 still pays the surcharge.
var (
	freeShippingThreshold = decimal.NewFromInt(50)
	shippingSurcharge     = decimal.RequireFromString("5.99")
	taxRate               = decimal.RequireFromString("0.08")
)

// OrderTotals holds the computed monetary fields for an order.
type OrderTotals struct {
	Subtotal       decimal.Decimal
	ShippingCost   decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
}

// ComputeOrderTotals derives the order totals from the validated line items.
// It is a pure function of the caller-asserted unit prices and quantities.
func ComputeOrderTotals(items []*models.OrderItem) OrderTotals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	shippingCost := shippingSurcharge
	if subtotal.GreaterThan(freeShippingThreshold) {
		shippingCost = decimal.Zero
	}

	taxAmount := subtotal.Mul(taxRate).Round(2)
	discountAmount := decimal.Zero

	return OrderTotals{
		Subtotal:       subtotal,
		ShippingCost:   shippingCost,
		TaxAmount:      taxAmount,
		DiscountAmount: discountAmount,
		TotalAmount:    subtotal.Add(shippingCost).Add(taxAmount).Sub(discountAmount),
	}
}
