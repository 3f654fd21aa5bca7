package models

import "shopkart/internal/common"

// PlaceOrderRequest is a raw order submission from the storefront.
type PlaceOrderRequest struct {
	ShippingAddress    string           `json:"shipping_address"`
	ShippingCity       string           `json:"shipping_city"`
	ShippingState      string           `json:"shipping_state"`
	ShippingCountry    string           `json:"shipping_country"`
	ShippingPostalCode string           `json:"shipping_postal_code"`
	ShippingPhone      string           `json:"shipping_phone"`
	PaymentMethod      string           `json:"payment_method"`
	Items              []PlaceOrderItem `json:"items"`
}

// PlaceOrderItem is one requested line. Clients reference the product as
// either product_id or id; both are accepted and normalized during
// validation. Numeric fields tolerate JSON numbers or numeric strings.
type PlaceOrderItem struct {
	ProductID   common.Numeric `json:"product_id"`
	ID          common.Numeric `json:"id"`
	Quantity    common.Numeric `json:"quantity"`
	Price       common.Numeric `json:"price"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Brand       string         `json:"brand"`
}

// ProductRef returns the product reference, preferring product_id over the
// id alias.
func (i *PlaceOrderItem) ProductRef() common.Numeric {
	if !i.ProductID.IsEmpty() {
		return i.ProductID
	}
	return i.ID
}
