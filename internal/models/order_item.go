package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one purchased line. Price is captured at purchase time and
// never follows later catalog price changes.
type OrderItem struct {
	ID          int64           `json:"id" db:"id"`
	OrderID     int64           `json:"order_id" db:"order_id"`
	ProductID   int64           `json:"product_id" db:"product_id"`
	ProductName string          `json:"product_name" db:"-"`
	ProductImage string         `json:"product_image,omitempty" db:"-"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Price       decimal.Decimal `json:"price" db:"price"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// TotalPrice is quantity times the captured unit price.
func (i *OrderItem) TotalPrice() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
