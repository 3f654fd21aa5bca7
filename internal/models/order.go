package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. Forward transitions (shipped, delivered) are driven by
// back-office tooling; the consumer API only creates and cancels.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment statuses.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

type Order struct {
	ID                 int64           `json:"id" db:"id"`
	OrderNumber        string          `json:"order_number" db:"order_number"`
	UserID             int64           `json:"user_id" db:"user_id"`
	Status             string          `json:"status" db:"status"`
	PaymentStatus      string          `json:"payment_status" db:"payment_status"`
	ShippingAddress    string          `json:"shipping_address" db:"shipping_address"`
	ShippingCity       string          `json:"shipping_city" db:"shipping_city"`
	ShippingState      string          `json:"shipping_state" db:"shipping_state"`
	ShippingCountry    string          `json:"shipping_country" db:"shipping_country"`
	ShippingPostalCode string          `json:"shipping_postal_code" db:"shipping_postal_code"`
	ShippingPhone      string          `json:"shipping_phone" db:"shipping_phone"`
	Subtotal           decimal.Decimal `json:"subtotal" db:"subtotal"`
	ShippingCost       decimal.Decimal `json:"shipping_cost" db:"shipping_cost"`
	TaxAmount          decimal.Decimal `json:"tax_amount" db:"tax_amount"`
	DiscountAmount     decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	TotalAmount        decimal.Decimal `json:"total_amount" db:"total_amount"`
	PaymentMethod      string          `json:"payment_method" db:"payment_method"`
	TransactionID      *string         `json:"transaction_id" db:"transaction_id"`
	Items              []*OrderItem    `json:"items,omitempty" db:"-"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
	ShippedAt          *time.Time      `json:"shipped_at" db:"shipped_at"`
	DeliveredAt        *time.Time      `json:"delivered_at" db:"delivered_at"`
}

// CanCancel reports whether the order may still be cancelled. Orders that
// already left the warehouse are final.
func (o *Order) CanCancel() bool {
	return o.Status != OrderStatusShipped && o.Status != OrderStatusDelivered
}

// ItemCount returns the total number of units across all line items.
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}
