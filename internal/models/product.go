package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductSearchFilter holds search and filter criteria for catalog queries
type ProductSearchFilter struct {
	Query        string           `json:"query,omitempty"`         // Matches name, description, brand
	CategorySlug *string          `json:"category,omitempty"`      // Filter by category slug
	Brand        *string          `json:"brand,omitempty"`         // Brand substring match
	Condition    *string          `json:"condition,omitempty"`     // Exact condition match
	MinPrice     *decimal.Decimal `json:"min_price,omitempty"`     // Minimum price
	MaxPrice     *decimal.Decimal `json:"max_price,omitempty"`     // Maximum price
	FeaturedOnly bool             `json:"featured_only,omitempty"` // Featured products only
	SortBy       string           `json:"sort_by,omitempty"`       // price_low, price_high, rating, name, created_at
	Limit        int              `json:"limit,omitempty"`         // Page size (default: 50)
	Offset       int              `json:"offset,omitempty"`        // Page offset
}

type Product struct {
	ID            int64            `json:"id" db:"id"`
	CategoryID    int64            `json:"category_id" db:"category_id"`
	Category      *Category        `json:"category,omitempty" db:"-"`
	Name          string           `json:"name" db:"name"`
	Slug          string           `json:"slug" db:"slug"`
	Description   string           `json:"description" db:"description"`
	Price         decimal.Decimal  `json:"price" db:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price" db:"original_price"`
	Condition     string           `json:"condition" db:"condition"`
	Brand         string           `json:"brand" db:"brand"`
	SKU           string           `json:"sku" db:"sku"`
	StockQuantity int              `json:"stock_quantity" db:"stock_quantity"`
	IsFeatured    bool             `json:"is_featured" db:"is_featured"`
	IsActive      bool             `json:"is_active" db:"is_active"`
	Rating        decimal.Decimal  `json:"rating" db:"rating"`
	ReviewCount   int              `json:"review_count" db:"review_count"`
	ImageKey      *string          `json:"-" db:"image_key"`
	ImageURL      string           `json:"image,omitempty" db:"-"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}

// IsInStock reports whether any units remain.
func (p *Product) IsInStock() bool {
	return p.StockQuantity > 0
}

// DiscountPercentage returns the discount against the original price, zero
// when no original price is set or it is not higher than the current price.
func (p *Product) DiscountPercentage() decimal.Decimal {
	if p.OriginalPrice == nil || !p.OriginalPrice.GreaterThan(p.Price) {
		return decimal.Zero
	}
	hundred := decimal.NewFromInt(100)
	return p.OriginalPrice.Sub(p.Price).Div(*p.OriginalPrice).Mul(hundred).Round(0)
}
