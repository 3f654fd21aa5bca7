package repositories

import (
	"context"

	"shopkart/internal/models"
)

type OrderItemRepository interface {
	ListByOrder(ctx context.Context, orderID int64) ([]*models.OrderItem, error)
}

type orderItemRepo struct {
	db Database
}

func NewOrderItemRepo(db Database) OrderItemRepository {
	return &orderItemRepo{db: db}
}

func (r *orderItemRepo) ListByOrder(ctx context.Context, orderID int64) ([]*models.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, oi.created_at,
			p.name, p.image_key
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		var imageKey *string
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price, &item.CreatedAt,
			&item.ProductName, &imageKey); err != nil {
			return nil, err
		}
		if imageKey != nil {
			item.ProductImage = *imageKey
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
