package repositories

import (
	"context"
	"errors"
	"fmt"

	"shopkart/internal/models"

	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	// CreateWithItems persists the order, its items and the stock
	// decrements for every referenced product as one transaction.
	CreateWithItems(ctx context.Context, order *models.Order, items []*models.OrderItem) error
	GetByID(ctx context.Context, userID, id int64) (*models.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, order *models.Order) error
	OrderNumberExists(ctx context.Context, orderNumber string) (bool, error)
}

type orderRepo struct {
	db TxDatabase
}

func NewOrderRepo(db TxDatabase) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, order_number, user_id, status, payment_status,
		shipping_address, shipping_city, shipping_state, shipping_country, shipping_postal_code, shipping_phone,
		subtotal, shipping_cost, tax_amount, discount_amount, total_amount,
		payment_method, transaction_id, created_at, updated_at, shipped_at, delivered_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(
		&order.ID, &order.OrderNumber, &order.UserID, &order.Status, &order.PaymentStatus,
		&order.ShippingAddress, &order.ShippingCity, &order.ShippingState, &order.ShippingCountry,
		&order.ShippingPostalCode, &order.ShippingPhone,
		&order.Subtotal, &order.ShippingCost, &order.TaxAmount, &order.DiscountAmount, &order.TotalAmount,
		&order.PaymentMethod, &order.TransactionID,
		&order.CreatedAt, &order.UpdatedAt, &order.ShippedAt, &order.DeliveredAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) CreateWithItems(ctx context.Context, order *models.Order, items []*models.OrderItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin order transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertOrder := `
		INSERT INTO orders (order_number, user_id, status, payment_status,
			shipping_address, shipping_city, shipping_state, shipping_country, shipping_postal_code, shipping_phone,
			subtotal, shipping_cost, tax_amount, discount_amount, total_amount,
			payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, insertOrder,
		order.OrderNumber, order.UserID, order.Status, order.PaymentStatus,
		order.ShippingAddress, order.ShippingCity, order.ShippingState, order.ShippingCountry,
		order.ShippingPostalCode, order.ShippingPhone,
		order.Subtotal, order.ShippingCost, order.TaxAmount, order.DiscountAmount, order.TotalAmount,
		order.PaymentMethod,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	insertItem := `
		INSERT INTO order_items (order_id, product_id, quantity, price, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id
	`
	// Stock never goes below zero; the clamp runs server-side so concurrent
	// placements cannot read-modify-write it negative.
	decrementStock := `
		UPDATE products
		SET stock_quantity = GREATEST(stock_quantity - $1, 0), updated_at = NOW()
		WHERE id = $2
	`
	for _, item := range items {
		item.OrderID = order.ID
		if err := tx.QueryRow(ctx, insertItem, item.OrderID, item.ProductID, item.Quantity, item.Price).Scan(&item.ID); err != nil {
			return fmt.Errorf("insert order item for product %d: %w", item.ProductID, err)
		}
		if _, err := tx.Exec(ctx, decrementStock, item.Quantity, item.ProductID); err != nil {
			return fmt.Errorf("decrement stock for product %d: %w", item.ProductID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order transaction: %w", err)
	}
	order.Items = items
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, userID, id int64) (*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1 AND id = $2
	`
	order, err := scanOrder(r.db.QueryRow(ctx, query, userID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *orderRepo) UpdateStatus(ctx context.Context, order *models.Order) error {
	query := `
		UPDATE orders
		SET status = $1, payment_status = $2, shipped_at = $3, delivered_at = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, order.Status, order.PaymentStatus, order.ShippedAt, order.DeliveredAt, order.ID)
	return err
}

func (r *orderRepo) OrderNumberExists(ctx context.Context, orderNumber string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE order_number = $1)`, orderNumber).Scan(&exists)
	return exists, err
}
