package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"shopkart/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderColumnNames = []string{
	"id", "order_number", "user_id", "status", "payment_status",
	"shipping_address", "shipping_city", "shipping_state", "shipping_country", "shipping_postal_code", "shipping_phone",
	"subtotal", "shipping_cost", "tax_amount", "discount_amount", "total_amount",
	"payment_method", "transaction_id", "created_at", "updated_at", "shipped_at", "delivered_at",
}

func sampleOrder() *models.Order {
	return &models.Order{
		OrderNumber:        "ORD-ABCDEFGHIJKL",
		UserID:             1,
		Status:             models.OrderStatusConfirmed,
		PaymentStatus:      models.PaymentStatusPending,
		ShippingAddress:    "42 MG Road",
		ShippingCity:       "Bengaluru",
		ShippingState:      "N/A",
		ShippingCountry:    "India",
		ShippingPostalCode: "N/A",
		ShippingPhone:      "9876543210",
		Subtotal:           decimal.RequireFromString("50.00"),
		ShippingCost:       decimal.RequireFromString("5.99"),
		TaxAmount:          decimal.RequireFromString("4.00"),
		DiscountAmount:     decimal.Zero,
		TotalAmount:        decimal.RequireFromString("59.99"),
		PaymentMethod:      "cod",
	}
}

func TestCreateWithItems(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewOrderRepo(mockPool)
	order := sampleOrder()
	price := decimal.RequireFromString("25.00")
	items := []*models.OrderItem{{ProductID: 7, Quantity: 2, Price: price}}
	now := time.Now()

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(`INSERT INTO orders`).
		WithArgs(order.OrderNumber, order.UserID, order.Status, order.PaymentStatus,
			order.ShippingAddress, order.ShippingCity, order.ShippingState, order.ShippingCountry,
			order.ShippingPostalCode, order.ShippingPhone,
			order.Subtotal, order.ShippingCost, order.TaxAmount, order.DiscountAmount, order.TotalAmount,
			order.PaymentMethod).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))
	mockPool.ExpectQuery(`INSERT INTO order_items`).
		WithArgs(int64(11), int64(7), 2, price).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(21)))
	mockPool.ExpectExec(`UPDATE products`).
		WithArgs(2, int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectCommit()

	err = repo.CreateWithItems(context.Background(), order, items)

	require.NoError(t, err)
	assert.Equal(t, int64(11), order.ID)
	assert.Equal(t, int64(21), items[0].ID)
	assert.Equal(t, int64(11), items[0].OrderID)
	assert.Len(t, order.Items, 1)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestCreateWithItemsRollsBackOnItemFailure(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewOrderRepo(mockPool)
	order := sampleOrder()
	items := []*models.OrderItem{{ProductID: 7, Quantity: 2, Price: decimal.RequireFromString("25.00")}}
	now := time.Now()

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(`INSERT INTO orders`).
		WithArgs(order.OrderNumber, order.UserID, order.Status, order.PaymentStatus,
			order.ShippingAddress, order.ShippingCity, order.ShippingState, order.ShippingCountry,
			order.ShippingPostalCode, order.ShippingPhone,
			order.Subtotal, order.ShippingCost, order.TaxAmount, order.DiscountAmount, order.TotalAmount,
			order.PaymentMethod).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))
	mockPool.ExpectQuery(`INSERT INTO order_items`).
		WithArgs(int64(11), int64(7), 2, pgxmock.AnyArg()).
		WillReturnError(errors.New("constraint violation"))
	mockPool.ExpectRollback()

	err = repo.CreateWithItems(context.Background(), order, items)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert order item for product 7")
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewOrderRepo(mockPool)
	now := time.Now()

	mockPool.ExpectQuery(`SELECT (.+) FROM orders`).
		WithArgs(int64(1), int64(11)).
		WillReturnRows(pgxmock.NewRows(orderColumnNames).AddRow(
			int64(11), "ORD-ABCDEFGHIJKL", int64(1), models.OrderStatusConfirmed, models.PaymentStatusPending,
			"42 MG Road", "Bengaluru", "N/A", "India", "N/A", "9876543210",
			decimal.RequireFromString("50.00"), decimal.RequireFromString("5.99"),
			decimal.RequireFromString("4.00"), decimal.Zero, decimal.RequireFromString("59.99"),
			"cod", nil, now, now, nil, nil,
		))

	order, err := repo.GetByID(context.Background(), 1, 11)

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, "ORD-ABCDEFGHIJKL", order.OrderNumber)
	assert.Equal(t, "59.99", order.TotalAmount.StringFixed(2))
	assert.Nil(t, order.TransactionID)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewOrderRepo(mockPool)

	mockPool.ExpectQuery(`SELECT (.+) FROM orders`).
		WithArgs(int64(1), int64(99)).
		WillReturnError(pgx.ErrNoRows)

	order, err := repo.GetByID(context.Background(), 1, 99)

	require.NoError(t, err)
	assert.Nil(t, order)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestListByUser(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewOrderRepo(mockPool)
	now := time.Now()

	rows := pgxmock.NewRows(orderColumnNames).
		AddRow(int64(12), "ORD-NEWERNEWERAB", int64(1), models.OrderStatusConfirmed, models.PaymentStatusPending,
			"42 MG Road", "Bengaluru", "N/A", "India", "N/A", "9876543210",
			decimal.RequireFromString("60.00"), decimal.Zero,
			decimal.RequireFromString("4.80"), decimal.Zero, decimal.RequireFromString("64.80"),
			"cod", nil, now, now, nil, nil).
		AddRow(int64(11), "ORD-OLDEROLDERAB", int64(1), models.OrderStatusDelivered, models.PaymentStatusCompleted,
			"42 MG Road", "Bengaluru", "N/A", "India", "N/A", "9876543210",
			decimal.RequireFromString("50.00"), decimal.RequireFromString("5.99"),
			decimal.RequireFromString("4.00"), decimal.Zero, decimal.RequireFromString("59.99"),
			"cod", nil, now.Add(-time.Hour), now.Add(-time.Hour), nil, nil)
	mockPool.ExpectQuery(`SELECT (.+) FROM orders`).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	orders, err := repo.ListByUser(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-NEWERNEWERAB", orders[0].OrderNumber)
	assert.Equal(t, "ORD-OLDEROLDERAB", orders[1].OrderNumber)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestUpdateStatus(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewOrderRepo(mockPool)
	order := sampleOrder()
	order.ID = 11
	order.Status = models.OrderStatusCancelled

	mockPool.ExpectExec(`UPDATE orders`).
		WithArgs(models.OrderStatusCancelled, models.PaymentStatusPending, pgxmock.AnyArg(), pgxmock.AnyArg(), int64(11)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), order))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestOrderNumberExists(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewOrderRepo(mockPool)

	mockPool.ExpectQuery(`SELECT EXISTS`).
		WithArgs("ORD-ABCDEFGHIJKL").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.OrderNumberExists(context.Background(), "ORD-ABCDEFGHIJKL")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
