package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"shopkart/internal/common"
	"shopkart/internal/models"
	"shopkart/internal/repositories"

	"github.com/labstack/gommon/random"
	"github.com/shopspring/decimal"
)

// ErrOrderNotFound is returned when an order does not exist or does not
// belong to the requesting user.
var ErrOrderNotFound = errors.New("order not found")

// OrderServiceInterface defines the order workflow operations.
type OrderServiceInterface interface {
	PlaceOrder(ctx context.Context, userID int64, req *models.PlaceOrderRequest) (*models.Order, error)
	CancelOrder(ctx context.Context, userID, orderID int64) error
	OrderHistory(ctx context.Context, userID int64) ([]*models.Order, error)
	OrderDetail(ctx context.Context, userID, orderID int64) (*models.Order, error)
	MarkShipped(ctx context.Context, userID, orderID int64) error
	MarkDelivered(ctx context.Context, userID, orderID int64) error
}

type orderService struct {
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	catalog       CatalogService
	media         MediaService
	autoProvision bool
}

// NewOrderService creates the order service. media may be nil when no object
// store is configured; item image URLs are then omitted.
func NewOrderService(orderRepo repositories.OrderRepository, orderItemRepo repositories.OrderItemRepository,
	catalog CatalogService, media MediaService, autoProvision bool) OrderServiceInterface {
	return &orderService{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		catalog:       catalog,
		media:         media,
		autoProvision: autoProvision,
	}
}

// resolvedItem pairs a validated line request with its catalog product so the
// persistence step reuses the resolution instead of provisioning twice.
type resolvedItem struct {
	product  *models.Product
	quantity int
	price    decimal.Decimal
}

// PlaceOrder validates a raw submission, resolves or materializes the
// referenced products, computes pricing and persists the order with its items
// as one atomic unit.
func (s *orderService) PlaceOrder(ctx context.Context, userID int64, req *models.PlaceOrderRequest) (*models.Order, error) {
	resolved, err := s.validateAndResolve(ctx, req)
	if err != nil {
		return nil, err
	}

	items := make([]*models.OrderItem, 0, len(resolved))
	for _, ri := range resolved {
		items = append(items, &models.OrderItem{
			ProductID:   ri.product.ID,
			ProductName: ri.product.Name,
			Quantity:    ri.quantity,
			Price:       ri.price,
		})
	}
	totals := ComputeOrderTotals(items)

	orderNumber, err := s.generateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNumber:        orderNumber,
		UserID:             userID,
		Status:             models.OrderStatusConfirmed,
		PaymentStatus:      models.PaymentStatusPending,
		ShippingAddress:    strings.TrimSpace(req.ShippingAddress),
		ShippingCity:       strings.TrimSpace(req.ShippingCity),
		ShippingState:      defaultIfBlank(req.ShippingState, "N/A"),
		ShippingCountry:    defaultIfBlank(req.ShippingCountry, "India"),
		ShippingPostalCode: defaultIfBlank(req.ShippingPostalCode, "N/A"),
		ShippingPhone:      strings.TrimSpace(req.ShippingPhone),
		Subtotal:           totals.Subtotal,
		ShippingCost:       totals.ShippingCost,
		TaxAmount:          totals.TaxAmount,
		DiscountAmount:     totals.DiscountAmount,
		TotalAmount:        totals.TotalAmount,
		PaymentMethod:      defaultIfBlank(req.PaymentMethod, "cod"),
	}

	if err := s.orderRepo.CreateWithItems(ctx, order, items); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}
	return order, nil
}

// validateAndResolve runs the full validation contract over the submission.
// The first failure wins and is reported with the offending field or 1-based
// item index. Unknown product references are provisioned here so the
// persistence step can reuse the result.
func (s *orderService) validateAndResolve(ctx context.Context, req *models.PlaceOrderRequest) ([]*resolvedItem, error) {
	if err := common.RequireNonBlank(req.ShippingAddress, "Shipping Address"); err != nil {
		return nil, err
	}
	if err := common.RequireNonBlank(req.ShippingCity, "Shipping City"); err != nil {
		return nil, err
	}
	if err := common.RequireNonBlank(req.ShippingPhone, "Shipping Phone"); err != nil {
		return nil, err
	}

	if len(req.Items) == 0 {
		return nil, common.NewValidationError("items", "At least one item is required.")
	}

	resolved := make([]*resolvedItem, 0, len(req.Items))
	for i := range req.Items {
		item := &req.Items[i]
		ordinal := i + 1

		ref := item.ProductRef()
		if ref.IsEmpty() {
			return nil, common.NewValidationError("items", "Product ID is required for item %d.", ordinal)
		}
		productID, err := strconv.ParseInt(strings.TrimSpace(ref.String()), 10, 64)
		if err != nil || productID <= 0 {
			return nil, common.NewValidationError("items", "Product ID must be a valid number for item %d.", ordinal)
		}

		if item.Quantity.IsEmpty() {
			return nil, common.NewValidationError("items", "Quantity must be greater than 0 for item %d.", ordinal)
		}
		quantity, err := strconv.Atoi(strings.TrimSpace(item.Quantity.String()))
		if err != nil {
			return nil, common.NewValidationError("items", "Quantity must be a valid number for item %d.", ordinal)
		}
		if quantity <= 0 {
			return nil, common.NewValidationError("items", "Quantity must be greater than 0 for item %d.", ordinal)
		}

		if item.Price.IsEmpty() {
			return nil, common.NewValidationError("items", "Price must be greater than 0 for item %d.", ordinal)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(item.Price.String()))
		if err != nil {
			return nil, common.NewValidationError("items", "Price must be a valid number for item %d.", ordinal)
		}
		if !price.GreaterThan(decimal.Zero) {
			return nil, common.NewValidationError("items", "Price must be greater than 0 for item %d.", ordinal)
		}

		product, err := s.catalog.FindProduct(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("look up product %d: %w", productID, err)
		}
		switch {
		case product != nil && !product.IsActive:
			return nil, common.NewValidationError("items", "Product '%s' is not available.", product.Name)
		case product == nil && !s.autoProvision:
			return nil, common.NewValidationError("items", "Product %d was not found.", productID)
		case product == nil:
			product, err = s.catalog.ProvisionProduct(ctx, &ProvisionRequest{
				ProductID:   productID,
				Name:        item.Name,
				Description: item.Description,
				Brand:       item.Brand,
				Price:       price,
			})
			if err != nil {
				return nil, &common.ProvisioningError{ProductID: productID, Err: err}
			}
		}

		resolved = append(resolved, &resolvedItem{product: product, quantity: quantity, price: price})
	}
	return resolved, nil
}

// CancelOrder cancels the user's order unless it already shipped or was
// delivered.
func (s *orderService) CancelOrder(ctx context.Context, userID, orderID int64) error {
	order, err := s.orderRepo.GetByID(ctx, userID, orderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if !order.CanCancel() {
		return &common.StateError{Message: "Cannot cancel order that has been shipped or delivered"}
	}

	order.Status = models.OrderStatusCancelled
	return s.orderRepo.UpdateStatus(ctx, order)
}

// OrderHistory returns the user's orders newest first, items included.
func (s *orderService) OrderHistory(ctx context.Context, userID int64) ([]*models.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	for _, order := range orders {
		if err := s.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// OrderDetail returns a single order with its items, scoped to the owner.
func (s *orderService) OrderDetail(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, userID, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if err := s.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// MarkShipped transitions a confirmed or processing order to shipped.
func (s *orderService) MarkShipped(ctx context.Context, userID, orderID int64) error {
	order, err := s.orderRepo.GetByID(ctx, userID, orderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.Status != models.OrderStatusConfirmed && order.Status != models.OrderStatusProcessing {
		return &common.StateError{Message: fmt.Sprintf("Cannot ship order with status '%s'", order.Status)}
	}

	now := time.Now()
	order.Status = models.OrderStatusShipped
	order.ShippedAt = &now
	return s.orderRepo.UpdateStatus(ctx, order)
}

// MarkDelivered transitions a shipped order to delivered.
func (s *orderService) MarkDelivered(ctx context.Context, userID, orderID int64) error {
	order, err := s.orderRepo.GetByID(ctx, userID, orderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.Status != models.OrderStatusShipped {
		return &common.StateError{Message: fmt.Sprintf("Cannot deliver order with status '%s'", order.Status)}
	}

	now := time.Now()
	order.Status = models.OrderStatusDelivered
	order.DeliveredAt = &now
	return s.orderRepo.UpdateStatus(ctx, order)
}

func (s *orderService) loadItems(ctx context.Context, order *models.Order) error {
	items, err := s.orderItemRepo.ListByOrder(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("list items for order %d: %w", order.ID, err)
	}
	if s.media != nil {
		for _, item := range items {
			item.ProductImage = s.media.ImageURL(item.ProductImage)
		}
	}
	order.Items = items
	return nil
}

func (s *orderService) generateOrderNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		candidate := "ORD-" + random.String(12, random.Uppercase)
		exists, err := s.orderRepo.OrderNumberExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check order number: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", errors.New("could not generate a unique order number")
}

func defaultIfBlank(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
