package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"shopkart/internal/common"
	"shopkart/internal/models"
	"shopkart/internal/services"

	"github.com/labstack/echo/v4"
)

// OrderHandlers handles HTTP requests for orders
type OrderHandlers struct {
	orderService services.OrderServiceInterface
}

// NewOrderHandlers creates a new order handlers instance
func NewOrderHandlers(orderService services.OrderServiceInterface) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

// PlaceOrder handles POST /orders
func (h *OrderHandlers) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req models.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid order data", "Request body must be a valid order submission")
	}

	order, err := h.orderService.PlaceOrder(ctx, userID, &req)
	if err != nil {
		var validationErr *common.ValidationError
		if errors.As(err, &validationErr) {
			return common.SendValidationError(c, "Invalid order data", validationErr.Message)
		}
		var provisioningErr *common.ProvisioningError
		if errors.As(err, &provisioningErr) {
			return common.SendValidationError(c, "Validation error", provisioningErr.Error())
		}
		return common.SendServerError(c, "Failed to place order", err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":        "Order placed successfully!",
		"order_number":   order.OrderNumber,
		"order_id":       order.ID,
		"total_amount":   order.TotalAmount.StringFixed(2),
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
	})
}

// CancelOrder handles POST /orders/:id/cancel
func (h *OrderHandlers) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return common.SendClientError(c, "Invalid order id")
	}

	if err := h.orderService.CancelOrder(ctx, userID, orderID); err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return common.SendNotFoundError(c, "Order")
		}
		var stateErr *common.StateError
		if errors.As(err, &stateErr) {
			return common.SendClientError(c, stateErr.Message)
		}
		return common.SendServerError(c, "Failed to cancel order", err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Order cancelled successfully",
	})
}

// MarkShipped handles POST /orders/:id/ship
func (h *OrderHandlers) MarkShipped(c echo.Context) error {
	return h.transition(c, h.orderService.MarkShipped, "Order marked as shipped")
}

// MarkDelivered handles POST /orders/:id/deliver
func (h *OrderHandlers) MarkDelivered(c echo.Context) error {
	return h.transition(c, h.orderService.MarkDelivered, "Order marked as delivered")
}

func (h *OrderHandlers) transition(c echo.Context, apply func(ctx context.Context, userID, orderID int64) error, message string) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return common.SendClientError(c, "Invalid order id")
	}

	if err := apply(ctx, userID, orderID); err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return common.SendNotFoundError(c, "Order")
		}
		var stateErr *common.StateError
		if errors.As(err, &stateErr) {
			return common.SendClientError(c, stateErr.Message)
		}
		return common.SendServerError(c, "Failed to update order", err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"message": message})
}

// OrderHistory handles GET /orders
func (h *OrderHandlers) OrderHistory(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	orders, err := h.orderService.OrderHistory(ctx, userID)
	if err != nil {
		return common.SendServerError(c, "Failed to fetch order history", err.Error())
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return c.JSON(http.StatusOK, orders)
}

// OrderDetail handles GET /orders/:id
func (h *OrderHandlers) OrderDetail(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return common.SendClientError(c, "Invalid order id")
	}

	order, err := h.orderService.OrderDetail(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return common.SendNotFoundError(c, "Order")
		}
		return common.SendServerError(c, "Failed to fetch order details", err.Error())
	}

	return c.JSON(http.StatusOK, order)
}
