package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shopkart/internal/common"
	"shopkart/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateWithItems(ctx context.Context, order *models.Order, items []*models.OrderItem) error {
	args := m.Called(ctx, order, items)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, userID, id int64) (*models.Order, error) {
	args := m.Called(ctx, userID, id)
	if order := args.Get(0); order != nil {
		return order.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	args := m.Called(ctx, userID)
	if orders := args.Get(0); orders != nil {
		return orders.([]*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) OrderNumberExists(ctx context.Context, orderNumber string) (bool, error) {
	args := m.Called(ctx, orderNumber)
	return args.Bool(0), args.Error(1)
}

type MockOrderItemRepository struct {
	mock.Mock
}

func (m *MockOrderItemRepository) ListByOrder(ctx context.Context, orderID int64) ([]*models.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if items := args.Get(0); items != nil {
		return items.([]*models.OrderItem), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) FindProduct(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	if product := args.Get(0); product != nil {
		return product.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) ProvisionProduct(ctx context.Context, req *ProvisionRequest) (*models.Product, error) {
	args := m.Called(ctx, req)
	if product := args.Get(0); product != nil {
		return product.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

type OrderServiceTestSuite struct {
	suite.Suite
	orderRepo     *MockOrderRepository
	orderItemRepo *MockOrderItemRepository
	catalog       *MockCatalogService
	service       OrderServiceInterface
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.orderRepo = new(MockOrderRepository)
	s.orderItemRepo = new(MockOrderItemRepository)
	s.catalog = new(MockCatalogService)
	s.service = NewOrderService(s.orderRepo, s.orderItemRepo, s.catalog, nil, true)
}

func validRequest() *models.PlaceOrderRequest {
	return &models.PlaceOrderRequest{
		ShippingAddress: "42 MG Road",
		ShippingCity:    "Bengaluru",
		ShippingPhone:   "9876543210",
		Items: []models.PlaceOrderItem{
			{ProductID: "7", Quantity: "2", Price: "25.00"},
		},
	}
}

func activeProduct(id int64, name string) *models.Product {
	return &models.Product{
		ID:            id,
		Name:          name,
		IsActive:      true,
		StockQuantity: 40,
	}
}

func (s *OrderServiceTestSuite) expectPersistence() {
	s.orderRepo.On("OrderNumberExists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
	s.orderRepo.On("CreateWithItems", mock.Anything, mock.AnythingOfType("*models.Order"), mock.Anything).Return(nil)
}

func (s *OrderServiceTestSuite) TestPlaceOrderSuccess() {
	s.catalog.On("FindProduct", mock.Anything, int64(7)).Return(activeProduct(7, "Widget"), nil)
	s.expectPersistence()

	order, err := s.service.PlaceOrder(context.Background(), 1, validRequest())

	s.Require().NoError(err)
	s.Equal("50.00", order.Subtotal.StringFixed(2))
	s.Equal("5.99", order.ShippingCost.StringFixed(2))
	s.Equal("4.00", order.TaxAmount.StringFixed(2))
	s.True(order.DiscountAmount.IsZero())
	s.Equal("59.99", order.TotalAmount.StringFixed(2))
	s.Equal(models.OrderStatusConfirmed, order.Status)
	s.Equal(models.PaymentStatusPending, order.PaymentStatus)
	s.True(strings.HasPrefix(order.OrderNumber, "ORD-"), "order number %q", order.OrderNumber)
	s.Len(order.OrderNumber, 16)
	s.orderRepo.AssertNumberOfCalls(s.T(), "CreateWithItems", 1)
}

func (s *OrderServiceTestSuite) TestPlaceOrderAppliesShippingDefaults() {
	s.catalog.On("FindProduct", mock.Anything, int64(7)).Return(activeProduct(7, "Widget"), nil)
	s.expectPersistence()

	order, err := s.service.PlaceOrder(context.Background(), 1, validRequest())

	s.Require().NoError(err)
	s.Equal("N/A", order.ShippingState)
	s.Equal("India", order.ShippingCountry)
	s.Equal("N/A", order.ShippingPostalCode)
	s.Equal("cod", order.PaymentMethod)
}

func (s *OrderServiceTestSuite) TestPlaceOrderFreeShippingAboveThreshold() {
	s.catalog.On("FindProduct", mock.Anything, int64(7)).Return(activeProduct(7, "Widget"), nil)
	s.expectPersistence()

	req := validRequest()
	req.Items[0].Price = "30.00"

	order, err := s.service.PlaceOrder(context.Background(), 1, req)

	s.Require().NoError(err)
	s.Equal("60.00", order.Subtotal.StringFixed(2))
	s.Equal("0.00", order.ShippingCost.StringFixed(2))
	s.Equal("4.80", order.TaxAmount.StringFixed(2))
	s.Equal("64.80", order.TotalAmount.StringFixed(2))
}

func (s *OrderServiceTestSuite) TestPlaceOrderAcceptsIDAlias() {
	s.catalog.On("FindProduct", mock.Anything, int64(9)).Return(activeProduct(9, "Gadget"), nil)
	s.expectPersistence()

	req := validRequest()
	req.Items[0].ProductID = ""
	req.Items[0].ID = "9"

	order, err := s.service.PlaceOrder(context.Background(), 1, req)

	s.Require().NoError(err)
	s.Require().Len(order.Items, 1)
	s.Equal(int64(9), order.Items[0].ProductID)
}

func (s *OrderServiceTestSuite) TestPlaceOrderValidationFailures() {
	tests := []struct {
		name    string
		mutate  func(req *models.PlaceOrderRequest)
		message string
	}{
		{
			name:    "blank shipping address",
			mutate:  func(req *models.PlaceOrderRequest) { req.ShippingAddress = "   " },
			message: "Shipping Address is required.",
		},
		{
			name:    "blank shipping city",
			mutate:  func(req *models.PlaceOrderRequest) { req.ShippingCity = "" },
			message: "Shipping City is required.",
		},
		{
			name:    "blank shipping phone",
			mutate:  func(req *models.PlaceOrderRequest) { req.ShippingPhone = "" },
			message: "Shipping Phone is required.",
		},
		{
			name:    "no items",
			mutate:  func(req *models.PlaceOrderRequest) { req.Items = nil },
			message: "At least one item is required.",
		},
		{
			name: "missing product reference",
			mutate: func(req *models.PlaceOrderRequest) {
				req.Items[0].ProductID = ""
				req.Items[0].ID = ""
			},
			message: "Product ID is required for item 1.",
		},
		{
			name:    "non-numeric product reference",
			mutate:  func(req *models.PlaceOrderRequest) { req.Items[0].ProductID = "abc" },
			message: "Product ID must be a valid number for item 1.",
		},
		{
			name:    "negative product reference",
			mutate:  func(req *models.PlaceOrderRequest) { req.Items[0].ProductID = "-3" },
			message: "Product ID must be a valid number for item 1.",
		},
		{
			name:    "zero quantity",
			mutate:  func(req *models.PlaceOrderRequest) { req.Items[0].Quantity = "0" },
			message: "Quantity must be greater than 0 for item 1.",
		},
		{
			name:    "non-numeric quantity",
			mutate:  func(req *models.PlaceOrderRequest) { req.Items[0].Quantity = "two" },
			message: "Quantity must be a valid number for item 1.",
		},
		{
			name:    "zero price",
			mutate:  func(req *models.PlaceOrderRequest) { req.Items[0].Price = "0" },
			message: "Price must be greater than 0 for item 1.",
		},
		{
			name:    "negative price",
			mutate:  func(req *models.PlaceOrderRequest) { req.Items[0].Price = "-1.50" },
			message: "Price must be greater than 0 for item 1.",
		},
		{
			name:    "non-numeric price",
			mutate:  func(req *models.PlaceOrderRequest) { req.Items[0].Price = "cheap" },
			message: "Price must be a valid number for item 1.",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := validRequest()
			tt.mutate(req)

			order, err := s.service.PlaceOrder(context.Background(), 1, req)

			s.Nil(order)
			var ve *common.ValidationError
			s.Require().ErrorAs(err, &ve)
			s.Equal(tt.message, ve.Message)
		})
	}
	s.orderRepo.AssertNumberOfCalls(s.T(), "CreateWithItems", 0)
}

func (s *OrderServiceTestSuite) TestPlaceOrderBadOrdinalInSecondItem() {
	s.catalog.On("FindProduct", mock.Anything, int64(7)).Return(activeProduct(7, "Widget"), nil)

	req := validRequest()
	req.Items = append(req.Items, models.PlaceOrderItem{ProductID: "8", Quantity: "-1", Price: "10.00"})

	_, err := s.service.PlaceOrder(context.Background(), 1, req)

	var ve *common.ValidationError
	s.Require().ErrorAs(err, &ve)
	s.Equal("Quantity must be greater than 0 for item 2.", ve.Message)
	s.orderRepo.AssertNumberOfCalls(s.T(), "CreateWithItems", 0)
}

func (s *OrderServiceTestSuite) TestPlaceOrderInactiveProduct() {
	s.catalog.On("FindProduct", mock.Anything, int64(7)).
		Return(&models.Product{ID: 7, Name: "Old Phone", IsActive: false}, nil)

	_, err := s.service.PlaceOrder(context.Background(), 1, validRequest())

	var ve *common.ValidationError
	s.Require().ErrorAs(err, &ve)
	s.Equal("Product 'Old Phone' is not available.", ve.Message)
	s.orderRepo.AssertNumberOfCalls(s.T(), "CreateWithItems", 0)
}

func (s *OrderServiceTestSuite) TestPlaceOrderProvisionsUnknownProduct() {
	s.catalog.On("FindProduct", mock.Anything, int64(7)).Return(nil, nil)
	s.catalog.On("ProvisionProduct", mock.Anything, mock.MatchedBy(func(req *ProvisionRequest) bool {
		return req.ProductID == 7 && req.Price.Equal(decimal.RequireFromString("25.00"))
	})).Return(activeProduct(7, "Product 7"), nil)
	s.expectPersistence()

	order, err := s.service.PlaceOrder(context.Background(), 1, validRequest())

	s.Require().NoError(err)
	s.Require().Len(order.Items, 1)
	s.Equal("25.00", order.Items[0].Price.StringFixed(2))
	s.catalog.AssertNumberOfCalls(s.T(), "ProvisionProduct", 1)
}

func (s *OrderServiceTestSuite) TestPlaceOrderUnknownProductWithProvisionDisabled() {
	s.service = NewOrderService(s.orderRepo, s.orderItemRepo, s.catalog, nil, false)
	s.catalog.On("FindProduct", mock.Anything, int64(7)).Return(nil, nil)

	_, err := s.service.PlaceOrder(context.Background(), 1, validRequest())

	var ve *common.ValidationError
	s.Require().ErrorAs(err, &ve)
	s.Equal("Product 7 was not found.", ve.Message)
	s.catalog.AssertNumberOfCalls(s.T(), "ProvisionProduct", 0)
}

func (s *OrderServiceTestSuite) TestPlaceOrderProvisioningFailure() {
	s.catalog.On("FindProduct", mock.Anything, int64(7)).Return(nil, nil)
	s.catalog.On("ProvisionProduct", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := s.service.PlaceOrder(context.Background(), 1, validRequest())

	var pe *common.ProvisioningError
	s.Require().ErrorAs(err, &pe)
	s.Equal("Could not create product 7. Please try again.", pe.Error())
	s.orderRepo.AssertNumberOfCalls(s.T(), "CreateWithItems", 0)
}

func (s *OrderServiceTestSuite) TestPlaceOrderRetriesOrderNumberCollision() {
	s.catalog.On("FindProduct", mock.Anything, int64(7)).Return(activeProduct(7, "Widget"), nil)
	s.orderRepo.On("OrderNumberExists", mock.Anything, mock.AnythingOfType("string")).Return(true, nil).Once()
	s.orderRepo.On("OrderNumberExists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil).Once()
	s.orderRepo.On("CreateWithItems", mock.Anything, mock.AnythingOfType("*models.Order"), mock.Anything).Return(nil)

	order, err := s.service.PlaceOrder(context.Background(), 1, validRequest())

	s.Require().NoError(err)
	s.NotEmpty(order.OrderNumber)
	s.orderRepo.AssertNumberOfCalls(s.T(), "OrderNumberExists", 2)
}

func (s *OrderServiceTestSuite) TestCancelOrderConfirmed() {
	order := &models.Order{ID: 10, UserID: 1, Status: models.OrderStatusConfirmed}
	s.orderRepo.On("GetByID", mock.Anything, int64(1), int64(10)).Return(order, nil)
	s.orderRepo.On("UpdateStatus", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
		return o.Status == models.OrderStatusCancelled
	})).Return(nil)

	err := s.service.CancelOrder(context.Background(), 1, 10)

	s.NoError(err)
	s.orderRepo.AssertNumberOfCalls(s.T(), "UpdateStatus", 1)
}

func (s *OrderServiceTestSuite) TestCancelOrderShippedOrDelivered() {
	for _, status := range []string{models.OrderStatusShipped, models.OrderStatusDelivered} {
		s.Run(status, func() {
			order := &models.Order{ID: 10, UserID: 1, Status: status}
			s.orderRepo.On("GetByID", mock.Anything, int64(1), int64(10)).Return(order, nil).Once()

			err := s.service.CancelOrder(context.Background(), 1, 10)

			var se *common.StateError
			s.Require().ErrorAs(err, &se)
			s.Equal("Cannot cancel order that has been shipped or delivered", se.Message)
		})
	}
	s.orderRepo.AssertNumberOfCalls(s.T(), "UpdateStatus", 0)
}

func (s *OrderServiceTestSuite) TestCancelOrderNotFound() {
	s.orderRepo.On("GetByID", mock.Anything, int64(1), int64(99)).Return(nil, nil)

	err := s.service.CancelOrder(context.Background(), 1, 99)

	s.ErrorIs(err, ErrOrderNotFound)
}

func (s *OrderServiceTestSuite) TestMarkShipped() {
	order := &models.Order{ID: 10, UserID: 1, Status: models.OrderStatusConfirmed}
	s.orderRepo.On("GetByID", mock.Anything, int64(1), int64(10)).Return(order, nil)
	s.orderRepo.On("UpdateStatus", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
		return o.Status == models.OrderStatusShipped && o.ShippedAt != nil
	})).Return(nil)

	s.NoError(s.service.MarkShipped(context.Background(), 1, 10))
}

func (s *OrderServiceTestSuite) TestMarkShippedRejectsCancelled() {
	order := &models.Order{ID: 10, UserID: 1, Status: models.OrderStatusCancelled}
	s.orderRepo.On("GetByID", mock.Anything, int64(1), int64(10)).Return(order, nil)

	err := s.service.MarkShipped(context.Background(), 1, 10)

	var se *common.StateError
	s.Require().ErrorAs(err, &se)
}

func (s *OrderServiceTestSuite) TestMarkDelivered() {
	order := &models.Order{ID: 10, UserID: 1, Status: models.OrderStatusShipped}
	s.orderRepo.On("GetByID", mock.Anything, int64(1), int64(10)).Return(order, nil)
	s.orderRepo.On("UpdateStatus", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
		return o.Status == models.OrderStatusDelivered && o.DeliveredAt != nil
	})).Return(nil)

	s.NoError(s.service.MarkDelivered(context.Background(), 1, 10))
}

func (s *OrderServiceTestSuite) TestMarkDeliveredRequiresShipped() {
	order := &models.Order{ID: 10, UserID: 1, Status: models.OrderStatusConfirmed}
	s.orderRepo.On("GetByID", mock.Anything, int64(1), int64(10)).Return(order, nil)

	err := s.service.MarkDelivered(context.Background(), 1, 10)

	var se *common.StateError
	s.Require().ErrorAs(err, &se)
}

func (s *OrderServiceTestSuite) TestOrderHistoryLoadsItems() {
	orders := []*models.Order{
		{ID: 2, UserID: 1, Status: models.OrderStatusConfirmed},
		{ID: 1, UserID: 1, Status: models.OrderStatusDelivered},
	}
	s.orderRepo.On("ListByUser", mock.Anything, int64(1)).Return(orders, nil)
	s.orderItemRepo.On("ListByOrder", mock.Anything, int64(2)).
		Return([]*models.OrderItem{{ID: 5, OrderID: 2, ProductID: 7, Quantity: 2}}, nil)
	s.orderItemRepo.On("ListByOrder", mock.Anything, int64(1)).
		Return([]*models.OrderItem{}, nil)

	result, err := s.service.OrderHistory(context.Background(), 1)

	s.Require().NoError(err)
	s.Require().Len(result, 2)
	s.Len(result[0].Items, 1)
	s.Empty(result[1].Items)
}

func (s *OrderServiceTestSuite) TestOrderDetail() {
	order := &models.Order{ID: 10, UserID: 1, Status: models.OrderStatusConfirmed}
	s.orderRepo.On("GetByID", mock.Anything, int64(1), int64(10)).Return(order, nil)
	s.orderItemRepo.On("ListByOrder", mock.Anything, int64(10)).
		Return([]*models.OrderItem{{ID: 5, OrderID: 10, ProductID: 7, Quantity: 2}}, nil)

	result, err := s.service.OrderDetail(context.Background(), 1, 10)

	s.Require().NoError(err)
	s.Require().Len(result.Items, 1)
	s.Equal(int64(7), result.Items[0].ProductID)
}

func (s *OrderServiceTestSuite) TestOrderDetailNotFound() {
	s.orderRepo.On("GetByID", mock.Anything, int64(1), int64(99)).Return(nil, nil)

	_, err := s.service.OrderDetail(context.Background(), 1, 99)

	s.ErrorIs(err, ErrOrderNotFound)
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}
