package services

import (
	"context"
	"fmt"

	"shopkart/internal/models"
	"shopkart/internal/repositories"

	"github.com/shopspring/decimal"
)

// Default stock assigned to products provisioned from order data.
const provisionedStockQuantity = 100

// CatalogService is the catalog store the order workflow depends on: keyed
// product lookup plus creation with defaults. Injected so the workflow is
// testable without a live database.
type CatalogService interface {
	FindProduct(ctx context.Context, id int64) (*models.Product, error)
	ProvisionProduct(ctx context.Context, req *ProvisionRequest) (*models.Product, error)
}

// ProvisionRequest carries the caller-supplied data used to materialize a
// product that is not yet registered server-side.
type ProvisionRequest struct {
	ProductID   int64
	Name        string
	Description string
	Brand       string
	Price       decimal.Decimal
}

type catalogService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
}

// NewCatalogService creates a catalog service over the product and category
// repositories.
func NewCatalogService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *catalogService) FindProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// ProvisionProduct creates a product from order data with best-effort
// defaults, placing it into the fallback "General" category.
func (s *catalogService) ProvisionProduct(ctx context.Context, req *ProvisionRequest) (*models.Product, error) {
	category, err := s.categoryRepo.GetOrCreate(ctx,
		models.GeneralCategoryName, "general", "General category for products")
	if err != nil {
		return nil, fmt.Errorf("get or create fallback category: %w", err)
	}

	name := req.Name
	if name == "" {
		name = fmt.Sprintf("Product %d", req.ProductID)
	}
	description := req.Description
	if description == "" {
		description = "Product description"
	}
	brand := req.Brand
	if brand == "" {
		brand = "Unknown"
	}

	product := &models.Product{
		ID:            req.ProductID,
		CategoryID:    category.ID,
		Name:          name,
		Slug:          fmt.Sprintf("product-%d", req.ProductID),
		Description:   description,
		Price:         req.Price,
		Condition:     "new",
		Brand:         brand,
		SKU:           fmt.Sprintf("SKU-%d", req.ProductID),
		StockQuantity: provisionedStockQuantity,
		IsActive:      true,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product %d: %w", req.ProductID, err)
	}
	product.Category = category
	return product, nil
}
