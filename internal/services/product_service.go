package services

import (
	"context"
	"fmt"
	"io"
	"path"

	"shopkart/internal/models"
	"shopkart/internal/repositories"

	"github.com/google/uuid"
)

// ProductServiceInterface defines catalog read operations plus image
// attachment.
type ProductServiceInterface interface {
	ListProducts(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error)
	GetProduct(ctx context.Context, slug string) (*models.Product, error)
	AttachImage(ctx context.Context, productID int64, reader io.Reader, size int64, contentType, filename string) (string, error)
}

type productService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	media        MediaService
}

func NewProductService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository,
	media MediaService) ProductServiceInterface {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		media:        media,
	}
}

func (s *productService) ListProducts(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	for _, product := range products {
		s.decorate(product)
	}
	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get product %q: %w", slug, err)
	}
	if product == nil {
		return nil, nil
	}
	s.decorate(product)
	return product, nil
}

// AttachImage stores the image in the object store under a fresh key and
// records the key on the product.
func (s *productService) AttachImage(ctx context.Context, productID int64, reader io.Reader, size int64, contentType, filename string) (string, error) {
	if s.media == nil {
		return "", fmt.Errorf("no media storage configured")
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return "", fmt.Errorf("get product %d: %w", productID, err)
	}
	if product == nil {
		return "", fmt.Errorf("product %d not found", productID)
	}

	objectName := fmt.Sprintf("products/%d/%s%s", productID, uuid.NewString(), path.Ext(filename))
	if err := s.media.UploadProductImage(ctx, objectName, reader, size, contentType); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if err := s.productRepo.UpdateImageKey(ctx, productID, objectName); err != nil {
		return "", fmt.Errorf("record image key: %w", err)
	}
	return s.media.ImageURL(objectName), nil
}

func (s *productService) decorate(product *models.Product) {
	if s.media != nil && product.ImageKey != nil {
		product.ImageURL = s.media.ImageURL(*product.ImageKey)
	}
}
