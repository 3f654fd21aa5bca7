package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shopkart/internal/models"

	"github.com/jackc/pgx/v5"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	List(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error)
	UpdateImageKey(ctx context.Context, id int64, imageKey string) error
	ListLowStock(ctx context.Context, threshold int) ([]*models.Product, error)
}

type productRepo struct {
	db Database
}

func NewProductRepo(db Database) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `p.id, p.category_id, p.name, p.slug, p.description, p.price, p.original_price,
		p.condition, p.brand, p.sku, p.stock_quantity, p.is_featured, p.is_active, p.rating, p.review_count,
		p.image_key, p.created_at, p.updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(
		&product.ID, &product.CategoryID, &product.Name, &product.Slug, &product.Description,
		&product.Price, &product.OriginalPrice, &product.Condition, &product.Brand, &product.SKU,
		&product.StockQuantity, &product.IsFeatured, &product.IsActive, &product.Rating, &product.ReviewCount,
		&product.ImageKey, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Create inserts a product with an explicit id. Catalog authoring is owned by
// back-office tooling; the only insert this service performs is the order
// workflow's fallback provisioning, which must keep the caller's reference.
func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, category_id, name, slug, description, price, original_price,
			condition, brand, sku, stock_quantity, is_featured, is_active, rating, review_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		product.ID, product.CategoryID, product.Name, product.Slug, product.Description,
		product.Price, product.OriginalPrice, product.Condition, product.Brand, product.SKU,
		product.StockQuantity, product.IsFeatured, product.IsActive, product.Rating, product.ReviewCount,
	)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1`
	product, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.slug = $1 AND p.is_active = TRUE`
	product, err := scanProduct(r.db.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

// List performs a filtered catalog query over active products, building the
// WHERE clause dynamically from the filter.
func (r *productRepo) List(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	queryBase := `SELECT ` + productColumns + ` FROM products p WHERE p.is_active = TRUE`
	args := []interface{}{}
	conditionCount := 0

	if filter.Query != "" {
		conditionCount++
		queryBase += fmt.Sprintf(` AND (p.name ILIKE $%d OR p.description ILIKE $%d OR p.brand ILIKE $%d)`,
			conditionCount, conditionCount, conditionCount)
		args = append(args, "%"+filter.Query+"%")
	}
	if filter.CategorySlug != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM categories c WHERE c.id = p.category_id AND c.slug = $%d
		)`, conditionCount)
		args = append(args, *filter.CategorySlug)
	}
	if filter.Brand != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND p.brand ILIKE $%d`, conditionCount)
		args = append(args, "%"+*filter.Brand+"%")
	}
	if filter.Condition != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND p.condition = $%d`, conditionCount)
		args = append(args, *filter.Condition)
	}
	if filter.MinPrice != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND p.price >= $%d`, conditionCount)
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND p.price <= $%d`, conditionCount)
		args = append(args, *filter.MaxPrice)
	}
	if filter.FeaturedOnly {
		queryBase += ` AND p.is_featured = TRUE`
	}

	switch strings.ToLower(filter.SortBy) {
	case "price_low":
		queryBase += ` ORDER BY p.price ASC`
	case "price_high":
		queryBase += ` ORDER BY p.price DESC`
	case "rating":
		queryBase += ` ORDER BY p.rating DESC`
	case "name":
		queryBase += ` ORDER BY p.name ASC`
	default:
		queryBase += ` ORDER BY p.created_at DESC`
	}

	conditionCount++
	queryBase += fmt.Sprintf(` LIMIT $%d`, conditionCount)
	args = append(args, filter.Limit)
	if filter.Offset > 0 {
		conditionCount++
		queryBase += fmt.Sprintf(` OFFSET $%d`, conditionCount)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepo) UpdateImageKey(ctx context.Context, id int64, imageKey string) error {
	query := `UPDATE products SET image_key = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, imageKey, id)
	return err
}

func (r *productRepo) ListLowStock(ctx context.Context, threshold int) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p
		WHERE p.is_active = TRUE AND p.stock_quantity <= $1
		ORDER BY p.stock_quantity ASC`
	rows, err := r.db.Query(ctx, query, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}
