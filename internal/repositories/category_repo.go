package repositories

import (
	"context"
	"errors"

	"shopkart/internal/models"

	"github.com/jackc/pgx/v5"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	// GetOrCreate returns the category with the given slug, creating it on
	// first use.
	GetOrCreate(ctx context.Context, name, slug, description string) (*models.Category, error)
}

type categoryRepo struct {
	db Database
}

func NewCategoryRepo(db Database) CategoryRepository {
	return &categoryRepo{db: db}
}

const categoryColumns = `id, name, slug, description, created_at, updated_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	category := &models.Category{}
	err := row.Scan(&category.ID, &category.Name, &category.Slug, &category.Description,
		&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepo) List(ctx context.Context) ([]*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *categoryRepo) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE slug = $1`
	category, err := scanCategory(r.db.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepo) GetOrCreate(ctx context.Context, name, slug, description string) (*models.Category, error) {
	// The no-op DO UPDATE makes RETURNING yield the existing row on conflict.
	query := `
		INSERT INTO categories (name, slug, description, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING ` + categoryColumns
	return scanCategory(r.db.QueryRow(ctx, query, name, slug, description))
}
