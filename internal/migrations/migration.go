package migrations

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Run creates the schema if it does not exist yet. Statements are idempotent
// so the runner is safe to execute on every boot.
func Run(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			phone_number TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT '',
			postal_code TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		// Product ids arrive from the storefront, so identity is BY DEFAULT
		// to allow explicit ids on the provisioning path.
		`CREATE TABLE IF NOT EXISTS products (
			id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
			category_id BIGINT NOT NULL REFERENCES categories (id),
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC(10,2) NOT NULL,
			original_price NUMERIC(10,2),
			condition TEXT NOT NULL DEFAULT 'new',
			brand TEXT NOT NULL DEFAULT '',
			sku TEXT NOT NULL UNIQUE,
			stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
			is_featured BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			rating NUMERIC(3,2) NOT NULL DEFAULT 0,
			review_count INTEGER NOT NULL DEFAULT 0,
			image_key TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			order_number TEXT NOT NULL UNIQUE,
			user_id BIGINT NOT NULL REFERENCES users (id),
			status TEXT NOT NULL DEFAULT 'pending',
			payment_status TEXT NOT NULL DEFAULT 'pending',
			shipping_address TEXT NOT NULL,
			shipping_city TEXT NOT NULL,
			shipping_state TEXT NOT NULL DEFAULT 'N/A',
			shipping_country TEXT NOT NULL DEFAULT 'India',
			shipping_postal_code TEXT NOT NULL DEFAULT 'N/A',
			shipping_phone TEXT NOT NULL,
			subtotal NUMERIC(10,2) NOT NULL,
			shipping_cost NUMERIC(10,2) NOT NULL,
			tax_amount NUMERIC(10,2) NOT NULL,
			discount_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			total_amount NUMERIC(10,2) NOT NULL,
			payment_method TEXT NOT NULL DEFAULT 'cod',
			transaction_id TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			shipped_at TIMESTAMPTZ,
			delivered_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			order_id BIGINT NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
			product_id BIGINT NOT NULL REFERENCES products (id),
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			price NUMERIC(10,2) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders (user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category_id)`,
	}

	for _, statement := range statements {
		if _, err := pool.Exec(ctx, statement); err != nil {
			return fmt.Errorf("run migration: %w", err)
		}
	}

	log.Println("Database schema is up to date")
	return nil
}
