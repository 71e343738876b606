package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Every statement is idempotent, so InitSchema can run on every start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id SERIAL PRIMARY KEY,
		first_name VARCHAR(50) NOT NULL,
		last_name VARCHAR(50) NOT NULL,
		email VARCHAR(100) NOT NULL UNIQUE,
		phone VARCHAR(20),
		registration_date TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS products (
		product_id SERIAL PRIMARY KEY,
		product_name VARCHAR(100) NOT NULL UNIQUE,
		description TEXT,
		price NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
		stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS orders (
		order_id SERIAL PRIMARY KEY,
		customer_id INTEGER NOT NULL REFERENCES customers(customer_id) ON DELETE CASCADE,
		order_date TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		total_amount NUMERIC(10, 2) NOT NULL DEFAULT 0 CHECK (total_amount >= 0),
		status VARCHAR(20) NOT NULL DEFAULT 'Pending'
			CHECK (status IN ('Pending', 'Processing', 'Shipped', 'Delivered', 'Cancelled'))
	)`,

	`CREATE TABLE IF NOT EXISTS order_items (
		order_item_id SERIAL PRIMARY KEY,
		order_id INTEGER NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
		product_id INTEGER NOT NULL REFERENCES products(product_id) ON DELETE RESTRICT,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		price_at_purchase NUMERIC(10, 2) NOT NULL CHECK (price_at_purchase >= 0),
		UNIQUE (order_id, product_id)
	)`,

	`CREATE TABLE IF NOT EXISTS stock_movements (
		movement_id SERIAL PRIMARY KEY,
		product_id INTEGER NOT NULL REFERENCES products(product_id) ON DELETE CASCADE,
		order_id INTEGER REFERENCES orders(order_id) ON DELETE SET NULL,
		movement_type VARCHAR(20) NOT NULL
			CHECK (movement_type IN ('incoming', 'outgoing', 'adjustment')),
		quantity_change INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE OR REPLACE VIEW customer_order_details AS
	SELECT
		c.customer_id,
		c.first_name,
		c.last_name,
		o.order_id,
		o.order_date,
		o.total_amount,
		o.status,
		p.product_name,
		oi.quantity,
		oi.price_at_purchase
	FROM customers c
	JOIN orders o ON o.customer_id = c.customer_id
	JOIN order_items oi ON oi.order_id = o.order_id
	JOIN products p ON p.product_id = oi.product_id
	ORDER BY c.customer_id, o.order_date DESC`,

	`CREATE INDEX IF NOT EXISTS idx_customers_email ON customers(email)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders(customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_product_id ON order_items(product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_movements_product_id ON stock_movements(product_id)`,
}

// InitSchema creates the tables, the customer_order_details view and
// the supporting indexes.
func InitSchema(ctx context.Context, db execer) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	return nil
}
