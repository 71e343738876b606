package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"order-service/internal/models"
)

type productRepo struct {
	db DB
}

func NewProductRepository(db DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: product name required", ErrInvalidInput)
	}
	if len(p.Name) > 100 {
		return fmt.Errorf("%w: product name must be at most 100 characters", ErrInvalidInput)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: product price cannot be negative", ErrInvalidInput)
	}
	if p.StockQuantity < 0 {
		return fmt.Errorf("%w: product stock quantity cannot be negative", ErrInvalidInput)
	}

	sql := `
		INSERT INTO products (
			product_name,
			description,
			price,
			stock_quantity
	) VALUES ($1, $2, $3, $4)
	RETURNING product_id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, sql,
		p.Name,
		p.Description,
		p.Price,
		p.StockQuantity,
	).Scan(&p.ProductID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if pgErrorCode(err) == pgCodeUniqueViolation {
			return fmt.Errorf("%w: product name %q is taken", ErrDuplicate, p.Name)
		}
		return fmt.Errorf("failed to create product: %w", classifyStoreError(err))
	}

	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id int) (*models.Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: product ID must be positive", ErrInvalidInput)
	}

	sql := `
		SELECT
			product_id,
			product_name,
			description,
			price,
			stock_quantity,
			created_at,
			updated_at
		FROM products WHERE product_id = $1
		`

	var product models.Product

	err := r.db.QueryRow(ctx, sql, id).Scan(
		&product.ProductID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.StockQuantity,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get product by id %d: %w", id, classifyStoreError(err))
	}

	return &product, nil
}

func (r *productRepo) GetAll(ctx context.Context) ([]models.Product, error) {
	sql := `
	SELECT
		product_id,
		product_name,
		description,
		price,
		stock_quantity,
		created_at,
		updated_at
	FROM products
	ORDER BY product_id
`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", classifyStoreError(err))
	}

	defer rows.Close()

	var products []models.Product

	for rows.Next() {
		var p models.Product

		err := rows.Scan(&p.ProductID,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.StockQuantity,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan products: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return products, nil
}

// Delete removes a product that no order references. The order_items
// foreign key is ON DELETE RESTRICT, so products with purchase history
// are refused rather than silently unlinked.
func (r *productRepo) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: product ID must be positive", ErrInvalidInput)
	}

	result, err := r.db.Exec(ctx, `DELETE FROM products WHERE product_id = $1`, id)
	if err != nil {
		if pgErrorCode(err) == pgCodeForeignKeyViolation {
			return fmt.Errorf("%w: product %d is referenced by existing orders", ErrConflict, id)
		}
		return fmt.Errorf("failed to delete product %d: %w", id, classifyStoreError(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %d", ErrNotFound, id)
	}

	return nil
}

// SetStock overwrites a product's stock_quantity with an absolute value
// and records the delta in the stock_movements audit trail. Both writes
// share one transaction so the trail never disagrees with the stock.
func (r *productRepo) SetStock(ctx context.Context, id int, quantity int) error {
	if id <= 0 {
		return fmt.Errorf("%w: product ID must be positive", ErrInvalidInput)
	}
	if quantity < 0 {
		return fmt.Errorf("%w: stock quantity cannot be negative", ErrInvalidInput)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin stock update: %w", classifyStoreError(err))
	}
	defer tx.Rollback(ctx)

	var current int
	err = tx.QueryRow(ctx, `SELECT stock_quantity FROM products WHERE product_id = $1`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return fmt.Errorf("failed to read stock for product %d: %w", id, classifyStoreError(err))
	}

	sql := `UPDATE products SET
		stock_quantity = $1,
		updated_at = CURRENT_TIMESTAMP
	WHERE product_id = $2
	`

	if _, err := tx.Exec(ctx, sql, quantity, id); err != nil {
		return fmt.Errorf("failed to update stock for product %d: %w", id, classifyStoreError(err))
	}

	if change := quantity - current; change != 0 {
		movement := models.MovementAdjustment
		if change > 0 {
			movement = models.MovementIncoming
		}

		insert := `INSERT INTO stock_movements (
			product_id,
			movement_type,
			quantity_change
			) VALUES ($1, $2, $3)
		`
		if _, err := tx.Exec(ctx, insert, id, movement, change); err != nil {
			return fmt.Errorf("failed to record stock movement: %w", classifyStoreError(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit stock update: %w", classifyStoreError(err))
	}

	return nil
}

