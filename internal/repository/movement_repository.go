package repository

import (
	"context"
	"fmt"

	"order-service/internal/models"
)

type movementRepo struct {
	db DB
}

func NewMovementRepository(db DB) MovementRepository {
	return &movementRepo{db: db}
}

func (r *movementRepo) GetByProductID(ctx context.Context, productID int) ([]models.StockMovement, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("%w: product ID must be positive", ErrInvalidInput)
	}

	sql := `SELECT
		movement_id,
		product_id,
		order_id,
		movement_type,
		quantity_change,
		created_at
		FROM stock_movements
		WHERE product_id = $1
		ORDER BY created_at DESC, movement_id DESC
		`
	rows, err := r.db.Query(ctx, sql, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get movements for product %d: %w", productID, classifyStoreError(err))
	}

	defer rows.Close()

	var movements []models.StockMovement

	for rows.Next() {
		var m models.StockMovement

		err := rows.Scan(&m.MovementID,
			&m.ProductID,
			&m.OrderID,
			&m.Type,
			&m.QuantityChange,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock movements: %w", err)
		}

		movements = append(movements, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return movements, nil
}

func (r *movementRepo) GetByOrderID(ctx context.Context, orderID int) ([]models.StockMovement, error) {
	if orderID <= 0 {
		return nil, fmt.Errorf("%w: order ID must be positive", ErrInvalidInput)
	}

	sql := ` SELECT
		movement_id,
		product_id,
		order_id,
		movement_type,
		quantity_change,
		created_at
		FROM stock_movements
		WHERE order_id = $1
		ORDER BY movement_id
		`

	rows, err := r.db.Query(ctx, sql, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get movements for order %d: %w", orderID, classifyStoreError(err))
	}

	defer rows.Close()

	var movements []models.StockMovement

	for rows.Next() {
		var m models.StockMovement

		err := rows.Scan(&m.MovementID,
			&m.ProductID,
			&m.OrderID,
			&m.Type,
			&m.QuantityChange,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock movements: %w", err)
		}

		movements = append(movements, m)

	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return movements, nil
}
