package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"order-service/internal/models"
)

type orderRepo struct {
	db DB
}

func NewOrderRepository(db DB) OrderRepository {
	return &orderRepo{db: db}
}

// CreateOrder places an order for a customer in a single transaction:
//
//  1. every basket line is checked against current price and stock,
//     and the order total is computed from current prices
//  2. the order row is inserted with status 'Pending'
//  3. per basket line: an order_items row captures quantity and price
//     at purchase time, stock is decremented, and an outgoing movement
//     is recorded in the audit trail
//  4. commit
//
// Any failure rolls the whole transaction back, so a rejected basket
// leaves no order row, no stock change and no movements behind. The
// stock decrement is conditional on stock_quantity >= quantity, which
// keeps concurrent orders from driving stock negative without holding
// row locks across the whole basket.
func (r *orderRepo) CreateOrder(ctx context.Context, customerID int, basket []models.BasketItem) (int, error) {
	if customerID <= 0 {
		return 0, fmt.Errorf("%w: customer ID must be positive", ErrInvalidInput)
	}

	if len(basket) == 0 {
		return 0, fmt.Errorf("basket cannot be empty: %w", ErrInvalidInput)
	}

	for _, line := range basket {
		if line.ProductID <= 0 {
			return 0, fmt.Errorf("product ID must be positive: %w", ErrInvalidInput)
		}
		if line.Quantity <= 0 {
			return 0, fmt.Errorf("quantity for product %d must be positive: %w", line.ProductID, ErrInvalidInput)
		}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin order transaction: %w", classifyStoreError(err))
	}
	defer tx.Rollback(ctx)

	total := decimal.Zero

	for _, line := range basket {
		var price decimal.Decimal
		var stock int

		err := tx.QueryRow(ctx,
			`SELECT price, stock_quantity FROM products WHERE product_id = $1`,
			line.ProductID,
		).Scan(&price, &stock)
		if err != nil {
			if err == pgx.ErrNoRows {
				return 0, fmt.Errorf("%w: product %d", ErrProductNotFound, line.ProductID)
			}
			return 0, fmt.Errorf("failed to check product %d: %w", line.ProductID, classifyStoreError(err))
		}

		if stock < line.Quantity {
			return 0, &InsufficientStockError{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: stock,
			}
		}

		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	insert := `INSERT INTO orders (
	customer_id,
	total_amount,
	status
	) VALUES ($1, $2, $3)
	RETURNING order_id
	`

	var orderID int

	err = tx.QueryRow(ctx, insert, customerID, total, models.StatusPending).Scan(&orderID)
	if err != nil {
		if pgErrorCode(err) == pgCodeForeignKeyViolation {
			return 0, fmt.Errorf("%w: %w: customer %d does not exist", ErrOrderCreation, ErrNotFound, customerID)
		}
		return 0, fmt.Errorf("%w: %w", ErrOrderCreation, classifyStoreError(err))
	}

	for _, line := range basket {
		// Price is re-read rather than reused from the pre-check: the
		// recorded price_at_purchase is whatever the row holds at write
		// time, even if it moved since the check.
		var price decimal.Decimal

		err := tx.QueryRow(ctx,
			`SELECT price FROM products WHERE product_id = $1`,
			line.ProductID,
		).Scan(&price)
		if err != nil {
			if err == pgx.ErrNoRows {
				return 0, fmt.Errorf("%w: product %d", ErrProductNotFound, line.ProductID)
			}
			return 0, fmt.Errorf("failed to read price for product %d: %w", line.ProductID, classifyStoreError(err))
		}

		insertItemSQL := `INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase)
		VALUES ($1, $2, $3, $4)
	`
		_, err = tx.Exec(ctx, insertItemSQL, orderID, line.ProductID, line.Quantity, price)
		if err != nil {
			if pgErrorCode(err) == pgCodeUniqueViolation {
				return 0, fmt.Errorf("%w: product %d appears more than once in the basket", ErrDuplicate, line.ProductID)
			}
			return 0, fmt.Errorf("failed to create order item for product %d: %w", line.ProductID, classifyStoreError(err))
		}

		update := ` UPDATE products SET
		stock_quantity = stock_quantity - $1,
		updated_at = CURRENT_TIMESTAMP
		WHERE product_id = $2 AND stock_quantity >= $1`

		result, err := tx.Exec(ctx, update, line.Quantity, line.ProductID)
		if err != nil {
			return 0, fmt.Errorf("failed to decrement stock for product %d: %w", line.ProductID, classifyStoreError(err))
		}

		if result.RowsAffected() == 0 {
			// A concurrent order drained the stock between our check
			// and this update. Re-read so the caller sees what is left.
			var available int
			err := tx.QueryRow(ctx,
				`SELECT stock_quantity FROM products WHERE product_id = $1`,
				line.ProductID,
			).Scan(&available)
			if err != nil {
				return 0, fmt.Errorf("failed to re-read stock for product %d: %w", line.ProductID, classifyStoreError(err))
			}

			return 0, &InsufficientStockError{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: available,
			}
		}

		insertMovementSQL := ` INSERT INTO stock_movements (
			product_id,
			order_id,
			movement_type,
			quantity_change
		) VALUES ($1, $2, $3, $4)
			`
		_, err = tx.Exec(ctx, insertMovementSQL, line.ProductID, orderID, models.MovementOutgoing, -line.Quantity)
		if err != nil {
			return 0, fmt.Errorf("failed to record stock movement for product %d: %w", line.ProductID, classifyStoreError(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit order: %w", classifyStoreError(err))
	}

	return orderID, nil
}

func (r *orderRepo) GetByID(ctx context.Context, id int) (*models.Order, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: order ID must be positive", ErrInvalidInput)
	}

	sql := ` SELECT
		order_id,
		customer_id,
		order_date,
		total_amount,
		status
		FROM orders
		WHERE order_id = $1
	`

	var order models.Order

	err := r.db.QueryRow(ctx, sql, id).Scan(
		&order.OrderID,
		&order.CustomerID,
		&order.OrderDate,
		&order.TotalAmount,
		&order.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get order by id %d: %w", id, classifyStoreError(err))
	}

	return &order, nil
}

func (r *orderRepo) GetAll(ctx context.Context) ([]models.Order, error) {
	sql := `
	SELECT
		order_id,
		customer_id,
		order_date,
		total_amount,
		status
		FROM orders
		ORDER BY order_id`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", classifyStoreError(err))
	}

	defer rows.Close()

	var orders []models.Order

	for rows.Next() {
		var o models.Order

		err := rows.Scan(&o.OrderID,
			&o.CustomerID,
			&o.OrderDate,
			&o.TotalAmount,
			&o.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan all orders: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return orders, nil
}

func (r *orderRepo) GetByCustomerID(ctx context.Context, customerID int) ([]models.Order, error) {
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customer ID must be positive", ErrInvalidInput)
	}

	sql := `SELECT
		order_id,
		customer_id,
		order_date,
		total_amount,
		status
		FROM orders
		WHERE customer_id = $1
		ORDER BY order_date DESC`

	rows, err := r.db.Query(ctx, sql, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders by customerID %d: %w", customerID, classifyStoreError(err))
	}

	defer rows.Close()

	var orders []models.Order

	for rows.Next() {
		var o models.Order

		err := rows.Scan(&o.OrderID,
			&o.CustomerID,
			&o.OrderDate,
			&o.TotalAmount,
			&o.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan orders by customerID: %w", err)
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return orders, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id int, status models.OrderStatus) error {

	if status == "" {
		return fmt.Errorf("%w: status cannot be empty", ErrInvalidInput)
	}

	if !status.Valid() {
		return fmt.Errorf("%w: invalid status '%s'", ErrInvalidInput, status)
	}

	sql := `UPDATE orders
		SET status = $1
		WHERE order_id = $2
		`

	result, err := r.db.Exec(ctx, sql, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status for order %d: %w", id, classifyStoreError(err))
	}

	rowsAffected := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: order %d", ErrNotFound, id)
	}

	return nil
}

// GetOrderWithItems loads an order together with its line items in one
// round trip. The LEFT JOIN keeps orders without items visible, which
// is why the item columns scan through nullable types.
func (r *orderRepo) GetOrderWithItems(ctx context.Context, id int) (*models.Order, []models.OrderItem, error) {
	if id <= 0 {
		return nil, nil, fmt.Errorf("%w: order ID must be positive", ErrInvalidInput)
	}

	sql := `SELECT
	o.order_id,
	o.customer_id,
	o.order_date,
	o.total_amount,
	o.status,
	oi.order_item_id,
	oi.product_id,
	oi.quantity,
	oi.price_at_purchase
	FROM orders o
	LEFT JOIN order_items oi ON o.order_id = oi.order_id
	WHERE o.order_id = $1
	ORDER BY oi.order_item_id
	`

	rows, err := r.db.Query(ctx, sql, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get order with items %d: %w", id, classifyStoreError(err))
	}

	defer rows.Close()

	var order *models.Order
	var items []models.OrderItem
	var orderFound bool

	for rows.Next() {
		var currentOrder models.Order
		var orderItemID pgtype.Int4
		var productID pgtype.Int4
		var quantity pgtype.Int4
		var price *decimal.Decimal

		err := rows.Scan(&currentOrder.OrderID,
			&currentOrder.CustomerID,
			&currentOrder.OrderDate,
			&currentOrder.TotalAmount,
			&currentOrder.Status,
			&orderItemID,
			&productID,
			&quantity,
			&price,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan order with items: %w", err)
		}
		if !orderFound {
			order = &currentOrder
			orderFound = true
		}
		if orderItemID.Valid {
			items = append(items, models.OrderItem{
				OrderItemID:     int(orderItemID.Int32),
				OrderID:         currentOrder.OrderID,
				ProductID:       int(productID.Int32),
				Quantity:        int(quantity.Int32),
				PriceAtPurchase: *price,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	if !orderFound {
		return nil, nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
	}

	return order, items, nil
}
