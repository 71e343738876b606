package repository

import (
	"context"
	"fmt"

	"order-service/internal/models"
)

type reportRepo struct {
	db DB
}

func NewReportRepository(db DB) ReportRepository {
	return &reportRepo{db: db}
}

// CustomerOrderHistory reads the customer_order_details view, one row
// per purchased line item, newest orders first.
func (r *reportRepo) CustomerOrderHistory(ctx context.Context, customerID int) ([]models.OrderHistoryEntry, error) {
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customer ID must be positive", ErrInvalidInput)
	}

	sql := `SELECT
		customer_id,
		first_name,
		last_name,
		order_id,
		order_date,
		total_amount,
		status,
		product_name,
		quantity,
		price_at_purchase
		FROM customer_order_details
		WHERE customer_id = $1
		ORDER BY order_date DESC, order_id
	`

	rows, err := r.db.Query(ctx, sql, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order history for customer %d: %w", customerID, classifyStoreError(err))
	}

	defer rows.Close()

	var history []models.OrderHistoryEntry

	for rows.Next() {
		var e models.OrderHistoryEntry

		err := rows.Scan(&e.CustomerID,
			&e.FirstName,
			&e.LastName,
			&e.OrderID,
			&e.OrderDate,
			&e.TotalAmount,
			&e.Status,
			&e.ProductName,
			&e.Quantity,
			&e.PriceAtPurchase,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order history: %w", err)
		}

		history = append(history, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return history, nil
}

func (r *reportRepo) TopSellingProducts(ctx context.Context, limit int) ([]models.ProductSales, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidInput)
	}

	sql := `SELECT
		p.product_id,
		p.product_name,
		SUM(oi.quantity) AS units_sold
		FROM order_items oi
		JOIN products p ON p.product_id = oi.product_id
		GROUP BY p.product_id, p.product_name
		ORDER BY units_sold DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top selling products: %w", classifyStoreError(err))
	}

	defer rows.Close()

	var sales []models.ProductSales

	for rows.Next() {
		var s models.ProductSales

		err := rows.Scan(&s.ProductID,
			&s.ProductName,
			&s.UnitsSold,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product sales: %w", err)
		}

		sales = append(sales, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return sales, nil
}

// CustomerSpending totals every customer's orders. The LEFT JOIN keeps
// customers who never ordered in the result with a 0.00 total.
func (r *reportRepo) CustomerSpending(ctx context.Context) ([]models.CustomerSpending, error) {
	sql := `SELECT
		c.customer_id,
		c.first_name,
		c.last_name,
		COUNT(o.order_id) AS total_orders,
		COALESCE(SUM(o.total_amount), 0.00) AS total_spent
		FROM customers c
		LEFT JOIN orders o ON o.customer_id = c.customer_id
		GROUP BY c.customer_id, c.first_name, c.last_name
		ORDER BY total_spent DESC
	`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer spending: %w", classifyStoreError(err))
	}

	defer rows.Close()

	var spending []models.CustomerSpending

	for rows.Next() {
		var s models.CustomerSpending

		err := rows.Scan(&s.CustomerID,
			&s.FirstName,
			&s.LastName,
			&s.TotalOrders,
			&s.TotalSpent,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer spending: %w", err)
		}

		spending = append(spending, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return spending, nil
}
