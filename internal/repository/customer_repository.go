package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"

	"order-service/internal/models"
)

type customerRepo struct {
	db DB
}

var validate = validator.New()

func NewCustomerRepository(db DB) CustomerRepository {
	return &customerRepo{db: db}
}

func (r *customerRepo) Create(ctx context.Context, c *models.Customer) error {
	if err := validate.Struct(c); err != nil {
		var validationErr validator.ValidationErrors
		if errors.As(err, &validationErr) {
			firstErr := validationErr[0]
			switch firstErr.Field() {
			case "Email":
				return fmt.Errorf("%w: a valid email of at most 100 characters is required", ErrInvalidInput)
			case "FirstName", "LastName":
				return fmt.Errorf("%w: first and last name are required, at most 50 characters each", ErrInvalidInput)
			case "Phone":
				return fmt.Errorf("%w: phone must be at most 20 characters", ErrInvalidInput)
			}
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	sql := `
		INSERT INTO customers (
			first_name,
			last_name,
			email,
			phone
	) VALUES ($1, $2, $3, $4)
	RETURNING customer_id, registration_date
	`

	err := r.db.QueryRow(ctx, sql,
		c.FirstName,
		c.LastName,
		c.Email,
		c.Phone,
	).Scan(&c.CustomerID, &c.RegisteredAt)
	if err != nil {
		if pgErrorCode(err) == pgCodeUniqueViolation {
			return fmt.Errorf("%w: email %s is already registered", ErrDuplicate, c.Email)
		}
		return fmt.Errorf("failed to create customer: %w", classifyStoreError(err))
	}

	return nil
}

func (r *customerRepo) GetByID(ctx context.Context, id int) (*models.Customer, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: customer ID must be positive", ErrInvalidInput)
	}

	sql := `
		SELECT
		customer_id,
		first_name,
		last_name,
		email,
		phone,
		registration_date
		FROM customers WHERE customer_id = $1
	`

	var customer models.Customer

	err := r.db.QueryRow(ctx, sql, id).Scan(
		&customer.CustomerID,
		&customer.FirstName,
		&customer.LastName,
		&customer.Email,
		&customer.Phone,
		&customer.RegisteredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: customer %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get customer with id %d: %w", id, classifyStoreError(err))
	}

	return &customer, nil
}

func (r *customerRepo) GetAll(ctx context.Context) ([]models.Customer, error) {
	sql := `
	SELECT
	customer_id,
	first_name,
	last_name,
	email,
	phone,
	registration_date
	FROM customers
	ORDER BY customer_id`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to get all customers: %w", classifyStoreError(err))
	}

	defer rows.Close()

	var customers []models.Customer

	for rows.Next() {
		var c models.Customer

		err := rows.Scan(&c.CustomerID,
			&c.FirstName,
			&c.LastName,
			&c.Email,
			&c.Phone,
			&c.RegisteredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customers: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return customers, nil
}

// Delete removes a customer. Orders and their items go with it through
// the ON DELETE CASCADE constraints.
func (r *customerRepo) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: customer ID must be positive", ErrInvalidInput)
	}

	result, err := r.db.Exec(ctx, `DELETE FROM customers WHERE customer_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer %d: %w", id, classifyStoreError(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: customer %d", ErrNotFound, id)
	}

	return nil
}

func (r *customerRepo) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email cannot be empty", ErrInvalidInput)
	}

	sql := `
		SELECT
		customer_id,
		first_name,
		last_name,
		email,
		phone,
		registration_date
		FROM customers WHERE email = $1
	`

	var customer models.Customer

	err := r.db.QueryRow(ctx, sql, email).Scan(
		&customer.CustomerID,
		&customer.FirstName,
		&customer.LastName,
		&customer.Email,
		&customer.Phone,
		&customer.RegisteredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: customer with email %s", ErrNotFound, email)
		}
		return nil, fmt.Errorf("failed to get customer by email: %w", classifyStoreError(err))
	}

	return &customer, nil
}
