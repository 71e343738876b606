package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-service/internal/models"
)

func TestCreateProduct(t *testing.T) {
	t.Run("assigns id and timestamps", func(t *testing.T) {
		mock := newMock(t)
		repo := NewProductRepository(mock)

		created := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
		mock.ExpectQuery("INSERT INTO products").
			WithArgs("Smartphone X", "Latest model smartphone", decimalArg{"999.99"}, 100).
			WillReturnRows(pgxmock.NewRows([]string{"product_id", "created_at", "updated_at"}).
				AddRow(1, created, created))

		p := models.Product{
			Name:          "Smartphone X",
			Description:   "Latest model smartphone",
			Price:         dec("999.99"),
			StockQuantity: 100,
		}

		require.NoError(t, repo.Create(context.Background(), &p))
		assert.Equal(t, 1, p.ProductID)
		assert.Equal(t, created, p.CreatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("trims surrounding whitespace from the name", func(t *testing.T) {
		mock := newMock(t)
		repo := NewProductRepository(mock)

		mock.ExpectQuery("INSERT INTO products").
			WithArgs("Laptop Ultra", "", decimalArg{"1499.00"}, 50).
			WillReturnRows(pgxmock.NewRows([]string{"product_id", "created_at", "updated_at"}).
				AddRow(3, time.Now(), time.Now()))

		p := models.Product{Name: "  Laptop Ultra  ", Price: dec("1499.00"), StockQuantity: 50}

		require.NoError(t, repo.Create(context.Background(), &p))
		assert.Equal(t, "Laptop Ultra", p.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate name", func(t *testing.T) {
		mock := newMock(t)
		repo := NewProductRepository(mock)

		mock.ExpectQuery("INSERT INTO products").
			WithArgs("Smartphone X", "", decimalArg{"999.99"}, 100).
			WillReturnError(&pgconn.PgError{Code: pgCodeUniqueViolation})

		p := models.Product{Name: "Smartphone X", Price: dec("999.99"), StockQuantity: 100}

		err := repo.Create(context.Background(), &p)
		require.ErrorIs(t, err, ErrDuplicate)
		assert.ErrorContains(t, err, "is taken")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateProduct_Validation(t *testing.T) {
	tests := []struct {
		name    string
		product models.Product
	}{
		{name: "empty name", product: models.Product{Price: dec("1.00")}},
		{name: "whitespace name", product: models.Product{Name: "   ", Price: dec("1.00")}},
		{name: "name too long", product: models.Product{Name: strings.Repeat("x", 101), Price: dec("1.00")}},
		{name: "negative price", product: models.Product{Name: "Widget", Price: dec("-0.01")}},
		{name: "negative stock", product: models.Product{Name: "Widget", Price: dec("1.00"), StockQuantity: -1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mock := newMock(t)
			repo := NewProductRepository(mock)

			err := repo.Create(context.Background(), &tc.product)

			require.ErrorIs(t, err, ErrInvalidInput)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGetProductByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mock := newMock(t)
		repo := NewProductRepository(mock)

		created := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
		mock.ExpectQuery("FROM products").
			WithArgs(1).
			WillReturnRows(pgxmock.NewRows([]string{"product_id", "product_name", "description", "price", "stock_quantity", "created_at", "updated_at"}).
				AddRow(1, "Smartphone X", "Latest model smartphone", dec("999.99"), 100, created, created))

		product, err := repo.GetByID(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, 1, product.ProductID)
		assert.Equal(t, "Smartphone X", product.Name)
		assert.True(t, product.Price.Equal(dec("999.99")))
		assert.Equal(t, 100, product.StockQuantity)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock := newMock(t)
		repo := NewProductRepository(mock)

		mock.ExpectQuery("FROM products").
			WithArgs(404).
			WillReturnError(pgx.ErrNoRows)

		product, err := repo.GetByID(context.Background(), 404)

		assert.Nil(t, product)
		require.ErrorIs(t, err, ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetAllProducts(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	created := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM products").
		WillReturnRows(pgxmock.NewRows([]string{"product_id", "product_name", "description", "price", "stock_quantity", "created_at", "updated_at"}).
			AddRow(1, "Smartphone X", "Latest model smartphone", dec("999.99"), 100, created, created).
			AddRow(2, "Wireless Earbuds Pro", "Noise-cancelling earbuds", dec("199.00"), 200, created, created))

	products, err := repo.GetAll(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Smartphone X", products[0].Name)
	assert.Equal(t, 200, products[1].StockQuantity)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProduct(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		mock := newMock(t)
		repo := NewProductRepository(mock)

		mock.ExpectExec("DELETE FROM products").
			WithArgs(1).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.Delete(context.Background(), 1))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("referenced by an order", func(t *testing.T) {
		mock := newMock(t)
		repo := NewProductRepository(mock)

		mock.ExpectExec("DELETE FROM products").
			WithArgs(1).
			WillReturnError(&pgconn.PgError{Code: pgCodeForeignKeyViolation})

		err := repo.Delete(context.Background(), 1)
		require.ErrorIs(t, err, ErrConflict)
		assert.ErrorContains(t, err, "referenced by existing orders")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown product", func(t *testing.T) {
		mock := newMock(t)
		repo := NewProductRepository(mock)

		mock.ExpectExec("DELETE FROM products").
			WithArgs(404).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.Delete(context.Background(), 404)
		require.ErrorIs(t, err, ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSetStock(t *testing.T) {
	t.Run("increase records an incoming movement", func(t *testing.T) {
		mock := newMock(t)
		repo := NewProductRepository(mock)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT stock_quantity FROM products").
			WithArgs(4).
			WillReturnRows(pgxmock.NewRows([]string{"stock_quantity"}).AddRow(100))
		mock.ExpectExec("UPDATE products SET").
			WithArgs(150, 4).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec("INSERT INTO stock_movements").
			WithArgs(4, models.MovementIncoming, 50).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		require.NoError(t, repo.SetStock(context.Background(), 4, 150))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("decrease records an adjustment", func(t *testing.T) {
		mock := newMock(t)
		repo := NewProductRepository(mock)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT stock_quantity FROM products").
			WithArgs(4).
			WillReturnRows(pgxmock.NewRows([]string{"stock_quantity"}).AddRow(100))
		mock.ExpectExec("UPDATE products SET").
			WithArgs(70, 4).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec("INSERT INTO stock_movements").
			WithArgs(4, models.MovementAdjustment, -30).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		require.NoError(t, repo.SetStock(context.Background(), 4, 70))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unchanged stock writes no movement", func(t *testing.T) {
		mock := newMock(t)
		repo := NewProductRepository(mock)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT stock_quantity FROM products").
			WithArgs(4).
			WillReturnRows(pgxmock.NewRows([]string{"stock_quantity"}).AddRow(100))
		mock.ExpectExec("UPDATE products SET").
			WithArgs(100, 4).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		require.NoError(t, repo.SetStock(context.Background(), 4, 100))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown product", func(t *testing.T) {
		mock := newMock(t)
		repo := NewProductRepository(mock)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT stock_quantity FROM products").
			WithArgs(404).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectRollback()

		err := repo.SetStock(context.Background(), 404, 50)
		require.ErrorIs(t, err, ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative quantity", func(t *testing.T) {
		mock := newMock(t)
		repo := NewProductRepository(mock)

		err := repo.SetStock(context.Background(), 4, -1)
		require.ErrorIs(t, err, ErrInvalidInput)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
