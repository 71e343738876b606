package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"order-service/internal/models"
)

// DB is the slice of the pgx API the repositories rely on. *pgx.Conn,
// *pgxpool.Pool and pgx.Tx all satisfy it, so a repository can run on a
// single connection, the shared pool, or inside an enclosing
// transaction without changes.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id int) (*models.Customer, error)
	GetAll(ctx context.Context) ([]models.Customer, error)
	Delete(ctx context.Context, id int) error

	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id int) (*models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	Delete(ctx context.Context, id int) error

	SetStock(ctx context.Context, id int, quantity int) error
}

// MovementRepository reads the stock_movements audit trail. Movements
// are only ever written inside the transactions that change stock, so
// there is no standalone create here.
type MovementRepository interface {
	GetByProductID(ctx context.Context, productID int) ([]models.StockMovement, error)
	GetByOrderID(ctx context.Context, orderID int) ([]models.StockMovement, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, customerID int, basket []models.BasketItem) (int, error)
	GetByID(ctx context.Context, id int) (*models.Order, error)
	GetAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id int, status models.OrderStatus) error

	GetByCustomerID(ctx context.Context, customerID int) ([]models.Order, error)
	GetOrderWithItems(ctx context.Context, id int) (*models.Order, []models.OrderItem, error)
}

// ReportRepository serves the read-only aggregate queries.
type ReportRepository interface {
	CustomerOrderHistory(ctx context.Context, customerID int) ([]models.OrderHistoryEntry, error)
	TopSellingProducts(ctx context.Context, limit int) ([]models.ProductSales, error)
	CustomerSpending(ctx context.Context) ([]models.CustomerSpending, error)
}
