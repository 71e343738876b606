package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-service/internal/database"
	"order-service/internal/models"
)

// setupIntegrationDB connects with DATABASE_URL and applies the
// schema. Without DATABASE_URL the test is skipped, so the suite
// stays runnable on machines without PostgreSQL.
func setupIntegrationDB(t *testing.T) *pgx.Conn {
	t.Helper()

	cfg := database.LoadConfig()
	if cfg.DatabaseURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	conn, err := database.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close(context.Background()) })

	require.NoError(t, database.InitSchema(context.Background(), conn))

	return conn
}

func TestOrderLifecycleAgainstDatabase(t *testing.T) {
	conn := setupIntegrationDB(t)
	ctx := context.Background()

	customers := NewCustomerRepository(conn)
	products := NewProductRepository(conn)
	orders := NewOrderRepository(conn)
	movements := NewMovementRepository(conn)
	reports := NewReportRepository(conn)

	suffix := time.Now().UnixNano()

	customer := &models.Customer{
		FirstName: "Test",
		LastName:  "Shopper",
		Email:     fmt.Sprintf("shopper%d@example.com", suffix),
	}
	require.NoError(t, customers.Create(ctx, customer))

	phone := &models.Product{
		Name:          fmt.Sprintf("Integration Phone %d", suffix),
		Price:         dec("999.99"),
		StockQuantity: 100,
	}
	require.NoError(t, products.Create(ctx, phone))

	earbuds := &models.Product{
		Name:          fmt.Sprintf("Integration Earbuds %d", suffix),
		Price:         dec("199.00"),
		StockQuantity: 200,
	}
	require.NoError(t, products.Create(ctx, earbuds))

	// Deleting the customer cascades to orders and their items, which
	// frees the products for deletion.
	t.Cleanup(func() {
		_ = customers.Delete(ctx, customer.CustomerID)
		_ = products.Delete(ctx, phone.ProductID)
		_ = products.Delete(ctx, earbuds.ProductID)
	})

	orderID, err := orders.CreateOrder(ctx, customer.CustomerID, []models.BasketItem{
		{ProductID: phone.ProductID, Quantity: 1},
		{ProductID: earbuds.ProductID, Quantity: 2},
	})
	require.NoError(t, err)
	require.NotZero(t, orderID)

	order, items, err := orders.GetOrderWithItems(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, customer.CustomerID, order.CustomerID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(dec("1397.99")), "total %s", order.TotalAmount)
	require.Len(t, items, 2)

	phoneAfter, err := products.GetByID(ctx, phone.ProductID)
	require.NoError(t, err)
	assert.Equal(t, 99, phoneAfter.StockQuantity)

	earbudsAfter, err := products.GetByID(ctx, earbuds.ProductID)
	require.NoError(t, err)
	assert.Equal(t, 198, earbudsAfter.StockQuantity)

	trail, err := movements.GetByOrderID(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	for _, m := range trail {
		assert.Equal(t, models.MovementOutgoing, m.Type)
		assert.Negative(t, m.QuantityChange)
	}

	// A basket over the stock level fails and leaves no trace behind.
	_, err = orders.CreateOrder(ctx, customer.CustomerID, []models.BasketItem{
		{ProductID: phone.ProductID, Quantity: 1000},
	})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 99, stockErr.Available)

	phoneAfter, err = products.GetByID(ctx, phone.ProductID)
	require.NoError(t, err)
	assert.Equal(t, 99, phoneAfter.StockQuantity, "failed order must not change stock")

	// Retrying the impossible basket fails the same way, state untouched.
	_, err = orders.CreateOrder(ctx, customer.CustomerID, []models.BasketItem{
		{ProductID: phone.ProductID, Quantity: 1000},
	})
	stockErr = nil
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 99, stockErr.Available)

	list, err := orders.GetByCustomerID(ctx, customer.CustomerID)
	require.NoError(t, err)
	assert.Len(t, list, 1, "failed order must not leave an order row")

	// The same product twice in one basket is rejected and the first
	// line's decrement is rolled back with the rest.
	_, err = orders.CreateOrder(ctx, customer.CustomerID, []models.BasketItem{
		{ProductID: phone.ProductID, Quantity: 1},
		{ProductID: phone.ProductID, Quantity: 1},
	})
	require.ErrorIs(t, err, ErrDuplicate)

	phoneAfter, err = products.GetByID(ctx, phone.ProductID)
	require.NoError(t, err)
	assert.Equal(t, 99, phoneAfter.StockQuantity)

	_, err = orders.CreateOrder(ctx, customer.CustomerID+1000000, []models.BasketItem{
		{ProductID: phone.ProductID, Quantity: 1},
	})
	require.ErrorIs(t, err, ErrOrderCreation)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = orders.CreateOrder(ctx, customer.CustomerID, []models.BasketItem{
		{ProductID: 99999999, Quantity: 1},
	})
	require.ErrorIs(t, err, ErrProductNotFound)

	require.NoError(t, orders.UpdateStatus(ctx, orderID, models.StatusShipped))
	refreshed, err := orders.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, refreshed.Status)

	history, err := reports.CustomerOrderHistory(ctx, customer.CustomerID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	spending, err := reports.CustomerSpending(ctx)
	require.NoError(t, err)
	var found bool
	for _, s := range spending {
		if s.CustomerID == customer.CustomerID {
			found = true
			assert.Equal(t, int64(1), s.TotalOrders)
			assert.True(t, s.TotalSpent.Equal(dec("1397.99")), "spent %s", s.TotalSpent)
		}
	}
	assert.True(t, found, "customer missing from spending report")

	top, err := reports.TopSellingProducts(ctx, 5)
	require.NoError(t, err)
	assert.NotEmpty(t, top)

	require.NoError(t, products.SetStock(ctx, phone.ProductID, 500))

	phoneAfter, err = products.GetByID(ctx, phone.ProductID)
	require.NoError(t, err)
	assert.Equal(t, 500, phoneAfter.StockQuantity)

	productTrail, err := movements.GetByProductID(ctx, phone.ProductID)
	require.NoError(t, err)
	require.NotEmpty(t, productTrail)
	assert.Equal(t, models.MovementIncoming, productTrail[0].Type)
	assert.Equal(t, 401, productTrail[0].QuantityChange)
}
