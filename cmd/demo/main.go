// Command demo walks the whole data layer against a live database:
// it seeds customers and products, places two orders, provokes an
// insufficient-stock rollback and prints the reports. Safe to re-run,
// existing customers and products are reused.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"order-service/internal/database"
	"order-service/internal/models"
	"order-service/internal/repository"
)

func main() {
	cfg := database.LoadConfig()

	conn, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("failed to connect database: ", err)
	}
	defer conn.Close(context.Background())

	ctx := context.Background()

	if err := database.InitSchema(ctx, conn); err != nil {
		log.Fatal("schema setup failed: ", err)
	}

	customers := repository.NewCustomerRepository(conn)
	products := repository.NewProductRepository(conn)
	orders := repository.NewOrderRepository(conn)
	reports := repository.NewReportRepository(conn)

	fmt.Println("\n--- Starting E-commerce System Demonstration ---")

	fmt.Println("\n--- Adding Customers ---")
	alice := ensureCustomer(ctx, customers, "Alice", "Smith", "alice.smith@example.com", strPtr("123-456-7890"))
	bob := ensureCustomer(ctx, customers, "Bob", "Johnson", "bob.j@example.com", nil)

	fmt.Println("\n--- Adding Products ---")
	smartphone := ensureProduct(ctx, products, "Smartphone X", "Latest model smartphone", "999.99", 100)
	earbuds := ensureProduct(ctx, products, "Wireless Earbuds Pro", "Noise-cancelling earbuds", "199.00", 200)
	laptop := ensureProduct(ctx, products, "Laptop Ultra", "High-performance ultrabook", "1499.00", 50)
	ensureProduct(ctx, products, "Smart Watch 2.0", "Fitness and notification watch", "299.00", 75)

	fmt.Println("\n--- Creating Orders ---")
	placeOrder(ctx, orders, alice.CustomerID, []models.BasketItem{
		{ProductID: smartphone.ProductID, Quantity: 1},
		{ProductID: earbuds.ProductID, Quantity: 2},
	})
	placeOrder(ctx, orders, bob.CustomerID, []models.BasketItem{
		{ProductID: smartphone.ProductID, Quantity: 2},
		{ProductID: laptop.ProductID, Quantity: 1},
	})

	fmt.Println("\n--- Attempting to create an order with insufficient stock ---")
	placeOrder(ctx, orders, alice.CustomerID, []models.BasketItem{
		{ProductID: laptop.ProductID, Quantity: 100},
	})

	printHistory(ctx, reports, alice)
	printHistory(ctx, reports, bob)

	fmt.Println("\n--- Top Selling Products ---")
	sales, err := reports.TopSellingProducts(ctx, 3)
	if err != nil {
		log.Fatal("failed to load top selling products: ", err)
	}
	for i, s := range sales {
		fmt.Printf("%d. %s: %d units sold\n", i+1, s.ProductName, s.UnitsSold)
	}

	fmt.Println("\n--- Total Spent per Customer ---")
	spending, err := reports.CustomerSpending(ctx)
	if err != nil {
		log.Fatal("failed to load customer spending: ", err)
	}
	for _, s := range spending {
		fmt.Printf("Customer: %s %s, Orders: %d, Total Spent: %s\n",
			s.FirstName, s.LastName, s.TotalOrders, s.TotalSpent.StringFixed(2))
	}

	fmt.Println("\n--- Updating Product Stock (example) ---")
	if err := products.SetStock(ctx, earbuds.ProductID, 150); err != nil {
		fmt.Printf("Failed to update product stock: %v\n", err)
	} else {
		fmt.Printf("Product %d (%s) stock set to 150.\n", earbuds.ProductID, earbuds.Name)
	}

	fmt.Println("\n--- Demonstration Complete ---")
}

func strPtr(s string) *string { return &s }

func ensureCustomer(ctx context.Context, repo repository.CustomerRepository, firstName, lastName, email string, phone *string) *models.Customer {
	c := &models.Customer{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Phone:     phone,
	}

	err := repo.Create(ctx, c)
	if err == nil {
		fmt.Printf("Customer '%s %s' added with ID: %d\n", c.FirstName, c.LastName, c.CustomerID)
		return c
	}

	if errors.Is(err, repository.ErrDuplicate) {
		existing, getErr := repo.GetByEmail(ctx, email)
		if getErr != nil {
			log.Fatal("failed to load existing customer: ", getErr)
		}
		fmt.Printf("Customer '%s %s' already registered with ID: %d\n", existing.FirstName, existing.LastName, existing.CustomerID)
		return existing
	}

	log.Fatal("failed to add customer: ", err)
	return nil
}

func ensureProduct(ctx context.Context, repo repository.ProductRepository, name, description, price string, stock int) *models.Product {
	p := &models.Product{
		Name:          name,
		Description:   description,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}

	err := repo.Create(ctx, p)
	if err == nil {
		fmt.Printf("Product '%s' added with ID: %d\n", p.Name, p.ProductID)
		return p
	}

	if errors.Is(err, repository.ErrDuplicate) {
		all, getErr := repo.GetAll(ctx)
		if getErr != nil {
			log.Fatal("failed to load products: ", getErr)
		}
		for i := range all {
			if all[i].Name == name {
				fmt.Printf("Product '%s' already in catalog with ID: %d\n", name, all[i].ProductID)
				return &all[i]
			}
		}
	}

	log.Fatal("failed to add product: ", err)
	return nil
}

func placeOrder(ctx context.Context, repo repository.OrderRepository, customerID int, basket []models.BasketItem) {
	orderID, err := repo.CreateOrder(ctx, customerID, basket)
	if err != nil {
		var stockErr *repository.InsufficientStockError
		if errors.As(err, &stockErr) {
			fmt.Printf("Order failed: product %d has %d in stock, %d requested. Transaction rolled back.\n",
				stockErr.ProductID, stockErr.Available, stockErr.Requested)
			return
		}
		fmt.Printf("Order failed: %v\n", err)
		return
	}

	fmt.Printf("Order %d created successfully.\n", orderID)
}

func printHistory(ctx context.Context, repo repository.ReportRepository, c *models.Customer) {
	fmt.Printf("\n--- Order History for %s %s ---\n", c.FirstName, c.LastName)

	history, err := repo.CustomerOrderHistory(ctx, c.CustomerID)
	if err != nil {
		log.Fatal("failed to load order history: ", err)
	}

	if len(history) == 0 {
		fmt.Println("No order history found.")
		return
	}

	for _, e := range history {
		fmt.Printf("Order %d (%s, %s): %d x %s at %s\n",
			e.OrderID, e.OrderDate.Format("2006-01-02"), e.Status, e.Quantity, e.ProductName, e.PriceAtPurchase.StringFixed(2))
	}
}
