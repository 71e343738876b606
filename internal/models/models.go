package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a registered buyer. Phone is optional and stays nil when
// the column is NULL.
type Customer struct {
	CustomerID   int       `json:"customer_id"`
	FirstName    string    `json:"first_name" validate:"required,max=50"`
	LastName     string    `json:"last_name" validate:"required,max=50"`
	Email        string    `json:"email" validate:"required,email,max=100"`
	Phone        *string   `json:"phone,omitempty" validate:"omitempty,max=20"`
	RegisteredAt time.Time `json:"registration_date"`
}

// Product is a catalog entry. Price is carried as an exact decimal so
// totals never pass through floats.
type Product struct {
	ProductID     int             `json:"product_id"`
	Name          string          `json:"product_name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrderStatus enumerates the lifecycle states accepted by the
// orders.status CHECK constraint.
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// Valid reports whether s is one of the known lifecycle states.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	OrderID     int             `json:"order_id"`
	CustomerID  int             `json:"customer_id"`
	OrderDate   time.Time       `json:"order_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      OrderStatus     `json:"status"`
}

// OrderItem is one purchased line. PriceAtPurchase is the unit price in
// effect when the line was written, independent of later price changes.
type OrderItem struct {
	OrderItemID     int             `json:"order_item_id"`
	OrderID         int             `json:"order_id"`
	ProductID       int             `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

// BasketItem is one requested line of a new order.
type BasketItem struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// MovementType classifies an entry in the stock audit trail.
type MovementType string

const (
	MovementIncoming   MovementType = "incoming"
	MovementOutgoing   MovementType = "outgoing"
	MovementAdjustment MovementType = "adjustment"
)

// StockMovement records one change to a product's stock_quantity.
// QuantityChange is negative for outgoing stock. OrderID is set only
// when an order caused the movement.
type StockMovement struct {
	MovementID     int          `json:"movement_id"`
	ProductID      int          `json:"product_id"`
	OrderID        *int         `json:"order_id,omitempty"`
	Type           MovementType `json:"movement_type"`
	QuantityChange int          `json:"quantity_change"`
	CreatedAt      time.Time    `json:"created_at"`
}

// OrderHistoryEntry is one row of the customer_order_details view: a
// purchased line joined with its order and customer.
type OrderHistoryEntry struct {
	CustomerID      int             `json:"customer_id"`
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	OrderID         int             `json:"order_id"`
	OrderDate       time.Time       `json:"order_date"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          OrderStatus     `json:"status"`
	ProductName     string          `json:"product_name"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

// ProductSales aggregates how many units of a product were ordered.
type ProductSales struct {
	ProductID   int    `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitsSold   int64  `json:"units_sold"`
}

// CustomerSpending summarises a customer's order count and lifetime
// spend. Customers without orders appear with zero totals.
type CustomerSpending struct {
	CustomerID  int             `json:"customer_id"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	TotalOrders int64           `json:"total_orders"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
}
