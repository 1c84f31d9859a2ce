package store

import (
	"time"

	"github.com/emirpasic/gods/sets"
)

// Product represents an individual item available for sale.
// Prices are kept in cents.
type Product struct {
	ID          int64     `persist:"id"`
	SKU         string    `persist:"sku"`
	Name        string    `persist:"name"`
	Description string    `persist:"description"`
	PriceCents  int64     `persist:"price_cents"`
	Inventory   int       `persist:"inventory_count"`
	CreatedAt   time.Time `persist:"created_at,format=RFC3339"`
}

// Customer represents the user placing orders.
type Customer struct {
	ID       int64   `persist:"id"`
	Email    string  `persist:"email"`
	FullName string  `persist:"full_name"`
	Address  *string `persist:"address"`
	IsActive bool    `persist:"is_active"`
}

// Order represents a transaction made by a customer.
type Order struct {
	ID         int64       `persist:"id"`
	CustomerID int64       `persist:"customer_id"`
	Status     OrderStatus `persist:"status"`
	TotalCents int64       `persist:"total_cents"`
	Items      []OrderItem `persist:"items,elem=item"`
	Payment    Payment     `persist:"payment"`
	Labels     sets.Set    `persist:"labels,elem=label,types=string"`
	OrderedAt  time.Time   `persist:"ordered_at,format=RFC3339"`
}

// NewOrder returns a pending order.
func NewOrder() *Order {
	return &Order{Status: StatusPending}
}

// OrderItem snapshots the price of a product at the time of purchase.
type OrderItem struct {
	ProductID int64  `persist:"product_id"`
	Name      string `persist:"name"`
	Quantity  int    `persist:"quantity"`
	UnitPrice int64  `persist:"unit_price"`
}

// Payment settles an order.
type Payment interface {
	Amount() int64
}

type CardPayment struct {
	Last4 string `persist:"last4"`
	Cents int64  `persist:"cents"`
}

func (p CardPayment) Amount() int64 { return p.Cents }

type TransferPayment struct {
	IBAN  string `persist:"iban"`
	Cents int64  `persist:"cents"`
}

func (p TransferPayment) Amount() int64 { return p.Cents }

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)
