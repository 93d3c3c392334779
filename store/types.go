// Package store holds the persistence model of the shop. Its types are the
// sources the warehouse projections are built from.
package store

import (
	"time"
)

// Product represents an individual item available for sale.
// Prices are kept in cents to avoid floating-point errors.
type Product struct {
	ID          int64
	SKU         string
	Name        string
	Description string
	PriceCents  int64
	Inventory   int
	Weight      *float64 // grams, unknown for digital goods
	Tags        []string
	CreatedAt   time.Time
}

// Customer represents the user placing orders.
type Customer struct {
	ID       int64
	Email    string
	FullName string
	Address  *string
	IsActive bool
	Loyalty  *int32
}

// Order represents a transaction made by a customer.
type Order struct {
	ID         int64
	CustomerID int64
	Customer   Customer
	Status     OrderStatus
	Priority   Priority
	TotalCents int64
	Discount   *int64
	Items      []OrderItem
	Notes      []string
	OrderedAt  time.Time
	ShippedAt  *time.Time
}

// Reference is the human-facing order number.
func (o Order) Reference() string {
	return "ORD-" + o.OrderedAt.Format("20060102")
}

// OrderItem represents a specific product line within an order.
// It snapshots the price at the time of purchase.
type OrderItem struct {
	ProductID int64
	Name      string
	Quantity  int
	UnitPrice int64
	Product   *Product
}

// Category is a node of the product category tree.
type Category struct {
	Name   string
	Parent *Category
}

// OrderStatus is a custom type for type-safe status handling.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Priority orders fulfilment.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
)
