// Package warehouse holds the read models the fulfilment floor works with.
// Every type here is a projection of a store type; the projection code is
// generated by projector-generator.
package warehouse

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"projector-generator/projector"
	"projector-generator/store"
)

// Formatter is the context of PickList projections.
type Formatter struct {
	Prefix string
}

// FormatID renders an order id for printed pick lists.
func (f *Formatter) FormatID(id int64) string {
	return f.Prefix + strconv.FormatInt(id, 10)
}

// Level is the warehouse urgency scale.
type Level int8

const (
	LevelLow Level = iota
	LevelNormal
	LevelHigh
)

// PickList is what a picker receives for one order.
type PickList struct {
	_ projector.FromContext[store.Order, *Formatter]

	ID        string `project:"conv=FormatID"`
	Reference string
	Status    string
	Priority  Level
	Urgency   Level           `project:"usedefault;default=LevelHigh"`
	Total     decimal.Decimal `project:"source=TotalCents"`
	Discount  int64
	Customer  CustomerCard
	Lines     []PickLine          `project:"source=Items"`
	Notes     map[string]struct{} `collection:"shape=set"`
	ShippedAt *time.Time
	Printed   bool `project:"-"`
}

// CustomerCard is the short customer summary printed on a pick list.
type CustomerCard struct {
	_ projector.From[store.Customer]

	ID      int64
	Email   string
	Name    string `project:"source=FullName"`
	Address string `project:"default=unknown"`
	Loyalty int64
	Active  bool   `project:"source=IsActive"`
	Remarks string `project:"-"`
}

// PickLine is one line of a pick list.
type PickLine struct {
	_ projector.From[store.OrderItem]

	ProductID int64
	Name      string
	Quantity  int32
	Product   *ProductCard
}

// NewPickLine creates a line for a product.
func NewPickLine(productID int64, name string) PickLine {
	return PickLine{ProductID: productID, Name: name}
}

// ProductCard describes the product to pick.
type ProductCard struct {
	_ projector.From[store.Product]

	SKU     string
	Title   string    `project:"source=Name"`
	Price   string    `project:"source=PriceCents"`
	Weight  float64   `project:"default=1.5"`
	Labels  []string  `project:"source=Tags" collection:"item=strings.ToUpper($source)"`
	Created time.Time `project:"source=CreatedAt"`
}

// NewProductCard creates a card for a SKU.
//
//projector:constructor
func NewProductCard(sku string) *ProductCard {
	return &ProductCard{SKU: sku}
}

// NewProductCardWithTitle creates a card with a custom title.
func NewProductCardWithTitle(sku, title string) *ProductCard {
	return &ProductCard{SKU: sku, Title: title}
}

// Shelf cannot be projected: none of its constructors is designated.
type Shelf struct {
	_ projector.From[store.Product]

	SKU   string
	Stock int `project:"source=Inventory"`
}

// NewShelf creates a shelf slot.
func NewShelf(sku string, stock int) Shelf {
	return Shelf{SKU: sku, Stock: stock}
}

// NewShelfAt creates a shelf slot in a given aisle.
func NewShelfAt(sku string, stock int, aisle string) Shelf {
	return Shelf{SKU: sku + "@" + aisle, Stock: stock}
}

// CategoryTree and CategoryParent reference each other and therefore cannot
// be projected.
type CategoryTree struct {
	_ projector.From[store.Category]

	Name   string
	Parent *CategoryParent
}

// CategoryParent is the parent side of the category cycle.
type CategoryParent struct {
	_ projector.From[store.Category]

	Name  string
	Child *CategoryTree `project:"source=Parent"`
}
