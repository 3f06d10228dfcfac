package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

var (
	ErrEmptyCart       = &Error{Code: EINVALID, Op: "cart.checkout", Message: "Cart is empty"}
	ErrInvalidQuantity = &Error{Code: EINVALID, Message: "Quantity must be a whole number"}
	ErrNegativePrice   = &Error{Code: EINVALID, Message: "Price must not be negative"}
)

// LineItem is one product-and-quantity pair in the active cart.
// There is at most one line item per product ID.
type LineItem struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Image    string           `json:"image,omitempty"`
	Price    decimal.Decimal  `json:"price"`
	OldPrice *decimal.Decimal `json:"oldPrice,omitempty"`
	Category ProductCategory  `json:"category,omitempty"`
	Quantity int              `json:"quantity"`
}

// NewLineItem copies the display fields of p into a line item with quantity 1.
func NewLineItem(p Product) LineItem {
	item := LineItem{
		ID:       p.ID,
		Title:    p.Title,
		Image:    p.Image,
		Price:    p.Price,
		Category: p.Category,
		Quantity: 1,
	}
	if p.OldPrice != nil {
		old := *p.OldPrice
		item.OldPrice = &old
	}
	return item
}

// Subtotal returns price × quantity.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Clone returns a copy that shares no pointers with i.
func (i LineItem) Clone() LineItem {
	if i.OldPrice != nil {
		old := *i.OldPrice
		i.OldPrice = &old
	}
	return i
}

// =============================================================================
// ORDERS
// =============================================================================

// OrderStatus is the fulfillment state shown in the order history.
// Orders are created as processing; the cart never changes the status.
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is an immutable snapshot of the cart taken at checkout.
type Order struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	Items       []LineItem      `json:"items"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Status      OrderStatus     `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ItemCount returns the number of units in the order.
func (o Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// Clone returns a deep copy of the order.
func (o Order) Clone() Order {
	items := make([]LineItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = item.Clone()
	}
	o.Items = items
	return o
}
