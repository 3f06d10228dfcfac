// Package cart holds the shopping cart state machine and the order ledger.
//
// State changes only through Reduce, a pure function of (State, Command).
// Engine wraps Reduce with locking, write-through persistence and
// subscriber notification.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/dukerupert/kinderkit/internal/domain"
)

// State is the authoritative cart: active line items plus order history.
// It is also the persisted layout ({"items": [...], "orders": [...]}).
type State struct {
	Items  []domain.LineItem `json:"items"`
	Orders []domain.Order    `json:"orders"`
}

// EmptyState returns a cart with no items and no orders.
func EmptyState() State {
	return State{
		Items:  []domain.LineItem{},
		Orders: []domain.Order{},
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{
		Items:  make([]domain.LineItem, len(s.Items)),
		Orders: make([]domain.Order, len(s.Orders)),
	}
	for i, item := range s.Items {
		out.Items[i] = item.Clone()
	}
	for i, order := range s.Orders {
		out.Orders[i] = order.Clone()
	}
	return out
}

// TotalItems is the sum of quantities over the active items.
func (s State) TotalItems() int {
	n := 0
	for _, item := range s.Items {
		n += item.Quantity
	}
	return n
}

// TotalPrice is the sum of price × quantity over the active items.
func (s State) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Item returns the line item for productID.
func (s State) Item(productID string) (domain.LineItem, bool) {
	if i := s.indexOf(productID); i >= 0 {
		return s.Items[i].Clone(), true
	}
	return domain.LineItem{}, false
}

// OrdersByStatus returns the orders with the given status, oldest first.
// An empty status returns every order.
func (s State) OrdersByStatus(status domain.OrderStatus) []domain.Order {
	out := make([]domain.Order, 0, len(s.Orders))
	for _, order := range s.Orders {
		if status == "" || order.Status == status {
			out = append(out, order.Clone())
		}
	}
	return out
}

func (s State) indexOf(productID string) int {
	for i, item := range s.Items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

func (s State) hasOrder(orderID string) bool {
	for _, order := range s.Orders {
		if order.ID == orderID {
			return true
		}
	}
	return false
}
