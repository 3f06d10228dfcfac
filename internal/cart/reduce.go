package cart

import (
	"fmt"
	"slices"

	"github.com/dukerupert/kinderkit/internal/domain"
)

// Reduce applies cmd to s and returns the resulting state. It never mutates s.
// The only failure is checkout on an empty cart, which leaves s unchanged.
func Reduce(s State, cmd Command) (State, error) {
	switch c := cmd.(type) {
	case AddItem:
		if c.Product.ID == "" {
			return s, nil
		}
		return addItem(s, domain.NewLineItem(c.Product), 1), nil

	case RemoveItem:
		return removeItem(s, c.ProductID), nil

	case UpdateQuantity:
		if c.Quantity <= 0 {
			return removeItem(s, c.ProductID), nil
		}
		i := s.indexOf(c.ProductID)
		if i < 0 {
			return s, nil
		}
		items := slices.Clone(s.Items)
		items[i].Quantity = c.Quantity
		return State{Items: items, Orders: s.Orders}, nil

	case Clear:
		return State{Items: []domain.LineItem{}, Orders: s.Orders}, nil

	case Checkout:
		if len(s.Items) == 0 {
			return s, domain.ErrEmptyCart
		}
		snapshot := make([]domain.LineItem, len(s.Items))
		for i, item := range s.Items {
			snapshot[i] = item.Clone()
		}
		order := domain.Order{
			ID:          c.OrderID,
			OrderNumber: c.OrderNumber,
			Items:       snapshot,
			TotalPrice:  s.TotalPrice(),
			Status:      domain.OrderStatusProcessing,
			CreatedAt:   c.CreatedAt,
		}
		return State{
			Items:  []domain.LineItem{},
			Orders: appendOrder(s.Orders, order),
		}, nil

	case RestoreItem:
		if c.Item.ID == "" || c.Item.Quantity < 1 {
			return s, nil
		}
		item := c.Item.Clone()
		n := item.Quantity
		item.Quantity = 0
		return addItem(s, item, n), nil

	case RestoreOrder:
		if c.Order.ID == "" || s.hasOrder(c.Order.ID) {
			return s, nil
		}
		order := c.Order.Clone()
		if !order.Status.Valid() {
			order.Status = domain.OrderStatusProcessing
		}
		return State{Items: s.Items, Orders: appendOrder(s.Orders, order)}, nil

	default:
		panic(fmt.Sprintf("cart: unknown command %T", cmd))
	}
}

// addItem is the single insertion path: it merges into an existing line
// item for the same product or appends a new one.
func addItem(s State, item domain.LineItem, n int) State {
	items := slices.Clone(s.Items)
	if i := s.indexOf(item.ID); i >= 0 {
		items[i].Quantity += n
	} else {
		item.Quantity = n
		items = append(items, item)
	}
	return State{Items: items, Orders: s.Orders}
}

func removeItem(s State, productID string) State {
	i := s.indexOf(productID)
	if i < 0 {
		return s
	}
	return State{Items: slices.Delete(slices.Clone(s.Items), i, i+1), Orders: s.Orders}
}

func appendOrder(orders []domain.Order, order domain.Order) []domain.Order {
	out := make([]domain.Order, len(orders), len(orders)+1)
	copy(out, orders)
	return append(out, order)
}
