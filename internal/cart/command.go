package cart

import (
	"time"

	"github.com/dukerupert/kinderkit/internal/domain"
)

// Command is one cart transition. The set is closed: only the types in this
// file implement it.
type Command interface {
	// Name identifies the command in logs and metrics.
	Name() string
	command()
}

// AddItem increments the product's quantity, inserting it with quantity 1
// when absent. A product without an ID is ignored, matching RestoreItem, so
// every reachable cart survives a restart.
type AddItem struct {
	Product domain.Product
}

// RemoveItem deletes the product's line item. Absent products are a no-op.
type RemoveItem struct {
	ProductID string
}

// UpdateQuantity sets the product's quantity. A quantity of zero or less
// removes the line item.
type UpdateQuantity struct {
	ProductID string
	Quantity  int
}

// Clear empties the active items. Order history is kept.
type Clear struct{}

// Checkout moves the active items into a new order. The caller supplies the
// generated identifiers so Reduce stays deterministic.
type Checkout struct {
	OrderID     string
	OrderNumber string
	CreatedAt   time.Time
}

// RestoreItem re-inserts a stored line item through the add path.
type RestoreItem struct {
	Item domain.LineItem
}

// RestoreOrder re-appends a stored order to the history.
type RestoreOrder struct {
	Order domain.Order
}

func (AddItem) Name() string        { return "add_item" }
func (RemoveItem) Name() string     { return "remove_item" }
func (UpdateQuantity) Name() string { return "update_quantity" }
func (Clear) Name() string          { return "clear" }
func (Checkout) Name() string       { return "checkout" }
func (RestoreItem) Name() string    { return "restore_item" }
func (RestoreOrder) Name() string   { return "restore_order" }

func (AddItem) command()        {}
func (RemoveItem) command()     {}
func (UpdateQuantity) command() {}
func (Clear) command()          {}
func (Checkout) command()       {}
func (RestoreItem) command()    {}
func (RestoreOrder) command()   {}
