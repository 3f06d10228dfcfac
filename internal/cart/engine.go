package cart

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/kinderkit/internal/domain"
	"github.com/dukerupert/kinderkit/internal/persist"
	"github.com/dukerupert/kinderkit/internal/storage"
)

// Observer is told about every dispatch, successful or not.
type Observer interface {
	CartDispatched(cmd Command, next State, err error)
}

// Options configures an Engine. Zero values select production defaults.
type Options struct {
	Logger         *slog.Logger
	Reporter       persist.Reporter
	Observer       Observer
	Clock          func() time.Time
	NewOrderID     func() (string, error)
	NewOrderNumber func(time.Time) (string, error)
}

// Engine is the injectable cart state container. Dispatches are serialized:
// each one reduces, persists and notifies subscribers before the next starts.
type Engine struct {
	mu       sync.Mutex
	notifyMu sync.Mutex
	state    State
	record   *persist.Record[State]
	subs     map[int]func(State)
	nextSub  int

	logger         *slog.Logger
	reporter       persist.Reporter
	observer       Observer
	clock          func() time.Time
	newOrderID     func() (string, error)
	newOrderNumber func(time.Time) (string, error)
}

// NewEngine creates a cart engine backed by store and rehydrates it from the
// stored record, replaying every item and order through Reduce.
func NewEngine(ctx context.Context, store storage.Storage, opts Options) *Engine {
	e := &Engine{
		state:          EmptyState(),
		record:         persist.NewRecord[State](store, persist.CartKey),
		subs:           make(map[int]func(State)),
		logger:         opts.Logger,
		reporter:       opts.Reporter,
		observer:       opts.Observer,
		clock:          opts.Clock,
		newOrderID:     opts.NewOrderID,
		newOrderNumber: opts.NewOrderNumber,
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.logger = e.logger.With(slog.String("engine", "cart"))
	if e.reporter == nil {
		e.reporter = persist.NopReporter{}
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	if e.newOrderID == nil {
		e.newOrderID = NewOrderID
	}
	if e.newOrderNumber == nil {
		e.newOrderNumber = NewOrderNumber
	}

	persist.Rehydrate(ctx, e.record, e.logger, e.reporter, func(stored State) {
		state := EmptyState()
		for _, item := range stored.Items {
			state, _ = Reduce(state, RestoreItem{Item: item})
		}
		for _, order := range stored.Orders {
			state, _ = Reduce(state, RestoreOrder{Order: order})
		}
		e.state = state
		e.logger.Info("cart rehydrated",
			slog.Int("items", len(state.Items)),
			slog.Int("orders", len(state.Orders)),
		)
	})

	return e
}

// Dispatch applies cmd. On success the new state is written through to
// storage and handed to subscribers in dispatch order. A rejected command
// changes nothing and writes nothing.
func (e *Engine) Dispatch(ctx context.Context, cmd Command) (State, error) {
	return e.dispatch(ctx, cmd, nil)
}

// dispatch runs inspect against the pre-command state while holding the
// dispatch lock.
func (e *Engine) dispatch(ctx context.Context, cmd Command, inspect func(State)) (State, error) {
	e.mu.Lock()
	if inspect != nil {
		inspect(e.state)
	}

	next, err := Reduce(e.state, cmd)
	if err != nil {
		current := e.state.Clone()
		e.mu.Unlock()
		e.logger.Debug("cart command rejected", slog.String("command", cmd.Name()), slog.String("error", err.Error()))
		if e.observer != nil {
			e.observer.CartDispatched(cmd, current, err)
		}
		return current, err
	}

	e.state = next
	persist.WriteThrough(context.WithoutCancel(ctx), e.record, e.logger, e.reporter, next)

	e.notifyMu.Lock()
	subs := e.subscribers()
	e.mu.Unlock()
	defer e.notifyMu.Unlock()

	if e.observer != nil {
		e.observer.CartDispatched(cmd, next, nil)
	}
	for _, fn := range subs {
		fn(next.Clone())
	}

	return next.Clone(), nil
}

// Subscribe registers fn to receive the state after every applied dispatch.
// fn must not dispatch into this engine. The returned func unsubscribes.
func (e *Engine) Subscribe(fn func(State)) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

func (e *Engine) subscribers() []func(State) {
	out := make([]func(State), 0, len(e.subs))
	for i := 0; i < e.nextSub; i++ {
		if fn, ok := e.subs[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}

// State returns a snapshot of the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// AddToCart adds one unit of p.
func (e *Engine) AddToCart(ctx context.Context, p domain.Product) State {
	s, _ := e.Dispatch(ctx, AddItem{Product: p})
	return s
}

// RemoveFromCart deletes the line item for productID if present.
func (e *Engine) RemoveFromCart(ctx context.Context, productID string) State {
	s, _ := e.Dispatch(ctx, RemoveItem{ProductID: productID})
	return s
}

// TakeFromCart removes the line item for productID and returns it. ok is
// false when the product was not in the cart. Concurrent takes of the same
// product see it at most once.
func (e *Engine) TakeFromCart(ctx context.Context, productID string) (s State, item domain.LineItem, ok bool) {
	s, _ = e.dispatch(ctx, RemoveItem{ProductID: productID}, func(current State) {
		item, ok = current.Item(productID)
	})
	return s, item, ok
}

// UpdateQuantity sets the quantity for productID; quantity <= 0 removes it.
func (e *Engine) UpdateQuantity(ctx context.Context, productID string, quantity int) State {
	s, _ := e.Dispatch(ctx, UpdateQuantity{ProductID: productID, Quantity: quantity})
	return s
}

// ClearCart empties the active items and keeps order history.
func (e *Engine) ClearCart(ctx context.Context) State {
	s, _ := e.Dispatch(ctx, Clear{})
	return s
}

// ProcessOrder snapshots the active items into a new processing order and
// empties the cart. Returns domain.ErrEmptyCart when there is nothing to order.
func (e *Engine) ProcessOrder(ctx context.Context) (domain.Order, error) {
	now := e.clock().UTC()

	id, err := e.newOrderID()
	if err != nil {
		return domain.Order{}, domain.Internal(err, "cart.checkout", "failed to generate order id")
	}
	number, err := e.newOrderNumber(now)
	if err != nil {
		return domain.Order{}, domain.Internal(err, "cart.checkout", "failed to generate order number")
	}

	s, err := e.Dispatch(ctx, Checkout{OrderID: id, OrderNumber: number, CreatedAt: now})
	if err != nil {
		return domain.Order{}, err
	}

	order := s.Orders[len(s.Orders)-1]
	e.logger.Info("order placed",
		slog.String("order_id", order.ID),
		slog.String("order_number", order.OrderNumber),
		slog.String("total", order.TotalPrice.StringFixed(2)),
	)
	return order, nil
}

// Items returns the active line items.
func (e *Engine) Items() []domain.LineItem {
	return e.State().Items
}

// Orders returns the order history, oldest first.
func (e *Engine) Orders() []domain.Order {
	return e.State().Orders
}

// OrdersByStatus returns the orders with status; empty status returns all.
func (e *Engine) OrdersByStatus(status domain.OrderStatus) []domain.Order {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.OrdersByStatus(status)
}

// TotalItems is recomputed from the current state on every call.
func (e *Engine) TotalItems() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.TotalItems()
}

// TotalPrice is recomputed from the current state on every call.
func (e *Engine) TotalPrice() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.TotalPrice()
}

// NewOrderID returns a time-ordered unique order identifier.
func NewOrderID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

const orderNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewOrderNumber returns a human-facing order number such as KK-20261016-7QX2MA.
func NewOrderNumber(now time.Time) (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	for i := range b {
		b[i] = orderNumberAlphabet[int(b[i])%len(orderNumberAlphabet)]
	}
	return fmt.Sprintf("KK-%s-%s", now.UTC().Format("20060102"), b), nil
}
