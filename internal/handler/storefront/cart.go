// Package storefront serves the JSON API the storefront view layer calls.
package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dukerupert/kinderkit/internal/cart"
	"github.com/dukerupert/kinderkit/internal/catalog"
	"github.com/dukerupert/kinderkit/internal/domain"
	"github.com/dukerupert/kinderkit/internal/handler"
)

// CartEngine is the part of the cart engine the handlers use directly.
type CartEngine interface {
	State() cart.State
	UpdateQuantity(ctx context.Context, productID string, quantity int) cart.State
	ClearCart(ctx context.Context) cart.State
}

// CartActions are the cart operations that also produce notifications.
type CartActions interface {
	AddToCart(ctx context.Context, p domain.Product) cart.State
	RemoveFromCart(ctx context.Context, productID string) cart.State
	Checkout(ctx context.Context) (domain.Order, error)
}

// CartHandler handles all cart and order routes
type CartHandler struct {
	cart    CartEngine
	actions CartActions
	catalog catalog.Catalog
}

// NewCartHandler creates a new cart handler
func NewCartHandler(c CartEngine, actions CartActions, cat catalog.Catalog) *CartHandler {
	return &CartHandler{
		cart:    c,
		actions: actions,
		catalog: cat,
	}
}

// addItemRequest accepts either a full product record or a catalog ID.
type addItemRequest struct {
	ProductID string `json:"product_id,omitempty"`
	domain.Product
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// View handles GET /cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	handler.JSON(w, http.StatusOK, newCartView(h.cart.State()))
}

// Add handles POST /cart/items
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	const op = "cart.add"

	var req addItemRequest
	if err := handler.ReadJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	product := req.Product
	if req.ProductID != "" {
		if req.Product.ID != "" || req.Product.Title != "" {
			handler.ErrorResponse(w, r, domain.Invalid(op, "Send either product_id or a product record, not both"))
			return
		}
		p, err := h.catalog.GetProduct(ctx, req.ProductID)
		if err != nil {
			handler.ErrorResponse(w, r, err)
			return
		}
		product = p
	} else {
		if err := handler.Validate(op, product); err != nil {
			handler.ErrorResponse(w, r, err)
			return
		}
		if err := validatePrices(op, product); err != nil {
			handler.ErrorResponse(w, r, err)
			return
		}
	}

	s := h.actions.AddToCart(ctx, product)
	handler.JSON(w, http.StatusOK, newCartView(s))
}

// Update handles PUT /cart/items/{id}
// A quantity of zero or less removes the line item.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	var req updateQuantityRequest
	if err := handler.DecodeJSON(r, "cart.update", &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "quantity" {
			err = domain.ErrInvalidQuantity
		}
		handler.ErrorResponse(w, r, err)
		return
	}

	var s cart.State
	if *req.Quantity <= 0 {
		s = h.actions.RemoveFromCart(ctx, id)
	} else {
		s = h.cart.UpdateQuantity(ctx, id, *req.Quantity)
	}
	handler.JSON(w, http.StatusOK, newCartView(s))
}

// Remove handles DELETE /cart/items/{id}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	s := h.actions.RemoveFromCart(r.Context(), r.PathValue("id"))
	handler.JSON(w, http.StatusOK, newCartView(s))
}

// Clear handles DELETE /cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	s := h.cart.ClearCart(r.Context())
	handler.JSON(w, http.StatusOK, newCartView(s))
}

// Checkout handles POST /cart/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	order, err := h.actions.Checkout(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusCreated, newOrderView(order))
}

// Orders handles GET /orders?status=
func (h *CartHandler) Orders(w http.ResponseWriter, r *http.Request) {
	s := h.cart.State()
	orders := s.Orders

	if status := domain.OrderStatus(r.URL.Query().Get("status")); status != "" {
		if !status.Valid() {
			handler.ErrorResponse(w, r, domain.Invalid("cart.orders", "Unknown order status: "+string(status)))
			return
		}
		orders = s.OrdersByStatus(status)
	}

	views := make([]orderView, len(orders))
	for i, o := range orders {
		views[i] = newOrderView(o)
	}
	handler.JSON(w, http.StatusOK, map[string]any{"orders": views})
}

// validatePrices reports every negative price field at once.
func validatePrices(op string, p domain.Product) error {
	var err error
	if p.Price.IsNegative() {
		err = domain.AddFieldError(err, "price", domain.ErrNegativePrice.Message)
	}
	if p.OldPrice != nil && p.OldPrice.IsNegative() {
		err = domain.AddFieldError(err, "oldPrice", domain.ErrNegativePrice.Message)
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		ve.Op = op
	}
	return err
}
