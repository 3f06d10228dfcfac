package storefront

import (
	"net/http"

	"github.com/dukerupert/kinderkit/internal/catalog"
	"github.com/dukerupert/kinderkit/internal/handler"
)

// ProductHandler serves the read-only catalog.
type ProductHandler struct {
	catalog catalog.Catalog
}

// NewProductHandler creates a new product handler
func NewProductHandler(cat catalog.Catalog) *ProductHandler {
	return &ProductHandler{catalog: cat}
}

// List handles GET /products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, map[string]any{"products": products})
}

// Get handles GET /products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, product)
}
