package catalog

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/kinderkit/internal/domain"
)

// Memory is an in-process catalog for development and tests.
type Memory struct {
	mu       sync.RWMutex
	order    []string
	products map[string]domain.Product
}

var _ Catalog = (*Memory)(nil)

// NewMemory returns a catalog holding products in the given order.
func NewMemory(products []domain.Product) *Memory {
	m := &Memory{products: make(map[string]domain.Product, len(products))}
	for _, p := range products {
		m.Put(p)
	}
	return m
}

// Put inserts or replaces a product.
func (m *Memory) Put(p domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		m.order = append(m.order, p.ID)
	}
	m.products[p.ID] = p
}

func (m *Memory) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, domain.NotFound("catalog.get", "product", id)
	}
	return p, nil
}

func (m *Memory) ListProducts(ctx context.Context) ([]domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Product, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.products[id])
	}
	return out, nil
}

// SeedProducts is the built-in catalog used when no database is configured.
func SeedProducts() []domain.Product {
	old := decimal.RequireFromString("24.99")
	return []domain.Product{
		{ID: "bk-001", Title: "Counting With Critters", Price: decimal.RequireFromString("12.99"), Category: domain.CategoryBooks, AgeRange: "3-5"},
		{ID: "bk-002", Title: "My First Atlas", Price: decimal.RequireFromString("18.50"), Category: domain.CategoryBooks, AgeRange: "6-8"},
		{ID: "ty-001", Title: "Wooden Shape Sorter", Price: decimal.RequireFromString("19.99"), OldPrice: &old, Category: domain.CategoryToys, AgeRange: "1-3"},
		{ID: "kt-001", Title: "Junior Circuit Kit", Price: decimal.RequireFromString("34.00"), Category: domain.CategoryKits, AgeRange: "8-12"},
		{ID: "dg-001", Title: "Phonics Audio Course", Price: decimal.RequireFromString("9.99"), Category: domain.CategoryDigital, AgeRange: "4-6"},
		{ID: "pr-001", Title: "Tracing Worksheets Pack", Price: decimal.RequireFromString("4.50"), Category: domain.CategoryPrintout, AgeRange: "3-5"},
	}
}
