package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/kinderkit/internal/domain"
)

// Querier is the slice of pgxpool.Pool the Postgres catalog uses.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Postgres reads active products from the upstream catalog database.
type Postgres struct {
	db      Querier
	timeout time.Duration
}

var _ Catalog = (*Postgres)(nil)

// NewPostgres creates a catalog over db. Each query is bounded by timeout
// when it is positive.
func NewPostgres(db Querier, timeout time.Duration) *Postgres {
	return &Postgres{db: db, timeout: timeout}
}

const productColumns = `id, title, image, price::text, old_price::text, category, age_range`

const getProductSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND active`

const listProductsSQL = `SELECT ` + productColumns + ` FROM products WHERE active ORDER BY sort_order, title`

func (c *Postgres) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	p, err := scanProduct(c.db.QueryRow(ctx, getProductSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, domain.NotFound("catalog.get", "product", id)
	}
	if err != nil {
		return domain.Product{}, domain.Unavailable(err, "catalog.get", "failed to load product")
	}
	return p, nil
}

func (c *Postgres) ListProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	rows, err := c.db.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, domain.Unavailable(err, "catalog.list", "failed to list products")
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, domain.Unavailable(err, "catalog.list", "failed to read product row")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Unavailable(err, "catalog.list", "failed to list products")
	}

	return products, nil
}

func (c *Postgres) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p        domain.Product
		image    *string
		price    string
		oldPrice *string
		category string
		ageRange *string
	)
	if err := row.Scan(&p.ID, &p.Title, &image, &price, &oldPrice, &category, &ageRange); err != nil {
		return domain.Product{}, err
	}

	var err error
	p.Price, err = decimal.NewFromString(price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("invalid price for %s: %w", p.ID, err)
	}
	if oldPrice != nil {
		old, err := decimal.NewFromString(*oldPrice)
		if err != nil {
			return domain.Product{}, fmt.Errorf("invalid old price for %s: %w", p.ID, err)
		}
		p.OldPrice = &old
	}
	if image != nil {
		p.Image = *image
	}
	if ageRange != nil {
		p.AgeRange = *ageRange
	}
	p.Category = domain.ProductCategory(category)

	return p, nil
}
