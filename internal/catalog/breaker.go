package catalog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/dukerupert/kinderkit/internal/domain"
)

// BreakerSettings tunes the circuit breaker around a remote catalog.
type BreakerSettings struct {
	Name string

	// ConsecutiveFailures opens the circuit. Defaults to 5.
	ConsecutiveFailures uint32

	// OpenTimeout is how long the circuit stays open before probing. Defaults to 30s.
	OpenTimeout time.Duration
}

// Breaker fails fast while the wrapped catalog keeps failing.
type Breaker struct {
	origin Catalog
	cb     *gobreaker.CircuitBreaker[any]
}

var _ Catalog = (*Breaker)(nil)

// NewBreaker wraps origin. Not-found and invalid-request errors count as
// successes; only infrastructure failures trip the circuit.
func NewBreaker(origin Catalog, settings BreakerSettings, logger *slog.Logger) *Breaker {
	if settings.ConsecutiveFailures == 0 {
		settings.ConsecutiveFailures = 5
	}
	if settings.OpenTimeout <= 0 {
		settings.OpenTimeout = 30 * time.Second
	}
	threshold := settings.ConsecutiveFailures

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				domain.IsCode(err, domain.ENOTFOUND) ||
				domain.IsCode(err, domain.EINVALID)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("catalog circuit state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return &Breaker{origin: origin, cb: cb}
}

func (b *Breaker) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.origin.GetProduct(ctx, id)
	})
	if err != nil {
		return domain.Product{}, b.translate(err, "catalog.get")
	}
	return v.(domain.Product), nil
}

func (b *Breaker) ListProducts(ctx context.Context) ([]domain.Product, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.origin.ListProducts(ctx)
	})
	if err != nil {
		return nil, b.translate(err, "catalog.list")
	}
	return v.([]domain.Product), nil
}

// State reports the current circuit state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func (b *Breaker) translate(err error, op string) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return domain.Unavailable(err, op, "catalog temporarily unavailable")
	}
	return err
}
