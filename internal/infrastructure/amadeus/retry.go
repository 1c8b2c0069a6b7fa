package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/DanielPopoola/skybook-gateway/internal/application"
	"github.com/DanielPopoola/skybook-gateway/internal/config"
	"github.com/DanielPopoola/skybook-gateway/internal/domain"
)

// RetryInventoryClient retries idempotent reads on transient failures. Order
// creation is passed through untouched: the inventory API offers no
// idempotency key, so a retried create could book twice.
type RetryInventoryClient struct {
	inner application.InventoryClient
	retrier
}

// RetryCatalogClient retries every catalog call; all of them are reads.
type RetryCatalogClient struct {
	inner application.CatalogClient
	retrier
}

type retrier struct {
	baseDelay  time.Duration
	maxRetries int
	logger     *slog.Logger
}

func newRetrier(cfg config.RetryConfig, logger *slog.Logger) retrier {
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	return retrier{baseDelay: cfg.BaseDelay, maxRetries: maxRetries, logger: logger}
}

func NewRetryInventoryClient(inner application.InventoryClient, cfg config.RetryConfig, logger *slog.Logger) application.InventoryClient {
	return &RetryInventoryClient{inner: inner, retrier: newRetrier(cfg, logger)}
}

func NewRetryCatalogClient(inner application.CatalogClient, cfg config.RetryConfig, logger *slog.Logger) application.CatalogClient {
	return &RetryCatalogClient{inner: inner, retrier: newRetrier(cfg, logger)}
}

func (r *RetryInventoryClient) AirportCountry(ctx context.Context, iataCode string) (string, error) {
	country, err := retry(&r.retrier, ctx, "airport_country", func(ctx context.Context) (*string, error) {
		c, err := r.inner.AirportCountry(ctx, iataCode)
		if err != nil {
			return nil, err
		}
		return &c, nil
	})
	if err != nil {
		return "", err
	}
	return *country, nil
}

func (r *RetryInventoryClient) CreateFlightOrder(ctx context.Context, req application.FlightOrderRequest) (*application.FlightOrderResponse, error) {
	return r.inner.CreateFlightOrder(ctx, req)
}

func (r *RetryInventoryClient) PriceFlightOffers(ctx context.Context, offers []domain.FlightOffer) (json.RawMessage, error) {
	doc, err := retry(&r.retrier, ctx, "price_flight_offers", func(ctx context.Context) (*json.RawMessage, error) {
		d, err := r.inner.PriceFlightOffers(ctx, offers)
		if err != nil {
			return nil, err
		}
		return &d, nil
	})
	if err != nil {
		return nil, err
	}
	return *doc, nil
}

func (r *RetryCatalogClient) SearchFlightOffers(ctx context.Context, q application.FlightSearchQuery) ([]domain.FlightOffer, error) {
	offers, err := retry(&r.retrier, ctx, "search_flight_offers", func(ctx context.Context) (*[]domain.FlightOffer, error) {
		o, err := r.inner.SearchFlightOffers(ctx, q)
		if err != nil {
			return nil, err
		}
		return &o, nil
	})
	if err != nil {
		return nil, err
	}
	return *offers, nil
}

func (r *RetryCatalogClient) AirlineName(ctx context.Context, carrierCode string) (string, error) {
	return retryString(&r.retrier, ctx, "airline_name", func(ctx context.Context) (string, error) {
		return r.inner.AirlineName(ctx, carrierCode)
	})
}

func (r *RetryCatalogClient) AirportCity(ctx context.Context, iataCode string) (string, error) {
	return retryString(&r.retrier, ctx, "airport_city", func(ctx context.Context) (string, error) {
		return r.inner.AirportCity(ctx, iataCode)
	})
}

func (r *RetryCatalogClient) SeatMaps(ctx context.Context, offer domain.FlightOffer) (json.RawMessage, error) {
	return retryDocument(&r.retrier, ctx, "seat_maps", func(ctx context.Context) (json.RawMessage, error) {
		return r.inner.SeatMaps(ctx, offer)
	})
}

func (r *RetryCatalogClient) SearchLocations(ctx context.Context, keyword string) (json.RawMessage, error) {
	return retryDocument(&r.retrier, ctx, "search_locations", func(ctx context.Context) (json.RawMessage, error) {
		return r.inner.SearchLocations(ctx, keyword)
	})
}

func (r *RetryCatalogClient) LocationByID(ctx context.Context, locationID string) (json.RawMessage, error) {
	return retryDocument(&r.retrier, ctx, "location_by_id", func(ctx context.Context) (json.RawMessage, error) {
		return r.inner.LocationByID(ctx, locationID)
	})
}

func retryString(r *retrier, ctx context.Context, op string, operation func(ctx context.Context) (string, error)) (string, error) {
	v, err := retry(r, ctx, op, func(ctx context.Context) (*string, error) {
		s, err := operation(ctx)
		if err != nil {
			return nil, err
		}
		return &s, nil
	})
	if err != nil {
		return "", err
	}
	return *v, nil
}

func retryDocument(r *retrier, ctx context.Context, op string, operation func(ctx context.Context) (json.RawMessage, error)) (json.RawMessage, error) {
	v, err := retry(r, ctx, op, func(ctx context.Context) (*json.RawMessage, error) {
		d, err := operation(ctx)
		if err != nil {
			return nil, err
		}
		return &d, nil
	})
	if err != nil {
		return nil, err
	}
	return *v, nil
}

// Generic retry helper
func retry[T any](r *retrier, ctx context.Context, op string, operation func(ctx context.Context) (*T, error)) (*T, error) {
	var lastErr error

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		resp, err := operation(ctx)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if !application.IsRetryable(err) {
			return nil, err
		}

		if attempt < r.maxRetries-1 {
			delay := r.backoff(attempt)
			r.logger.Warn("retrying inventory call",
				"operation", op,
				"attempt", attempt+1,
				"delay", delay,
				"error", err,
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return nil, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

// Backoff calculation with exponential delay and jitter
func (r *retrier) backoff(attempt int) time.Duration {
	base := r.baseDelay * time.Duration(1<<attempt)
	if r.baseDelay <= 0 {
		return 0
	}

	jitter := time.Duration(rand.Int63n(int64(r.baseDelay)))

	return base + jitter
}
