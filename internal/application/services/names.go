package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/DanielPopoola/skybook-gateway/internal/application"
	"github.com/DanielPopoola/skybook-gateway/internal/metrics"
)

const nameLookupConcurrency = 4

// NameResolver turns carrier and airport codes into display names. Airline
// names read through the durable store; city names are kept in memory for the
// life of the process. A code that cannot be resolved is simply left out of
// the result.
type NameResolver struct {
	catalog  application.CatalogClient
	airlines application.AirlineNameRepository
	metrics  *metrics.Metrics
	logger   *slog.Logger

	mu     sync.RWMutex
	cities map[string]string
}

func NewNameResolver(
	catalog application.CatalogClient,
	airlines application.AirlineNameRepository,
	m *metrics.Metrics,
	logger *slog.Logger,
) *NameResolver {
	return &NameResolver{
		catalog:  catalog,
		airlines: airlines,
		metrics:  m,
		logger:   logger,
		cities:   map[string]string{},
	}
}

func (r *NameResolver) AirlineNames(ctx context.Context, codes []string) map[string]string {
	return r.resolveAll(ctx, codes, r.airlineName)
}

func (r *NameResolver) CityNames(ctx context.Context, codes []string) map[string]string {
	return r.resolveAll(ctx, codes, r.cityName)
}

func (r *NameResolver) resolveAll(ctx context.Context, codes []string, resolve func(context.Context, string) (string, bool)) map[string]string {
	var mu sync.Mutex
	names := make(map[string]string, len(codes))

	var g errgroup.Group
	g.SetLimit(nameLookupConcurrency)
	for _, code := range codes {
		g.Go(func() error {
			if name, ok := resolve(ctx, code); ok {
				mu.Lock()
				names[code] = name
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return names
}

func (r *NameResolver) airlineName(ctx context.Context, code string) (string, bool) {
	name, err := r.airlines.FindName(ctx, code)
	if err == nil && name != "" {
		r.count("airline", "store")
		return name, true
	}
	if err != nil && !errors.Is(err, application.ErrAirlineNotFound) {
		r.logger.Warn("airline name store read failed", "carrier_code", code, "error", err)
	}

	name, err = r.catalog.AirlineName(ctx, code)
	if err != nil || name == "" {
		r.logger.Warn("airline name lookup failed", "carrier_code", code, "error", err)
		r.count("airline", "unknown")
		return "", false
	}
	r.count("airline", "inventory")

	if err := r.airlines.Save(ctx, code, name); err != nil {
		r.logger.Warn("failed to cache airline name", "carrier_code", code, "error", err)
	}
	return name, true
}

func (r *NameResolver) cityName(ctx context.Context, code string) (string, bool) {
	r.mu.RLock()
	name, ok := r.cities[code]
	r.mu.RUnlock()
	if ok {
		r.count("city", "memory")
		return name, true
	}

	name, err := r.catalog.AirportCity(ctx, code)
	if err != nil || name == "" {
		r.logger.Warn("airport city lookup failed", "iata_code", code, "error", err)
		r.count("city", "unknown")
		return "", false
	}
	r.count("city", "inventory")

	r.mu.Lock()
	r.cities[code] = name
	r.mu.Unlock()
	return name, true
}

func (r *NameResolver) count(kind, source string) {
	if r.metrics != nil {
		r.metrics.NameLookups.WithLabelValues(kind, source).Inc()
	}
}
