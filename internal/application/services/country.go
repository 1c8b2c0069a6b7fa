package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/DanielPopoola/skybook-gateway/internal/application"
	"github.com/DanielPopoola/skybook-gateway/internal/domain"
	"github.com/DanielPopoola/skybook-gateway/internal/metrics"
)

// CountryResolver maps airport codes to country codes, reading through the
// local store to the inventory API.
type CountryResolver struct {
	store     application.AirportCountryRepository
	inventory application.InventoryClient
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewCountryResolver(
	store application.AirportCountryRepository,
	inventory application.InventoryClient,
	m *metrics.Metrics,
	logger *slog.Logger,
) *CountryResolver {
	return &CountryResolver{
		store:     store,
		inventory: inventory,
		metrics:   m,
		logger:    logger,
	}
}

// ResolveCountry never fails. Any lookup failure yields domain.UnknownCountry.
func (r *CountryResolver) ResolveCountry(ctx context.Context, iataCode string) string {
	code := strings.ToUpper(strings.TrimSpace(iataCode))
	if code == "" {
		r.count("unknown")
		return domain.UnknownCountry
	}

	country, err := r.store.FindCountry(ctx, code)
	if err == nil && country != "" {
		r.count("store")
		return country
	}
	if err != nil && !errors.Is(err, application.ErrLocationNotFound) {
		r.logger.Warn("airport country store read failed", "iata_code", code, "error", err)
	}

	country, err = r.inventory.AirportCountry(ctx, code)
	if err != nil || country == "" {
		r.logger.Warn("airport country lookup failed", "iata_code", code, "error", err)
		r.count("unknown")
		return domain.UnknownCountry
	}
	r.count("inventory")

	if err := r.store.Save(ctx, code, country); err != nil {
		r.logger.Warn("failed to cache airport country", "iata_code", code, "error", err)
	}

	return country
}

// IsInternational reports whether the offer leaves the departure country.
// Offers whose route or countries cannot be determined count as domestic.
func (r *CountryResolver) IsInternational(ctx context.Context, offer domain.FlightOffer) bool {
	origin, destination, err := offer.Route()
	if err != nil {
		r.logger.Warn("cannot determine offer route", "offer_id", offer.ID(), "error", err)
		return false
	}

	from := r.ResolveCountry(ctx, origin)
	to := r.ResolveCountry(ctx, destination)
	if from == domain.UnknownCountry || to == domain.UnknownCountry {
		r.logger.Warn("missing country for route, treating as domestic",
			"offer_id", offer.ID(),
			"origin", origin,
			"destination", destination,
		)
		return false
	}

	return from != to
}

func (r *CountryResolver) count(source string) {
	if r.metrics != nil {
		r.metrics.CountryLookups.WithLabelValues(source).Inc()
	}
}
