package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/skybook-gateway/internal/domain"
)

type CountryResolver interface {
	ResolveCountry(ctx context.Context, iataCode string) string
}

// AirportWarmer preloads the airport country store so that the first booking
// on a popular route does not pay for two inventory lookups.
type AirportWarmer struct {
	resolver CountryResolver
	airports []string
	interval time.Duration
	logger   *slog.Logger
}

func NewAirportWarmer(
	resolver CountryResolver,
	airports []string,
	interval time.Duration,
	logger *slog.Logger,
) *AirportWarmer {
	return &AirportWarmer{
		resolver: resolver,
		airports: airports,
		interval: interval,
		logger:   logger,
	}
}

func (w *AirportWarmer) Start(ctx context.Context) {
	w.logger.Info("airport warmer started", "interval", w.interval, "airports", len(w.airports))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("airport warmer stopping")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce resolves every configured airport and returns how many stayed
// unresolved.
func (w *AirportWarmer) RunOnce(ctx context.Context) int {
	var unresolved int
	for _, code := range w.airports {
		if ctx.Err() != nil {
			return unresolved
		}
		if w.resolver.ResolveCountry(ctx, code) == domain.UnknownCountry {
			unresolved++
		}
	}

	if unresolved > 0 {
		w.logger.Warn("airport warm-up incomplete", "airports", len(w.airports), "unresolved", unresolved)
	} else {
		w.logger.Debug("airport warm-up complete", "airports", len(w.airports))
	}
	return unresolved
}
