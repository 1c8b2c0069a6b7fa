package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/skybook-gateway/internal/application"
	"github.com/DanielPopoola/skybook-gateway/internal/domain"
	"github.com/DanielPopoola/skybook-gateway/internal/metrics"
)

// OrderPersister stores a confirmed order as one row per traveler and segment.
type OrderPersister struct {
	repo    application.FlightOrderRepository
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

func NewOrderPersister(repo application.FlightOrderRepository, m *metrics.Metrics, logger *slog.Logger) *OrderPersister {
	return &OrderPersister{
		repo:    repo,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Persist returns how many rows were committed. Zero rows with a nil error
// means every segment was skipped; the caller decides what that means.
func (p *OrderPersister) Persist(ctx context.Context, order *domain.ConfirmedOrder) (int, error) {
	rows, skipped, err := domain.BuildFlightOrderRows(order, p.now().UTC())
	if err != nil {
		return 0, err
	}

	for _, s := range skipped {
		p.logger.Warn("skipping segment without airport or time",
			"order_id", order.OrderID,
			"traveler_id", s.TravelerID,
			"itinerary", s.ItineraryIndex,
			"segment", s.SegmentIndex,
			"reason", s.Reason,
		)
	}
	if p.metrics != nil {
		p.metrics.SegmentsSkipped.Add(float64(len(skipped)))
	}

	if len(rows) == 0 {
		return 0, nil
	}

	n, err := p.repo.InsertRows(ctx, rows)
	if err != nil {
		p.logger.Error("failed to persist flight order", "order_id", order.OrderID, "error", err)
		return 0, err
	}

	if p.metrics != nil {
		p.metrics.RowsPersisted.Add(float64(n))
	}
	p.logger.Info("flight order persisted", "order_id", order.OrderID, "rows", n)
	return n, nil
}
