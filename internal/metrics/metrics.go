package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	OrdersSubmitted   *prometheus.CounterVec
	RowsPersisted     prometheus.Counter
	SegmentsSkipped   prometheus.Counter
	PipelineDuration  prometheus.Histogram
	CountryLookups    *prometheus.CounterVec
	NameLookups       *prometheus.CounterVec
	FlightSearches    *prometheus.CounterVec
	EventsPublished   *prometheus.CounterVec
	TicketsRendered   *prometheus.CounterVec
	HTTPRequests      *prometheus.CounterVec
	HTTPRequestLength *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OrdersSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_orders_total",
			Help:      "Flight order pipeline runs by outcome",
		}, []string{"outcome"}),
		RowsPersisted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_order_rows_persisted_total",
			Help:      "Flight order rows committed to the database",
		}),
		SegmentsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_order_segments_skipped_total",
			Help:      "Segments skipped during persistence for missing airport or time",
		}),
		PipelineDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flight_order_pipeline_seconds",
			Help:      "Time taken by the flight order pipeline",
			Buckets:   prometheus.DefBuckets,
		}),
		CountryLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "airport_country_lookups_total",
			Help:      "Airport country resolutions by source",
		}, []string{"source"}),
		NameLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "display_name_lookups_total",
			Help:      "Airline and city name resolutions by kind and source",
		}, []string{"kind", "source"}),
		FlightSearches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_searches_total",
			Help:      "Flight searches by trip type and outcome",
		}, []string{"trip_type", "outcome"}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_events_total",
			Help:      "Order confirmed events by result",
		}, []string{"result"}),
		TicketsRendered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_rendered_total",
			Help:      "Ticket documents by result",
		}, []string{"result"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"route", "status"}),
		HTTPRequestLength: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}
