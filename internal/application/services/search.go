package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/DanielPopoola/skybook-gateway/internal/application"
	"github.com/DanielPopoola/skybook-gateway/internal/domain"
	"github.com/DanielPopoola/skybook-gateway/internal/metrics"
)

// SearchSettings are the fixed parameters of every shopping search.
type SearchSettings struct {
	CurrencyCode string
	DefaultMax   int
}

// SearchService runs flight searches, seat maps and location lookups against
// the inventory catalog. Offers come back with display names added.
type SearchService struct {
	catalog  application.CatalogClient
	names    *NameResolver
	settings SearchSettings
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

func NewSearchService(
	catalog application.CatalogClient,
	names *NameResolver,
	settings SearchSettings,
	m *metrics.Metrics,
	logger *slog.Logger,
) *SearchService {
	return &SearchService{
		catalog:  catalog,
		names:    names,
		settings: settings,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Search validates the criteria and runs one shopping search per leg. Any
// failing leg fails the whole search.
func (s *SearchService) Search(ctx context.Context, criteria domain.SearchCriteria) (result *SearchResult, err error) {
	criteria.Normalize(s.settings.DefaultMax)
	defer func() { s.countSearch(criteria.TripType, err) }()

	if err := criteria.Validate(s.now().UTC()); err != nil {
		return nil, application.NewValidationError(err)
	}

	if criteria.TripType != domain.TripMulticity {
		offers, err := s.catalog.SearchFlightOffers(ctx, s.query(criteria.From, criteria.To, criteria.Date, criteria.ReturnDate, criteria))
		if err != nil {
			s.logger.Error("flight search failed", "trip_type", criteria.TripType, "error", err)
			return nil, submissionError(err)
		}
		return &SearchResult{TripType: criteria.TripType, FlightOffers: s.enrich(ctx, offers)}, nil
	}

	legs := make([]LegOffers, len(criteria.Legs))
	g, gctx := errgroup.WithContext(ctx)
	for i, leg := range criteria.Legs {
		g.Go(func() error {
			offers, err := s.catalog.SearchFlightOffers(gctx, s.query(leg.From, leg.To, leg.Date, "", criteria))
			if err != nil {
				return err
			}
			legs[i] = LegOffers{Index: i + 1, Route: leg.Route(), Date: leg.Date, Offers: offers}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("multicity search failed", "legs", len(criteria.Legs), "error", err)
		return nil, submissionError(err)
	}

	var all []domain.FlightOffer
	for _, leg := range legs {
		all = append(all, leg.Offers...)
	}
	airlines, cities := s.lookupNames(ctx, all)
	for i := range legs {
		legs[i].Offers = enrichAll(legs[i].Offers, airlines, cities)
	}

	return &SearchResult{TripType: domain.TripMulticity, Legs: legs}, nil
}

// SeatMap fetches the seat map of an offer and extracts the available seats.
// Display fields are stripped from the offer before it is sent.
func (s *SearchService) SeatMap(ctx context.Context, offer domain.FlightOffer) (*SeatMapResult, error) {
	if len(offer) == 0 {
		return nil, application.NewValidationError(domain.NewMissingRequiredFieldError("flightOffer"))
	}

	doc, err := s.catalog.SeatMaps(ctx, offer.Sanitize())
	if err != nil {
		s.logger.Error("seat map request failed", "offer_id", offer.ID(), "error", err)
		return nil, submissionError(err)
	}

	seats, err := domain.ExtractAvailableSeats(doc, s.settings.CurrencyCode)
	if err != nil {
		svcErr := application.NewUpstreamContractError("seat map could not be read")
		svcErr.Err = err
		return nil, svcErr
	}
	return &SeatMapResult{AvailableSeats: seats, Raw: doc}, nil
}

// SearchLocations matches cities and airports by keyword. A keyword shaped
// like an IATA code is first tried as a location id.
func (s *SearchService) SearchLocations(ctx context.Context, keyword string) (json.RawMessage, error) {
	if keyword == "" {
		return nil, application.NewValidationError(domain.NewMissingRequiredFieldError("keyword"))
	}

	if isIATACode(keyword) {
		doc, err := s.catalog.LocationByID(ctx, keyword)
		if err == nil {
			return doc, nil
		}
		if upErr, ok := application.IsUpstreamError(err); !ok || upErr.StatusCode != http.StatusNotFound {
			s.logger.Error("location lookup failed", "location_id", keyword, "error", err)
			return nil, submissionError(err)
		}
	}

	doc, err := s.catalog.SearchLocations(ctx, keyword)
	if err != nil {
		s.logger.Error("location search failed", "keyword", keyword, "error", err)
		return nil, submissionError(err)
	}
	return doc, nil
}

func (s *SearchService) LocationByID(ctx context.Context, locationID string) (json.RawMessage, error) {
	if locationID == "" {
		return nil, application.NewValidationError(domain.NewMissingRequiredFieldError("locationID"))
	}
	doc, err := s.catalog.LocationByID(ctx, locationID)
	if err != nil {
		if upErr, ok := application.IsUpstreamError(err); ok && upErr.StatusCode == http.StatusNotFound {
			return nil, application.NewNotFoundError(application.ErrLocationNotFound)
		}
		s.logger.Error("location lookup failed", "location_id", locationID, "error", err)
		return nil, submissionError(err)
	}
	return doc, nil
}

func (s *SearchService) query(from, to, date, returnDate string, c domain.SearchCriteria) application.FlightSearchQuery {
	return application.FlightSearchQuery{
		Origin:        from,
		Destination:   to,
		DepartureDate: date,
		ReturnDate:    returnDate,
		Adults:        c.Adults,
		Max:           c.Max,
		CurrencyCode:  s.settings.CurrencyCode,
	}
}

func (s *SearchService) enrich(ctx context.Context, offers []domain.FlightOffer) []domain.FlightOffer {
	airlines, cities := s.lookupNames(ctx, offers)
	return enrichAll(offers, airlines, cities)
}

func (s *SearchService) lookupNames(ctx context.Context, offers []domain.FlightOffer) (airlines, cities map[string]string) {
	var carriers, airports []string
	seen := map[string]bool{}
	for _, o := range offers {
		for _, c := range o.CarrierCodes() {
			if !seen["c:"+c] {
				seen["c:"+c] = true
				carriers = append(carriers, c)
			}
		}
		for _, a := range o.AirportCodes() {
			if !seen["a:"+a] {
				seen["a:"+a] = true
				airports = append(airports, a)
			}
		}
	}
	return s.names.AirlineNames(ctx, carriers), s.names.CityNames(ctx, airports)
}

func enrichAll(offers []domain.FlightOffer, airlines, cities map[string]string) []domain.FlightOffer {
	out := make([]domain.FlightOffer, 0, len(offers))
	for _, o := range offers {
		out = append(out, o.Enrich(airlines, cities))
	}
	return out
}

func (s *SearchService) countSearch(tripType string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	var svcErr *application.ServiceError
	switch {
	case err == nil:
	case errors.As(err, &svcErr) && svcErr.Code == application.ErrCodeValidation:
		outcome = "invalid"
	default:
		outcome = "failed"
	}
	s.metrics.FlightSearches.WithLabelValues(tripType, outcome).Inc()
}

func isIATACode(keyword string) bool {
	if len(keyword) != 3 {
		return false
	}
	for _, r := range keyword {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
