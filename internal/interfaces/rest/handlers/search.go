package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator"

	"github.com/DanielPopoola/skybook-gateway/internal/application"
	"github.com/DanielPopoola/skybook-gateway/internal/application/services"
	"github.com/DanielPopoola/skybook-gateway/internal/domain"
	"github.com/DanielPopoola/skybook-gateway/internal/interfaces/rest"
)

type SearchService interface {
	Search(ctx context.Context, criteria domain.SearchCriteria) (*services.SearchResult, error)
	SeatMap(ctx context.Context, offer domain.FlightOffer) (*services.SeatMapResult, error)
	SearchLocations(ctx context.Context, keyword string) (json.RawMessage, error)
	LocationByID(ctx context.Context, locationID string) (json.RawMessage, error)
}

type SearchHandler struct {
	search   SearchService
	validate *validator.Validate
	logger   *slog.Logger
}

func NewSearchHandler(search SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		search:   search,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *SearchHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/flights/search", h.HandleSearch)
	mux.HandleFunc("POST /api/v1/flights/seat-map", h.HandleSeatMap)
	mux.HandleFunc("GET /api/v1/locations", h.HandleSearchLocations)
	mux.HandleFunc("GET /api/v1/locations/{locationID}", h.HandleLocationByID)
}

type OfferSearchResponse struct {
	TripType     string               `json:"tripType" example:"oneway"`
	FlightOffers []domain.FlightOffer `json:"flightOffers"`
}

type MulticitySearchResponse struct {
	TripType string              `json:"tripType" example:"multicity"`
	Segments []LegOffersResponse `json:"segments"`
}

type LegOffersResponse struct {
	SegmentIndex int                  `json:"segmentIndex" example:"1"`
	Route        string               `json:"route" example:"DEL → DXB"`
	Date         string               `json:"date" example:"2026-11-20"`
	Offers       []domain.FlightOffer `json:"offers"`
}

type SeatMapRequest struct {
	FlightOffer domain.FlightOffer `json:"flightOffer"`
}

type SeatMapResponse struct {
	AvailableSeats []domain.SegmentSeats `json:"availableSeats"`
	Raw            json.RawMessage       `json:"raw"`
}

// HandleSearch searches flight offers
// @Summary      Search flights
// @Description  Runs a shopping search and adds airline and city names to every offer. Multicity searches take a JSON array of {from,to,date} in segments.
// @Tags         search
// @Produce      json
// @Param        tripType    query     string  false  "oneway, roundtrip or multicity"  default(oneway)
// @Param        from        query     string  false  "Origin IATA code"
// @Param        to          query     string  false  "Destination IATA code"
// @Param        date        query     string  false  "Departure date, YYYY-MM-DD"
// @Param        returnDate  query     string  false  "Return date for round trips"
// @Param        adults      query     int     false  "Adult travelers"  default(1)
// @Param        max         query     int     false  "Maximum offers per search"
// @Param        segments    query     string  false  "Multicity legs as JSON"
// @Success      200         {object}  rest.APIResponse
// @Failure      400         {object}  rest.APIResponse
// @Failure      502         {object}  rest.APIResponse
// @Router       /api/v1/flights/search [get]
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	criteria, err := searchCriteria(r)
	if err != nil {
		rest.WriteError(w, application.NewValidationError(err), h.logger)
		return
	}

	result, err := h.search.Search(r.Context(), criteria)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	if result.TripType != domain.TripMulticity {
		rest.WriteJSON(w, http.StatusOK, OfferSearchResponse{TripType: result.TripType, FlightOffers: result.FlightOffers})
		return
	}

	legs := make([]LegOffersResponse, 0, len(result.Legs))
	for _, leg := range result.Legs {
		legs = append(legs, LegOffersResponse{
			SegmentIndex: leg.Index,
			Route:        leg.Route,
			Date:         leg.Date,
			Offers:       leg.Offers,
		})
	}
	rest.WriteJSON(w, http.StatusOK, MulticitySearchResponse{TripType: result.TripType, Segments: legs})
}

// HandleSeatMap lists available seats for an offer
// @Summary      Seat map
// @Tags         search
// @Accept       json
// @Produce      json
// @Param        request  body      SeatMapRequest  true  "Offer to fetch seats for"
// @Success      200      {object}  rest.APIResponse
// @Failure      400      {object}  rest.APIResponse
// @Router       /api/v1/flights/seat-map [post]
func (h *SearchHandler) HandleSeatMap(w http.ResponseWriter, r *http.Request) {
	var req SeatMapRequest
	if !decodeRequest(w, r, h.validate, h.logger, &req) {
		return
	}

	result, err := h.search.SeatMap(r.Context(), req.FlightOffer)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, SeatMapResponse{AvailableSeats: result.AvailableSeats, Raw: result.Raw})
}

// HandleSearchLocations finds cities and airports
// @Summary      Search locations
// @Tags         locations
// @Produce      json
// @Param        keyword  query     string  true  "City or airport name, or an IATA code"
// @Success      200      {object}  rest.APIResponse
// @Failure      400      {object}  rest.APIResponse
// @Router       /api/v1/locations [get]
func (h *SearchHandler) HandleSearchLocations(w http.ResponseWriter, r *http.Request) {
	doc, err := h.search.SearchLocations(r.Context(), r.URL.Query().Get("keyword"))
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, doc)
}

// HandleLocationByID returns one location
// @Summary      Get a location
// @Tags         locations
// @Produce      json
// @Param        locationID  path      string  true  "Inventory location id"
// @Success      200         {object}  rest.APIResponse
// @Failure      404         {object}  rest.APIResponse
// @Router       /api/v1/locations/{locationID} [get]
func (h *SearchHandler) HandleLocationByID(w http.ResponseWriter, r *http.Request) {
	doc, err := h.search.LocationByID(r.Context(), r.PathValue("locationID"))
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, doc)
}

func searchCriteria(r *http.Request) (domain.SearchCriteria, error) {
	q := r.URL.Query()
	c := domain.SearchCriteria{
		TripType:   q.Get("tripType"),
		From:       q.Get("from"),
		To:         q.Get("to"),
		Date:       q.Get("date"),
		ReturnDate: q.Get("returnDate"),
	}

	var err error
	if c.Adults, err = intParam(q.Get("adults")); err != nil {
		return c, errors.New("adults and max must be integers")
	}
	if c.Max, err = intParam(q.Get("max")); err != nil {
		return c, errors.New("adults and max must be integers")
	}

	if raw := q.Get("segments"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &c.Legs); err != nil {
			return c, errors.New("segments must be a JSON array of {from, to, date}")
		}
	}
	return c, nil
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
