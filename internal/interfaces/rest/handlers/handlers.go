package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator"

	"github.com/DanielPopoola/skybook-gateway/internal/application/services"
	"github.com/DanielPopoola/skybook-gateway/internal/domain"
)

type BookingService interface {
	CreateOrder(ctx context.Context, cmd services.CreateOrderCommand) (*services.OrderResult, error)
	StartBooking(ctx context.Context, cmd services.StartBookingCommand) (*services.BookingQuote, error)
	PriceOffers(ctx context.Context, offers []domain.FlightOffer) (json.RawMessage, error)
	AirportCountry(ctx context.Context, iataCode string) (string, error)
}

type QueryService interface {
	FindByOrderID(ctx context.Context, orderID string) ([]domain.FlightOrderRow, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type FlightHandler struct {
	booking  BookingService
	query    QueryService
	db       Pinger
	validate *validator.Validate
	logger   *slog.Logger
}

func NewFlightHandler(booking BookingService, query QueryService, db Pinger, logger *slog.Logger) *FlightHandler {
	return &FlightHandler{
		booking:  booking,
		query:    query,
		db:       db,
		validate: validator.New(),
		logger:   logger,
	}
}

// CreateOrderRoute books upstream before storing locally, so it must not be
// cut short by a request deadline.
const CreateOrderRoute = "POST /api/v1/flights/orders"

func (h *FlightHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc(CreateOrderRoute, h.HandleCreateOrder)
	mux.HandleFunc("POST /api/v1/flights/start-booking", h.HandleStartBooking)
	mux.HandleFunc("POST /api/v1/flights/price", h.HandlePriceOffers)
	mux.HandleFunc("GET /api/v1/flight-orders/{orderID}", h.HandleGetOrder)
	mux.HandleFunc("GET /api/v1/airports/{iataCode}/country", h.HandleAirportCountry)
	mux.HandleFunc("GET /healthz", h.HandleHealth)
}
