package application

import (
	"context"
	"encoding/json"

	"github.com/DanielPopoola/skybook-gateway/internal/domain"
)

// TokenSource hands out a bearer token for the inventory API.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// InventoryClient is the port for the external flight inventory API.
type InventoryClient interface {
	AirportCountry(ctx context.Context, iataCode string) (string, error)
	CreateFlightOrder(ctx context.Context, req FlightOrderRequest) (*FlightOrderResponse, error)
	PriceFlightOffers(ctx context.Context, offers []domain.FlightOffer) (json.RawMessage, error)
}

// CatalogClient covers the read-only shopping and reference-data calls of the
// inventory API.
type CatalogClient interface {
	SearchFlightOffers(ctx context.Context, q FlightSearchQuery) ([]domain.FlightOffer, error)
	// AirlineName returns ErrAirlineNotFound for unknown carriers.
	AirlineName(ctx context.Context, carrierCode string) (string, error)
	// AirportCity returns ErrLocationNotFound for unknown airports.
	AirportCity(ctx context.Context, iataCode string) (string, error)
	SeatMaps(ctx context.Context, offer domain.FlightOffer) (json.RawMessage, error)
	SearchLocations(ctx context.Context, keyword string) (json.RawMessage, error)
	LocationByID(ctx context.Context, locationID string) (json.RawMessage, error)
}

// AirlineNameRepository is the durable read-through store for airline names.
type AirlineNameRepository interface {
	// FindName returns ErrAirlineNotFound when the code is not stored.
	FindName(ctx context.Context, carrierCode string) (string, error)
	Save(ctx context.Context, carrierCode, name string) error
}

// AirportCountryRepository is the durable read-through store for airport countries.
type AirportCountryRepository interface {
	// FindCountry returns ErrLocationNotFound when the code is not stored.
	FindCountry(ctx context.Context, iataCode string) (string, error)
	Save(ctx context.Context, iataCode, countryCode string) error
}

type FlightOrderRepository interface {
	// InsertRows writes all rows in one transaction and returns how many were written.
	InsertRows(ctx context.Context, rows []domain.FlightOrderRow) (int, error)
	FindByOrderID(ctx context.Context, orderID string) ([]domain.FlightOrderRow, error)
}

type TicketRenderer interface {
	Render(ctx context.Context, order *domain.ConfirmedOrder) (string, error)
}

type OrderEventPublisher interface {
	PublishOrderConfirmed(ctx context.Context, order *domain.ConfirmedOrder) error
}
