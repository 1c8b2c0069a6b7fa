package services

import (
	"encoding/json"

	"github.com/DanielPopoola/skybook-gateway/internal/application"
	"github.com/DanielPopoola/skybook-gateway/internal/domain"
)

type CreateOrderCommand struct {
	FlightOffers []domain.FlightOffer
	Travelers    []domain.TravelerInput
}

// OrderResult is a booked order. TicketError is set when the order was booked
// and stored but the ticket could not be produced.
type OrderResult struct {
	Order       *domain.ConfirmedOrder
	TicketPath  string
	TicketError *application.ServiceError
}

type StartBookingCommand struct {
	FlightOffer domain.FlightOffer
	Travelers   []domain.TravelerInput
}

// BookingQuote is the amount to collect before an order is created. Amount is
// in minor currency units.
type BookingQuote struct {
	Amount      int64
	Currency    string
	FlightOffer domain.FlightOffer
	Travelers   []domain.TravelerInput
}

// SearchResult holds either the offers of a one-way or round-trip search or,
// for multicity, one entry per leg.
type SearchResult struct {
	TripType     string
	FlightOffers []domain.FlightOffer
	Legs         []LegOffers
}

// LegOffers are the offers found for one multicity leg. Index starts at 1.
type LegOffers struct {
	Index  int
	Route  string
	Date   string
	Offers []domain.FlightOffer
}

type SeatMapResult struct {
	AvailableSeats []domain.SegmentSeats
	Raw            json.RawMessage
}
