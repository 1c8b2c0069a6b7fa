package postgres

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DanielPopoola/skybook-gateway/internal/domain"
)

// flightOrderModel mirrors a flight_orders row. Money travels as text so
// NUMERIC keeps its exact scale.
type flightOrderModel struct {
	ID                string
	OrderID           string
	PNR               string
	OfferID           string
	DepartureAirport  string
	ArrivalAirport    string
	DepartureTime     time.Time
	ArrivalTime       time.Time
	TravelerFirstName string
	TravelerLastName  string
	TravelerEmail     string
	TotalPrice        string
	Currency          string
	Status            string
	CreatedAt         time.Time
}

func toFlightOrderModel(row domain.FlightOrderRow) flightOrderModel {
	id := row.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return flightOrderModel{
		ID:                id.String(),
		OrderID:           row.OrderID,
		PNR:               row.PNR,
		OfferID:           row.OfferID,
		DepartureAirport:  row.DepartureAirport,
		ArrivalAirport:    row.ArrivalAirport,
		DepartureTime:     row.DepartureTime,
		ArrivalTime:       row.ArrivalTime,
		TravelerFirstName: row.TravelerFirstName,
		TravelerLastName:  row.TravelerLastName,
		TravelerEmail:     row.TravelerEmail,
		TotalPrice:        row.TotalPrice.StringFixed(2),
		Currency:          row.Currency,
		Status:            string(row.Status),
		CreatedAt:         row.CreatedAt,
	}
}

func (m flightOrderModel) toDomain() (domain.FlightOrderRow, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return domain.FlightOrderRow{}, fmt.Errorf("invalid flight order id %q: %w", m.ID, err)
	}
	total, err := decimal.NewFromString(m.TotalPrice)
	if err != nil {
		return domain.FlightOrderRow{}, fmt.Errorf("invalid total price %q: %w", m.TotalPrice, err)
	}
	return domain.FlightOrderRow{
		ID:                id,
		OrderID:           m.OrderID,
		PNR:               m.PNR,
		OfferID:           m.OfferID,
		DepartureAirport:  m.DepartureAirport,
		ArrivalAirport:    m.ArrivalAirport,
		DepartureTime:     m.DepartureTime,
		ArrivalTime:       m.ArrivalTime,
		TravelerFirstName: m.TravelerFirstName,
		TravelerLastName:  m.TravelerLastName,
		TravelerEmail:     m.TravelerEmail,
		TotalPrice:        total,
		Currency:          m.Currency,
		Status:            domain.OrderStatus(m.Status),
		CreatedAt:         m.CreatedAt,
	}, nil
}
