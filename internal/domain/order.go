package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AssociatedRecord struct {
	Reference        string `json:"reference"`
	CreationDate     string `json:"creationDate,omitempty"`
	OriginSystemCode string `json:"originSystemCode,omitempty"`
	FlightOfferID    string `json:"flightOfferId,omitempty"`
}

// ConfirmedOrder is the order returned by the inventory API after submission.
// OrderID mirrors ID under the name used by local storage and callers.
//
// The typed fields are read-only views. A decoded order keeps the full
// upstream document in Raw and encodes back to it with order_id added, so
// fields the gateway never reads (contacts, ticketingAgreement, documents)
// reach callers unchanged.
type ConfirmedOrder struct {
	Type              string             `json:"type,omitempty"`
	ID                string             `json:"id"`
	OrderID           string             `json:"order_id,omitempty"`
	AssociatedRecords []AssociatedRecord `json:"associatedRecords"`
	FlightOffers      []FlightOffer      `json:"flightOffers"`
	Travelers         []Traveler         `json:"travelers"`

	Raw map[string]any `json:"-"`
}

type confirmedOrderView ConfirmedOrder

func (o *ConfirmedOrder) UnmarshalJSON(data []byte) error {
	var view confirmedOrderView
	if err := json.Unmarshal(data, &view); err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	*o = ConfirmedOrder(view)
	o.Raw = raw
	return nil
}

func (o ConfirmedOrder) MarshalJSON() ([]byte, error) {
	if o.Raw == nil {
		return json.Marshal(confirmedOrderView(o))
	}
	doc := make(map[string]any, len(o.Raw)+1)
	maps.Copy(doc, o.Raw)
	if o.OrderID != "" {
		doc["order_id"] = o.OrderID
	}
	return json.Marshal(doc)
}

// PNR returns the airline booking reference, or "" when none was returned.
func (o *ConfirmedOrder) PNR() string {
	if len(o.AssociatedRecords) == 0 {
		return ""
	}
	return o.AssociatedRecords[0].Reference
}

// Offer returns the order's sole flight offer.
func (o *ConfirmedOrder) Offer() FlightOffer {
	if len(o.FlightOffers) == 0 {
		return nil
	}
	return o.FlightOffers[0]
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// FlightOrderRow is one persisted (traveler, segment) pair of a confirmed order.
type FlightOrderRow struct {
	ID                uuid.UUID
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
	TotalPrice        decimal.Decimal
	Currency          string
	Status            OrderStatus
	CreatedAt         time.Time
}

// SkippedSegment records a segment that could not be turned into a row.
type SkippedSegment struct {
	TravelerID     string
	ItineraryIndex int
	SegmentIndex   int
	Reason         string
}

// segment times come without a zone, e.g. "2025-06-01T10:15:00".
const segmentTimeLayout = "2006-01-02T15:04:05"

const defaultCurrency = "USD"

// BuildFlightOrderRows expands the order into one row per traveler and segment
// of its sole flight offer. Segments missing an airport or a parsable time are
// returned as skipped instead.
func BuildFlightOrderRows(order *ConfirmedOrder, now time.Time) ([]FlightOrderRow, []SkippedSegment, error) {
	offer := order.Offer()
	if offer == nil {
		return nil, nil, NewInvalidOfferError("order has no flight offer")
	}

	itineraries, err := offer.Itineraries()
	if err != nil {
		return nil, nil, NewInvalidOfferError(err.Error())
	}

	price, err := offer.Price()
	if err != nil {
		return nil, nil, NewInvalidOfferError(err.Error())
	}
	total := decimal.Zero
	if price.GrandTotal != "" {
		total, err = decimal.NewFromString(price.GrandTotal)
		if err != nil {
			return nil, nil, NewInvalidPriceError(price.GrandTotal, err)
		}
	}
	currency := price.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	orderID := order.OrderID
	if orderID == "" {
		orderID = order.ID
	}

	var rows []FlightOrderRow
	var skipped []SkippedSegment
	for _, traveler := range order.Travelers {
		for i, itinerary := range itineraries {
			for j, segment := range itinerary.Segments {
				depAt, arrAt, reason := segmentTimes(segment)
				if reason != "" {
					skipped = append(skipped, SkippedSegment{
						TravelerID:     traveler.ID,
						ItineraryIndex: i,
						SegmentIndex:   j,
						Reason:         reason,
					})
					continue
				}

				rows = append(rows, FlightOrderRow{
					ID:                uuid.New(),
					OrderID:           orderID,
					PNR:               order.PNR(),
					OfferID:           offer.ID(),
					DepartureAirport:  segment.Departure.IATACode,
					ArrivalAirport:    segment.Arrival.IATACode,
					DepartureTime:     depAt,
					ArrivalTime:       arrAt,
					TravelerFirstName: traveler.Name.FirstName,
					TravelerLastName:  traveler.Name.LastName,
					TravelerEmail:     traveler.Contact.EmailAddress,
					TotalPrice:        total,
					Currency:          currency,
					Status:            OrderStatusPending,
					CreatedAt:         now,
				})
			}
		}
	}

	return rows, skipped, nil
}

func segmentTimes(s Segment) (time.Time, time.Time, string) {
	if s.Departure.IATACode == "" || s.Arrival.IATACode == "" {
		return time.Time{}, time.Time{}, "missing airport code"
	}
	if s.Departure.At == "" || s.Arrival.At == "" {
		return time.Time{}, time.Time{}, "missing departure or arrival time"
	}
	dep, err := parseSegmentTime(s.Departure.At)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Sprintf("bad departure time %q", s.Departure.At)
	}
	arr, err := parseSegmentTime(s.Arrival.At)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Sprintf("bad arrival time %q", s.Arrival.At)
	}
	return dep, arr, ""
}

func parseSegmentTime(v string) (time.Time, error) {
	if t, err := time.Parse(segmentTimeLayout, v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}
