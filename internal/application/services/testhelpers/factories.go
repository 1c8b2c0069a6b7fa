package testhelpers

import (
	"github.com/DanielPopoola/skybook-gateway/internal/domain"
)

// Segment is a compact description of one flight leg for building offers.
type Segment struct {
	From, To           string
	DepartAt, ArriveAt string
	Carrier, Number    string
}

// NewOffer builds a decoded offer document with one itinerary per entry,
// including the display fields earlier stages attach.
func NewOffer(id, currency, grandTotal string, itineraries ...[]Segment) domain.FlightOffer {
	its := make([]any, 0, len(itineraries))
	for _, segs := range itineraries {
		segments := make([]any, 0, len(segs))
		for _, s := range segs {
			segments = append(segments, map[string]any{
				"carrierCode": s.Carrier,
				"number":      s.Number,
				"airlineName": "Display Airways",
				"departure": map[string]any{
					"iataCode": s.From,
					"at":       s.DepartAt,
					"city":     s.From + " City",
				},
				"arrival": map[string]any{
					"iataCode": s.To,
					"at":       s.ArriveAt,
					"city":     s.To + " City",
				},
			})
		}
		its = append(its, map[string]any{"duration": "PT2H10M", "segments": segments})
	}

	return domain.FlightOffer{
		"type":               "flight-offer",
		"id":                 id,
		"source":             "GDS",
		"itineraries":        its,
		"validatingAirlines": []any{"AI"},
		"price": map[string]any{
			"currency":   currency,
			"total":      grandTotal,
			"base":       grandTotal,
			"grandTotal": grandTotal,
		},
		"travelerPricings": []any{map[string]any{
			"travelerId":        "1",
			"includedCabinBags": map[string]any{"quantity": 1},
			"amenities":         []any{"MEAL"},
			"fareDetailsBySegment": []any{map[string]any{
				"segmentId": "1",
				"cabin":     "ECONOMY",
				"amenities": []any{"SEAT"},
			}},
		}},
	}
}

// OneWayDELtoBOM is a domestic two-segment offer via AMD.
func OneWayDELtoBOM() domain.FlightOffer {
	return NewOffer("1", "INR", "5480.00", []Segment{
		{From: "DEL", To: "AMD", DepartAt: "2026-03-01T06:00:00", ArriveAt: "2026-03-01T07:35:00", Carrier: "AI", Number: "817"},
		{From: "AMD", To: "BOM", DepartAt: "2026-03-01T09:00:00", ArriveAt: "2026-03-01T10:15:00", Carrier: "AI", Number: "614"},
	})
}

// OneWayDELtoLHR is an international single-segment offer.
func OneWayDELtoLHR() domain.FlightOffer {
	return NewOffer("2", "EUR", "612.40", []Segment{
		{From: "DEL", To: "LHR", DepartAt: "2026-04-10T02:05:00", ArriveAt: "2026-04-10T07:10:00", Carrier: "AI", Number: "161"},
	})
}

func NewTravelerInput(first, last, email string) domain.TravelerInput {
	return domain.TravelerInput{
		Name:        domain.TravelerName{FirstName: first, LastName: last},
		DateOfBirth: "1990-01-01",
		Gender:      "FEMALE",
		Contact: domain.ContactInput{
			EmailAddress: email,
			Phones: []domain.Phone{{
				DeviceType:         "MOBILE",
				CountryCallingCode: "91",
				Number:             "9876543210",
			}},
		},
	}
}

// ConfirmedFrom echoes an order request the way the inventory API does.
func ConfirmedFrom(id, pnr string, offers []domain.FlightOffer, travelers []domain.Traveler) *domain.ConfirmedOrder {
	return &domain.ConfirmedOrder{
		Type:              "flight-order",
		ID:                id,
		AssociatedRecords: []domain.AssociatedRecord{{Reference: pnr, OriginSystemCode: "GDS"}},
		FlightOffers:      offers,
		Travelers:         travelers,
	}
}
