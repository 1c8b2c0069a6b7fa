package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

const seatAvailable = "AVAILABLE"

// AvailableSeat is a bookable seat with the price for its first traveler.
type AvailableSeat struct {
	Number          string         `json:"number"`
	TravelerID      string         `json:"travelerId"`
	Price           string         `json:"price"`
	Currency        string         `json:"currency"`
	Characteristics []string       `json:"characteristics"`
	Coordinates     map[string]any `json:"coordinates"`
	IsChargeable    bool           `json:"isChargeable"`
}

// SegmentSeats lists the available seats of one segment's first deck.
type SegmentSeats struct {
	SegmentID      string          `json:"segmentId"`
	AvailableSeats []AvailableSeat `json:"availableSeats"`
}

type seatMapDocument struct {
	Data []struct {
		SegmentID string `json:"segmentId"`
		Decks     []struct {
			Seats []seatDocument `json:"seats"`
		} `json:"decks"`
	} `json:"data"`
}

type seatDocument struct {
	Number                 string         `json:"number"`
	SeatAvailabilityStatus string         `json:"seatAvailabilityStatus"`
	Characteristics        []string       `json:"characteristicsCodes"`
	Coordinates            map[string]any `json:"coordinates"`
	TravelerPricing        []struct {
		TravelerID             string `json:"travelerId"`
		SeatAvailabilityStatus string `json:"seatAvailabilityStatus"`
		Total                  string `json:"total"`
		Price                  struct {
			Currency string `json:"currency"`
			Total    string `json:"total"`
		} `json:"price"`
	} `json:"travelerPricing"`
}

// ExtractAvailableSeats reads a seat map document and keeps the available
// seats of each segment. Availability is taken from the seat itself or, when
// absent there, from its first traveler pricing. Segments without a deck are
// left out.
func ExtractAvailableSeats(doc json.RawMessage, defaultCurrency string) ([]SegmentSeats, error) {
	var parsed seatMapDocument
	if err := json.Unmarshal(doc, &parsed); err != nil {
		return nil, fmt.Errorf("decode seat map: %w", err)
	}

	out := make([]SegmentSeats, 0, len(parsed.Data))
	for _, seatMap := range parsed.Data {
		if len(seatMap.Decks) == 0 {
			continue
		}
		segment := SegmentSeats{SegmentID: seatMap.SegmentID, AvailableSeats: []AvailableSeat{}}
		for _, seat := range seatMap.Decks[0].Seats {
			if available, ok := seat.available(defaultCurrency); ok {
				segment.AvailableSeats = append(segment.AvailableSeats, available)
			}
		}
		out = append(out, segment)
	}
	return out, nil
}

func (s seatDocument) available(defaultCurrency string) (AvailableSeat, bool) {
	status := s.SeatAvailabilityStatus
	seat := AvailableSeat{
		Number:          s.Number,
		Price:           "0",
		Currency:        defaultCurrency,
		Characteristics: s.Characteristics,
		Coordinates:     s.Coordinates,
	}
	if len(s.TravelerPricing) > 0 {
		pricing := s.TravelerPricing[0]
		if status == "" {
			status = pricing.SeatAvailabilityStatus
		}
		seat.TravelerID = pricing.TravelerID
		switch {
		case pricing.Price.Total != "":
			seat.Price = pricing.Price.Total
		case pricing.Total != "":
			seat.Price = pricing.Total
		}
		if pricing.Price.Currency != "" {
			seat.Currency = pricing.Price.Currency
		}
	}
	if status != seatAvailable {
		return AvailableSeat{}, false
	}
	if seat.Characteristics == nil {
		seat.Characteristics = []string{}
	}
	if seat.Coordinates == nil {
		seat.Coordinates = map[string]any{}
	}
	seat.IsChargeable = !isZeroAmount(seat.Price)
	return seat, true
}

func isZeroAmount(v string) bool {
	d, err := decimal.NewFromString(v)
	return err != nil || d.IsZero()
}
