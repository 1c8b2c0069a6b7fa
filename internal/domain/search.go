package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	TripOneWay    = "oneway"
	TripRoundTrip = "roundtrip"
	TripMulticity = "multicity"
)

const searchDateLayout = "2006-01-02"

// MaxAdults is the largest party the shopping API accepts in one search.
const MaxAdults = 9

// SearchLeg is one origin, destination and date of a multicity search.
type SearchLeg struct {
	From string `json:"from"`
	To   string `json:"to"`
	Date string `json:"date"`
}

// Route renders the leg as "FROM → TO".
func (l SearchLeg) Route() string {
	return l.From + " → " + l.To
}

// SearchCriteria is a flight search as the caller asked for it. One-way and
// round-trip searches use From, To and Date; multicity searches use Legs.
type SearchCriteria struct {
	TripType   string
	From       string
	To         string
	Date       string
	ReturnDate string
	Adults     int
	Max        int
	Legs       []SearchLeg
}

// Normalize fills defaults and upper-cases airport codes in place.
func (c *SearchCriteria) Normalize(defaultMax int) {
	c.TripType = strings.ToLower(strings.TrimSpace(c.TripType))
	if c.TripType == "" {
		c.TripType = TripOneWay
	}
	if c.Adults == 0 {
		c.Adults = 1
	}
	if c.Max == 0 {
		c.Max = defaultMax
	}
	c.From = strings.ToUpper(strings.TrimSpace(c.From))
	c.To = strings.ToUpper(strings.TrimSpace(c.To))
	for i := range c.Legs {
		c.Legs[i].From = strings.ToUpper(strings.TrimSpace(c.Legs[i].From))
		c.Legs[i].To = strings.ToUpper(strings.TrimSpace(c.Legs[i].To))
	}
}

// Validate checks the criteria against today's date. Dates must be
// YYYY-MM-DD and not in the past.
func (c SearchCriteria) Validate(today time.Time) error {
	if c.Adults < 1 || c.Adults > MaxAdults {
		return NewInvalidSearchError(fmt.Sprintf("adults must be between 1 and %d", MaxAdults))
	}
	if c.Max < 1 {
		return NewInvalidSearchError("max must be positive")
	}

	switch c.TripType {
	case TripMulticity:
		if len(c.Legs) == 0 {
			return NewMissingRequiredFieldError("segments")
		}
		for i, leg := range c.Legs {
			if leg.From == "" || leg.To == "" {
				return NewInvalidSearchError(fmt.Sprintf("segment %d needs from and to", i+1))
			}
			if err := checkSearchDate(fmt.Sprintf("segments[%d].date", i), leg.Date, today); err != nil {
				return err
			}
		}
		return nil
	case TripOneWay, TripRoundTrip:
	default:
		return NewInvalidSearchError(fmt.Sprintf("unknown trip type %q", c.TripType))
	}

	if c.From == "" {
		return NewMissingRequiredFieldError("from")
	}
	if c.To == "" {
		return NewMissingRequiredFieldError("to")
	}
	if err := checkSearchDate("date", c.Date, today); err != nil {
		return err
	}
	if c.TripType == TripRoundTrip {
		if c.ReturnDate == "" {
			return NewMissingRequiredFieldError("returnDate")
		}
		if err := checkSearchDate("returnDate", c.ReturnDate, today); err != nil {
			return err
		}
	}
	return nil
}

func checkSearchDate(field, value string, today time.Time) error {
	if value == "" {
		return NewMissingRequiredFieldError(field)
	}
	d, err := time.Parse(searchDateLayout, value)
	if err != nil {
		return NewInvalidSearchError(fmt.Sprintf("%s must be YYYY-MM-DD", field))
	}
	y, m, day := today.Date()
	if d.Before(time.Date(y, m, day, 0, 0, 0, 0, time.UTC)) {
		return NewInvalidSearchError(fmt.Sprintf("%s is in the past", field))
	}
	return nil
}
