package domain

import (
	"fmt"
	"slices"

	"github.com/mitchellh/copystructure"
	"github.com/mitchellh/mapstructure"
)

// FlightOffer is a priced offer exactly as the inventory API returned it,
// possibly annotated with display fields by earlier stages. Only the parts the
// booking pipeline reads are exposed through typed views.
type FlightOffer map[string]any

type Itinerary struct {
	Duration string    `mapstructure:"duration"`
	Segments []Segment `mapstructure:"segments"`
}

type Segment struct {
	Departure   SegmentEndpoint `mapstructure:"departure"`
	Arrival     SegmentEndpoint `mapstructure:"arrival"`
	CarrierCode string          `mapstructure:"carrierCode"`
	Number      string          `mapstructure:"number"`
	Duration    string          `mapstructure:"duration"`
}

type SegmentEndpoint struct {
	IATACode string `mapstructure:"iataCode"`
	Terminal string `mapstructure:"terminal"`
	At       string `mapstructure:"at"`
}

type OfferPrice struct {
	Currency   string `mapstructure:"currency"`
	Total      string `mapstructure:"total"`
	Base       string `mapstructure:"base"`
	GrandTotal string `mapstructure:"grandTotal"`
}

// ID returns the offer id, or "" when absent.
func (o FlightOffer) ID() string {
	switch id := o["id"].(type) {
	case string:
		return id
	case float64:
		return fmt.Sprintf("%.0f", id)
	default:
		return ""
	}
}

func (o FlightOffer) Itineraries() ([]Itinerary, error) {
	var view struct {
		Itineraries []Itinerary `mapstructure:"itineraries"`
	}
	if err := decodeView(map[string]any(o), &view); err != nil {
		return nil, fmt.Errorf("decode itineraries: %w", err)
	}
	return view.Itineraries, nil
}

func (o FlightOffer) Price() (OfferPrice, error) {
	var view struct {
		Price OfferPrice `mapstructure:"price"`
	}
	if err := decodeView(map[string]any(o), &view); err != nil {
		return OfferPrice{}, fmt.Errorf("decode price: %w", err)
	}
	return view.Price, nil
}

// Route returns the departure airport of the first segment of the first
// itinerary and the arrival airport of the last segment of the last itinerary.
func (o FlightOffer) Route() (origin, destination string, err error) {
	itineraries, err := o.Itineraries()
	if err != nil {
		return "", "", NewInvalidOfferError(err.Error())
	}
	if len(itineraries) == 0 {
		return "", "", NewInvalidOfferError("no itineraries")
	}

	first := itineraries[0]
	last := itineraries[len(itineraries)-1]
	if len(first.Segments) == 0 || len(last.Segments) == 0 {
		return "", "", NewInvalidOfferError("itinerary has no segments")
	}

	origin = first.Segments[0].Departure.IATACode
	destination = last.Segments[len(last.Segments)-1].Arrival.IATACode
	if origin == "" || destination == "" {
		return "", "", NewInvalidOfferError("segment is missing an airport code")
	}
	return origin, destination, nil
}

// TripType describes the offer by its number of itineraries.
func (o FlightOffer) TripType() string {
	itineraries, _ := o.Itineraries()
	switch len(itineraries) {
	case 1:
		return "One-way"
	case 2:
		return "Round-trip"
	default:
		return "Multicity"
	}
}

// Sanitize returns a copy of the offer without the display-only fields that
// the order endpoint rejects. The receiver is never modified.
func (o FlightOffer) Sanitize() FlightOffer {
	if o == nil {
		return nil
	}

	// Offers are JSON-decoded documents, which copystructure always handles.
	clean := FlightOffer(copystructure.Must(copystructure.Copy(map[string]any(o))).(map[string]any))

	eachMap(clean["itineraries"], func(itinerary map[string]any) {
		eachMap(itinerary["segments"], func(segment map[string]any) {
			delete(segment, "airlineName")
			if departure, ok := segment["departure"].(map[string]any); ok {
				delete(departure, "city")
			}
			if arrival, ok := segment["arrival"].(map[string]any); ok {
				delete(arrival, "city")
			}
		})
	})

	delete(clean, "validatingAirlines")

	eachMap(clean["travelerPricings"], func(pricing map[string]any) {
		delete(pricing, "includedCabinBags")
		delete(pricing, "amenities")
		eachMap(pricing["fareDetailsBySegment"], func(fare map[string]any) {
			delete(fare, "includedCabinBags")
			delete(fare, "amenities")
		})
	})

	return clean
}

// CarrierCodes returns the distinct segment carriers and validating airlines of
// the offer in first-seen order.
func (o FlightOffer) CarrierCodes() []string {
	var codes []string
	eachSegment(o, func(segment map[string]any) {
		codes = appendUnique(codes, stringField(segment, "carrierCode"))
	})
	for _, code := range stringList(o["validatingAirlineCodes"]) {
		codes = appendUnique(codes, code)
	}
	return codes
}

// AirportCodes returns the distinct departure and arrival airports of the offer.
func (o FlightOffer) AirportCodes() []string {
	var codes []string
	eachSegment(o, func(segment map[string]any) {
		for _, side := range []string{"departure", "arrival"} {
			if end, ok := segment[side].(map[string]any); ok {
				codes = appendUnique(codes, stringField(end, "iataCode"))
			}
		}
	})
	return codes
}

// Enrich returns a copy carrying the display fields that Sanitize removes:
// airlineName on segments, city on both ends, and validatingAirlines. Codes
// missing from the lookup maps are shown as the code itself.
func (o FlightOffer) Enrich(airlines, cities map[string]string) FlightOffer {
	if o == nil {
		return nil
	}

	out := FlightOffer(copystructure.Must(copystructure.Copy(map[string]any(o))).(map[string]any))

	eachSegment(out, func(segment map[string]any) {
		if code := stringField(segment, "carrierCode"); code != "" {
			segment["airlineName"] = lookupOr(airlines, code)
		}
		for _, side := range []string{"departure", "arrival"} {
			if end, ok := segment[side].(map[string]any); ok {
				if code := stringField(end, "iataCode"); code != "" {
					end["city"] = lookupOr(cities, code)
				}
			}
		}
	})

	if codes := stringList(out["validatingAirlineCodes"]); codes != nil {
		names := make([]any, 0, len(codes))
		for _, code := range codes {
			names = append(names, lookupOr(airlines, code))
		}
		out["validatingAirlines"] = names
	}

	return out
}

func eachSegment(o FlightOffer, fn func(map[string]any)) {
	eachMap(o["itineraries"], func(itinerary map[string]any) {
		eachMap(itinerary["segments"], fn)
	})
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func stringList(v any) []string {
	var out []string
	switch items := v.(type) {
	case []any:
		for _, item := range items {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	case []string:
		out = append(out, items...)
	}
	return out
}

func appendUnique(list []string, v string) []string {
	if v == "" || slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}

func lookupOr(names map[string]string, code string) string {
	if name := names[code]; name != "" {
		return name
	}
	return code
}

func eachMap(v any, fn func(map[string]any)) {
	switch items := v.(type) {
	case []any:
		for _, item := range items {
			if m, ok := item.(map[string]any); ok {
				fn(m)
			}
		}
	case []map[string]any:
		for _, m := range items {
			fn(m)
		}
	}
}

func decodeView(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
