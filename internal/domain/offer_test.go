package domain_test

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/DanielPopoola/skybook-gateway/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadOffer(t *testing.T) domain.FlightOffer {
	t.Helper()
	raw, err := os.ReadFile("testdata/offer_del_bom.json")
	require.NoError(t, err)

	var offer domain.FlightOffer
	require.NoError(t, json.Unmarshal(raw, &offer))
	return offer
}

func TestFlightOffer_Route(t *testing.T) {
	offer := loadOffer(t)

	origin, destination, err := offer.Route()

	require.NoError(t, err)
	assert.Equal(t, "DEL", origin)
	assert.Equal(t, "BOM", destination)
}

func TestFlightOffer_Route_UsesLastItinerary(t *testing.T) {
	offer := domain.FlightOffer{
		"itineraries": []any{
			map[string]any{"segments": []any{
				map[string]any{"departure": map[string]any{"iataCode": "DEL"}, "arrival": map[string]any{"iataCode": "DXB"}},
			}},
			map[string]any{"segments": []any{
				map[string]any{"departure": map[string]any{"iataCode": "DXB"}, "arrival": map[string]any{"iataCode": "LHR"}},
			}},
		},
	}

	origin, destination, err := offer.Route()

	require.NoError(t, err)
	assert.Equal(t, "DEL", origin)
	assert.Equal(t, "LHR", destination)
}

func TestFlightOffer_Route_RejectsEmptyOffers(t *testing.T) {
	tests := []struct {
		name  string
		offer domain.FlightOffer
	}{
		{"no itineraries", domain.FlightOffer{"id": "1"}},
		{"empty itineraries", domain.FlightOffer{"itineraries": []any{}}},
		{"no segments", domain.FlightOffer{"itineraries": []any{map[string]any{"segments": []any{}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.offer.Route()
			require.Error(t, err)
			assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidOffer))
		})
	}
}

func TestFlightOffer_Sanitize_RemovesDisplayFields(t *testing.T) {
	offer := loadOffer(t)

	clean := offer.Sanitize()

	assert.NotContains(t, clean, "validatingAirlines")
	assert.Contains(t, clean, "validatingAirlineCodes")

	itineraries := clean["itineraries"].([]any)
	for _, it := range itineraries {
		for _, s := range it.(map[string]any)["segments"].([]any) {
			segment := s.(map[string]any)
			assert.NotContains(t, segment, "airlineName")
			assert.NotContains(t, segment["departure"], "city")
			assert.NotContains(t, segment["arrival"], "city")
			assert.Contains(t, segment["departure"], "iataCode")
		}
	}

	pricing := clean["travelerPricings"].([]any)[0].(map[string]any)
	for _, f := range pricing["fareDetailsBySegment"].([]any) {
		fare := f.(map[string]any)
		assert.NotContains(t, fare, "includedCabinBags")
		assert.NotContains(t, fare, "amenities")
		assert.Contains(t, fare, "includedCheckedBags")
	}
}

func TestFlightOffer_Sanitize_DoesNotMutateInput(t *testing.T) {
	offer := loadOffer(t)
	before, err := json.Marshal(offer)
	require.NoError(t, err)

	_ = offer.Sanitize()

	after, err := json.Marshal(offer)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestFlightOffer_Sanitize_Idempotent(t *testing.T) {
	offer := loadOffer(t)

	once := offer.Sanitize()
	twice := once.Sanitize()

	assert.Equal(t, once, twice)
}

func TestFlightOffer_Sanitize_Nil(t *testing.T) {
	var offer domain.FlightOffer
	assert.Nil(t, offer.Sanitize())
}

func TestFlightOffer_TripType(t *testing.T) {
	offer := loadOffer(t)
	assert.Equal(t, "One-way", offer.TripType())

	offer["itineraries"] = append(offer["itineraries"].([]any), offer["itineraries"].([]any)[0])
	assert.Equal(t, "Round-trip", offer.TripType())
}

func TestFlightOffer_Enrich_AddsDisplayNames(t *testing.T) {
	offer := loadOffer(t).Sanitize()

	enriched := offer.Enrich(
		map[string]string{"AI": "AIR INDIA"},
		map[string]string{"DEL": "DELHI", "BOM": "MUMBAI"},
	)

	assert.Equal(t, []any{"AIR INDIA"}, enriched["validatingAirlines"])
	segments := enriched["itineraries"].([]any)[0].(map[string]any)["segments"].([]any)
	first := segments[0].(map[string]any)
	assert.Equal(t, "AIR INDIA", first["airlineName"])
	assert.Equal(t, "DELHI", first["departure"].(map[string]any)["city"])
	assert.Equal(t, "AMD", first["arrival"].(map[string]any)["city"])

	assert.NotContains(t, offer, "validatingAirlines")
}

func TestFlightOffer_Enrich_SanitizeRestoresOriginal(t *testing.T) {
	offer := loadOffer(t).Sanitize()

	round := offer.Enrich(map[string]string{"AI": "AIR INDIA"}, nil).Sanitize()

	assert.Equal(t, offer, round)
}

func TestFlightOffer_CodeSets(t *testing.T) {
	offer := loadOffer(t)

	assert.Equal(t, []string{"AI"}, offer.CarrierCodes())
	assert.Equal(t, []string{"DEL", "AMD", "BOM"}, offer.AirportCodes())
}
