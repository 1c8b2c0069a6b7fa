package amadeus

import (
	"github.com/DanielPopoola/skybook-gateway/internal/application"
	"github.com/DanielPopoola/skybook-gateway/internal/domain"
)

type envelope[T any] struct {
	Data T `json:"data"`
}

type locationAddress struct {
	CityName    string `json:"cityName"`
	CountryCode string `json:"countryCode"`
}

type location struct {
	IATACode string          `json:"iataCode"`
	Address  locationAddress `json:"address"`
}

type locationsResponse struct {
	Data []location `json:"data"`
}

type airline struct {
	IATACode     string `json:"iataCode"`
	BusinessName string `json:"businessName"`
	CommonName   string `json:"commonName"`
}

type airlinesResponse struct {
	Data []airline `json:"data"`
}

type flightOffersResponse struct {
	Data []domain.FlightOffer `json:"data"`
}

type pricingRequest struct {
	Type         string               `json:"type"`
	FlightOffers []domain.FlightOffer `json:"flightOffers"`
}

type errorResponse struct {
	Errors []application.UpstreamErrorItem `json:"errors"`
}
