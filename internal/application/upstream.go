package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DanielPopoola/skybook-gateway/internal/domain"
)

// UpstreamErrorItem is one entry of the inventory API error document.
type UpstreamErrorItem struct {
	Status int    `json:"status"`
	Code   int    `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// UpstreamError is a non-success HTTP response from the inventory API.
type UpstreamError struct {
	StatusCode int
	Body       []byte
	Errors     []UpstreamErrorItem
}

func (e *UpstreamError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("inventory api error (status: %d): %s", e.StatusCode, strings.TrimSpace(string(e.Body)))
	}
	first := e.Errors[0]
	return fmt.Sprintf("inventory api error [%d]: %s %s (status: %d)", first.Code, first.Title, first.Detail, e.StatusCode)
}

func (e *UpstreamError) IsRetryable() bool {
	return e.StatusCode >= 500
}

func IsUpstreamError(err error) (*UpstreamError, bool) {
	var upErr *UpstreamError
	ok := errors.As(err, &upErr)
	return upErr, ok
}

// FlightOrderRequest is the body of the order-creation call, without the
// outer "data" envelope.
type FlightOrderRequest struct {
	Type         string               `json:"type"`
	FlightOffers []domain.FlightOffer `json:"flightOffers"`
	Travelers    []domain.Traveler    `json:"travelers"`
}

// FlightOrderResponse is the decoded order-creation response. Data is nil when
// the upstream omitted it.
type FlightOrderResponse struct {
	Data *domain.ConfirmedOrder `json:"data"`
}

// FlightSearchQuery is one origin and destination search. ReturnDate is only
// set for round trips.
type FlightSearchQuery struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Adults        int
	Max           int
	CurrencyCode  string
}
