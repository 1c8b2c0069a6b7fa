package amadeus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/DanielPopoola/skybook-gateway/internal/application"
	"github.com/DanielPopoola/skybook-gateway/internal/config"
	"github.com/DanielPopoola/skybook-gateway/internal/domain"
)

const (
	locationsPath    = "/v1/reference-data/locations"
	airlinesPath     = "/v1/reference-data/airlines"
	flightOffersPath = "/v2/shopping/flight-offers"
	flightOrdersPath = "/v1/booking/flight-orders"
	pricingPath      = "/v1/shopping/flight-offers/pricing"
	seatMapsPath     = "/v1/shopping/seatmaps"

	locationPageLimit = 10

	pricingRequestType = "flight-offers-pricing"
)

// invalidator is implemented by token sources that can drop a rejected token.
type invalidator interface {
	Invalidate()
}

type HTTPInventoryClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     application.TokenSource
}

// NewHTTPClient returns the http.Client shared by the token grant and API calls.
func NewHTTPClient(cfg config.AmadeusConfig) *http.Client {
	return &http.Client{Timeout: cfg.RequestTimeout}
}

func NewInventoryClient(cfg config.AmadeusConfig, httpClient *http.Client, tokens application.TokenSource) application.InventoryClient {
	return newHTTPInventoryClient(cfg, httpClient, tokens)
}

// NewCatalogClient returns the shopping and reference-data side of the same API.
func NewCatalogClient(cfg config.AmadeusConfig, httpClient *http.Client, tokens application.TokenSource) application.CatalogClient {
	return newHTTPInventoryClient(cfg, httpClient, tokens)
}

func newHTTPInventoryClient(cfg config.AmadeusConfig, httpClient *http.Client, tokens application.TokenSource) *HTTPInventoryClient {
	return &HTTPInventoryClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		tokens:     tokens,
	}
}

// AirportCountry looks up the country code of an airport by IATA code.
func (c *HTTPInventoryClient) AirportCountry(ctx context.Context, iataCode string) (string, error) {
	query := url.Values{}
	query.Set("keyword", iataCode)
	query.Set("subType", "AIRPORT")
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, locationsPath, query.Encode())

	resp, err := sendRequest[any, locationsResponse](c, ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	for _, loc := range resp.Data {
		if loc.Address.CountryCode != "" {
			return loc.Address.CountryCode, nil
		}
	}
	return "", fmt.Errorf("%w: %s", application.ErrLocationNotFound, iataCode)
}

func (c *HTTPInventoryClient) CreateFlightOrder(ctx context.Context, req application.FlightOrderRequest) (*application.FlightOrderResponse, error) {
	endpoint := c.baseURL + flightOrdersPath
	body := envelope[application.FlightOrderRequest]{Data: req}
	return sendRequest[envelope[application.FlightOrderRequest], application.FlightOrderResponse](c, ctx, http.MethodPost, endpoint, &body)
}

func (c *HTTPInventoryClient) PriceFlightOffers(ctx context.Context, offers []domain.FlightOffer) (json.RawMessage, error) {
	endpoint := c.baseURL + pricingPath
	body := envelope[pricingRequest]{Data: pricingRequest{Type: pricingRequestType, FlightOffers: offers}}
	resp, err := sendRequest[envelope[pricingRequest], json.RawMessage](c, ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, err
	}
	return *resp, nil
}

// SearchFlightOffers runs one shopping search. Connections are always allowed.
func (c *HTTPInventoryClient) SearchFlightOffers(ctx context.Context, q application.FlightSearchQuery) ([]domain.FlightOffer, error) {
	query := url.Values{}
	query.Set("originLocationCode", q.Origin)
	query.Set("destinationLocationCode", q.Destination)
	query.Set("departureDate", q.DepartureDate)
	if q.ReturnDate != "" {
		query.Set("returnDate", q.ReturnDate)
	}
	query.Set("adults", strconv.Itoa(q.Adults))
	query.Set("currencyCode", q.CurrencyCode)
	query.Set("nonStop", "false")
	query.Set("max", strconv.Itoa(q.Max))
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, flightOffersPath, query.Encode())

	resp, err := sendRequest[any, flightOffersResponse](c, ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// AirlineName prefers the business name over the common name.
func (c *HTTPInventoryClient) AirlineName(ctx context.Context, carrierCode string) (string, error) {
	query := url.Values{}
	query.Set("airlineCodes", carrierCode)
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, airlinesPath, query.Encode())

	resp, err := sendRequest[any, airlinesResponse](c, ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	for _, a := range resp.Data {
		if a.BusinessName != "" {
			return a.BusinessName, nil
		}
		if a.CommonName != "" {
			return a.CommonName, nil
		}
	}
	return "", fmt.Errorf("%w: %s", application.ErrAirlineNotFound, carrierCode)
}

func (c *HTTPInventoryClient) AirportCity(ctx context.Context, iataCode string) (string, error) {
	query := url.Values{}
	query.Set("keyword", iataCode)
	query.Set("subType", "AIRPORT")
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, locationsPath, query.Encode())

	resp, err := sendRequest[any, locationsResponse](c, ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	for _, loc := range resp.Data {
		if loc.Address.CityName != "" {
			return loc.Address.CityName, nil
		}
	}
	return "", fmt.Errorf("%w: %s", application.ErrLocationNotFound, iataCode)
}

func (c *HTTPInventoryClient) SeatMaps(ctx context.Context, offer domain.FlightOffer) (json.RawMessage, error) {
	endpoint := c.baseURL + seatMapsPath
	body := envelope[[]domain.FlightOffer]{Data: []domain.FlightOffer{offer}}
	resp, err := sendRequest[envelope[[]domain.FlightOffer], json.RawMessage](c, ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, err
	}
	return *resp, nil
}

// SearchLocations matches cities and airports by name, first page only.
func (c *HTTPInventoryClient) SearchLocations(ctx context.Context, keyword string) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("subType", "CITY,AIRPORT")
	query.Set("keyword", keyword)
	query.Set("page[limit]", strconv.Itoa(locationPageLimit))
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, locationsPath, query.Encode())

	resp, err := sendRequest[any, json.RawMessage](c, ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return *resp, nil
}

func (c *HTTPInventoryClient) LocationByID(ctx context.Context, locationID string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s%s/%s", c.baseURL, locationsPath, url.PathEscape(locationID))

	resp, err := sendRequest[any, json.RawMessage](c, ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return *resp, nil
}

func sendRequest[Req any, Resp any](c *HTTPInventoryClient, ctx context.Context, method, endpoint string, reqBody *Req) (*Resp, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized {
			if inv, ok := c.tokens.(invalidator); ok {
				inv.Invalidate()
			}
		}
		body, _ := io.ReadAll(resp.Body)
		upErr := &application.UpstreamError{StatusCode: resp.StatusCode, Body: body}
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err == nil {
			upErr.Errors = errResp.Errors
		}
		return nil, upErr
	}

	var out Resp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %w", application.ErrMalformedResponse, err)
	}

	return &out, nil
}
