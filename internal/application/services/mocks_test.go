package services_test

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/DanielPopoola/skybook-gateway/internal/application"
	"github.com/DanielPopoola/skybook-gateway/internal/domain"
)

type mockTokenSource struct{ mock.Mock }

func (m *mockTokenSource) Token(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type mockInventory struct{ mock.Mock }

func (m *mockInventory) AirportCountry(ctx context.Context, iataCode string) (string, error) {
	args := m.Called(ctx, iataCode)
	return args.String(0), args.Error(1)
}

func (m *mockInventory) CreateFlightOrder(ctx context.Context, req application.FlightOrderRequest) (*application.FlightOrderResponse, error) {
	args := m.Called(ctx, req)
	if fn, ok := args.Get(0).(func(context.Context, application.FlightOrderRequest) (*application.FlightOrderResponse, error)); ok {
		return fn(ctx, req)
	}
	resp, _ := args.Get(0).(*application.FlightOrderResponse)
	return resp, args.Error(1)
}

func (m *mockInventory) PriceFlightOffers(ctx context.Context, offers []domain.FlightOffer) (json.RawMessage, error) {
	args := m.Called(ctx, offers)
	doc, _ := args.Get(0).(json.RawMessage)
	return doc, args.Error(1)
}

type mockCountryStore struct{ mock.Mock }

func (m *mockCountryStore) FindCountry(ctx context.Context, iataCode string) (string, error) {
	args := m.Called(ctx, iataCode)
	return args.String(0), args.Error(1)
}

func (m *mockCountryStore) Save(ctx context.Context, iataCode, countryCode string) error {
	return m.Called(ctx, iataCode, countryCode).Error(0)
}

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) InsertRows(ctx context.Context, rows []domain.FlightOrderRow) (int, error) {
	args := m.Called(ctx, rows)
	return args.Int(0), args.Error(1)
}

func (m *mockOrderRepo) FindByOrderID(ctx context.Context, orderID string) ([]domain.FlightOrderRow, error) {
	args := m.Called(ctx, orderID)
	rows, _ := args.Get(0).([]domain.FlightOrderRow)
	return rows, args.Error(1)
}

type mockRenderer struct{ mock.Mock }

func (m *mockRenderer) Render(ctx context.Context, order *domain.ConfirmedOrder) (string, error) {
	args := m.Called(ctx, order)
	return args.String(0), args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishOrderConfirmed(ctx context.Context, order *domain.ConfirmedOrder) error {
	return m.Called(ctx, order).Error(0)
}

// memoryCountryStore is a map-backed store for read-through tests.
type memoryCountryStore struct {
	data map[string]string
}

func newMemoryCountryStore(seed map[string]string) *memoryCountryStore {
	data := map[string]string{}
	for k, v := range seed {
		data[k] = v
	}
	return &memoryCountryStore{data: data}
}

func (s *memoryCountryStore) FindCountry(_ context.Context, iataCode string) (string, error) {
	c, ok := s.data[iataCode]
	if !ok {
		return "", application.ErrLocationNotFound
	}
	return c, nil
}

func (s *memoryCountryStore) Save(_ context.Context, iataCode, countryCode string) error {
	if _, ok := s.data[iataCode]; !ok {
		s.data[iataCode] = countryCode
	}
	return nil
}

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) SearchFlightOffers(ctx context.Context, q application.FlightSearchQuery) ([]domain.FlightOffer, error) {
	args := m.Called(ctx, q)
	offers, _ := args.Get(0).([]domain.FlightOffer)
	return offers, args.Error(1)
}

func (m *mockCatalog) AirlineName(ctx context.Context, carrierCode string) (string, error) {
	args := m.Called(ctx, carrierCode)
	return args.String(0), args.Error(1)
}

func (m *mockCatalog) AirportCity(ctx context.Context, iataCode string) (string, error) {
	args := m.Called(ctx, iataCode)
	return args.String(0), args.Error(1)
}

func (m *mockCatalog) SeatMaps(ctx context.Context, offer domain.FlightOffer) (json.RawMessage, error) {
	args := m.Called(ctx, offer)
	doc, _ := args.Get(0).(json.RawMessage)
	return doc, args.Error(1)
}

func (m *mockCatalog) SearchLocations(ctx context.Context, keyword string) (json.RawMessage, error) {
	args := m.Called(ctx, keyword)
	doc, _ := args.Get(0).(json.RawMessage)
	return doc, args.Error(1)
}

func (m *mockCatalog) LocationByID(ctx context.Context, locationID string) (json.RawMessage, error) {
	args := m.Called(ctx, locationID)
	doc, _ := args.Get(0).(json.RawMessage)
	return doc, args.Error(1)
}

// memoryAirlineStore is a map-backed airline name store.
type memoryAirlineStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryAirlineStore(seed map[string]string) *memoryAirlineStore {
	data := map[string]string{}
	for k, v := range seed {
		data[k] = v
	}
	return &memoryAirlineStore{data: data}
}

func (s *memoryAirlineStore) FindName(_ context.Context, carrierCode string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.data[carrierCode]
	if !ok {
		return "", application.ErrAirlineNotFound
	}
	return n, nil
}

func (s *memoryAirlineStore) Save(_ context.Context, carrierCode, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[carrierCode]; !ok {
		s.data[carrierCode] = name
	}
	return nil
}
