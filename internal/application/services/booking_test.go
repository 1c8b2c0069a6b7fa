package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/DanielPopoola/skybook-gateway/internal/application"
	"github.com/DanielPopoola/skybook-gateway/internal/application/services"
	"github.com/DanielPopoola/skybook-gateway/internal/application/services/testhelpers"
	"github.com/DanielPopoola/skybook-gateway/internal/domain"
)

type bookingFixture struct {
	tokens    *mockTokenSource
	inventory *mockInventory
	orders    *mockOrderRepo
	renderer  *mockRenderer
	events    *mockPublisher
	service   *services.BookingService
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	f := &bookingFixture{
		tokens:    &mockTokenSource{},
		inventory: &mockInventory{},
		orders:    &mockOrderRepo{},
		renderer:  &mockRenderer{},
		events:    &mockPublisher{},
	}
	logger := testhelpers.DiscardLogger()
	m := testMetrics()
	store := newMemoryCountryStore(map[string]string{"DEL": "IN", "AMD": "IN", "BOM": "IN", "LHR": "GB"})
	resolver := services.NewCountryResolver(store, f.inventory, m, logger)
	assembler := services.NewTravelerAssembler(resolver, domain.DefaultSandboxDefaults(), logger)
	persister := services.NewOrderPersister(f.orders, m, logger)
	f.service = services.NewBookingService(f.tokens, f.inventory, resolver, assembler, persister, f.renderer, f.events, m, logger)
	return f
}

// echo makes the inventory mock confirm whatever it receives.
func (f *bookingFixture) echo(id, pnr string) {
	f.inventory.On("CreateFlightOrder", mock.Anything, mock.Anything).
		Return(func(_ context.Context, req application.FlightOrderRequest) (*application.FlightOrderResponse, error) {
			return &application.FlightOrderResponse{
				Data: testhelpers.ConfirmedFrom(id, pnr, req.FlightOffers, req.Travelers),
			}, nil
		}).Once()
}

func createCommand() services.CreateOrderCommand {
	return services.CreateOrderCommand{
		FlightOffers: []domain.FlightOffer{testhelpers.OneWayDELtoBOM()},
		Travelers:    []domain.TravelerInput{testhelpers.NewTravelerInput("A", "B", "a@b.com")},
	}
}

func TestCreateOrder_Success(t *testing.T) {
	f := newBookingFixture(t)
	f.tokens.On("Token", mock.Anything).Return("tok", nil)
	f.echo("eJzTd9f3", "KBZ3LT")
	f.orders.On("InsertRows", mock.Anything, mock.Anything).Return(2, nil).Once()
	f.events.On("PublishOrderConfirmed", mock.Anything, mock.Anything).Return(nil).Once()
	f.renderer.On("Render", mock.Anything, mock.Anything).Return("tickets/KBZ3LT_eJzTd9f3.pdf", nil).Once()

	result, err := f.service.CreateOrder(context.Background(), createCommand())

	require.NoError(t, err)
	assert.Equal(t, "eJzTd9f3", result.Order.OrderID)
	assert.Equal(t, "tickets/KBZ3LT_eJzTd9f3.pdf", result.TicketPath)
	assert.Nil(t, result.TicketError)
	f.orders.AssertExpectations(t)
	f.events.AssertExpectations(t)
}

func TestCreateOrder_ValidationRejectsBeforeAnyCall(t *testing.T) {
	tests := []struct {
		name string
		cmd  func() services.CreateOrderCommand
	}{
		{"no offers", func() services.CreateOrderCommand {
			c := createCommand()
			c.FlightOffers = nil
			return c
		}},
		{"no travelers", func() services.CreateOrderCommand {
			c := createCommand()
			c.Travelers = nil
			return c
		}},
		{"missing last name", func() services.CreateOrderCommand {
			c := createCommand()
			c.Travelers[0].Name.LastName = ""
			return c
		}},
		{"missing email", func() services.CreateOrderCommand {
			c := createCommand()
			c.Travelers[0].Contact.EmailAddress = ""
			return c
		}},
		{"missing phone", func() services.CreateOrderCommand {
			c := createCommand()
			c.Travelers[0].Contact.Phones = nil
			return c
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)

			_, err := f.service.CreateOrder(context.Background(), tt.cmd())

			svcErr, ok := application.IsServiceError(err)
			require.True(t, ok)
			assert.Equal(t, application.ErrCodeValidation, svcErr.Code)
			assert.Equal(t, http.StatusBadRequest, svcErr.HTTPStatus)
			f.tokens.AssertNotCalled(t, "Token", mock.Anything)
			f.inventory.AssertNotCalled(t, "CreateFlightOrder", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateOrder_TokenFailureIsAuthError(t *testing.T) {
	f := newBookingFixture(t)
	f.tokens.On("Token", mock.Anything).Return("", application.ErrTokenUnavailable)

	_, err := f.service.CreateOrder(context.Background(), createCommand())

	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeAuth, svcErr.Code)
	assert.Equal(t, http.StatusUnauthorized, svcErr.HTTPStatus)
	f.inventory.AssertNotCalled(t, "CreateFlightOrder", mock.Anything, mock.Anything)
}

func TestCreateOrder_UpstreamErrorPropagatesStatusAndBody(t *testing.T) {
	f := newBookingFixture(t)
	f.tokens.On("Token", mock.Anything).Return("tok", nil)
	body := []byte(`{"errors":[{"status":400,"code":477,"title":"INVALID FORMAT"}]}`)
	f.inventory.On("CreateFlightOrder", mock.Anything, mock.Anything).
		Return(nil, &application.UpstreamError{StatusCode: 400, Body: body})

	_, err := f.service.CreateOrder(context.Background(), createCommand())

	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeUpstreamRequest, svcErr.Code)
	assert.Equal(t, http.StatusBadRequest, svcErr.HTTPStatus)
	assert.JSONEq(t, string(body), string(svcErr.Details))
	f.orders.AssertNotCalled(t, "InsertRows", mock.Anything, mock.Anything)
}

func TestCreateOrder_TimeoutIsGatewayTimeout(t *testing.T) {
	f := newBookingFixture(t)
	f.tokens.On("Token", mock.Anything).Return("tok", nil)
	f.inventory.On("CreateFlightOrder", mock.Anything, mock.Anything).
		Return(nil, context.DeadlineExceeded)

	_, err := f.service.CreateOrder(context.Background(), createCommand())

	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusGatewayTimeout, svcErr.HTTPStatus)
}

func TestCreateOrder_ContractViolations(t *testing.T) {
	tests := []struct {
		name      string
		resp      *application.FlightOrderResponse
		withOrder bool
	}{
		{"no data", &application.FlightOrderResponse{}, false},
		{"no id", &application.FlightOrderResponse{Data: &domain.ConfirmedOrder{
			FlightOffers: []domain.FlightOffer{{"id": "1"}},
			Travelers:    []domain.Traveler{{ID: "1"}},
		}}, false},
		{"no echo", &application.FlightOrderResponse{Data: &domain.ConfirmedOrder{ID: "abc"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)
			f.tokens.On("Token", mock.Anything).Return("tok", nil)
			f.inventory.On("CreateFlightOrder", mock.Anything, mock.Anything).Return(tt.resp, nil)

			_, err := f.service.CreateOrder(context.Background(), createCommand())

			svcErr, ok := application.IsServiceError(err)
			require.True(t, ok)
			assert.Equal(t, application.ErrCodeUpstreamContract, svcErr.Code)
			assert.Equal(t, http.StatusInternalServerError, svcErr.HTTPStatus)
			assert.Equal(t, tt.withOrder, svcErr.Order != nil)
			f.orders.AssertNotCalled(t, "InsertRows", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateOrder_MalformedBodyIsContractError(t *testing.T) {
	f := newBookingFixture(t)
	f.tokens.On("Token", mock.Anything).Return("tok", nil)
	f.inventory.On("CreateFlightOrder", mock.Anything, mock.Anything).
		Return(nil, errors.Join(application.ErrMalformedResponse, errors.New("unexpected EOF")))

	_, err := f.service.CreateOrder(context.Background(), createCommand())

	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeUpstreamContract, svcErr.Code)
	assert.ErrorIs(t, err, application.ErrMalformedResponse)
	assert.Contains(t, err.Error(), "unexpected EOF")
}

func TestCreateOrder_FinishesAfterCallerGivesUp(t *testing.T) {
	f := newBookingFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.tokens.On("Token", mock.Anything).Return("tok", nil)
	f.inventory.On("CreateFlightOrder", mock.Anything, mock.Anything).
		Return(func(_ context.Context, req application.FlightOrderRequest) (*application.FlightOrderResponse, error) {
			// the client disconnects just as the inventory confirms
			cancel()
			return &application.FlightOrderResponse{
				Data: testhelpers.ConfirmedFrom("eJzTd9f3", "KBZ3LT", req.FlightOffers, req.Travelers),
			}, nil
		}).Once()

	live := mock.MatchedBy(func(ctx context.Context) bool {
		_, hasDeadline := ctx.Deadline()
		return ctx.Err() == nil && hasDeadline
	})
	f.orders.On("InsertRows", live, mock.Anything).Return(2, nil).Once()
	f.events.On("PublishOrderConfirmed", live, mock.Anything).Return(nil).Once()
	f.renderer.On("Render", live, mock.Anything).Return("tickets/KBZ3LT_eJzTd9f3.pdf", nil).Once()

	result, err := f.service.CreateOrder(ctx, createCommand())

	require.NoError(t, err)
	assert.Equal(t, "tickets/KBZ3LT_eJzTd9f3.pdf", result.TicketPath)
	f.orders.AssertExpectations(t)
	f.events.AssertExpectations(t)
	f.renderer.AssertExpectations(t)
}

func TestCreateOrder_PersistenceFailureCarriesOrder(t *testing.T) {
	f := newBookingFixture(t)
	f.tokens.On("Token", mock.Anything).Return("tok", nil)
	f.echo("eJzTd9f3", "KBZ3LT")
	f.orders.On("InsertRows", mock.Anything, mock.Anything).Return(0, errors.New("conn reset"))

	_, err := f.service.CreateOrder(context.Background(), createCommand())

	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodePersistence, svcErr.Code)
	require.NotNil(t, svcErr.Order)
	assert.Equal(t, "eJzTd9f3", svcErr.Order.OrderID)
	f.renderer.AssertNotCalled(t, "Render", mock.Anything, mock.Anything)
	f.events.AssertNotCalled(t, "PublishOrderConfirmed", mock.Anything, mock.Anything)
}

func TestCreateOrder_ZeroRowsIsPersistenceError(t *testing.T) {
	f := newBookingFixture(t)
	f.tokens.On("Token", mock.Anything).Return("tok", nil)
	f.echo("eJzTd9f3", "KBZ3LT")
	f.orders.On("InsertRows", mock.Anything, mock.Anything).Return(0, nil)

	_, err := f.service.CreateOrder(context.Background(), createCommand())

	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodePersistence, svcErr.Code)
	assert.NotNil(t, svcErr.Order)
}

func TestCreateOrder_RenderFailureKeepsBooking(t *testing.T) {
	f := newBookingFixture(t)
	f.tokens.On("Token", mock.Anything).Return("tok", nil)
	f.echo("eJzTd9f3", "KBZ3LT")
	f.orders.On("InsertRows", mock.Anything, mock.Anything).Return(2, nil)
	f.events.On("PublishOrderConfirmed", mock.Anything, mock.Anything).Return(nil)
	f.renderer.On("Render", mock.Anything, mock.Anything).Return("", errors.New("disk full"))

	result, err := f.service.CreateOrder(context.Background(), createCommand())

	require.NoError(t, err)
	require.NotNil(t, result.TicketError)
	assert.Equal(t, application.ErrCodeRender, result.TicketError.Code)
	assert.Equal(t, "eJzTd9f3", result.Order.OrderID)
	assert.Empty(t, result.TicketPath)
}

func TestCreateOrder_EventFailureIsNotFatal(t *testing.T) {
	f := newBookingFixture(t)
	f.tokens.On("Token", mock.Anything).Return("tok", nil)
	f.echo("eJzTd9f3", "KBZ3LT")
	f.orders.On("InsertRows", mock.Anything, mock.Anything).Return(2, nil)
	f.events.On("PublishOrderConfirmed", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	f.renderer.On("Render", mock.Anything, mock.Anything).Return("t.pdf", nil)

	result, err := f.service.CreateOrder(context.Background(), createCommand())

	require.NoError(t, err)
	assert.Equal(t, "t.pdf", result.TicketPath)
}

func TestCreateOrder_UsesOnlyFirstOffer(t *testing.T) {
	f := newBookingFixture(t)
	f.tokens.On("Token", mock.Anything).Return("tok", nil)
	f.echo("id-1", "PNR1")
	f.orders.On("InsertRows", mock.Anything, mock.Anything).Return(2, nil)
	f.events.On("PublishOrderConfirmed", mock.Anything, mock.Anything).Return(nil)
	f.renderer.On("Render", mock.Anything, mock.Anything).Return("t.pdf", nil)

	cmd := createCommand()
	cmd.FlightOffers = append(cmd.FlightOffers, testhelpers.OneWayDELtoLHR())

	_, err := f.service.CreateOrder(context.Background(), cmd)
	require.NoError(t, err)

	req := f.inventory.Calls[0].Arguments.Get(1).(application.FlightOrderRequest)
	require.Len(t, req.FlightOffers, 1)
	assert.Equal(t, "1", req.FlightOffers[0].ID())
	assert.Equal(t, "flight-order", req.Type)
}

func TestStartBooking_QuotesAmountInMinorUnits(t *testing.T) {
	f := newBookingFixture(t)
	traveler := testhelpers.NewTravelerInput("A", "B", "a@b.com")
	traveler.Seat = &domain.SeatSelection{Number: "12A", Price: "350.50"}
	broken := testhelpers.NewTravelerInput("C", "D", "c@d.com")
	broken.Seat = &domain.SeatSelection{Number: "12B", Price: "free"}

	quote, err := f.service.StartBooking(context.Background(), services.StartBookingCommand{
		FlightOffer: testhelpers.OneWayDELtoBOM(),
		Travelers:   []domain.TravelerInput{traveler, broken},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(548000+35050), quote.Amount)
	assert.Equal(t, "INR", quote.Currency)
}

func TestStartBooking_InternationalRequiresPassport(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.service.StartBooking(context.Background(), services.StartBookingCommand{
		FlightOffer: testhelpers.OneWayDELtoLHR(),
		Travelers:   []domain.TravelerInput{testhelpers.NewTravelerInput("A", "B", "a@b.com")},
	})

	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodePassportRequired))
	assert.Equal(t, http.StatusBadRequest, application.ToHTTPStatus(err))
}

func TestStartBooking_InternationalWithPassport(t *testing.T) {
	f := newBookingFixture(t)
	traveler := testhelpers.NewTravelerInput("A", "B", "a@b.com")
	traveler.PassportNumber = "Z1234567"
	traveler.PassportExpiry = "2031-01-01"
	traveler.PassportIssuanceCountry = "IN"

	quote, err := f.service.StartBooking(context.Background(), services.StartBookingCommand{
		FlightOffer: testhelpers.OneWayDELtoLHR(),
		Travelers:   []domain.TravelerInput{traveler},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(61240), quote.Amount)
	assert.Equal(t, "EUR", quote.Currency)
}

func TestStartBooking_MissingInput(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.service.StartBooking(context.Background(), services.StartBookingCommand{})

	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMissingRequiredField))
}

func TestPriceOffers_SendsSanitizedOffers(t *testing.T) {
	f := newBookingFixture(t)
	doc := json.RawMessage(`{"data":{"type":"flight-offers-pricing"}}`)
	f.inventory.On("PriceFlightOffers", mock.Anything, mock.MatchedBy(func(offers []domain.FlightOffer) bool {
		_, hasValidating := offers[0]["validatingAirlines"]
		return len(offers) == 1 && !hasValidating
	})).Return(doc, nil)

	out, err := f.service.PriceOffers(context.Background(), []domain.FlightOffer{testhelpers.OneWayDELtoBOM()})

	require.NoError(t, err)
	assert.JSONEq(t, string(doc), string(out))
}

func TestAirportCountry_UnknownIsNotAnError(t *testing.T) {
	f := newBookingFixture(t)
	f.inventory.On("AirportCountry", mock.Anything, "QQQ").Return("", application.ErrLocationNotFound)

	country, err := f.service.AirportCountry(context.Background(), "QQQ")

	require.NoError(t, err)
	assert.Equal(t, domain.UnknownCountry, country)
}
