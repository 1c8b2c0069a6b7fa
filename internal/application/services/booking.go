package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/DanielPopoola/skybook-gateway/internal/application"
	"github.com/DanielPopoola/skybook-gateway/internal/domain"
	"github.com/DanielPopoola/skybook-gateway/internal/metrics"
)

const flightOrderType = "flight-order"

// FinalizeTimeout bounds storing, announcing and ticketing an order the
// inventory has already confirmed. Those steps ignore the caller's
// cancellation.
const FinalizeTimeout = 30 * time.Second

const publishTimeout = 5 * time.Second

var (
	errNoRowsWritten = errors.New("no flight order rows were written")
	minorUnits       = decimal.NewFromInt(100)
)

type BookingService struct {
	tokens    application.TokenSource
	inventory application.InventoryClient
	countries *CountryResolver
	assembler *TravelerAssembler
	persister *OrderPersister
	renderer  application.TicketRenderer
	events    application.OrderEventPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewBookingService(
	tokens application.TokenSource,
	inventory application.InventoryClient,
	countries *CountryResolver,
	assembler *TravelerAssembler,
	persister *OrderPersister,
	renderer application.TicketRenderer,
	events application.OrderEventPublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *BookingService {
	return &BookingService{
		tokens:    tokens,
		inventory: inventory,
		countries: countries,
		assembler: assembler,
		persister: persister,
		renderer:  renderer,
		events:    events,
		metrics:   m,
		logger:    logger,
	}
}

// CreateOrder books the first offer for the given travelers, stores the
// confirmed order and renders its ticket.
//
// Failures before the inventory call leave nothing behind. Once the inventory
// has confirmed the order, errors carry the order so it can be reconciled.
func (s *BookingService) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (result *OrderResult, err error) {
	start := time.Now()
	defer func() {
		s.observe(start, err)
	}()

	if err := validateCreateOrder(cmd); err != nil {
		return nil, application.NewValidationError(err)
	}

	if _, err := s.tokens.Token(ctx); err != nil {
		s.logger.Error("inventory token unavailable", "error", err)
		return nil, application.NewAuthError(err)
	}

	offer := cmd.FlightOffers[0]
	travelers := s.assembler.Assemble(ctx, cmd.Travelers, offer)
	cleanOffer := offer.Sanitize()

	resp, err := s.inventory.CreateFlightOrder(ctx, application.FlightOrderRequest{
		Type:         flightOrderType,
		FlightOffers: []domain.FlightOffer{cleanOffer},
		Travelers:    travelers,
	})
	if err != nil {
		s.logger.Error("flight order submission failed", "offer_id", offer.ID(), "error", err)
		return nil, submissionError(err)
	}

	order, err := confirmedOrder(resp)
	if err != nil {
		s.logger.Error("inventory returned an unusable order", "offer_id", offer.ID(), "error", err)
		return nil, err
	}
	order.OrderID = order.ID

	s.logger.Info("flight order confirmed",
		"order_id", order.OrderID,
		"offer_id", offer.ID(),
		"pnr", order.PNR(),
	)

	finalizeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), FinalizeTimeout)
	defer cancel()

	rows, err := s.persister.Persist(finalizeCtx, order)
	if err != nil || rows == 0 {
		if err == nil {
			err = errNoRowsWritten
		}
		s.logger.Error("confirmed order not stored locally", "order_id", order.OrderID, "rows", rows, "error", err)
		return nil, application.NewPersistenceError(order, err)
	}

	s.publish(finalizeCtx, order)

	result = &OrderResult{Order: order}
	path, err := s.renderer.Render(finalizeCtx, order)
	if err != nil {
		s.logger.Error("ticket rendering failed", "order_id", order.OrderID, "error", err)
		s.countTicket("failure")
		result.TicketError = application.NewRenderError(order, err)
		return result, nil
	}
	s.countTicket("success")
	result.TicketPath = path

	return result, nil
}

// StartBooking checks an offer before payment and quotes the amount to
// collect. Unlike CreateOrder it rejects international bookings that lack
// passport details.
func (s *BookingService) StartBooking(ctx context.Context, cmd StartBookingCommand) (*BookingQuote, error) {
	if len(cmd.FlightOffer) == 0 {
		return nil, application.NewValidationError(domain.NewMissingRequiredFieldError("flightOffer"))
	}
	if len(cmd.Travelers) == 0 {
		return nil, application.NewValidationError(domain.NewMissingRequiredFieldError("travelers"))
	}

	if s.countries.IsInternational(ctx, cmd.FlightOffer) {
		for i, t := range cmd.Travelers {
			if !t.HasPassport() {
				return nil, application.NewValidationError(domain.NewPassportRequiredError(i))
			}
		}
	}

	price, err := cmd.FlightOffer.Price()
	if err != nil {
		return nil, application.NewValidationError(domain.NewInvalidOfferError(err.Error()))
	}
	grandTotal, err := decimal.NewFromString(price.GrandTotal)
	if err != nil {
		return nil, application.NewValidationError(domain.NewInvalidPriceError(price.GrandTotal, err))
	}

	total := grandTotal.Mul(minorUnits)
	for _, t := range cmd.Travelers {
		if t.Seat == nil || t.Seat.Price == "" {
			continue
		}
		seat, err := decimal.NewFromString(t.Seat.Price)
		if err != nil {
			s.logger.Warn("ignoring malformed seat price", "seat", t.Seat.Number, "price", t.Seat.Price)
			continue
		}
		total = total.Add(seat.Mul(minorUnits))
	}

	return &BookingQuote{
		Amount:      total.IntPart(),
		Currency:    price.Currency,
		FlightOffer: cmd.FlightOffer,
		Travelers:   cmd.Travelers,
	}, nil
}

// PriceOffers confirms current prices for the offers with the inventory API.
func (s *BookingService) PriceOffers(ctx context.Context, offers []domain.FlightOffer) (json.RawMessage, error) {
	if len(offers) == 0 {
		return nil, application.NewValidationError(domain.NewMissingRequiredFieldError("flightOffers"))
	}

	clean := make([]domain.FlightOffer, 0, len(offers))
	for _, o := range offers {
		clean = append(clean, o.Sanitize())
	}

	doc, err := s.inventory.PriceFlightOffers(ctx, clean)
	if err != nil {
		s.logger.Error("offer pricing failed", "error", err)
		return nil, submissionError(err)
	}
	return doc, nil
}

// AirportCountry exposes the resolver. Unknown airports resolve to
// domain.UnknownCountry rather than an error.
func (s *BookingService) AirportCountry(ctx context.Context, iataCode string) (string, error) {
	if iataCode == "" {
		return "", application.NewValidationError(domain.NewMissingRequiredFieldError("iataCode"))
	}
	return s.countries.ResolveCountry(ctx, iataCode), nil
}

func validateCreateOrder(cmd CreateOrderCommand) error {
	if len(cmd.FlightOffers) == 0 || len(cmd.FlightOffers[0]) == 0 {
		return domain.NewMissingRequiredFieldError("flightOffers")
	}
	if len(cmd.Travelers) == 0 {
		return domain.NewMissingRequiredFieldError("travelers")
	}
	for i, t := range cmd.Travelers {
		if err := t.Validate(i); err != nil {
			return err
		}
	}
	return nil
}

func submissionError(err error) *application.ServiceError {
	switch {
	case errors.Is(err, application.ErrTokenUnavailable):
		return application.NewAuthError(err)
	case errors.Is(err, application.ErrMalformedResponse):
		svcErr := application.NewUpstreamContractError("response body could not be decoded")
		svcErr.Err = err
		return svcErr
	default:
		return application.NewUpstreamRequestError(err)
	}
}

func confirmedOrder(resp *application.FlightOrderResponse) (*domain.ConfirmedOrder, error) {
	if resp == nil || resp.Data == nil {
		return nil, application.NewUpstreamContractError("response has no data object")
	}
	order := resp.Data
	if order.ID == "" {
		return nil, application.NewUpstreamContractError("order has no id")
	}
	if len(order.FlightOffers) == 0 || len(order.Travelers) == 0 {
		svcErr := application.NewUpstreamContractError("order does not echo its flight offers and travelers")
		order.OrderID = order.ID
		svcErr.Order = order
		return nil, svcErr
	}
	return order, nil
}

func (s *BookingService) publish(ctx context.Context, order *domain.ConfirmedOrder) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := s.events.PublishOrderConfirmed(ctx, order); err != nil {
		s.logger.Warn("failed to publish order event", "order_id", order.OrderID, "error", err)
		s.countEvent("failure")
		return
	}
	s.countEvent("success")
}

func (s *BookingService) observe(start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	outcome := "success"
	if err != nil {
		outcome = application.ToErrorCode(err)
	}
	s.metrics.OrdersSubmitted.WithLabelValues(outcome).Inc()
}

func (s *BookingService) countEvent(result string) {
	if s.metrics != nil {
		s.metrics.EventsPublished.WithLabelValues(result).Inc()
	}
}

func (s *BookingService) countTicket(result string) {
	if s.metrics != nil {
		s.metrics.TicketsRendered.WithLabelValues(result).Inc()
	}
}
