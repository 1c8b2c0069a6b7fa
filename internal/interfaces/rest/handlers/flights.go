package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator"

	"github.com/DanielPopoola/skybook-gateway/internal/application"
	"github.com/DanielPopoola/skybook-gateway/internal/application/services"
	"github.com/DanielPopoola/skybook-gateway/internal/domain"
	"github.com/DanielPopoola/skybook-gateway/internal/interfaces/rest"
)

const maxBodyBytes = 1 << 20

type CreateOrderRequest struct {
	FlightOffers []domain.FlightOffer    `json:"flightOffers" validate:"required,min=1"`
	Travelers    []domain.TravelerInput `json:"travelers" validate:"required,min=1"`
}

type CreateOrderResponse struct {
	OrderData   *domain.ConfirmedOrder `json:"order_data"`
	TicketPath  string                 `json:"ticket_path,omitempty"`
	TicketError *rest.APIError         `json:"ticket_error,omitempty"`
}

type StartBookingRequest struct {
	FlightOffer domain.FlightOffer     `json:"flightOffer"`
	Travelers   []domain.TravelerInput `json:"travelers" validate:"required,min=1"`
}

type StartBookingResponse struct {
	Message     string                 `json:"message"`
	Amount      int64                  `json:"amount" example:"583050"`
	Currency    string                 `json:"currency" example:"INR"`
	FlightOffer domain.FlightOffer     `json:"flightOffer"`
	Travelers   []domain.TravelerInput `json:"travelers"`
}

type PriceOffersRequest struct {
	FlightOffers []domain.FlightOffer `json:"flightOffers" validate:"required,min=1"`
}

type FlightOrderRowResponse struct {
	OrderID           string    `json:"order_id"`
	PNR               string    `json:"pnr"`
	OfferID           string    `json:"offer_id"`
	DepartureAirport  string    `json:"departure_airport"`
	ArrivalAirport    string    `json:"arrival_airport"`
	DepartureTime     time.Time `json:"departure_time"`
	ArrivalTime       time.Time `json:"arrival_time"`
	TravelerFirstName string    `json:"traveler_first_name"`
	TravelerLastName  string    `json:"traveler_last_name"`
	TravelerEmail     string    `json:"traveler_email"`
	TotalPrice        string    `json:"total_price" example:"5480.00"`
	Currency          string    `json:"currency"`
	Status            string    `json:"status"`
}

type AirportCountryResponse struct {
	IATACode    string `json:"iata_code" example:"DEL"`
	CountryCode string `json:"country_code" example:"IN"`
}

// HandleCreateOrder books a flight offer
// @Summary      Create a flight order
// @Description  Books the first offer for the travelers, stores one row per traveler and segment, and renders a ticket.
// @Tags         flights
// @Accept       json
// @Produce      json
// @Param        request  body      CreateOrderRequest   true  "Offers and travelers"
// @Success      200      {object}  rest.APIResponse     "Order booked"
// @Failure      400      {object}  rest.APIResponse     "Invalid input"
// @Failure      401      {object}  rest.APIResponse     "Inventory authentication failed"
// @Failure      500      {object}  rest.APIResponse     "Contract or persistence failure, order_data attached when booked"
// @Router       /api/v1/flights/orders [post]
func (h *FlightHandler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.booking.CreateOrder(r.Context(), services.CreateOrderCommand{
		FlightOffers: req.FlightOffers,
		Travelers:    req.Travelers,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	resp := CreateOrderResponse{
		OrderData:  result.Order,
		TicketPath: result.TicketPath,
	}
	if result.TicketError != nil {
		_, resp.TicketError = rest.BuildErrorResponse(result.TicketError)
		resp.TicketError.OrderData = nil
	}
	rest.WriteJSON(w, http.StatusOK, resp)
}

// HandleStartBooking quotes the amount to pay for an offer
// @Summary      Start a booking
// @Description  Checks passport details for international offers and returns the amount in minor units.
// @Tags         flights
// @Accept       json
// @Produce      json
// @Param        request  body      StartBookingRequest  true  "Offer and travelers"
// @Success      200      {object}  rest.APIResponse
// @Failure      400      {object}  rest.APIResponse
// @Router       /api/v1/flights/start-booking [post]
func (h *FlightHandler) HandleStartBooking(w http.ResponseWriter, r *http.Request) {
	var req StartBookingRequest
	if !h.decode(w, r, &req) {
		return
	}

	quote, err := h.booking.StartBooking(r.Context(), services.StartBookingCommand{
		FlightOffer: req.FlightOffer,
		Travelers:   req.Travelers,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, StartBookingResponse{
		Message:     "Ready for payment",
		Amount:      quote.Amount,
		Currency:    quote.Currency,
		FlightOffer: quote.FlightOffer,
		Travelers:   quote.Travelers,
	})
}

// HandlePriceOffers confirms offer prices with the inventory
// @Summary      Price flight offers
// @Tags         flights
// @Accept       json
// @Produce      json
// @Param        request  body      PriceOffersRequest  true  "Offers to price"
// @Success      200      {object}  rest.APIResponse
// @Failure      400      {object}  rest.APIResponse
// @Failure      502      {object}  rest.APIResponse
// @Router       /api/v1/flights/price [post]
func (h *FlightHandler) HandlePriceOffers(w http.ResponseWriter, r *http.Request) {
	var req PriceOffersRequest
	if !h.decode(w, r, &req) {
		return
	}

	doc, err := h.booking.PriceOffers(r.Context(), req.FlightOffers)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, doc)
}

// HandleGetOrder lists the stored rows of an order
// @Summary      Get a flight order
// @Tags         flight-orders
// @Produce      json
// @Param        orderID  path      string  true  "Inventory order id"
// @Success      200      {object}  rest.APIResponse
// @Failure      404      {object}  rest.APIResponse
// @Router       /api/v1/flight-orders/{orderID} [get]
func (h *FlightHandler) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	rows, err := h.query.FindByOrderID(r.Context(), r.PathValue("orderID"))
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	out := make([]FlightOrderRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, FlightOrderRowResponse{
			OrderID:           row.OrderID,
			PNR:               row.PNR,
			OfferID:           row.OfferID,
			DepartureAirport:  row.DepartureAirport,
			ArrivalAirport:    row.ArrivalAirport,
			DepartureTime:     row.DepartureTime,
			ArrivalTime:       row.ArrivalTime,
			TravelerFirstName: row.TravelerFirstName,
			TravelerLastName:  row.TravelerLastName,
			TravelerEmail:     row.TravelerEmail,
			TotalPrice:        row.TotalPrice.StringFixed(2),
			Currency:          row.Currency,
			Status:            string(row.Status),
		})
	}
	rest.WriteJSON(w, http.StatusOK, out)
}

// HandleAirportCountry resolves the country of an airport
// @Summary      Airport country
// @Tags         airports
// @Produce      json
// @Param        iataCode  path      string  true  "IATA airport code"
// @Success      200       {object}  rest.APIResponse
// @Router       /api/v1/airports/{iataCode}/country [get]
func (h *FlightHandler) HandleAirportCountry(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("iataCode")
	country, err := h.booking.AirportCountry(r.Context(), code)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, AirportCountryResponse{IATACode: code, CountryCode: country})
}

// HandleHealth reports database reachability.
func (h *FlightHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		rest.WriteError(w, application.NewInternalError(err), h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *FlightHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeRequest(w, r, h.validate, h.logger, dst)
}

func decodeRequest(w http.ResponseWriter, r *http.Request, validate *validator.Validate, logger *slog.Logger, dst any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		rest.WriteError(w, application.NewValidationError(errors.New("could not read request body")), logger)
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		rest.WriteError(w, application.NewValidationError(errors.New("request body is not valid JSON")), logger)
		return false
	}

	if err := validate.Struct(dst); err != nil {
		rest.WriteError(w, application.NewValidationError(err), logger)
		return false
	}
	return true
}
