package application

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/DanielPopoola/skybook-gateway/internal/domain"
)

// APPLICATION-LEVEL ERRORS (Orchestration)

type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error

	// Order is set when the upstream order may already exist, so callers can
	// reconcile it by hand.
	Order *domain.ConfirmedOrder
	// Details carries the upstream response body for request errors.
	Details json.RawMessage
}

func (e *ServiceError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeAuth             = "AUTH_ERROR"
	ErrCodeUpstreamContract = "UPSTREAM_CONTRACT_ERROR"
	ErrCodeUpstreamRequest  = "UPSTREAM_REQUEST_ERROR"
	ErrCodePersistence      = "PERSISTENCE_ERROR"
	ErrCodeRender           = "RENDER_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

var (
	// ErrTokenUnavailable is returned when no bearer token could be obtained
	// from the inventory auth endpoint.
	ErrTokenUnavailable = errors.New("inventory token unavailable")

	// ErrLocationNotFound is returned when the inventory has no airport for a code.
	ErrLocationNotFound = errors.New("location not found")

	ErrAirlineNotFound = errors.New("airline not found")

	ErrFlightOrderNotFound = errors.New("flight order not found")

	// ErrMalformedResponse wraps a success response whose body could not be decoded.
	ErrMalformedResponse = errors.New("malformed inventory response")
)

func NewValidationError(err error) *ServiceError {
	msg := "Invalid input"
	if err != nil {
		msg = err.Error()
	}
	return &ServiceError{
		Code:       ErrCodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}

func NewAuthError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeAuth,
		Message:    "Authentication with the inventory API failed",
		HTTPStatus: http.StatusUnauthorized,
		Err:        err,
	}
}

// NewUpstreamContractError reports a success response that lacked required
// data. The order may or may not exist upstream.
func NewUpstreamContractError(reason string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeUpstreamContract,
		Message:    fmt.Sprintf("Inventory API returned an unexpected response: %s", reason),
		HTTPStatus: http.StatusInternalServerError,
	}
}

func NewUpstreamRequestError(err error) *ServiceError {
	svcErr := &ServiceError{
		Code:       ErrCodeUpstreamRequest,
		Message:    "Inventory API request failed",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
	if upErr, ok := IsUpstreamError(err); ok {
		svcErr.HTTPStatus = upErr.StatusCode
		if json.Valid(upErr.Body) {
			svcErr.Details = upErr.Body
		}
	}
	if IsTimeout(err) {
		svcErr.HTTPStatus = http.StatusGatewayTimeout
	}
	return svcErr
}

// NewPersistenceError reports that an order confirmed upstream could not be
// stored locally. The order is attached for manual recovery.
func NewPersistenceError(order *domain.ConfirmedOrder, err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodePersistence,
		Message:    "Order created, but failed to save to database",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
		Order:      order,
	}
}

func NewRenderError(order *domain.ConfirmedOrder, err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeRender,
		Message:    "Order booked, but the ticket could not be generated",
		HTTPStatus: http.StatusOK,
		Err:        err,
		Order:      order,
	}
}

func NewNotFoundError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeNotFound,
		Message:    err.Error(),
		HTTPStatus: http.StatusNotFound,
		Err:        err,
	}
}

func NewInternalError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInternal,
		Message:    "An internal error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}
