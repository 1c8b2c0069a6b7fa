package application

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/DanielPopoola/skybook-gateway/internal/domain"
)

// ErrorCategory represents the nature of an error for retry logic
type ErrorCategory string

const (
	CategoryTransient      ErrorCategory = "TRANSIENT"
	CategoryPermanent      ErrorCategory = "PERMANENT"
	CategoryClientError    ErrorCategory = "CLIENT_ERROR"
	CategoryInfrastructure ErrorCategory = "INFRASTRUCTURE"
)

// CategorizeError determines error category for retry and logging purposes
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.Canceled) {
		return CategoryPermanent
	}

	if IsTimeout(err) {
		return CategoryTransient
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return CategoryClientError
	}

	if errors.Is(err, ErrLocationNotFound) || errors.Is(err, ErrAirlineNotFound) || errors.Is(err, ErrFlightOrderNotFound) {
		return CategoryClientError
	}

	if errors.Is(err, ErrMalformedResponse) {
		return CategoryPermanent
	}

	if svcErr, ok := IsServiceError(err); ok {
		switch svcErr.Code {
		case ErrCodeValidation, ErrCodeNotFound:
			return CategoryClientError
		case ErrCodePersistence, ErrCodeInternal:
			return CategoryInfrastructure
		case ErrCodeUpstreamContract, ErrCodeRender:
			return CategoryPermanent
		}
	}

	if upErr, ok := IsUpstreamError(err); ok {
		if upErr.IsRetryable() || upErr.StatusCode == http.StatusTooManyRequests {
			return CategoryTransient
		}
		return CategoryPermanent
	}

	if errors.Is(err, ErrTokenUnavailable) {
		return CategoryTransient
	}

	// Default: Transient (network failures)
	return CategoryTransient
}

// IsRetryable returns true if the error category suggests retry
func IsRetryable(err error) bool {
	category := CategorizeError(err)
	return category == CategoryTransient
}

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// ToHTTPStatus maps error to appropriate HTTP status code
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.HTTPStatus
	}

	var domainErr *domain.DomainError
	switch {
	case errors.As(err, &domainErr):
		return http.StatusBadRequest
	case errors.Is(err, ErrTokenUnavailable):
		return http.StatusUnauthorized
	case errors.Is(err, ErrLocationNotFound), errors.Is(err, ErrFlightOrderNotFound):
		return http.StatusNotFound
	case IsTimeout(err):
		return http.StatusGatewayTimeout
	}

	if upErr, ok := IsUpstreamError(err); ok {
		return upErr.StatusCode
	}

	return http.StatusInternalServerError
}

// ToErrorCode clear error code for API responses
func ToErrorCode(err error) string {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	if errors.Is(err, ErrTokenUnavailable) {
		return ErrCodeAuth
	}
	if errors.Is(err, ErrLocationNotFound) || errors.Is(err, ErrAirlineNotFound) || errors.Is(err, ErrFlightOrderNotFound) {
		return ErrCodeNotFound
	}
	if _, ok := IsUpstreamError(err); ok {
		return ErrCodeUpstreamRequest
	}
	if IsTimeout(err) {
		return "TIMEOUT"
	}

	return ErrCodeInternal
}
