package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business rule violation in booking input.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
	ErrCodeInvalidOffer         = "INVALID_OFFER"
	ErrCodePassportRequired     = "PASSPORT_REQUIRED"
	ErrCodeInvalidPrice         = "INVALID_PRICE"
	ErrCodeInvalidSearch        = "INVALID_SEARCH"
)

func NewMissingRequiredFieldError(field string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingRequiredField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewInvalidOfferError(reason string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidOffer,
		Message: fmt.Sprintf("invalid flight offer: %s", reason),
	}
}

func NewPassportRequiredError(travelerIndex int) *DomainError {
	return &DomainError{
		Code:    ErrCodePassportRequired,
		Message: fmt.Sprintf("passport details required for international flights (traveler %d)", travelerIndex),
	}
}

func NewInvalidPriceError(value string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidPrice,
		Message: fmt.Sprintf("invalid price %q", value),
		Err:     err,
	}
}

func NewInvalidSearchError(reason string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidSearch,
		Message: fmt.Sprintf("invalid search: %s", reason),
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
