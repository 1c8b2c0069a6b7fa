package services

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/DanielPopoola/skybook-gateway/internal/domain"
)

type internationalityChecker interface {
	IsInternational(ctx context.Context, offer domain.FlightOffer) bool
}

// TravelerAssembler turns caller traveler input into the order API's traveler
// shape. Input is assumed to be validated already.
type TravelerAssembler struct {
	countries internationalityChecker
	defaults  domain.SandboxDefaults
	logger    *slog.Logger
}

func NewTravelerAssembler(countries internationalityChecker, defaults domain.SandboxDefaults, logger *slog.Logger) *TravelerAssembler {
	return &TravelerAssembler{
		countries: countries,
		defaults:  defaults.WithFallbacks(),
		logger:    logger,
	}
}

// Assemble numbers travelers "1".."N" in input order. On international offers
// each traveler gets exactly one passport document, filled from sandbox
// defaults where the input has none.
func (a *TravelerAssembler) Assemble(ctx context.Context, inputs []domain.TravelerInput, offer domain.FlightOffer) []domain.Traveler {
	international := a.countries.IsInternational(ctx, offer)

	travelers := make([]domain.Traveler, 0, len(inputs))
	for i, in := range inputs {
		t := domain.Traveler{
			ID:          strconv.Itoa(i + 1),
			DateOfBirth: in.DateOfBirth,
			Gender:      in.Gender,
			Name:        in.Name,
			Contact: domain.Contact{
				EmailAddress: in.Contact.EmailAddress,
				Phones:       a.phones(in.Contact),
			},
		}
		if international {
			t.Documents = []domain.Document{a.passport(in)}
		}
		travelers = append(travelers, t)
	}

	a.logger.Debug("travelers assembled",
		"offer_id", offer.ID(),
		"travelers", len(travelers),
		"international", international,
	)
	return travelers
}

func (a *TravelerAssembler) phones(c domain.ContactInput) []domain.Phone {
	if len(c.Phones) > 0 {
		return append([]domain.Phone(nil), c.Phones...)
	}
	callingCode := c.CountryCode
	if callingCode == "" {
		callingCode = a.defaults.CountryCallingCode
	}
	return []domain.Phone{{
		DeviceType:         domain.DefaultPhoneDeviceType,
		CountryCallingCode: callingCode,
		Number:             c.PhoneNumber,
	}}
}

func (a *TravelerAssembler) passport(in domain.TravelerInput) domain.Document {
	return domain.Document{
		DocumentType:    domain.DocumentTypePassport,
		Number:          orDefault(in.PassportNumber, a.defaults.PassportNumber),
		ExpiryDate:      orDefault(in.PassportExpiry, a.defaults.PassportExpiry),
		IssuanceCountry: orDefault(in.PassportIssuanceCountry, a.defaults.PassportIssuanceCountry),
		Nationality:     orDefault(in.Nationality, a.defaults.Nationality),
		Holder:          true,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
