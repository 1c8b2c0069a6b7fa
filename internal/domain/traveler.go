package domain

import "fmt"

type TravelerName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type Phone struct {
	DeviceType         string `json:"deviceType"`
	CountryCallingCode string `json:"countryCallingCode"`
	Number             string `json:"number"`
}

// ContactInput is the contact block supplied by the caller. CountryCode and
// PhoneNumber are only used to build a phone when Phones is empty.
type ContactInput struct {
	EmailAddress string  `json:"emailAddress"`
	Phones       []Phone `json:"phones"`
	CountryCode  string  `json:"countryCode,omitempty"`
	PhoneNumber  string  `json:"phoneNumber,omitempty"`
}

type SeatSelection struct {
	Number string `json:"number,omitempty"`
	Price  string `json:"price,omitempty"`
}

// TravelerInput is a traveler as submitted by the caller. It is never
// persisted as-is.
type TravelerInput struct {
	Name                    TravelerName   `json:"name"`
	DateOfBirth             string         `json:"dateOfBirth"`
	Gender                  string         `json:"gender"`
	Contact                 ContactInput   `json:"contact"`
	PassportNumber          string         `json:"passportNumber,omitempty"`
	PassportExpiry          string         `json:"passportExpiry,omitempty"`
	PassportIssuanceCountry string         `json:"passportIssuanceCountry,omitempty"`
	Nationality             string         `json:"nationality,omitempty"`
	Seat                    *SeatSelection `json:"seat,omitempty"`
}

// Validate enforces the fields the order endpoint cannot do without.
func (t TravelerInput) Validate(index int) error {
	switch {
	case t.Name.FirstName == "":
		return NewMissingRequiredFieldError(fmt.Sprintf("travelers[%d].name.firstName", index))
	case t.Name.LastName == "":
		return NewMissingRequiredFieldError(fmt.Sprintf("travelers[%d].name.lastName", index))
	case t.Contact.EmailAddress == "":
		return NewMissingRequiredFieldError(fmt.Sprintf("travelers[%d].contact.emailAddress", index))
	case len(t.Contact.Phones) == 0:
		return NewMissingRequiredFieldError(fmt.Sprintf("travelers[%d].contact.phones", index))
	}
	return nil
}

// HasPassport reports whether every passport field needed for an
// international booking was supplied.
func (t TravelerInput) HasPassport() bool {
	return t.PassportNumber != "" && t.PassportExpiry != "" && t.PassportIssuanceCountry != ""
}

type Contact struct {
	EmailAddress string  `json:"emailAddress"`
	Phones       []Phone `json:"phones"`
}

type Document struct {
	DocumentType    string `json:"documentType"`
	Number          string `json:"number"`
	ExpiryDate      string `json:"expiryDate"`
	IssuanceCountry string `json:"issuanceCountry"`
	Nationality     string `json:"nationality"`
	Holder          bool   `json:"holder"`
}

// Traveler is the shape the order endpoint expects. Documents is only present
// on international itineraries.
type Traveler struct {
	ID          string       `json:"id"`
	DateOfBirth string       `json:"dateOfBirth"`
	Gender      string       `json:"gender"`
	Name        TravelerName `json:"name"`
	Contact     Contact      `json:"contact"`
	Documents   []Document   `json:"documents,omitempty"`
}
