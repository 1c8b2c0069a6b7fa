package domain

// UnknownCountry is returned by country resolution whenever the country of an
// airport cannot be determined. Routes touching an unknown country are treated
// as domestic.
const UnknownCountry = "UNKNOWN"

// Sandbox defaults accepted by the inventory test environment. They are
// substituted when a traveler omits the corresponding value on the
// order-creation path and are not safe for production bookings.
const (
	DefaultCountryCallingCode      = "91"
	DefaultPhoneDeviceType         = "MOBILE"
	DefaultPassportNumber          = "P0000000"
	DefaultPassportExpiry          = "2030-01-01"
	DefaultPassportIssuanceCountry = "IN"
	DefaultNationality             = "IN"
	DocumentTypePassport           = "PASSPORT"
)

// SandboxDefaults groups the fallback values used when assembling travelers.
type SandboxDefaults struct {
	CountryCallingCode      string
	PassportNumber          string
	PassportExpiry          string
	PassportIssuanceCountry string
	Nationality             string
}

// DefaultSandboxDefaults returns the built-in fallback values.
func DefaultSandboxDefaults() SandboxDefaults {
	return SandboxDefaults{
		CountryCallingCode:      DefaultCountryCallingCode,
		PassportNumber:          DefaultPassportNumber,
		PassportExpiry:          DefaultPassportExpiry,
		PassportIssuanceCountry: DefaultPassportIssuanceCountry,
		Nationality:             DefaultNationality,
	}
}

// WithFallbacks fills empty fields from the built-in defaults.
func (d SandboxDefaults) WithFallbacks() SandboxDefaults {
	def := DefaultSandboxDefaults()
	if d.CountryCallingCode == "" {
		d.CountryCallingCode = def.CountryCallingCode
	}
	if d.PassportNumber == "" {
		d.PassportNumber = def.PassportNumber
	}
	if d.PassportExpiry == "" {
		d.PassportExpiry = def.PassportExpiry
	}
	if d.PassportIssuanceCountry == "" {
		d.PassportIssuanceCountry = def.PassportIssuanceCountry
	}
	if d.Nationality == "" {
		d.Nationality = def.Nationality
	}
	return d
}
