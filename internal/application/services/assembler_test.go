package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielPopoola/skybook-gateway/internal/application/services"
	"github.com/DanielPopoola/skybook-gateway/internal/application/services/testhelpers"
	"github.com/DanielPopoola/skybook-gateway/internal/domain"
)

func newAssembler() *services.TravelerAssembler {
	store := newMemoryCountryStore(map[string]string{
		"DEL": "IN", "AMD": "IN", "BOM": "IN", "LHR": "GB",
	})
	resolver := newResolver(store, &mockInventory{})
	return services.NewTravelerAssembler(resolver, domain.DefaultSandboxDefaults(), testhelpers.DiscardLogger())
}

func TestAssemble_SequentialIDsInInputOrder(t *testing.T) {
	inputs := []domain.TravelerInput{
		testhelpers.NewTravelerInput("Zed", "Last", "z@example.com"),
		testhelpers.NewTravelerInput("Amy", "First", "a@example.com"),
		testhelpers.NewTravelerInput("Mia", "Middle", "m@example.com"),
	}

	travelers := newAssembler().Assemble(context.Background(), inputs, testhelpers.OneWayDELtoBOM())

	require.Len(t, travelers, 3)
	for i, tr := range travelers {
		assert.Equal(t, []string{"1", "2", "3"}[i], tr.ID)
		assert.Equal(t, inputs[i].Name, tr.Name)
	}
}

func TestAssemble_DomesticHasNoDocuments(t *testing.T) {
	inputs := []domain.TravelerInput{testhelpers.NewTravelerInput("A", "B", "a@b.com")}
	inputs[0].PassportNumber = "Z9999999"

	travelers := newAssembler().Assemble(context.Background(), inputs, testhelpers.OneWayDELtoBOM())

	assert.Nil(t, travelers[0].Documents)
}

func TestAssemble_InternationalAddsOnePassport(t *testing.T) {
	supplied := testhelpers.NewTravelerInput("A", "B", "a@b.com")
	supplied.PassportNumber = "Z9999999"
	supplied.PassportExpiry = "2031-05-05"
	supplied.PassportIssuanceCountry = "GB"
	supplied.Nationality = "GB"
	bare := testhelpers.NewTravelerInput("C", "D", "c@d.com")

	travelers := newAssembler().Assemble(context.Background(), []domain.TravelerInput{supplied, bare}, testhelpers.OneWayDELtoLHR())

	require.Len(t, travelers[0].Documents, 1)
	assert.Equal(t, domain.Document{
		DocumentType:    "PASSPORT",
		Number:          "Z9999999",
		ExpiryDate:      "2031-05-05",
		IssuanceCountry: "GB",
		Nationality:     "GB",
		Holder:          true,
	}, travelers[0].Documents[0])

	require.Len(t, travelers[1].Documents, 1)
	assert.Equal(t, domain.Document{
		DocumentType:    "PASSPORT",
		Number:          "P0000000",
		ExpiryDate:      "2030-01-01",
		IssuanceCountry: "IN",
		Nationality:     "IN",
		Holder:          true,
	}, travelers[1].Documents[0])
}

func TestAssemble_SynthesizesPhone(t *testing.T) {
	noPhone := testhelpers.NewTravelerInput("A", "B", "a@b.com")
	noPhone.Contact.Phones = nil
	withCode := noPhone
	withCode.Contact.CountryCode = "44"
	withCode.Contact.PhoneNumber = "7700900123"

	travelers := newAssembler().Assemble(context.Background(), []domain.TravelerInput{noPhone, withCode}, testhelpers.OneWayDELtoBOM())

	assert.Equal(t, []domain.Phone{{DeviceType: "MOBILE", CountryCallingCode: "91", Number: ""}}, travelers[0].Contact.Phones)
	assert.Equal(t, []domain.Phone{{DeviceType: "MOBILE", CountryCallingCode: "44", Number: "7700900123"}}, travelers[1].Contact.Phones)
}
