package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/DanielPopoola/skybook-gateway/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirmedOrder(t *testing.T, travelers int) *domain.ConfirmedOrder {
	t.Helper()
	order := &domain.ConfirmedOrder{
		ID:                "eJzTd9f3NjIJdzUGAAp%2fAiY=",
		AssociatedRecords: []domain.AssociatedRecord{{Reference: "KBZ3LT"}},
		FlightOffers:      []domain.FlightOffer{loadOffer(t)},
	}
	for i := 0; i < travelers; i++ {
		order.Travelers = append(order.Travelers, domain.Traveler{
			ID:      string(rune('1' + i)),
			Name:    domain.TravelerName{FirstName: "Asha", LastName: "Rao"},
			Contact: domain.Contact{EmailAddress: "asha@example.com"},
		})
	}
	order.OrderID = order.ID
	return order
}

func TestBuildFlightOrderRows_OneRowPerTravelerAndSegment(t *testing.T) {
	order := confirmedOrder(t, 2)
	now := time.Now()

	rows, skipped, err := domain.BuildFlightOrderRows(order, now)

	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, rows, 4)

	first := rows[0]
	assert.Equal(t, order.ID, first.OrderID)
	assert.Equal(t, "KBZ3LT", first.PNR)
	assert.Equal(t, "1", first.OfferID)
	assert.Equal(t, "DEL", first.DepartureAirport)
	assert.Equal(t, "AMD", first.ArrivalAirport)
	assert.Equal(t, time.Date(2026, 11, 20, 6, 0, 0, 0, time.UTC), first.DepartureTime)
	assert.True(t, decimal.RequireFromString("5480.00").Equal(first.TotalPrice))
	assert.Equal(t, "INR", first.Currency)
	assert.Equal(t, domain.OrderStatusPending, first.Status)
	assert.Equal(t, "BOM", rows[1].ArrivalAirport)
}

func TestBuildFlightOrderRows_SkipsIncompleteSegments(t *testing.T) {
	order := confirmedOrder(t, 1)
	segments := order.FlightOffers[0]["itineraries"].([]any)[0].(map[string]any)["segments"].([]any)
	delete(segments[1].(map[string]any)["arrival"].(map[string]any), "at")

	rows, skipped, err := domain.BuildFlightOrderRows(order, time.Now())

	require.NoError(t, err)
	assert.Len(t, rows, 1)
	require.Len(t, skipped, 1)
	assert.Equal(t, 1, skipped[0].SegmentIndex)
}

func TestBuildFlightOrderRows_DefaultsCurrency(t *testing.T) {
	order := confirmedOrder(t, 1)
	order.FlightOffers[0]["price"] = map[string]any{"grandTotal": "100.50"}

	rows, _, err := domain.BuildFlightOrderRows(order, time.Now())

	require.NoError(t, err)
	assert.Equal(t, "USD", rows[0].Currency)
}

func TestBuildFlightOrderRows_RequiresOffer(t *testing.T) {
	_, _, err := domain.BuildFlightOrderRows(&domain.ConfirmedOrder{ID: "x"}, time.Now())

	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidOffer))
}

func TestTravelerInput_Validate(t *testing.T) {
	valid := domain.TravelerInput{
		Name: domain.TravelerName{FirstName: "A", LastName: "B"},
		Contact: domain.ContactInput{
			EmailAddress: "a@b.com",
			Phones:       []domain.Phone{{DeviceType: "MOBILE", CountryCallingCode: "91", Number: "9876543210"}},
		},
	}
	require.NoError(t, valid.Validate(0))

	noPhone := valid
	noPhone.Contact.Phones = nil
	err := noPhone.Validate(0)
	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMissingRequiredField))

	noLast := valid
	noLast.Name.LastName = ""
	assert.ErrorContains(t, noLast.Validate(2), "travelers[2].name.lastName")
}

const upstreamOrder = `{
	"type": "flight-order",
	"id": "eJzTd9f3",
	"queuingOfficeId": "NCE1A0955",
	"associatedRecords": [{"reference": "KBZ3LT", "originSystemCode": "GDS", "flightOfferId": "1"}],
	"flightOffers": [{"id": "1", "price": {"currency": "INR", "grandTotal": "5480.00"}}],
	"travelers": [{
		"id": "1",
		"dateOfBirth": "1990-04-12",
		"name": {"firstName": "ASHA", "lastName": "RAO"},
		"documents": [{"documentType": "PASSPORT", "number": "Z1234567", "birthPlace": "Pune", "holder": true}]
	}],
	"ticketingAgreement": {"option": "DELAY_TO_CANCEL", "delay": "6D"},
	"contacts": [{"purpose": "STANDARD", "addresseeName": {"firstName": "ASHA"}}]
}`

func TestConfirmedOrder_EncodesUpstreamDocumentWithOrderID(t *testing.T) {
	var order domain.ConfirmedOrder
	require.NoError(t, json.Unmarshal([]byte(upstreamOrder), &order))
	assert.Equal(t, "KBZ3LT", order.PNR())
	assert.Equal(t, "ASHA", order.Travelers[0].Name.FirstName)

	order.OrderID = order.ID
	out, err := json.Marshal(&order)
	require.NoError(t, err)

	var got, want map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	require.NoError(t, json.Unmarshal([]byte(upstreamOrder), &want))
	want["order_id"] = "eJzTd9f3"
	assert.Equal(t, want, got)
}

func TestConfirmedOrder_EncodesTypedFieldsWithoutUpstreamDocument(t *testing.T) {
	order := confirmedOrder(t, 1)

	out, err := json.Marshal(order)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, order.ID, got["order_id"])
	assert.Equal(t, order.ID, got["id"])
	assert.Len(t, got["travelers"], 1)
}
