package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/DanielPopoola/skybook-gateway/internal/domain"
)

var searchToday = time.Date(2026, 10, 16, 15, 0, 0, 0, time.UTC)

func TestSearchCriteria_Normalize(t *testing.T) {
	c := domain.SearchCriteria{From: " del", To: "bom ", Legs: []domain.SearchLeg{{From: "del", To: "dxb"}}}

	c.Normalize(20)

	assert.Equal(t, domain.TripOneWay, c.TripType)
	assert.Equal(t, 1, c.Adults)
	assert.Equal(t, 20, c.Max)
	assert.Equal(t, "DEL", c.From)
	assert.Equal(t, "BOM", c.To)
	assert.Equal(t, "DXB", c.Legs[0].To)
}

func TestSearchCriteria_Validate(t *testing.T) {
	valid := func() domain.SearchCriteria {
		return domain.SearchCriteria{TripType: domain.TripOneWay, From: "DEL", To: "BOM", Date: "2026-11-20", Adults: 1, Max: 20}
	}

	tests := []struct {
		name   string
		mutate func(*domain.SearchCriteria)
		code   string
	}{
		{"one way", func(c *domain.SearchCriteria) {}, ""},
		{"today is allowed", func(c *domain.SearchCriteria) { c.Date = "2026-10-16" }, ""},
		{"missing origin", func(c *domain.SearchCriteria) { c.From = "" }, domain.ErrCodeMissingRequiredField},
		{"missing date", func(c *domain.SearchCriteria) { c.Date = "" }, domain.ErrCodeMissingRequiredField},
		{"bad date", func(c *domain.SearchCriteria) { c.Date = "20-11-2026" }, domain.ErrCodeInvalidSearch},
		{"past date", func(c *domain.SearchCriteria) { c.Date = "2026-10-15" }, domain.ErrCodeInvalidSearch},
		{"too many adults", func(c *domain.SearchCriteria) { c.Adults = 10 }, domain.ErrCodeInvalidSearch},
		{"unknown trip type", func(c *domain.SearchCriteria) { c.TripType = "openjaw" }, domain.ErrCodeInvalidSearch},
		{"round trip without return", func(c *domain.SearchCriteria) { c.TripType = domain.TripRoundTrip }, domain.ErrCodeMissingRequiredField},
		{"round trip", func(c *domain.SearchCriteria) {
			c.TripType = domain.TripRoundTrip
			c.ReturnDate = "2026-11-27"
		}, ""},
		{"multicity without legs", func(c *domain.SearchCriteria) { c.TripType = domain.TripMulticity }, domain.ErrCodeMissingRequiredField},
		{"multicity leg without destination", func(c *domain.SearchCriteria) {
			c.TripType = domain.TripMulticity
			c.Legs = []domain.SearchLeg{{From: "DEL", Date: "2026-11-20"}}
		}, domain.ErrCodeInvalidSearch},
		{"multicity", func(c *domain.SearchCriteria) {
			c.TripType = domain.TripMulticity
			c.From, c.To, c.Date = "", "", ""
			c.Legs = []domain.SearchLeg{{From: "DEL", To: "DXB", Date: "2026-11-20"}, {From: "DXB", To: "LHR", Date: "2026-11-24"}}
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)

			err := c.Validate(searchToday)

			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, domain.IsErrorCode(err, tt.code), "got %v", err)
		})
	}
}

func TestSearchLeg_Route(t *testing.T) {
	assert.Equal(t, "DEL → DXB", domain.SearchLeg{From: "DEL", To: "DXB"}.Route())
}
