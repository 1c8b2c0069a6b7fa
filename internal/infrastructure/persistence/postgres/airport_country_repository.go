package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/DanielPopoola/skybook-gateway/internal/application"
)

type AirportCountryRepository struct {
	q Executor
}

func NewAirportCountryRepository(db *DB) *AirportCountryRepository {
	return &AirportCountryRepository{q: db.Pool}
}

func (r *AirportCountryRepository) FindCountry(ctx context.Context, iataCode string) (string, error) {
	query := `SELECT country_code FROM airport_countries WHERE iata_code = $1`

	var country string
	err := r.q.QueryRow(ctx, query, normalizeIATA(iataCode)).Scan(&country)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", application.ErrLocationNotFound
		}
		return "", fmt.Errorf("failed to find airport country: %w", err)
	}
	return country, nil
}

// Save stores the mapping once. Rows are never updated, so a concurrent
// writer that got there first wins.
func (r *AirportCountryRepository) Save(ctx context.Context, iataCode, countryCode string) error {
	query := `
		INSERT INTO airport_countries (iata_code, country_code)
		VALUES ($1, $2)
		ON CONFLICT (iata_code) DO NOTHING
	`

	if _, err := r.q.Exec(ctx, query, normalizeIATA(iataCode), countryCode); err != nil {
		return fmt.Errorf("failed to save airport country: %w", err)
	}
	return nil
}

func normalizeIATA(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
