package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/DanielPopoola/skybook-gateway/internal/application"
)

type AirlineNameRepository struct {
	q Executor
}

func NewAirlineNameRepository(db *DB) *AirlineNameRepository {
	return &AirlineNameRepository{q: db.Pool}
}

func (r *AirlineNameRepository) FindName(ctx context.Context, carrierCode string) (string, error) {
	query := `SELECT name FROM airline_names WHERE carrier_code = $1`

	var name string
	err := r.q.QueryRow(ctx, query, normalizeCarrier(carrierCode)).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", application.ErrAirlineNotFound
		}
		return "", fmt.Errorf("failed to find airline name: %w", err)
	}
	return name, nil
}

// Save keeps the first name stored for a carrier.
func (r *AirlineNameRepository) Save(ctx context.Context, carrierCode, name string) error {
	query := `
		INSERT INTO airline_names (carrier_code, name)
		VALUES ($1, $2)
		ON CONFLICT (carrier_code) DO NOTHING
	`

	if _, err := r.q.Exec(ctx, query, normalizeCarrier(carrierCode), name); err != nil {
		return fmt.Errorf("failed to save airline name: %w", err)
	}
	return nil
}

func normalizeCarrier(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
