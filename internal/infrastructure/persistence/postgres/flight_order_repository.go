package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/DanielPopoola/skybook-gateway/internal/application"
	"github.com/DanielPopoola/skybook-gateway/internal/domain"
)

type FlightOrderRepository struct {
	db *DB
}

func NewFlightOrderRepository(db *DB) *FlightOrderRepository {
	return &FlightOrderRepository{db: db}
}

const insertFlightOrderSQL = `
	INSERT INTO flight_orders (
		id, order_id, pnr, offer_id, departure_airport, arrival_airport,
		departure_time, arrival_time, traveler_first_name, traveler_last_name,
		traveler_email, total_price, currency, status, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`

// InsertRows writes every row in one transaction. Either all rows commit or
// none do; the returned count is the number of rows committed.
func (r *FlightOrderRepository) InsertRows(ctx context.Context, rows []domain.FlightOrderRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	var written int
	err := r.db.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, row := range rows {
			m := toFlightOrderModel(row)
			if m.CreatedAt.IsZero() {
				m.CreatedAt = time.Now().UTC()
			}
			batch.Queue(insertFlightOrderSQL,
				m.ID,
				m.OrderID,
				m.PNR,
				m.OfferID,
				m.DepartureAirport,
				m.ArrivalAirport,
				m.DepartureTime,
				m.ArrivalTime,
				m.TravelerFirstName,
				m.TravelerLastName,
				m.TravelerEmail,
				m.TotalPrice,
				m.Currency,
				m.Status,
				m.CreatedAt,
			)
		}

		results := tx.SendBatch(ctx, batch)
		count := 0
		for i := range rows {
			tag, err := results.Exec()
			if err != nil {
				_ = results.Close()
				return fmt.Errorf("failed to insert flight order row %d: %w", i, err)
			}
			count += int(tag.RowsAffected())
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("failed to close insert batch: %w", err)
		}

		written = count
		return nil
	})
	if err != nil {
		return 0, err
	}

	return written, nil
}

func (r *FlightOrderRepository) FindByOrderID(ctx context.Context, orderID string) ([]domain.FlightOrderRow, error) {
	query := `
		SELECT id::text, order_id, pnr, offer_id, departure_airport, arrival_airport,
		       departure_time, arrival_time, traveler_first_name, traveler_last_name,
		       traveler_email, total_price::text, currency, status, created_at
		FROM flight_orders
		WHERE order_id = $1
		ORDER BY traveler_last_name, traveler_first_name, departure_time
	`

	rows, err := r.db.Pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query flight orders: %w", err)
	}
	defer rows.Close()

	var out []domain.FlightOrderRow
	for rows.Next() {
		var m flightOrderModel
		if err := rows.Scan(
			&m.ID,
			&m.OrderID,
			&m.PNR,
			&m.OfferID,
			&m.DepartureAirport,
			&m.ArrivalAirport,
			&m.DepartureTime,
			&m.ArrivalTime,
			&m.TravelerFirstName,
			&m.TravelerLastName,
			&m.TravelerEmail,
			&m.TotalPrice,
			&m.Currency,
			&m.Status,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan flight order: %w", err)
		}
		row, err := m.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate flight orders: %w", err)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", application.ErrFlightOrderNotFound, orderID)
	}
	return out, nil
}
