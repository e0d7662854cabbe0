package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/seat-allocation/internal/model"
)

// SeatRepo provides data access to the showtime_seats table.  One row
// exists per sellable seat per showtime, keyed by (showtime_id,
// row_label, seat_number).  The in-memory reservation store is
// authoritative while the service runs; this repository seeds it at
// showtime load and records confirmed purchases durably.  All
// timestamps are stored in UTC.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo returns a SeatRepo bound to the given database.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// GetByShowtime returns all seat records for a showtime ordered by row
// label then seat number.  The result feeds the grid builder as the
// authoritative seat list.
func (r *SeatRepo) GetByShowtime(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
	const q = `SELECT row_label, seat_number, seat_type, status, price_cents
	           FROM showtime_seats
	           WHERE showtime_id = ?
	           ORDER BY row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, q, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []model.Seat
	for rows.Next() {
		var s model.Seat
		var row string
		var number int
		if err := rows.Scan(&row, &number, &s.Type, &s.Status, &s.PriceCents); err != nil {
			return nil, err
		}
		s.ID = model.SeatID{Row: row, Number: number}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

// CreateBulk inserts seat records for a showtime in a single
// statement.  Passing an empty slice has no effect and returns nil.
// Used when a showtime is provisioned from a generated grid.
func (r *SeatRepo) CreateBulk(ctx context.Context, showtimeID uint64, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO showtime_seats (showtime_id, row_label, seat_number, seat_type, status, price_cents) VALUES `
	args := make([]interface{}, 0, len(seats)*6)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		args = append(args, showtimeID, s.ID.Row, s.ID.Number, s.Type, s.Status, s.PriceCents)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// MarkOccupied writes a confirmed purchase through to the database:
// the named seats move to OCCUPIED with the confirming session
// recorded.  The statement is a single UPDATE so the write is atomic
// even without an explicit transaction.
func (r *SeatRepo) MarkOccupied(ctx context.Context, showtimeID uint64, ids []model.SeatID, sessionID string, confirmedAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE showtime_seats
	          SET status = ?, holding_session_id = ?, held_until = NULL, updated_at = ?
	          WHERE showtime_id = ? AND (`
	args := []interface{}{model.StatusOccupied, sessionID, confirmedAt.UTC().Format("2006-01-02 15:04:05"), showtimeID}
	for i, id := range ids {
		if i > 0 {
			query += " OR "
		}
		query += "(row_label = ? AND seat_number = ?)"
		args = append(args, id.Row, id.Number)
	}
	query += ")"
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}
