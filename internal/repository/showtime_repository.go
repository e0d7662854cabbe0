package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/seat-allocation/internal/model"
)

// Showtime mirrors the schema of the showtimes table: one scheduled
// screening with the dimensions of its hall.  SeatRows and SeatCols
// describe the hall's layout; the per-row seat counts come from the
// authoritative seat records, with the layout acting as the upper
// bound.
type Showtime struct {
	ID       uint64 // showtimes.id
	HallName string // showtimes.hall_name
	SeatRows uint32 // showtimes.seat_rows
	SeatCols uint32 // showtimes.seat_cols
}

// Layout derives the static hall layout from the showtime row: every
// row carries the hall's column count; gaps are represented by the
// absence of an authoritative seat record, not by the layout.
func (s Showtime) Layout() model.Layout {
	per := make([]int, s.SeatRows)
	for i := range per {
		per[i] = int(s.SeatCols)
	}
	return model.Layout{RowCount: int(s.SeatRows), SeatsPerRow: per}
}

// ShowtimeRepo provides read access to the showtimes table.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo returns a ShowtimeRepo bound to the given database.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions
// spanning multiple repositories.
func (r *ShowtimeRepo) DB() *sql.DB { return r.db }

// GetByID returns a single showtime, or ErrShowtimeNotFound when the
// ID does not exist.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*Showtime, error) {
	const q = `SELECT id, hall_name, seat_rows, seat_cols FROM showtimes WHERE id = ?`
	var st Showtime
	err := r.db.QueryRowContext(ctx, q, id).Scan(&st.ID, &st.HallName, &st.SeatRows, &st.SeatCols)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	return &st, nil
}

// ListIDs returns the IDs of every showtime, used at startup to load
// each showtime's seats into the in-memory registry.
func (r *ShowtimeRepo) ListIDs(ctx context.Context) ([]uint64, error) {
	const q = `SELECT id FROM showtimes ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
