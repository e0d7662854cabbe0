// Package layout builds seat grids for a showtime from the hall's
// static layout and the authoritative seat records loaded for that
// showtime.  Grids are immutable once built; the recommender and the
// HTTP layer only ever read them.
package layout

import (
	"github.com/iliyamo/seat-allocation/internal/model"
)

// Grid is a rows × cols arrangement of seat cells backed by a single
// flat slice indexed by (row, col).  Every position holds exactly one
// cell: either a real seat or an INACTIVE placeholder.  Placeholders
// keep column alignment stable across rows with differing real seat
// counts.
type Grid struct {
	rows  int
	cols  int
	cells []model.Seat
}

// Rows returns the number of rows in the grid.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns in the grid.
func (g *Grid) Cols() int { return g.cols }

// At returns the cell at the given zero-based row and column.  It
// panics when the position is out of range, mirroring slice indexing.
func (g *Grid) At(row, col int) model.Seat {
	return g.cells[row*g.cols+col]
}

// Seats returns all real (non-inactive) seats in grid order: row by
// row, left to right.  The slice is freshly allocated so callers may
// reorder it without affecting the grid.
func (g *Grid) Seats() []model.Seat {
	out := make([]model.Seat, 0, len(g.cells))
	for _, s := range g.cells {
		if !s.Inactive() {
			out = append(out, s)
		}
	}
	return out
}

// Rows2D renders the grid as a slice of rows for JSON responses.
// Inactive placeholders are included so that clients can draw gaps.
func (g *Grid) Rows2D() [][]model.Seat {
	out := make([][]model.Seat, g.rows)
	for r := 0; r < g.rows; r++ {
		out[r] = append([]model.Seat(nil), g.cells[r*g.cols:(r+1)*g.cols]...)
	}
	return out
}

// AvailableCount returns the number of seats currently AVAILABLE.
func (g *Grid) AvailableCount() int {
	n := 0
	for _, s := range g.cells {
		if s.Status == model.StatusAvailable {
			n++
		}
	}
	return n
}

// WithStatuses returns a copy of the grid with seat statuses replaced
// from the given map.  Seats absent from the map keep their status;
// inactive placeholders are never touched.  This is how a snapshot of
// the reservation store is projected onto a grid for rendering.
func (g *Grid) WithStatuses(statuses map[model.SeatID]model.SeatStatus) *Grid {
	cells := append([]model.Seat(nil), g.cells...)
	for i := range cells {
		if cells[i].Inactive() {
			continue
		}
		if st, ok := statuses[cells[i].ID]; ok {
			cells[i].Status = st
		}
	}
	return &Grid{rows: g.rows, cols: g.cols, cells: cells}
}

// inactiveCell builds the placeholder cell for a position without a
// sellable seat.  Placeholders carry their position so that clients
// can still address the cell, but have no type or price.
func inactiveCell(row string, number int) model.Seat {
	return model.Seat{
		ID:     model.SeatID{Row: row, Number: number},
		Status: model.StatusInactive,
	}
}
