package layout

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/iliyamo/seat-allocation/internal/model"
)

// ErrLayoutMismatch is returned by Build when an authoritative seat
// references a row that does not exist in the layout.  The grid cannot
// be constructed from inconsistent inputs, so this is fatal for the
// showtime load.
var ErrLayoutMismatch = errors.New("seat row not present in layout")

// PriceTable maps seat types to their flat per-type price in cents.
// Pricing beyond this lookup is out of scope for the allocation core.
type PriceTable map[model.SeatType]uint32

// DefaultPrices returns the price table used when the showtime
// configuration does not supply one.
func DefaultPrices() PriceTable {
	return PriceTable{
		model.SeatStandard:   1200,
		model.SeatVIP:        2000,
		model.SeatCouple:     2200,
		model.SeatWheelchair: 1200,
	}
}

// Build constructs a grid from the hall layout and the authoritative
// seat records fetched for a showtime.  Seats are grouped by row and
// sorted by seat number; every position from 1 up to the row's highest
// authoritative seat number that lacks a record becomes an INACTIVE
// placeholder (a seat deliberately hidden or removed from sale) rather
// than an error.  Rows present in the layout but absent from the
// authoritative data are filled entirely with placeholders.
//
// Build is a pure function of its inputs.  It returns ErrLayoutMismatch
// when an authoritative seat names a row outside the layout.
func Build(l model.Layout, authoritative []model.Seat) (*Grid, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: invalid layout", ErrLayoutMismatch)
	}
	// Group the authoritative seats by zero-based row index.  Row
	// labels outside the layout are a construction-time failure.
	byRow := make(map[int]map[int]model.Seat, l.RowCount)
	maxNumber := make(map[int]int, l.RowCount)
	for _, s := range authoritative {
		idx, ok := model.RowIndex(s.ID.Row)
		if !ok || idx >= l.RowCount {
			return nil, fmt.Errorf("%w: row %q", ErrLayoutMismatch, s.ID.Row)
		}
		if byRow[idx] == nil {
			byRow[idx] = make(map[int]model.Seat)
		}
		byRow[idx][s.ID.Number] = s
		if s.ID.Number > maxNumber[idx] {
			maxNumber[idx] = s.ID.Number
		}
	}
	// Column count is the widest row seen, falling back to the layout
	// when the authoritative data is narrower.
	cols := l.MaxCols()
	for _, n := range maxNumber {
		if n > cols {
			cols = n
		}
	}
	g := &Grid{rows: l.RowCount, cols: cols, cells: make([]model.Seat, l.RowCount*cols)}
	for r := 0; r < l.RowCount; r++ {
		label := model.RowLabel(r)
		for c := 0; c < cols; c++ {
			number := c + 1
			if s, ok := byRow[r][number]; ok {
				g.cells[r*cols+c] = s
			} else {
				g.cells[r*cols+c] = inactiveCell(label, number)
			}
		}
	}
	return g, nil
}

// Generate builds a synthetic grid directly from the layout for
// preview and demo showtimes that have no authoritative seat records.
//
// Type assignment is deterministic in the row and column indices:
//   - the middle half of each row in the centered band of rows (from
//     row 2 up to rowCount-3) is VIP;
//   - the back row alternates COUPLE seats, each spanning two column
//     slots — the covered slot becomes an INACTIVE placeholder so the
//     pair is never sold twice;
//   - the first and last seat of each row is WHEELCHAIR, except in the
//     first and back rows where edge seats are downgraded to STANDARD
//     (an intentional simplification callers must preserve);
//   - everything else is STANDARD.
//
// Roughly 20% of the generated seats start OCCUPIED for demo realism,
// drawn from the caller-supplied random source so that previews are
// reproducible under a fixed seed.
func Generate(l model.Layout, prices PriceTable, rng *rand.Rand) (*Grid, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: invalid layout", ErrLayoutMismatch)
	}
	if prices == nil {
		prices = DefaultPrices()
	}
	cols := l.MaxCols()
	g := &Grid{rows: l.RowCount, cols: cols, cells: make([]model.Seat, l.RowCount*cols)}
	backRow := l.RowCount - 1
	for r := 0; r < l.RowCount; r++ {
		label := model.RowLabel(r)
		width := l.SeatsPerRow[r]
		c := 0
		for c < cols {
			number := c + 1
			if c >= width {
				g.cells[r*cols+c] = inactiveCell(label, number)
				c++
				continue
			}
			t := seatTypeFor(l, r, c, width, backRow)
			seat := model.Seat{
				ID:         model.SeatID{Row: label, Number: number},
				Type:       t,
				Status:     model.StatusAvailable,
				PriceCents: prices[t],
			}
			if rng.Float64() < 0.2 {
				seat.Status = model.StatusOccupied
			}
			g.cells[r*cols+c] = seat
			if t == model.SeatCouple && c+1 < width {
				// The couple seat covers the next column slot; mark it
				// inactive instead of placing a second seat there.
				g.cells[r*cols+c+1] = inactiveCell(label, number+1)
				c += 2
				continue
			}
			c++
		}
	}
	return g, nil
}

// seatTypeFor applies the deterministic type-assignment rule for
// synthetic grids.  See Generate for the full rule set.
func seatTypeFor(l model.Layout, row, col, width, backRow int) model.SeatType {
	// Couple seats live on the back row, one per pair of columns.
	if row == backRow && col+1 < width {
		return model.SeatCouple
	}
	// VIP band: rows 2 .. rowCount-3, middle half of the row.
	if row >= 2 && row <= l.RowCount-3 {
		if col >= width/4 && col < width-width/4 {
			return model.SeatVIP
		}
	}
	// Wheelchair positions sit at the row edges, but never in the
	// first or back row where they are downgraded to standard.
	if col == 0 || col == width-1 {
		if row == 0 || row == backRow {
			return model.SeatStandard
		}
		return model.SeatWheelchair
	}
	return model.SeatStandard
}
