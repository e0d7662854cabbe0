package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seat-allocation/internal/layout"
	"github.com/iliyamo/seat-allocation/internal/model"
)

// grid3x4 builds a fully available 3x4 standard grid.
func grid3x4(t *testing.T, occupied ...model.SeatID) *layout.Grid {
	t.Helper()
	l := model.Layout{RowCount: 3, SeatsPerRow: []int{4, 4, 4}}
	var auth []model.Seat
	for r := 0; r < 3; r++ {
		for n := 1; n <= 4; n++ {
			s := model.Seat{
				ID:         model.SeatID{Row: model.RowLabel(r), Number: n},
				Type:       model.SeatStandard,
				Status:     model.StatusAvailable,
				PriceCents: 1200,
			}
			for _, id := range occupied {
				if s.ID == id {
					s.Status = model.StatusOccupied
				}
			}
			auth = append(auth, s)
		}
	}
	g, err := layout.Build(l, auth)
	require.NoError(t, err)
	return g
}

func labels(seats []model.Seat) []string {
	out := make([]string, len(seats))
	for i, s := range seats {
		out[i] = s.ID.String()
	}
	return out
}

func TestRecommend_ContiguousPairInBestRow(t *testing.T) {
	g := grid3x4(t)

	// With the stock preferences the front two rows are penalized, so
	// the back row wins and the run is anchored at its center seat.
	got, err := Recommend(g, 2, DefaultPreferences())
	require.NoError(t, err)
	assert.Equal(t, []string{"C2", "C3"}, labels(got))
}

func TestRecommend_Deterministic(t *testing.T) {
	g := grid3x4(t)
	first, err := Recommend(g, 3, DefaultPreferences())
	require.NoError(t, err)
	second, err := Recommend(g, 3, DefaultPreferences())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRecommend_SkipsUnavailableSeats(t *testing.T) {
	g := grid3x4(t, model.SeatID{Row: "C", Number: 2})

	got, err := Recommend(g, 2, DefaultPreferences())
	require.NoError(t, err)
	assert.Equal(t, []string{"C3", "C4"}, labels(got))
	for _, s := range got {
		assert.Equal(t, model.StatusAvailable, s.Status)
	}
}

func TestRecommend_FallbackWhenNoContiguousRun(t *testing.T) {
	// Seats A1, A3, B1, B3 with the middle column missing entirely, so
	// no two available seats are ever adjacent.
	l := model.Layout{RowCount: 2, SeatsPerRow: []int{3, 3}}
	auth := []model.Seat{
		{ID: model.SeatID{Row: "A", Number: 1}, Type: model.SeatStandard, Status: model.StatusAvailable, PriceCents: 1200},
		{ID: model.SeatID{Row: "A", Number: 3}, Type: model.SeatStandard, Status: model.StatusAvailable, PriceCents: 1200},
		{ID: model.SeatID{Row: "B", Number: 1}, Type: model.SeatStandard, Status: model.StatusAvailable, PriceCents: 1200},
		{ID: model.SeatID{Row: "B", Number: 3}, Type: model.SeatStandard, Status: model.StatusAvailable, PriceCents: 1200},
	}
	g, err := layout.Build(l, auth)
	require.NoError(t, err)

	got, err := Recommend(g, 2, DefaultPreferences())
	require.NoError(t, err)
	// Row A outscores row B; the tie between A1 and A3 breaks in grid
	// order because the sort is stable.
	assert.Equal(t, []string{"A1", "A3"}, labels(got))
}

func TestRecommend_InsufficientAvailability(t *testing.T) {
	g := grid3x4(t)

	_, err := Recommend(g, 13, DefaultPreferences())
	require.ErrorIs(t, err, ErrInsufficientAvailability)

	_, err = Recommend(g, 0, DefaultPreferences())
	require.ErrorIs(t, err, ErrInsufficientAvailability)
}

func TestRecommend_VIPBonus(t *testing.T) {
	l := model.Layout{RowCount: 1, SeatsPerRow: []int{3}}
	auth := []model.Seat{
		{ID: model.SeatID{Row: "A", Number: 1}, Type: model.SeatStandard, Status: model.StatusAvailable, PriceCents: 1200},
		{ID: model.SeatID{Row: "A", Number: 2}, Type: model.SeatVIP, Status: model.StatusAvailable, PriceCents: 2000},
		{ID: model.SeatID{Row: "A", Number: 3}, Type: model.SeatStandard, Status: model.StatusAvailable, PriceCents: 1200},
	}
	g, err := layout.Build(l, auth)
	require.NoError(t, err)

	// With every preference off, only the flat VIP bonus differentiates
	// the seats.
	got, err := Recommend(g, 1, Preferences{})
	require.NoError(t, err)
	assert.Equal(t, []string{"A2"}, labels(got))
}
