package layout

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seat-allocation/internal/model"
)

// seat builds an available standard seat for test input.
func seat(row string, number int) model.Seat {
	return model.Seat{
		ID:         model.SeatID{Row: row, Number: number},
		Type:       model.SeatStandard,
		Status:     model.StatusAvailable,
		PriceCents: 1200,
	}
}

func TestBuild_FillsGapsWithInactive(t *testing.T) {
	l := model.Layout{RowCount: 1, SeatsPerRow: []int{3}}
	g, err := Build(l, []model.Seat{seat("A", 1), seat("A", 3)})
	require.NoError(t, err)

	require.Equal(t, 1, g.Rows())
	require.Equal(t, 3, g.Cols())

	assert.Equal(t, model.StatusAvailable, g.At(0, 0).Status)
	assert.True(t, g.At(0, 1).Inactive(), "missing A2 must become a placeholder")
	assert.Equal(t, model.SeatID{Row: "A", Number: 2}, g.At(0, 1).ID)
	assert.Equal(t, model.StatusAvailable, g.At(0, 2).Status)
}

func TestBuild_EveryPositionHoldsOneCell(t *testing.T) {
	l := model.Layout{RowCount: 3, SeatsPerRow: []int{4, 4, 4}}
	var auth []model.Seat
	for r := 0; r < 3; r++ {
		for n := 1; n <= 4; n++ {
			auth = append(auth, seat(model.RowLabel(r), n))
		}
	}
	g, err := Build(l, auth)
	require.NoError(t, err)

	assert.Len(t, g.Seats(), 12)
	rows := g.Rows2D()
	require.Len(t, rows, 3)
	for r, row := range rows {
		require.Len(t, row, 4, "row %d", r)
		for c, cell := range row {
			assert.Equal(t, model.SeatID{Row: model.RowLabel(r), Number: c + 1}, cell.ID)
		}
	}
}

func TestBuild_MissingRowIsAllPlaceholders(t *testing.T) {
	l := model.Layout{RowCount: 2, SeatsPerRow: []int{2, 2}}
	g, err := Build(l, []model.Seat{seat("A", 1), seat("A", 2)})
	require.NoError(t, err)

	for c := 0; c < 2; c++ {
		assert.True(t, g.At(1, c).Inactive(), "row B col %d", c)
	}
	assert.Len(t, g.Seats(), 2)
}

func TestBuild_RowOutsideLayout(t *testing.T) {
	l := model.Layout{RowCount: 2, SeatsPerRow: []int{2, 2}}
	_, err := Build(l, []model.Seat{seat("C", 1)})
	require.ErrorIs(t, err, ErrLayoutMismatch)
}

func TestBuild_InvalidLayout(t *testing.T) {
	_, err := Build(model.Layout{RowCount: 0}, nil)
	require.ErrorIs(t, err, ErrLayoutMismatch)
}

func TestBuild_PreservesSeatData(t *testing.T) {
	l := model.Layout{RowCount: 1, SeatsPerRow: []int{2}}
	vip := model.Seat{
		ID:         model.SeatID{Row: "A", Number: 2},
		Type:       model.SeatVIP,
		Status:     model.StatusOccupied,
		PriceCents: 2000,
	}
	g, err := Build(l, []model.Seat{seat("A", 1), vip})
	require.NoError(t, err)
	assert.Equal(t, vip, g.At(0, 1))
}

func TestGenerate_Deterministic(t *testing.T) {
	l := model.Layout{RowCount: 8, SeatsPerRow: []int{10, 10, 12, 12, 12, 12, 10, 10}}
	g1, err := Generate(l, nil, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	g2, err := Generate(l, nil, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	assert.Equal(t, g1.Rows2D(), g2.Rows2D())
}

func TestGenerate_CoupleSeatsSpanTwoSlots(t *testing.T) {
	l := model.Layout{RowCount: 4, SeatsPerRow: []int{4, 4, 4, 4}}
	g, err := Generate(l, nil, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	back := 3
	assert.Equal(t, model.SeatCouple, g.At(back, 0).Type)
	assert.True(t, g.At(back, 1).Inactive(), "slot covered by the couple seat must be a placeholder")
	assert.Equal(t, model.SeatCouple, g.At(back, 2).Type)
	assert.True(t, g.At(back, 3).Inactive())
}

func TestGenerate_WheelchairPlacement(t *testing.T) {
	l := model.Layout{RowCount: 4, SeatsPerRow: []int{4, 4, 4, 4}}
	g, err := Generate(l, nil, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	// Middle rows get wheelchair positions at the row edges.
	assert.Equal(t, model.SeatWheelchair, g.At(1, 0).Type)
	assert.Equal(t, model.SeatWheelchair, g.At(1, 3).Type)
	// The first row downgrades edge seats to standard.
	assert.Equal(t, model.SeatStandard, g.At(0, 0).Type)
	assert.Equal(t, model.SeatStandard, g.At(0, 3).Type)
}

func TestGenerate_VIPBand(t *testing.T) {
	l := model.Layout{RowCount: 8, SeatsPerRow: []int{8, 8, 8, 8, 8, 8, 8, 8}}
	g, err := Generate(l, nil, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	// Rows 2..5, middle half of the row.
	assert.Equal(t, model.SeatVIP, g.At(3, 3).Type)
	assert.Equal(t, model.SeatVIP, g.At(3, 4).Type)
	assert.Equal(t, model.SeatWheelchair, g.At(3, 0).Type)
	assert.NotEqual(t, model.SeatVIP, g.At(0, 3).Type)
	assert.NotEqual(t, model.SeatVIP, g.At(6, 3).Type)
}

func TestGenerate_PricesFollowTable(t *testing.T) {
	l := model.Layout{RowCount: 8, SeatsPerRow: []int{8, 8, 8, 8, 8, 8, 8, 8}}
	prices := DefaultPrices()
	g, err := Generate(l, prices, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	for _, s := range g.Seats() {
		assert.Equal(t, prices[s.Type], s.PriceCents, "seat %s", s.ID)
		assert.Contains(t, []model.SeatStatus{model.StatusAvailable, model.StatusOccupied}, s.Status)
	}
}

func TestGenerate_RaggedRowsPadded(t *testing.T) {
	l := model.Layout{RowCount: 3, SeatsPerRow: []int{4, 2, 4}}
	g, err := Generate(l, nil, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	require.Equal(t, 4, g.Cols())
	assert.True(t, g.At(1, 2).Inactive())
	assert.True(t, g.At(1, 3).Inactive())
}

func TestGrid_WithStatuses(t *testing.T) {
	l := model.Layout{RowCount: 1, SeatsPerRow: []int{3}}
	g, err := Build(l, []model.Seat{seat("A", 1), seat("A", 2), seat("A", 3)})
	require.NoError(t, err)

	live := g.WithStatuses(map[model.SeatID]model.SeatStatus{
		{Row: "A", Number: 2}: model.StatusHeld,
	})
	assert.Equal(t, model.StatusHeld, live.At(0, 1).Status)
	// The original grid stays untouched.
	assert.Equal(t, model.StatusAvailable, g.At(0, 1).Status)
	assert.Equal(t, 2, live.AvailableCount())
}
