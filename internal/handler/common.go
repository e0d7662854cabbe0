package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-allocation/internal/model"
)

// getSessionID extracts the booking session ID placed in the context
// by the SessionAuth middleware.
func getSessionID(c echo.Context) (string, error) {
	if v, ok := c.Get("session_id").(string); ok && v != "" {
		return v, nil
	}
	return "", errors.New("no session in context")
}

// parseShowtimeID parses the :id path parameter as a showtime ID.
func parseShowtimeID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid showtime id")
	}
	return id, nil
}

// parseSeatLabels converts a slice of compact labels ("A1", "B12")
// into seat IDs, deduplicating while preserving request order.
func parseSeatLabels(labels []string) ([]model.SeatID, error) {
	seen := make(map[model.SeatID]struct{}, len(labels))
	ids := make([]model.SeatID, 0, len(labels))
	for _, l := range labels {
		id, err := model.ParseSeatID(l)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// seatLabels renders seats as compact labels for responses and events.
func seatLabels(seats []model.Seat) []string {
	out := make([]string, len(seats))
	for i, s := range seats {
		out[i] = s.ID.String()
	}
	return out
}

// idLabels renders seat IDs as compact labels.
func idLabels(ids []model.SeatID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
