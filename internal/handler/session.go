package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-allocation/internal/model"
	"github.com/iliyamo/seat-allocation/internal/session"
	"github.com/iliyamo/seat-allocation/internal/store"
)

// sessionSummary is the response shape for session state and for
// select/deselect results: the selection in pick order plus derived
// pricing and the remaining hold window.
type sessionSummary struct {
	SessionID        string       `json:"session_id"`
	ShowtimeID       uint64       `json:"showtime_id"`
	Selected         []model.Seat `json:"selected"`
	SubtotalCents    uint32       `json:"subtotal_cents"`
	FeeCents         uint32       `json:"fee_cents"`
	TotalCents       uint32       `json:"total_cents"`
	RemainingSeconds int64        `json:"remaining_seconds"`
	ExpiresAt        string       `json:"expires_at"`
}

func summarize(s *session.Session) sessionSummary {
	now := time.Now().UTC()
	selected := s.Selected
	if selected == nil {
		selected = []model.Seat{}
	}
	return sessionSummary{
		SessionID:        s.ID,
		ShowtimeID:       s.ShowtimeID,
		Selected:         selected,
		SubtotalCents:    s.SubtotalCents(),
		FeeCents:         session.ServiceFeeCents,
		TotalCents:       s.TotalCents(),
		RemainingSeconds: int64(s.TimeRemaining(now) / time.Second),
		ExpiresAt:        s.ExpiresAt.Format(time.RFC3339),
	}
}

// sessionError maps session and store failures onto HTTP responses.
// Used by SelectSeat and DeselectSeat, which share a failure surface.
func sessionError(c echo.Context, err error) error {
	var unavail *store.SeatUnavailableError
	var stale *store.NotHolderError
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	case errors.Is(err, session.ErrSessionExpired):
		return c.JSON(http.StatusConflict, echo.Map{"error": "session expired, start a new one"})
	case errors.Is(err, session.ErrCapacityExceeded):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat limit reached for session"})
	case errors.As(err, &unavail):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":       "seat is unavailable",
			"unavailable": idLabels(unavail.Conflicting),
		})
	case errors.As(err, &stale):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "seat not held by this session, refresh the grid",
			"stale": idLabels(stale.Seats),
		})
	case errors.Is(err, store.ErrLockTimeout):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "allocation busy, retry"})
	case errors.Is(err, store.ErrShowtimeNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session operation failed"})
}

// GetSession handles GET /v1/session.  It returns the calling
// session's current selection and pricing.  Expired sessions are still
// rendered so the UI can show the terminal state.
func (h *BookingHandler) GetSession(c echo.Context) error {
	sessionID, err := getSessionID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	s, err := h.Sessions.Get(sessionID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	return c.JSON(http.StatusOK, summarize(s))
}

// SelectSeat handles POST /v1/session/select with body {"seat":"A5"}.
// The seat cap is validated before the store is touched, so a rejected
// ninth seat never leaves a stray hold behind.
func (h *BookingHandler) SelectSeat(c echo.Context) error {
	sessionID, err := getSessionID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Seat string `json:"seat"`
	}
	if err := c.Bind(&body); err != nil || body.Seat == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat is required"})
	}
	seatID, err := model.ParseSeatID(body.Seat)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	s, err := h.Sessions.Select(c.Request().Context(), sessionID, seatID)
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(http.StatusOK, summarize(s))
}

// DeselectSeat handles POST /v1/session/deselect with body
// {"seat":"A5"}.  Deselecting a seat that is not in the selection is a
// no-op and still returns the summary.
func (h *BookingHandler) DeselectSeat(c echo.Context) error {
	sessionID, err := getSessionID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Seat string `json:"seat"`
	}
	if err := c.Bind(&body); err != nil || body.Seat == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat is required"})
	}
	seatID, err := model.ParseSeatID(body.Seat)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	s, err := h.Sessions.Deselect(c.Request().Context(), sessionID, seatID)
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(http.StatusOK, summarize(s))
}

// CancelSession handles DELETE /v1/session.  Every hold the session
// still owns is released and the session is forgotten.  Cancelling is
// idempotent: a second call returns 204 as well.
func (h *BookingHandler) CancelSession(c echo.Context) error {
	sessionID, err := getSessionID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Sessions.Cancel(c.Request().Context(), sessionID); err != nil {
		return sessionError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
