package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-allocation/internal/model"
	q "github.com/iliyamo/seat-allocation/internal/queue"
	"github.com/iliyamo/seat-allocation/internal/recommend"
	"github.com/iliyamo/seat-allocation/internal/repository"
	queue_publisher "github.com/iliyamo/seat-allocation/internal/service"
	"github.com/iliyamo/seat-allocation/internal/session"
	"github.com/iliyamo/seat-allocation/internal/store"
	"github.com/iliyamo/seat-allocation/internal/utils"
)

// BookingHandler exposes the seat allocation operations to the booking
// UI: grid snapshots, recommendations, holds, releases, confirms and
// the per-customer booking session.  The in-memory registry is the
// authority for seat state; the repositories persist confirmed
// purchases and may be nil when running without a database (demo
// mode).
type BookingHandler struct {
	Registry  *store.Registry          // per-showtime grids and stores
	Sessions  *session.Manager         // live booking sessions
	Showtimes *repository.ShowtimeRepo // showtime metadata (optional)
	Seats     *repository.SeatRepo     // confirmed-purchase write-through (optional)
	JWTSecret string                   // secret for session tokens
}

// NewBookingHandler constructs a BookingHandler.  Registry and
// Sessions must be non-nil; the repositories may be nil in demo mode.
func NewBookingHandler(reg *store.Registry, sessions *session.Manager, showtimes *repository.ShowtimeRepo, seats *repository.SeatRepo, jwtSecret string) *BookingHandler {
	if reg == nil || sessions == nil {
		panic("nil registry or session manager passed to NewBookingHandler")
	}
	return &BookingHandler{
		Registry:  reg,
		Sessions:  sessions,
		Showtimes: showtimes,
		Seats:     seats,
		JWTSecret: jwtSecret,
	}
}

// OpenSession handles POST /v1/showtimes/:id/sessions.  It creates a
// booking session for the showtime and returns a signed session token
// the client must present on all mutating calls.  The token expires
// together with the session's hold window.
func (h *BookingHandler) OpenSession(c echo.Context) error {
	showtimeID, err := parseShowtimeID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	s, err := h.Sessions.Open(showtimeID)
	if err != nil {
		if errors.Is(err, store.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to open session"})
	}
	tok, err := utils.NewSessionToken(h.JWTSecret, s.ID, showtimeID, s.ExpiresAt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to sign session token"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"session_id": s.ID,
		"token":      tok.Token,
		"expires_at": s.ExpiresAt.Format(time.RFC3339),
		"max_seats":  s.MaxSeats,
	})
}

// GetSeatGrid handles GET /v1/showtimes/:id/seats.  It returns the
// full grid for rendering, with live statuses projected from the
// reservation store so no seat is shown AVAILABLE while truly HELD.
// Inactive placeholder cells are included so clients can draw gaps.
func (h *BookingHandler) GetSeatGrid(c echo.Context) error {
	showtimeID, err := parseShowtimeID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	entry, err := h.Registry.Get(showtimeID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
	}
	statuses, err := entry.Store.Snapshot(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "allocation busy, retry"})
	}
	live := entry.Grid.WithStatuses(statuses)
	return c.JSON(http.StatusOK, echo.Map{
		"showtime_id": showtimeID,
		"rows":        live.Rows2D(),
		"available":   live.AvailableCount(),
	})
}

// Recommend handles GET /v1/showtimes/:id/recommend.  Query parameters:
// count (required, >=1) and the four boolean preference knobs, which
// default to the stock preference set when absent.  The result is
// advisory only; clients must still hold the seats.
func (h *BookingHandler) Recommend(c echo.Context) error {
	showtimeID, err := parseShowtimeID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	count, err := strconv.Atoi(c.QueryParam("count"))
	if err != nil || count < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "count must be a positive integer"})
	}
	entry, err := h.Registry.Get(showtimeID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
	}
	prefs := recommend.DefaultPreferences()
	if v := c.QueryParam("prefer_center"); v != "" {
		prefs.PreferCenter = v == "true" || v == "1"
	}
	if v := c.QueryParam("prefer_middle_rows"); v != "" {
		prefs.PreferMiddleRows = v == "true" || v == "1"
	}
	if v := c.QueryParam("avoid_front_rows"); v != "" {
		prefs.AvoidFrontRows = v == "true" || v == "1"
	}
	if v := c.QueryParam("avoid_back_rows"); v != "" {
		prefs.AvoidBackRows = v == "true" || v == "1"
	}
	statuses, err := entry.Store.Snapshot(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "allocation busy, retry"})
	}
	seats, err := recommend.Recommend(entry.Grid.WithStatuses(statuses), count, prefs)
	if err != nil {
		if errors.Is(err, recommend.ErrInsufficientAvailability) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "not enough available seats"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "recommendation failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": seats,
		"count": len(seats),
	})
}

// HoldSeats handles POST /v1/showtimes/:id/hold.  The body carries a
// "seats" array of compact labels.  The hold is all-or-nothing: when
// any seat is unavailable the response is 409 with the conflicting
// labels and no seat changed state.  The session's seat cap counts
// all of its existing holds, so bulk requests obey the same limit as
// one-at-a-time selection.
func (h *BookingHandler) HoldSeats(c echo.Context) error {
	sessionID, err := getSessionID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showtimeID, err := parseShowtimeID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	var body struct {
		Seats []string `json:"seats"`
	}
	if err := c.Bind(&body); err != nil || len(body.Seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats is required"})
	}
	ids, err := parseSeatLabels(body.Seats)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	entry, err := h.Registry.Get(showtimeID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
	}
	s, err := h.Sessions.Get(sessionID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	// The seat cap applies to the session's total holds, not just this
	// request, so bulk holds cannot bypass the per-session limit.
	already, err := entry.Store.SeatsHeldBy(c.Request().Context(), sessionID)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "allocation busy, retry"})
	}
	if len(already)+len(ids) > s.MaxSeats {
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat limit reached for session"})
	}
	held, err := entry.Store.Hold(c.Request().Context(), sessionID, ids)
	if err != nil {
		var unavail *store.SeatUnavailableError
		if errors.As(err, &unavail) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error":       "some seats are unavailable",
				"unavailable": idLabels(unavail.Conflicting),
			})
		}
		if errors.Is(err, store.ErrLockTimeout) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "allocation busy, retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to hold seats"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"held":       seatLabels(held),
		"expires_at": entry.Store.Now().UTC().Add(entry.Store.HoldTTL()).Format(time.RFC3339),
	})
}

// ReleaseSeats handles POST /v1/showtimes/:id/release.  Seats whose
// holds already lapsed are skipped silently; naming a seat held by
// another session fails the whole call with 409 so the client knows
// its grid is stale.
func (h *BookingHandler) ReleaseSeats(c echo.Context) error {
	sessionID, err := getSessionID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showtimeID, err := parseShowtimeID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	var body struct {
		Seats []string `json:"seats"`
	}
	if err := c.Bind(&body); err != nil || len(body.Seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats is required"})
	}
	ids, err := parseSeatLabels(body.Seats)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	entry, err := h.Registry.Get(showtimeID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
	}
	released, err := entry.Store.Release(c.Request().Context(), sessionID, ids)
	if err != nil {
		var stale *store.NotHolderError
		if errors.As(err, &stale) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "seats not held by this session, refresh the grid",
				"stale": idLabels(stale.Seats),
			})
		}
		if errors.Is(err, store.ErrLockTimeout) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "allocation busy, retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release seats"})
	}
	return c.JSON(http.StatusOK, echo.Map{"released": len(released)})
}

// ConfirmSeats handles POST /v1/showtimes/:id/confirm.  It finalises
// the session's holds into OCCUPIED seats, records the purchase in the
// database, publishes a seats.confirmed event and returns a receipt
// with a scannable QR reference.  An empty "seats" body confirms every
// seat the session holds.
func (h *BookingHandler) ConfirmSeats(c echo.Context) error {
	sessionID, err := getSessionID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showtimeID, err := parseShowtimeID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	var body struct {
		Seats []string `json:"seats"`
	}
	_ = c.Bind(&body) // empty body means "confirm everything I hold"

	entry, err := h.Registry.Get(showtimeID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
	}
	ctx := c.Request().Context()

	var ids []model.SeatID
	if len(body.Seats) > 0 {
		if ids, err = parseSeatLabels(body.Seats); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	} else {
		held, err := entry.Store.SeatsHeldBy(ctx, sessionID)
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "allocation busy, retry"})
		}
		if len(held) == 0 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "no active holds for this session"})
		}
		for _, s := range held {
			ids = append(ids, s.ID)
		}
	}

	confirmed, err := entry.Store.Confirm(ctx, sessionID, ids)
	if err != nil {
		var stale *store.NotHolderError
		if errors.As(err, &stale) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "seats not held by this session, refresh the grid",
				"stale": idLabels(stale.Seats),
			})
		}
		if errors.Is(err, store.ErrLockTimeout) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "allocation busy, retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to confirm seats"})
	}

	now := time.Now().UTC()
	hallName := ""
	if h.Showtimes != nil {
		if st, err := h.Showtimes.GetByID(ctx, showtimeID); err == nil {
			hallName = st.HallName
		}
	}
	// Persist the purchase.  The in-memory store already committed; a
	// write failure is logged but does not unwind the confirm.
	if h.Seats != nil {
		if err := h.Seats.MarkOccupied(ctx, showtimeID, ids, sessionID, now); err != nil {
			log.Printf("confirm: persist failed for showtime %d: %v", showtimeID, err)
		}
	}

	rec := newReceipt(showtimeID, hallName, confirmed, session.ServiceFeeCents, now)
	h.Sessions.Complete(sessionID)

	// Publish outside the request lifecycle; broker trouble must not
	// fail a purchase that is already committed.
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishSeatsConfirmed(pubCtx, q.SeatsConfirmedEvent{
			ReceiptRef:    rec.Ref,
			ShowtimeID:    showtimeID,
			SessionID:     sessionID,
			HallName:      hallName,
			SeatLabels:    rec.Seats,
			SubtotalCents: rec.SubtotalCents,
			FeeCents:      rec.FeeCents,
			TotalCents:    rec.TotalCents,
			ConfirmedAt:   rec.ConfirmedAt,
		})
	}()

	return c.JSON(http.StatusCreated, rec)
}
