package router // route registration for the seat allocation API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/seat-allocation/internal/config"
	"github.com/iliyamo/seat-allocation/internal/handler"
	"github.com/iliyamo/seat-allocation/internal/middleware"
)

// RegisterRoutes registers routes that require no session on the
// provided Echo instance: the health check, grid snapshots,
// recommendations and session creation.  Read endpoints are public so
// guests can browse a showtime's seats before committing to a session.
func RegisterRoutes(e *echo.Echo, h *handler.BookingHandler, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	pub := e.Group("/v1")
	pub.Use(middleware.NewTokenBucket(rlCfg, rdb))
	pub.GET("/showtimes/:id/seats", h.GetSeatGrid)
	pub.GET("/showtimes/:id/recommend", h.Recommend)
	pub.POST("/showtimes/:id/sessions", h.OpenSession)
}

// RegisterSession registers the endpoints that mutate allocation
// state.  They all require a valid booking session token; the
// SessionAuth middleware places the session ID into the context for
// the handlers.
func RegisterSession(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1")
	g.Use(middleware.SessionAuth(jwtSecret))
	g.Use(middleware.NewTokenBucket(rlCfg, rdb))

	g.POST("/showtimes/:id/hold", h.HoldSeats)
	g.POST("/showtimes/:id/release", h.ReleaseSeats)
	g.POST("/showtimes/:id/confirm", h.ConfirmSeats)

	g.GET("/session", h.GetSession)
	g.POST("/session/select", h.SelectSeat)
	g.POST("/session/deselect", h.DeselectSeat)
	g.DELETE("/session", h.CancelSession)
}
