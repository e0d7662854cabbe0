// Package repository provides data access to the showtime and seat
// tables.  Sentinel errors defined here let handlers translate
// persistence failures into HTTP responses without inspecting SQL
// error strings.
package repository

import "errors"

// ErrShowtimeNotFound is returned when a showtime lookup yields no
// rows.  Handlers should translate this into an HTTP 404 response.
var ErrShowtimeNotFound = errors.New("showtime not found")
