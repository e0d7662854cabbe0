// Package queue defines message payloads exchanged over the message broker.
package queue

// SeatsConfirmedEvent is published when a booking session's held seats
// are confirmed as purchased.  It carries enough information for
// downstream consumers (notifications, analytics, the checkout
// service) to act without querying the allocation service.
type SeatsConfirmedEvent struct {
	ReceiptRef    string   `json:"receipt_ref"`
	ShowtimeID    uint64   `json:"showtime_id"`
	SessionID     string   `json:"session_id"`
	HallName      string   `json:"hall_name"`
	SeatLabels    []string `json:"seats"`
	SubtotalCents uint32   `json:"subtotal_cents"`
	FeeCents      uint32   `json:"fee_cents"`
	TotalCents    uint32   `json:"total_cents"`
	ConfirmedAt   string   `json:"confirmed_at"`
}
