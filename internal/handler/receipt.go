package handler

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/iliyamo/seat-allocation/internal/model"
)

// Receipt is returned to the client after a successful confirm.  The
// QR code encodes the receipt reference so venue staff can scan it at
// the door; it is a PNG, base64-encoded for JSON transport.
type Receipt struct {
	Ref           string   `json:"ref"`
	ShowtimeID    uint64   `json:"showtime_id"`
	HallName      string   `json:"hall_name,omitempty"`
	Seats         []string `json:"seats"`
	SubtotalCents uint32   `json:"subtotal_cents"`
	FeeCents      uint32   `json:"fee_cents"`
	TotalCents    uint32   `json:"total_cents"`
	ConfirmedAt   string   `json:"confirmed_at"`
	QRPNG         string   `json:"qr_png,omitempty"`
}

// newReceipt assembles a receipt for the confirmed seats.  QR
// generation failures are tolerated: the receipt is still valid
// without the image and the reference remains scannable as text.
func newReceipt(showtimeID uint64, hallName string, seats []model.Seat, feeCents uint32, confirmedAt time.Time) Receipt {
	var subtotal uint32
	for _, s := range seats {
		subtotal += s.PriceCents
	}
	r := Receipt{
		Ref:           uuid.NewString(),
		ShowtimeID:    showtimeID,
		HallName:      hallName,
		Seats:         seatLabels(seats),
		SubtotalCents: subtotal,
		FeeCents:      feeCents,
		TotalCents:    subtotal + feeCents,
		ConfirmedAt:   confirmedAt.UTC().Format(time.RFC3339),
	}
	payload := fmt.Sprintf("seat-allocation:receipt:%s:showtime:%d", r.Ref, showtimeID)
	if png, err := qrcode.Encode(payload, qrcode.Medium, 256); err == nil {
		r.QRPNG = base64.StdEncoding.EncodeToString(png)
	}
	return r
}
