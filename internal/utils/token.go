package utils // helper functions for booking session token creation

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionToken is a signed JWT identifying a booking session.  The
// Token field contains the serialized JWT; Exp its UTC expiry, which
// matches the session's hold window so token and holds lapse together.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT for a booking session.
// The claims are the session ID (sid), the showtime (shw), expiration
// (exp) and issued-at (iat).  There is no user identity claim: the
// allocation core does not know who the customer is.
func NewSessionToken(secret, sessionID string, showtimeID uint64, expiresAt time.Time) (SessionToken, error) {
	claims := jwt.MapClaims{
		"sid": sessionID,
		"shw": showtimeID,
		"exp": expiresAt.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: expiresAt.UTC()}, nil
}
