package store

import (
	"context"
	"log"
	"time"
)

// StartSweeper runs a periodic expiry sweep over every store in the
// registry until the context is cancelled.  Each tick uses the same
// locking discipline as Hold and Confirm, so a sweep can never race a
// customer's in-flight confirm.  Releases are logged for operators.
func StartSweeper(ctx context.Context, reg *Registry, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for showtimeID, st := range reg.All() {
				released, err := st.SweepExpired(ctx, now)
				if err != nil {
					log.Printf("sweeper: showtime %d: %v", showtimeID, err)
					continue
				}
				if len(released) > 0 {
					log.Printf("sweeper: showtime %d: released %d expired holds", showtimeID, len(released))
				}
			}
		}
	}
}
