package services

import (
	"context"
	"log"
	"time"
)

// Sweeper periodically expires stale pending reservations. The interval and
// clock are injectable; in production main starts one sweeper with the app
// context, and an external scheduler may additionally hit the
// /api/bookings/expire-pending endpoint.
type Sweeper struct {
	Bookings *BookingService
	Interval time.Duration
	Now      func() time.Time
}

func NewSweeper(bookings *BookingService, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		Bookings: bookings,
		Interval: interval,
		Now:      time.Now,
	}
}

// Start runs the sweep loop until ctx is cancelled. Sweep failures are logged
// and retried on the next tick; the loop never aborts on error.
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Bookings.SweepExpired(s.Now()); err != nil {
				log.Printf("sweep: failed to expire pending reservations: %v", err)
			}
		}
	}
}
