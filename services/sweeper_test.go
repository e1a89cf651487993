package services

import (
	"context"
	"testing"
	"time"

	"github.com/vaibhav5104/evgati-sub000/models"
)

func TestNewSweeperDefaultsInterval(t *testing.T) {
	db := openTestDB(t)
	s := NewSweeper(NewBookingService(db), 0)
	if s.Interval != time.Minute {
		t.Fatalf("expected default interval of 1m, got %v", s.Interval)
	}
	s = NewSweeper(NewBookingService(db), 5*time.Second)
	if s.Interval != 5*time.Second {
		t.Fatalf("expected 5s interval, got %v", s.Interval)
	}
}

func TestSweeperLoopExpiresStaleReservations(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner")
	guest := seedUser(t, db, "user")
	station := seedStation(t, db, owner.ID, 1, models.StationAccepted)

	svc := newTestBookingService(db, base)
	reservation, err := svc.RequestBooking(station.ID, 1, at(10, 0), at(11, 0), guest.ID)
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	sweeper := NewSweeper(svc, 5*time.Millisecond)
	// Pin the sweeper clock past the start time so the first tick expires it.
	sweeper.Now = func() time.Time { return at(10, 5) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for {
		var current models.Reservation
		if err := db.First(&current, reservation.ID).Error; err != nil {
			t.Fatalf("reload reservation: %v", err)
		}
		if current.Status == models.ReservationExpired {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("reservation never expired, still %s", current.Status)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
