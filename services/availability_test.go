package services

import (
	"errors"
	"testing"
	"time"

	"github.com/vaibhav5104/evgati-sub000/models"
)

func TestCheckAvailableOverlapBoundaries(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner")
	guest := seedUser(t, db, "user")
	station := seedStation(t, db, owner.ID, 2, models.StationAccepted)

	existing := models.Reservation{
		StationID:  station.ID,
		PortNumber: 1,
		UserID:     guest.ID,
		StartTime:  at(10, 0),
		EndTime:    at(11, 0),
		Status:     models.ReservationPending,
	}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("seed reservation: %v", err)
	}

	svc := NewAvailabilityService(db)

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		free  bool
	}{
		{"identical window", at(10, 0), at(11, 0), false},
		{"starts inside", at(10, 30), at(11, 30), false},
		{"ends inside", at(9, 30), at(10, 30), false},
		{"fully contains", at(9, 0), at(12, 0), false},
		{"fully contained", at(10, 15), at(10, 45), false},
		{"ends exactly at start", at(9, 0), at(10, 0), true},
		{"starts exactly at end", at(11, 0), at(12, 0), true},
		{"well before", at(8, 0), at(9, 0), true},
		{"well after", at(12, 0), at(13, 0), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			free, conflictID, err := svc.CheckAvailable(station.ID, 1, tc.start, tc.end)
			if err != nil {
				t.Fatalf("CheckAvailable: %v", err)
			}
			if free != tc.free {
				t.Fatalf("expected free=%v, got %v", tc.free, free)
			}
			if !tc.free && conflictID != existing.ID {
				t.Fatalf("expected conflict %d, got %d", existing.ID, conflictID)
			}
		})
	}

	// Same window on a different port never conflicts.
	free, _, err := svc.CheckAvailable(station.ID, 2, at(10, 0), at(11, 0))
	if err != nil || !free {
		t.Fatalf("expected port 2 free, got free=%v err=%v", free, err)
	}
}

func TestCheckAvailableIgnoresResolvedReservations(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner")
	guest := seedUser(t, db, "user")
	station := seedStation(t, db, owner.ID, 1, models.StationAccepted)

	svc := NewAvailabilityService(db)

	for _, status := range []string{
		models.ReservationRejected,
		models.ReservationCancelled,
		models.ReservationExpired,
	} {
		resolved := models.Reservation{
			StationID:  station.ID,
			PortNumber: 1,
			UserID:     guest.ID,
			StartTime:  at(10, 0),
			EndTime:    at(11, 0),
			Status:     status,
		}
		if err := db.Create(&resolved).Error; err != nil {
			t.Fatalf("seed %s reservation: %v", status, err)
		}
	}

	free, _, err := svc.CheckAvailable(station.ID, 1, at(10, 0), at(11, 0))
	if err != nil {
		t.Fatalf("CheckAvailable: %v", err)
	}
	if !free {
		t.Fatalf("resolved reservations must not block the port")
	}
}

func TestSnapshotClassifiesPorts(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner")
	guest := seedUser(t, db, "user")
	station := seedStation(t, db, owner.ID, 3, models.StationAccepted)

	now := at(10, 30)
	seed := []models.Reservation{
		// Port 1: accepted and covering now.
		{StationID: station.ID, PortNumber: 1, UserID: guest.ID,
			StartTime: at(10, 0), EndTime: at(11, 0), Status: models.ReservationAccepted},
		// Port 2: pending and covering now.
		{StationID: station.ID, PortNumber: 2, UserID: guest.ID,
			StartTime: at(10, 0), EndTime: at(11, 0), Status: models.ReservationPending},
		// Port 3: accepted but in the future, so free right now.
		{StationID: station.ID, PortNumber: 3, UserID: guest.ID,
			StartTime: at(14, 0), EndTime: at(15, 0), Status: models.ReservationAccepted},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed reservation %d: %v", i, err)
		}
	}

	snapshot, err := NewAvailabilityService(db).Snapshot(station.ID, now)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	if snapshot.TotalPorts != 3 {
		t.Fatalf("expected 3 ports, got %d", snapshot.TotalPorts)
	}
	if len(snapshot.OccupiedPorts) != 1 || snapshot.OccupiedPorts[0] != 1 {
		t.Fatalf("expected occupied=[1], got %v", snapshot.OccupiedPorts)
	}
	if len(snapshot.PendingPorts) != 1 || snapshot.PendingPorts[0] != 2 {
		t.Fatalf("expected pending=[2], got %v", snapshot.PendingPorts)
	}

	// Future reservations still appear in the schedule.
	if len(snapshot.PortSchedules[3]) != 1 {
		t.Fatalf("expected 1 slot on port 3, got %d", len(snapshot.PortSchedules[3]))
	}
	if got := snapshot.PortSchedules[3][0].StartTime; !got.Equal(at(14, 0)) {
		t.Fatalf("expected port 3 slot at 14:00, got %v", got)
	}
}

func TestSnapshotUnknownStation(t *testing.T) {
	db := openTestDB(t)
	_, err := NewAvailabilityService(db).Snapshot(404, at(10, 0))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
