package models

import (
	"testing"
	"time"
)

func ts(hour, min int) time.Time {
	return time.Date(2025, 6, 1, hour, min, 0, 0, time.UTC)
}

func TestReservationOverlaps(t *testing.T) {
	r := Reservation{StartTime: ts(10, 0), EndTime: ts(11, 0)}

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"identical", ts(10, 0), ts(11, 0), true},
		{"starts inside", ts(10, 30), ts(11, 30), true},
		{"ends inside", ts(9, 30), ts(10, 30), true},
		{"contains", ts(9, 0), ts(12, 0), true},
		{"contained", ts(10, 15), ts(10, 45), true},
		{"touches at start", ts(9, 0), ts(10, 0), false},
		{"touches at end", ts(11, 0), ts(12, 0), false},
		{"disjoint before", ts(8, 0), ts(9, 0), false},
		{"disjoint after", ts(12, 0), ts(13, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Overlaps(tc.start, tc.end); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestReservationStatusPredicates(t *testing.T) {
	cases := []struct {
		status   string
		terminal bool
		blocks   bool
	}{
		{ReservationPending, false, true},
		{ReservationAccepted, true, true},
		{ReservationRejected, true, false},
		{ReservationCancelled, true, false},
		{ReservationExpired, true, false},
	}
	for _, tc := range cases {
		r := Reservation{Status: tc.status}
		if got := r.IsTerminal(); got != tc.terminal {
			t.Errorf("IsTerminal() for %s = %v, want %v", tc.status, got, tc.terminal)
		}
		if got := r.BlocksPort(); got != tc.blocks {
			t.Errorf("BlocksPort() for %s = %v, want %v", tc.status, got, tc.blocks)
		}
	}
}

func TestStationHasPort(t *testing.T) {
	station := Station{TotalPorts: 4}

	for _, port := range []int{1, 2, 3, 4} {
		if !station.HasPort(port) {
			t.Errorf("expected port %d to exist", port)
		}
	}
	for _, port := range []int{0, -1, 5, 100} {
		if station.HasPort(port) {
			t.Errorf("expected port %d to be out of range", port)
		}
	}
}

func TestStationCanServeBookings(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{StationAccepted, true},
		{StationPending, false},
		{StationRejected, false},
	}
	for _, tc := range cases {
		s := Station{Status: tc.status}
		if got := s.CanServeBookings(); got != tc.want {
			t.Errorf("CanServeBookings() for %s = %v, want %v", tc.status, got, tc.want)
		}
	}
}
