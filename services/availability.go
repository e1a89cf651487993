package services

import (
	"sort"
	"time"

	"github.com/vaibhav5104/evgati-sub000/models"

	"gorm.io/gorm"
)

// AvailabilityService is the single source of truth for "is this port free".
// Both the booking flow and the station availability endpoint go through it,
// so no two call sites can disagree on what available means.
type AvailabilityService struct {
	DB *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db}
}

// PortSlot is one reserved window in a port's schedule.
type PortSlot struct {
	ReservationID uint      `json:"reservationID"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	Status        string    `json:"status"`
}

// StationSnapshot classifies every port of a station at a point in time and
// carries the full per-port schedule of blocking reservations.
type StationSnapshot struct {
	StationID     uint               `json:"stationID"`
	TotalPorts    int                `json:"totalPorts"`
	OccupiedPorts []int              `json:"occupiedPorts"`
	PendingPorts  []int              `json:"pendingPorts"`
	PortSchedules map[int][]PortSlot `json:"portSchedules"`
}

// CheckAvailable runs the overlap predicate against all blocking reservations
// (pending or accepted) for the given station and port. Pending requests hold
// their slot until the owner resolves them, so they conflict too. Returns the
// ID of the first conflicting reservation when the window is taken.
func (s *AvailabilityService) CheckAvailable(stationID uint, port int, start, end time.Time) (bool, uint, error) {
	var conflict models.Reservation
	err := s.DB.
		Where("station_id = ? AND port_number = ? AND status IN ?",
			stationID, port, []string{models.ReservationPending, models.ReservationAccepted}).
		Where("start_time < ? AND ? < end_time", end, start).
		Order("start_time ASC").
		First(&conflict).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return true, 0, nil
		}
		return false, 0, err
	}
	return false, conflict.ID, nil
}

// Snapshot builds the port-by-port availability view for a station as of now.
// A port is occupied when an accepted reservation covers the current instant,
// pending when only a pending one does.
func (s *AvailabilityService) Snapshot(stationID uint, now time.Time) (*StationSnapshot, error) {
	var station models.Station
	if err := s.DB.First(&station, stationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var reservations []models.Reservation
	err := s.DB.
		Where("station_id = ? AND status IN ?",
			stationID, []string{models.ReservationPending, models.ReservationAccepted}).
		Order("start_time ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}

	snapshot := &StationSnapshot{
		StationID:     stationID,
		TotalPorts:    station.TotalPorts,
		OccupiedPorts: []int{},
		PendingPorts:  []int{},
		PortSchedules: make(map[int][]PortSlot, station.TotalPorts),
	}

	occupied := make(map[int]bool)
	pending := make(map[int]bool)
	for _, r := range reservations {
		snapshot.PortSchedules[r.PortNumber] = append(snapshot.PortSchedules[r.PortNumber], PortSlot{
			ReservationID: r.ID,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			Status:        r.Status,
		})
		if r.Overlaps(now, now.Add(time.Nanosecond)) {
			if r.Status == models.ReservationAccepted {
				occupied[r.PortNumber] = true
			} else {
				pending[r.PortNumber] = true
			}
		}
	}

	for port := 1; port <= station.TotalPorts; port++ {
		if occupied[port] {
			snapshot.OccupiedPorts = append(snapshot.OccupiedPorts, port)
		} else if pending[port] {
			snapshot.PendingPorts = append(snapshot.PendingPorts, port)
		}
	}
	sort.Ints(snapshot.OccupiedPorts)
	sort.Ints(snapshot.PendingPorts)

	return snapshot, nil
}
