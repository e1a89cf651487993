package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/vaibhav5104/evgati-sub000/models"

	"gorm.io/gorm"
)

// Actor is the authenticated principal behind a lifecycle call, as supplied
// by the JWT access token. The service trusts the role and only enforces
// authorization.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == "admin" || a.Role == "super_admin"
}

// portLocks serializes booking requests per (station, port) so that two
// concurrent requests for overlapping windows cannot both observe "available"
// and both insert.
type portLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (p *portLocks) forPort(stationID uint, port int) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.locks == nil {
		p.locks = make(map[string]*sync.Mutex)
	}
	key := fmt.Sprintf("%d:%d", stationID, port)
	l, ok := p.locks[key]
	if !ok {
		l = &sync.Mutex{}
		p.locks[key] = l
	}
	return l
}

// BookingService owns the reservation state machine. All reservation mutation
// in the system goes through it.
type BookingService struct {
	DB           *gorm.DB
	Availability *AvailabilityService

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time

	locks portLocks
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{
		DB:           db,
		Availability: NewAvailabilityService(db),
		Now:          time.Now,
	}
}

// RequestBooking validates and creates a pending reservation. The
// availability check and the insert run under a per-(station, port) lock so
// the non-overlap invariant holds under concurrent requests.
func (s *BookingService) RequestBooking(stationID uint, port int, start, end time.Time, requesterID uint) (*models.Reservation, error) {
	now := s.Now()
	if !end.After(start) || !start.After(now) {
		return nil, ErrInvalidWindow
	}

	var station models.Station
	if err := s.DB.First(&station, stationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !station.Active() {
		return nil, fmt.Errorf("station %d is deactivated: %w", station.ID, ErrNotFound)
	}

	if !station.HasPort(port) {
		return nil, &InvalidPortError{Port: port, TotalPorts: station.TotalPorts}
	}

	lock := s.locks.forPort(stationID, port)
	lock.Lock()
	defer lock.Unlock()

	available, conflictID, err := s.Availability.CheckAvailable(stationID, port, start, end)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, &OverlapError{ConflictID: conflictID}
	}

	reservation := models.Reservation{
		StationID:  stationID,
		PortNumber: port,
		UserID:     requesterID,
		StartTime:  start,
		EndTime:    end,
		Status:     models.ReservationPending,
	}
	if err := s.DB.Create(&reservation).Error; err != nil {
		return nil, err
	}

	s.notify(station.OwnerID, "booking_request", "New Booking Request",
		fmt.Sprintf("Port %d of %s requested from %s to %s",
			port, station.Name, start.Format(time.RFC3339), end.Format(time.RFC3339)),
		reservation.ID)

	s.DB.Preload("Station").Preload("User").First(&reservation, reservation.ID)
	return &reservation, nil
}

// Approve moves a pending reservation to accepted. Only the station's owner
// or an admin may approve, and only on a station that has itself been
// accepted by an admin.
func (s *BookingService) Approve(reservationID uint, actor Actor, message string) (*models.Reservation, error) {
	return s.decide(reservationID, models.ReservationAccepted, actor, message)
}

// Reject moves a pending reservation to rejected. Owner or admin only.
func (s *BookingService) Reject(reservationID uint, actor Actor, message string) (*models.Reservation, error) {
	return s.decide(reservationID, models.ReservationRejected, actor, message)
}

func (s *BookingService) decide(reservationID uint, target string, actor Actor, message string) (*models.Reservation, error) {
	reservation, station, err := s.load(reservationID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && actor.UserID != station.OwnerID {
		return nil, ErrForbidden
	}
	if target == models.ReservationAccepted && !station.CanServeBookings() {
		return nil, fmt.Errorf("station %d not approved to serve bookings: %w", station.ID, ErrForbidden)
	}

	return s.transition(reservation, target, message)
}

// Cancel withdraws a pending reservation. Only the original requester may
// cancel, and only while the request is still pending.
func (s *BookingService) Cancel(reservationID uint, actor Actor) (*models.Reservation, error) {
	reservation, _, err := s.load(reservationID)
	if err != nil {
		return nil, err
	}

	if actor.UserID != reservation.UserID {
		return nil, ErrForbidden
	}

	return s.transition(reservation, models.ReservationCancelled, "")
}

// SweepExpired transitions every pending reservation whose start time has
// passed to expired. Safe to run repeatedly and concurrently with user
// actions: the status predicate makes the bulk update a compare-and-set, so
// rows resolved in the meantime are simply skipped.
func (s *BookingService) SweepExpired(now time.Time) (int64, error) {
	result := s.DB.Model(&models.Reservation{}).
		Where("status = ? AND start_time < ?", models.ReservationPending, now).
		Update("status", models.ReservationExpired)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("sweep: expired %d stale pending reservations", result.RowsAffected)
	}
	return result.RowsAffected, nil
}

func (s *BookingService) load(reservationID uint) (*models.Reservation, *models.Station, error) {
	var reservation models.Reservation
	if err := s.DB.Preload("Station").First(&reservation, reservationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	if reservation.Station == nil {
		return nil, nil, ErrNotFound
	}
	return &reservation, reservation.Station, nil
}

// transition performs the compare-and-set status update. Whichever caller
// lands first wins; everyone else gets IllegalTransitionError with the status
// they lost to.
func (s *BookingService) transition(reservation *models.Reservation, target, message string) (*models.Reservation, error) {
	if reservation.IsTerminal() {
		return nil, &IllegalTransitionError{From: reservation.Status, To: target}
	}

	updates := map[string]interface{}{"status": target}
	if message != "" {
		updates["owner_message"] = message
	}
	result := s.DB.Model(&models.Reservation{}).
		Where("id = ? AND status = ?", reservation.ID, models.ReservationPending).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Lost the race; report the status that beat us.
		var fresh models.Reservation
		if err := s.DB.First(&fresh, reservation.ID).Error; err != nil {
			return nil, &IllegalTransitionError{From: reservation.Status, To: target}
		}
		return nil, &IllegalTransitionError{From: fresh.Status, To: target}
	}

	var updated models.Reservation
	if err := s.DB.Preload("Station").Preload("User").First(&updated, reservation.ID).Error; err != nil {
		return nil, err
	}

	stationName := ""
	if updated.Station != nil {
		stationName = updated.Station.Name
	}

	// A cancel is the requester's own action; the owner is the one who needs
	// to hear about it. Every other transition informs the requester.
	if target == models.ReservationCancelled {
		if updated.Station != nil {
			s.notify(updated.Station.OwnerID, "booking_status", "Booking Cancelled",
				fmt.Sprintf("A booking for %s has been cancelled by the requester", stationName),
				updated.ID)
		}
	} else {
		s.notify(updated.UserID, "booking_status", "Booking Status Updated",
			fmt.Sprintf("Your booking for %s has been %s", stationName, target),
			updated.ID)
	}

	return &updated, nil
}

func (s *BookingService) notify(userID uint, kind, title, message string, reservationID uint) {
	notification := models.Notification{
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
		RefType: "reservation",
		RefID:   reservationID,
	}
	if err := s.DB.Create(&notification).Error; err != nil {
		log.Printf("failed to create notification for user %d: %v", userID, err)
	}
}
