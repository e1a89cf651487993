package models

import (
	"time"

	"gorm.io/gorm"
)

// Reservation statuses. A reservation starts pending and ends in exactly one
// of the four terminal states.
const (
	ReservationPending   = "pending"
	ReservationAccepted  = "accepted"
	ReservationRejected  = "rejected"
	ReservationCancelled = "cancelled"
	ReservationExpired   = "expired"
)

// Reservation models a time-windowed claim on a single charging port.
type Reservation struct {
	gorm.Model
	StationID    uint      `json:"stationID" gorm:"index"`
	PortNumber   int       `json:"portNumber" gorm:"index"`
	UserID       uint      `json:"userID" gorm:"index"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	Status       string    `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	OwnerMessage string    `json:"ownerMessage"`

	// Relationships
	Station *Station `json:"station,omitempty" gorm:"foreignKey:StationID"`
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// IsTerminal reports whether the reservation has reached a final state and
// accepts no further transitions.
func (r *Reservation) IsTerminal() bool {
	switch r.Status {
	case ReservationAccepted, ReservationRejected, ReservationCancelled, ReservationExpired:
		return true
	}
	return false
}

// BlocksPort reports whether this reservation holds its slot against new
// requests. Pending requests block too: the first request holds the window
// until the owner resolves it.
func (r *Reservation) BlocksPort() bool {
	return r.Status == ReservationPending || r.Status == ReservationAccepted
}

// Overlaps checks the reservation window against [start, end).
// Windows are half-open, so a reservation ending exactly at start does not
// overlap.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.StartTime.Before(end) && start.Before(r.EndTime)
}
