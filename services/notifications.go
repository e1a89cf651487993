package services

import (
	"github.com/vaibhav5104/evgati-sub000/models"

	"gorm.io/gorm"
)

// NotificationAggregator derives role-scoped summaries from the current
// reservation and station state. Read-only; every call recomputes from the
// store, nothing is persisted. Consumers poll these endpoints.
type NotificationAggregator struct {
	DB *gorm.DB
}

func NewNotificationAggregator(db *gorm.DB) *NotificationAggregator {
	return &NotificationAggregator{DB: db}
}

// UserSummary counts a user's own reservations by status.
type UserSummary struct {
	PendingCount  int64 `json:"pendingCount"`
	AcceptedCount int64 `json:"acceptedCount"`
	RejectedCount int64 `json:"rejectedCount"`
}

// PendingBooking pairs a pending reservation with its station for the owner
// dashboard.
type PendingBooking struct {
	Reservation models.Reservation `json:"reservation"`
	Station     models.Station     `json:"station"`
}

// OwnerSummary lists everything waiting on an owner: booking requests across
// all their stations plus their own stations still awaiting admin approval.
type OwnerSummary struct {
	PendingBookings             []PendingBooking `json:"pendingBookings"`
	PendingStationVerifications []models.Station `json:"pendingStationVerifications"`
	Total                       int              `json:"total"`
}

// AdminSummary counts items waiting on an admin.
type AdminSummary struct {
	PendingStationApprovals int64 `json:"pendingStationApprovals"`
	PendingUserActions      int64 `json:"pendingUserActions"`
	Total                   int64 `json:"total"`
}

// ForUser returns the user's reservation counts grouped by status.
func (a *NotificationAggregator) ForUser(userID uint) (*UserSummary, error) {
	summary := &UserSummary{}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	err := a.DB.Model(&models.Reservation{}).
		Select("status, count(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	for _, c := range counts {
		switch c.Status {
		case models.ReservationPending:
			summary.PendingCount = c.Count
		case models.ReservationAccepted:
			summary.AcceptedCount = c.Count
		case models.ReservationRejected:
			summary.RejectedCount = c.Count
		}
	}
	return summary, nil
}

// ForOwner returns pending booking requests across the owner's stations and
// the owner's stations still pending admin verification.
func (a *NotificationAggregator) ForOwner(ownerID uint) (*OwnerSummary, error) {
	var reservations []models.Reservation
	err := a.DB.
		Joins("JOIN stations ON stations.id = reservations.station_id").
		Where("stations.owner_id = ? AND reservations.status = ?", ownerID, models.ReservationPending).
		Preload("Station").
		Preload("User").
		Order("reservations.created_at ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}

	var pendingStations []models.Station
	err = a.DB.
		Where("owner_id = ? AND status = ?", ownerID, models.StationPending).
		Order("created_at ASC").
		Find(&pendingStations).Error
	if err != nil {
		return nil, err
	}

	summary := &OwnerSummary{
		PendingBookings:             make([]PendingBooking, 0, len(reservations)),
		PendingStationVerifications: pendingStations,
	}
	for _, r := range reservations {
		var station models.Station
		if r.Station != nil {
			station = *r.Station
		}
		r.Station = nil // station rides alongside, not nested
		summary.PendingBookings = append(summary.PendingBookings, PendingBooking{
			Reservation: r,
			Station:     station,
		})
	}
	summary.Total = len(summary.PendingBookings) + len(summary.PendingStationVerifications)
	return summary, nil
}

// ForAdmin returns counts of stations and users awaiting admin action.
func (a *NotificationAggregator) ForAdmin() (*AdminSummary, error) {
	summary := &AdminSummary{}

	err := a.DB.Model(&models.Station{}).
		Where("status = ?", models.StationPending).
		Count(&summary.PendingStationApprovals).Error
	if err != nil {
		return nil, err
	}

	err = a.DB.Model(&models.User{}).
		Where("verification_status = ?", "pending").
		Count(&summary.PendingUserActions).Error
	if err != nil {
		return nil, err
	}

	summary.Total = summary.PendingStationApprovals + summary.PendingUserActions
	return summary, nil
}
