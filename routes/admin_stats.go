package routes

import (
	"time"

	"github.com/vaibhav5104/evgati-sub000/models"
	"github.com/vaibhav5104/evgati-sub000/storage"

	"github.com/kataras/iris/v12"
)

// GET /admin/stats
func AdminStats(ctx iris.Context) {
	var pendingStations int64
	storage.DB.Model(&models.Station{}).Where("status = ?", models.StationPending).Count(&pendingStations)
	var pendingVerifications int64
	storage.DB.Model(&models.User{}).Where("verification_status = ?", "pending").Count(&pendingVerifications)
	var pendingReservations int64
	storage.DB.Model(&models.Reservation{}).Where("status = ?", models.ReservationPending).Count(&pendingReservations)

	since7 := time.Now().AddDate(0, 0, -7)
	since30 := time.Now().AddDate(0, 0, -30)
	var newRes7, newRes30 int64
	storage.DB.Model(&models.Reservation{}).Where("created_at >= ?", since7).Count(&newRes7)
	storage.DB.Model(&models.Reservation{}).Where("created_at >= ?", since30).Count(&newRes30)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"pending_stations":      pendingStations,
			"pending_verifications": pendingVerifications,
			"pending_reservations":  pendingReservations,
			"new_reservations_7d":   newRes7,
			"new_reservations_30d":  newRes30,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}

// GET /admin/activity
func AdminActivity(ctx iris.Context) {
	var logs []models.AuditLog
	storage.DB.Order("created_at DESC").Limit(100).Find(&logs)
	ctx.JSON(iris.Map{"data": logs, "meta": iris.Map{}, "links": iris.Map{}})
}
