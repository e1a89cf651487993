package routes

import (
	"errors"
	"sync"
	"time"

	"github.com/vaibhav5104/evgati-sub000/models"
	"github.com/vaibhav5104/evgati-sub000/services"
	"github.com/vaibhav5104/evgati-sub000/storage"
	"github.com/vaibhav5104/evgati-sub000/utils"

	"github.com/kataras/iris/v12"
)

var (
	bookingsOnce sync.Once
	bookings     *services.BookingService
)

// bookingService returns the shared lifecycle manager. A single instance is
// required: the per-(station, port) locks must be shared across requests.
func bookingService() *services.BookingService {
	bookingsOnce.Do(func() {
		bookings = services.NewBookingService(storage.DB)
	})
	return bookings
}

// writeServiceError maps the booking error taxonomy onto HTTP responses.
// Overlap carries the conflicting reservation so clients can show "port busy"
// instead of a generic failure.
func writeServiceError(ctx iris.Context, err error) {
	var overlap *services.OverlapError
	var invalidPort *services.InvalidPortError
	var illegal *services.IllegalTransitionError

	switch {
	case errors.Is(err, services.ErrInvalidWindow):
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_window", "endTime must be after startTime and startTime must be in the future")
	case errors.As(err, &invalidPort):
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_port", invalidPort.Error())
	case errors.As(err, &overlap):
		ctx.StatusCode(iris.StatusConflict)
		ctx.JSON(iris.Map{
			"error":      "overlap",
			"message":    "requested window conflicts with an existing reservation",
			"conflictID": overlap.ConflictID,
		})
	case errors.Is(err, services.ErrNotFound):
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, services.ErrForbidden):
		utils.JSONError(ctx, iris.StatusForbidden, "forbidden", err.Error())
	case errors.As(err, &illegal):
		utils.JSONError(ctx, iris.StatusUnprocessableEntity, "illegal_transition", illegal.Error())
	default:
		utils.CreateInternalServerError(ctx)
	}
}

type CreateBookingInput struct {
	PortNumber int       `json:"portNumber" validate:"required,gte=1"`
	StartTime  time.Time `json:"startTime" validate:"required"`
	EndTime    time.Time `json:"endTime" validate:"required"`
}

// CreateBooking requests a pending reservation on one port of a station.
// POST /api/bookings/station/{id}
func CreateBooking(ctx iris.Context) {
	stationID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid station id")
		return
	}

	userID, _ := utils.GetActor(ctx)

	var input CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	reservation, err := bookingService().RequestBooking(stationID, input.PortNumber, input.StartTime, input.EndTime, userID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(reservation)
}

type DecisionInput struct {
	Message string `json:"message"`
}

// ApproveBooking accepts a pending reservation (station owner or admin).
// PATCH /api/bookings/{id}/approve
func ApproveBooking(ctx iris.Context) {
	decideBooking(ctx, true)
}

// RejectBooking rejects a pending reservation (station owner or admin).
// PATCH /api/bookings/{id}/reject
func RejectBooking(ctx iris.Context) {
	decideBooking(ctx, false)
}

func decideBooking(ctx iris.Context, approve bool) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid reservation id")
		return
	}

	userID, role := utils.GetActor(ctx)
	actor := services.Actor{UserID: userID, Role: role}

	var input DecisionInput
	if err := ctx.ReadJSON(&input); err != nil && err.Error() != "EOF" {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var reservation *models.Reservation
	var before models.Reservation
	storage.DB.First(&before, id)

	if approve {
		reservation, err = bookingService().Approve(id, actor, input.Message)
	} else {
		reservation, err = bookingService().Reject(id, actor, input.Message)
	}
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	action := "booking.reject"
	if approve {
		action = "booking.approve"
	}
	utils.Audit(ctx, action, "reservation", reservation.ID, before, reservation)

	ctx.JSON(reservation)
}

// CancelBooking withdraws a pending reservation (original requester only).
// PATCH /api/bookings/{id}/cancel
func CancelBooking(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid reservation id")
		return
	}

	userID, role := utils.GetActor(ctx)

	reservation, err := bookingService().Cancel(id, services.Actor{UserID: userID, Role: role})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(reservation)
}

// GetBookingsByStationID lists all reservations of a station.
func GetBookingsByStationID(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var reservations []models.Reservation
	res := storage.DB.Preload("Station").Preload("User").Where("station_id = ?", id).Order("created_at DESC").Find(&reservations)
	if res.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", res.Error.Error(), ctx)
		return
	}

	ctx.JSON(reservations)
}

// GetUserBookings lists the authenticated user's own reservations.
func GetUserBookings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var reservations []models.Reservation
	res := storage.DB.Preload("Station").Preload("Station.Owner").Where("user_id = ?", userID).Order("created_at DESC").Find(&reservations)
	if res.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", res.Error.Error(), ctx)
		return
	}

	ctx.JSON(reservations)
}

// GetOwnerBookings lists reservations across all stations owned by the
// authenticated owner.
func GetOwnerBookings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var reservations []models.Reservation
	res := storage.DB.
		Joins("JOIN stations ON stations.id = reservations.station_id").
		Where("stations.owner_id = ?", userID).
		Preload("Station").
		Preload("User").
		Order("reservations.created_at DESC").
		Find(&reservations)
	if res.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", res.Error.Error(), ctx)
		return
	}

	ctx.JSON(reservations)
}

// ExpirePendingBookings is a cron-style endpoint for external schedulers; the
// in-process sweeper covers the normal case.
// POST /api/bookings/expire-pending
func ExpirePendingBookings(ctx iris.Context) {
	count, err := bookingService().SweepExpired(time.Now())
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"ok": true, "expired": count})
}
