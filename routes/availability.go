package routes

import (
	"time"

	"github.com/vaibhav5104/evgati-sub000/services"
	"github.com/vaibhav5104/evgati-sub000/storage"
	"github.com/vaibhav5104/evgati-sub000/utils"

	"github.com/kataras/iris/v12"
)

// GetStationAvailability returns the port-by-port snapshot of a station:
// which ports are occupied, which have a pending hold, and every blocking
// window per port.
// GET /api/availability/station/{id}
func GetStationAvailability(ctx iris.Context) {
	stationID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid station id")
		return
	}

	snapshot, err := services.NewAvailabilityService(storage.DB).Snapshot(stationID, time.Now())
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    snapshot,
	})
}

type ValidateBookingInput struct {
	PortNumber int       `json:"portNumber" validate:"required,gte=1"`
	StartTime  time.Time `json:"startTime" validate:"required"`
	EndTime    time.Time `json:"endTime" validate:"required"`
}

// ValidateBookingAvailability is a pre-flight check before attempting to book.
// POST /api/bookings/station/{id}/validate
func ValidateBookingAvailability(ctx iris.Context) {
	stationID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid station id")
		return
	}

	var input ValidateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !input.StartTime.Before(input.EndTime) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "startTime must be before endTime", ctx)
		return
	}

	available, conflictID, err := services.NewAvailabilityService(storage.DB).CheckAvailable(
		stationID, input.PortNumber, input.StartTime, input.EndTime)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if !available {
		ctx.StatusCode(iris.StatusConflict)
		ctx.JSON(iris.Map{
			"ok":         false,
			"conflictID": conflictID,
			"message":    "Selected window is not available",
		})
		return
	}

	ctx.JSON(iris.Map{"ok": true})
}
