package routes

import (
	"net/http"
	"time"

	"github.com/vaibhav5104/evgati-sub000/models"
	"github.com/vaibhav5104/evgati-sub000/services"
	"github.com/vaibhav5104/evgati-sub000/storage"
	"github.com/vaibhav5104/evgati-sub000/utils"

	"github.com/kataras/iris/v12"
)

// GET /admin/reservations
func AdminListReservations(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	status := ctx.URLParamDefault("status", "")
	ownerID := ctx.URLParamDefault("owner_id", "")
	userID := ctx.URLParamDefault("user_id", "")
	dateFrom := ctx.URLParamDefault("date_from", "")
	dateTo := ctx.URLParamDefault("date_to", "")

	q := storage.DB.Model(&models.Reservation{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if ownerID != "" {
		q = q.Joins("JOIN stations ON stations.id = reservations.station_id").Where("stations.owner_id = ?", ownerID)
	}
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if dateFrom != "" {
		if t, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			q = q.Where("start_time >= ?", t)
		}
	}
	if dateTo != "" {
		if t, err := time.Parse(time.RFC3339, dateTo); err == nil {
			q = q.Where("end_time <= ?", t)
		}
	}

	var total int64
	q.Count(&total)

	var items []models.Reservation
	if err := q.Preload("Station").Preload("User").Offset((page - 1) * perPage).Limit(perPage).Order("created_at DESC").Find(&items).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.JSONPage(ctx, items, page, perPage, total)
}

// GET /admin/reservations/:id
func AdminGetReservation(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var res models.Reservation
	if err := storage.DB.Preload("Station").Preload("User").First(&res, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "reservation not found")
		return
	}
	ctx.JSON(iris.Map{"data": res, "meta": iris.Map{}, "links": iris.Map{}})
}

// PATCH /admin/reservations/:id/status { status, message }
// Runs through the lifecycle manager so the state machine and the station
// approval gate apply to admins too.
func AdminUpdateReservationStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := ctx.ReadJSON(&body); err != nil ||
		(body.Status != models.ReservationAccepted && body.Status != models.ReservationRejected) {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "status must be accepted/rejected")
		return
	}

	actorID, role := utils.GetActor(ctx)
	actor := services.Actor{UserID: actorID, Role: role}

	var before models.Reservation
	storage.DB.First(&before, id)

	var res *models.Reservation
	if body.Status == models.ReservationAccepted {
		res, err = bookingService().Approve(id, actor, body.Message)
	} else {
		res, err = bookingService().Reject(id, actor, body.Message)
	}
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	utils.Audit(ctx, "reservation.status_update", "reservation", res.ID, before, res)
	ctx.JSON(iris.Map{"data": res})
}
