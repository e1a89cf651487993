package routes

import (
	"net/http"
	"strings"

	"github.com/vaibhav5104/evgati-sub000/models"
	"github.com/vaibhav5104/evgati-sub000/storage"
	"github.com/vaibhav5104/evgati-sub000/utils"

	"github.com/kataras/iris/v12"
)

// GET /admin/users
func AdminListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	role := ctx.URLParamDefault("role", "")
	verification := ctx.URLParamDefault("verification_status", "")
	search := strings.TrimSpace(ctx.URLParamDefault("search", ""))

	q := storage.DB.Model(&models.User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if verification != "" {
		q = q.Where("verification_status = ?", verification)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(first_name) LIKE ? OR lower(last_name) LIKE ? OR lower(email) LIKE ?", like, like, like)
	}

	var total int64
	q.Count(&total)

	var users []models.User
	if err := q.Offset((page - 1) * perPage).Limit(perPage).Order("created_at DESC").Find(&users).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

// GET /admin/users/:id
func AdminGetUser(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "user not found")
		return
	}

	var actions []models.AuditLog
	storage.DB.Where("actor_user_id = ?", id).Order("created_at DESC").Limit(50).Find(&actions)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"user":          user,
			"recentActions": actions,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}

// POST /admin/users/:id/verify { status, notes }
func AdminVerifyUser(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var body struct {
		Status string `json:"status"` // pending/approved/rejected
		Notes  string `json:"notes"`
	}
	if err := ctx.ReadJSON(&body); err != nil || (body.Status != "approved" && body.Status != "rejected" && body.Status != "pending") {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "status must be pending/approved/rejected")
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "user not found")
		return
	}

	before := user
	user.VerificationStatus = body.Status
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "user.verify", "user", user.ID, before, user)
	ctx.JSON(iris.Map{"data": user})
}

// PATCH /admin/users/:id/role { role } (super_admin only)
func AdminChangeUserRole(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var body struct {
		Role string `json:"role"`
	}
	valid := map[string]bool{"user": true, "owner": true, "admin": true, "super_admin": true}
	if err := ctx.ReadJSON(&body); err != nil || !valid[body.Role] {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "role must be user/owner/admin/super_admin")
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "user not found")
		return
	}

	before := user
	user.Role = body.Role
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "user.role_change", "user", user.ID, before, user)
	ctx.JSON(iris.Map{"data": user})
}

// GET /admin/stations
func AdminListStations(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	status := ctx.URLParamDefault("status", "")
	ownerID := ctx.URLParamDefault("owner_id", "")
	search := strings.TrimSpace(ctx.URLParamDefault("search", ""))

	q := storage.DB.Model(&models.Station{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(name) LIKE ? OR lower(description) LIKE ? OR lower(city) LIKE ?", like, like, like)
	}

	var total int64
	q.Count(&total)

	var stations []models.Station
	if err := q.Preload("Owner").Offset((page - 1) * perPage).Limit(perPage).Order("created_at DESC").Find(&stations).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, stations, page, perPage, total)
}

// PATCH /admin/stations/:id/status { status, note }
// Approving a station is what lets its reservations be accepted.
func AdminUpdateStationStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var body struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if err := ctx.ReadJSON(&body); err != nil ||
		(body.Status != models.StationAccepted && body.Status != models.StationRejected && body.Status != models.StationPending) {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "status must be pending/accepted/rejected")
		return
	}

	var station models.Station
	if err := storage.DB.First(&station, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "station not found")
		return
	}

	before := station
	station.Status = body.Status
	station.ReviewNotes = body.Note
	if err := storage.DB.Save(&station).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	notification := models.Notification{
		UserID:  station.OwnerID,
		Type:    "station_status",
		Title:   "Station Review Updated",
		Message: "Your station " + station.Name + " is now " + body.Status,
		RefType: "station",
		RefID:   station.ID,
	}
	storage.DB.Create(&notification)

	utils.Audit(ctx, "station.status_update", "station", station.ID, before, station)
	ctx.JSON(iris.Map{"data": station})
}

// POST /admin/stations/:id/flag { reason }
func AdminFlagStation(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := ctx.ReadJSON(&body); err != nil || body.Reason == "" {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "reason required")
		return
	}

	var station models.Station
	if err := storage.DB.First(&station, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "station not found")
		return
	}

	before := station
	station.IsFlagged = true
	station.FlagReason = body.Reason
	if err := storage.DB.Save(&station).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "station.flag", "station", station.ID, before, station)
	ctx.JSON(iris.Map{"data": station})
}
