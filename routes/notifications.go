package routes

import (
	"time"

	"github.com/vaibhav5104/evgati-sub000/models"
	"github.com/vaibhav5104/evgati-sub000/services"
	"github.com/vaibhav5104/evgati-sub000/storage"
	"github.com/vaibhav5104/evgati-sub000/utils"

	"github.com/kataras/iris/v12"
)

// Role-scoped notification summaries. All three recompute from the store on
// every call; clients poll them.

// GET /api/notifications/user
func GetUserNotificationSummary(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	summary, err := services.NewNotificationAggregator(storage.DB).ForUser(userID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": summary})
}

// GET /api/notifications/owner
func GetOwnerNotificationSummary(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	summary, err := services.NewNotificationAggregator(storage.DB).ForOwner(userID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": summary})
}

// GET /api/notifications/admin
func GetAdminNotificationSummary(ctx iris.Context) {
	summary, err := services.NewNotificationAggregator(storage.DB).ForAdmin()
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": summary})
}

// ListNotifications returns the authenticated user's persisted inbox entries.
// GET /api/notifications/
func ListNotifications(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	limit := ctx.URLParamIntDefault("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var notifications []models.Notification
	res := storage.DB.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&notifications)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var unread int64
	storage.DB.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&unread)

	ctx.JSON(iris.Map{
		"success": true,
		"data":    notifications,
		"unread":  unread,
	})
}

// MarkNotificationRead marks one inbox entry as read.
// PATCH /api/notifications/{id}/read
func MarkNotificationRead(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid notification id")
		return
	}

	var notification models.Notification
	if err := storage.DB.Where("id = ? AND user_id = ?", id, userID).First(&notification).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	now := time.Now()
	notification.IsRead = true
	notification.ReadAt = &now
	if err := storage.DB.Save(&notification).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true})
}
