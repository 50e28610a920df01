package controller

import (
	"errors"
	"skillxchange_backend/internal/service"
	"skillxchange_backend/internal/util"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NotificationController struct {
	NotificationService *service.NotificationService
}

func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: notificationService}
}

// List godoc
// @Summary 通知列表
// @Description 倒序；created_at__gt 作为轮询游标，只取该时刻之后的通知
// @Tags 通知
// @Produce  json
// @Security ApiKeyAuth
// @Param   created_at__gt query string false "RFC3339 时间游标"
// @Success 200 {object} util.Response{data=[]object}
// @Router /api/notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	var after time.Time
	if cursor := ctx.Query("created_at__gt"); cursor != "" {
		parsed, err := time.Parse(time.RFC3339, cursor)
		if err != nil {
			util.BadRequest(ctx, "created_at__gt must be RFC3339")
			return
		}
		after = parsed
	}

	claims := util.GetUserFromContext(ctx)
	notifications, err := c.NotificationService.List(claims.UserID, after, 50)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	out := make([]map[string]interface{}, 0, len(notifications))
	for i := range notifications {
		out = append(out, c.NotificationService.Serialize(&notifications[i]))
	}
	util.Success(ctx, out)
}

// MarkRead godoc
// @Summary 标记单条已读
// @Description 只允许未读到已读的单向变更
// @Tags 通知
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "通知ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "非本人通知"
// @Router /api/notifications/{id}/mark_read [post]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid notification id")
		return
	}

	claims := util.GetUserFromContext(ctx)
	if err := c.NotificationService.MarkRead(claims.UserID, uint(id)); err != nil {
		switch {
		case errors.Is(err, util.ErrNotificationDenied):
			util.Forbidden(ctx, "notification does not belong to you")
		case errors.Is(err, gorm.ErrRecordNotFound):
			util.NotFound(ctx, "notification not found")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// MarkAllRead godoc
// @Summary 全部标记已读
// @Tags 通知
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/notifications/mark_all_read [post]
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.NotificationService.MarkAllRead(claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Unread godoc
// @Summary 未读数
// @Tags 通知
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/notifications/unread [get]
func (c *NotificationController) Unread(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	count, err := c.NotificationService.UnreadCount(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"unread_count": count})
}
