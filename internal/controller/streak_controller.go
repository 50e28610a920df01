package controller

import (
	"skillxchange_backend/internal/service"
	"skillxchange_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type StreakController struct {
	StreakService *service.StreakService
}

func NewStreakController(streakService *service.StreakService) *StreakController {
	return &StreakController{StreakService: streakService}
}

// Stats godoc
// @Summary 连续登录统计
// @Description 当前连击、历史最长连击、总登录天数及最近一年贡献图
// @Tags 打卡
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.StreakStats}
// @Router /api/streaks [get]
func (c *StreakController) Stats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	stats, err := c.StreakService.Stats(claims.UserID, time.Now())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
