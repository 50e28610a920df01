package controller

import (
	"skillxchange_backend/internal/config"
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/service"
	"skillxchange_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type RealtimeController struct {
	Hub *service.RealtimeHub
	Cfg *config.Config
}

func NewRealtimeController(hub *service.RealtimeHub, cfg *config.Config) *RealtimeController {
	return &RealtimeController{Hub: hub, Cfg: cfg}
}

// Token godoc
// @Summary 实时推送令牌
// @Description 短时效令牌及调用方可订阅的频道
// @Tags 实时
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/realtime/token [get]
func (c *RealtimeController) Token(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	user := &model.User{Username: claims.Username, Email: claims.Email}
	user.ID = claims.UserID
	token, err := util.GenerateJWT(user, c.Cfg.JWT.Secret, 15*time.Minute)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"token": token,
		"channels": []string{
			service.NotificationChannel(claims.UserID),
			"private-chat-*-*",
		},
	})
}

// Connect godoc
// @Summary WebSocket 连接
// @Description 升级为 WebSocket，令牌经 Authorization 头或 token 查询参数传入
// @Tags 实时
// @Security ApiKeyAuth
// @Router /api/realtime/ws [get]
func (c *RealtimeController) Connect(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	service.ServeWs(c.Hub, ctx.Writer, ctx.Request, claims.UserID)
}
