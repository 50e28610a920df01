package controller

import (
	"errors"
	"net/http"
	"skillxchange_backend/internal/service"
	"skillxchange_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const meetSessionCookie = "sessionId"

type MeetController struct {
	MeetService *service.MeetService
}

func NewMeetController(meetService *service.MeetService) *MeetController {
	return &MeetController{MeetService: meetService}
}

// sessionID 读取或创建浏览器会话 cookie
func (c *MeetController) sessionID(ctx *gin.Context) string {
	if id, err := ctx.Cookie(meetSessionCookie); err == nil && id != "" {
		return id
	}
	id := c.MeetService.NewSessionID()
	ctx.SetCookie(meetSessionCookie, id, 3600*24, "/", "", false, true)
	return id
}

// AuthURL godoc
// @Summary Google 授权地址
// @Tags 会议
// @Produce  json
// @Success 200 {object} util.Response{data=object}
// @Router /meet/auth/url [get]
func (c *MeetController) AuthURL(ctx *gin.Context) {
	if !c.MeetService.Configured() {
		util.Error(ctx, http.StatusServiceUnavailable, "Google Meet integration is not configured")
		return
	}
	util.Success(ctx, gin.H{"auth_url": c.MeetService.AuthURL(c.sessionID(ctx))})
}

// Callback godoc
// @Summary OAuth 回调
// @Description 用授权码换取令牌并绑定浏览器会话
// @Tags 会议
// @Produce  json
// @Param   code query string true "授权码"
// @Param   state query string true "会话标识"
// @Success 200 {object} util.Response
// @Router /oauth2callback [get]
func (c *MeetController) Callback(ctx *gin.Context) {
	code := ctx.Query("code")
	state := ctx.Query("state")
	if code == "" || state == "" {
		util.BadRequest(ctx, "missing code or state")
		return
	}

	if err := c.MeetService.HandleCallback(ctx.Request.Context(), state, code); err != nil {
		util.Error(ctx, http.StatusBadGateway, "authorization exchange failed")
		return
	}

	ctx.SetCookie(meetSessionCookie, state, 3600*24, "/", "", false, true)
	util.Success(ctx, gin.H{"authorized": true})
}

// Status godoc
// @Summary 授权状态
// @Tags 会议
// @Produce  json
// @Success 200 {object} util.Response{data=object}
// @Router /meet/auth/status [get]
func (c *MeetController) Status(ctx *gin.Context) {
	id, err := ctx.Cookie(meetSessionCookie)
	authorized := err == nil && c.MeetService.Authorized(id)
	util.Success(ctx, gin.H{"authorized": authorized})
}

type CreateMeetRequest struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
}

// CreateMeet godoc
// @Summary 创建 Meet 会议
// @Description 5 分钟后开始、时长 30 分钟；未授权时返回 401 与授权地址
// @Tags 会议
// @Accept  json
// @Produce  json
// @Param   body body CreateMeetRequest true "会议信息"
// @Success 200 {object} util.Response{data=service.MeetResult}
// @Failure 401 {object} util.Response{data=object} "附带 auth_url"
// @Router /api/create-meet [post]
func (c *MeetController) CreateMeet(ctx *gin.Context) {
	if !c.MeetService.Configured() {
		util.Error(ctx, http.StatusServiceUnavailable, "Google Meet integration is not configured")
		return
	}

	var req CreateMeetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sessionID := c.sessionID(ctx)
	result, err := c.MeetService.CreateMeet(ctx.Request.Context(), sessionID, req.Summary, req.Description)
	if err != nil {
		if errors.Is(err, util.ErrMeetNotAuthorized) {
			util.ErrorData(ctx, http.StatusUnauthorized, "google authorization required",
				gin.H{"auth_url": c.MeetService.AuthURL(sessionID)})
			return
		}
		util.Error(ctx, http.StatusBadGateway, "failed to create meeting")
		return
	}
	util.Success(ctx, result)
}
