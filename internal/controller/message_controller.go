package controller

import (
	"errors"
	"skillxchange_backend/internal/service"
	"skillxchange_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MessageController struct {
	MessageService *service.MessageService
}

func NewMessageController(messageService *service.MessageService) *MessageController {
	return &MessageController{MessageService: messageService}
}

// History godoc
// @Summary 与某用户的完整消息历史
// @Description 返回消息与双方连接状态；对方发来的未读顺带置为已读
// @Tags 消息
// @Produce  json
// @Security ApiKeyAuth
// @Param   with query string true "对方用户ID或用户名"
// @Success 200 {object} util.Response{data=service.ConversationView}
// @Failure 404 {object} util.Response
// @Router /api/messages [get]
func (c *MessageController) History(ctx *gin.Context) {
	other := ctx.Query("with")
	if other == "" {
		util.BadRequest(ctx, "query parameter 'with' is required")
		return
	}

	claims := util.GetUserFromContext(ctx)
	view, err := c.MessageService.History(claims.UserID, other)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "user not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, view)
}

// Send godoc
// @Summary 发送消息
// @Description 无连接时首条消息自动发起连接请求；被拒绝或待对方确认时禁止发送
// @Tags 消息
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   receiver formData string true "接收方用户ID或用户名"
// @Param   content formData string false "文本内容"
// @Param   file formData file false "附件"
// @Success 201 {object} util.Response{data=model.Message}
// @Failure 403 {object} util.Response "连接状态不允许"
// @Router /api/messages [post]
func (c *MessageController) Send(ctx *gin.Context) {
	receiver := ctx.PostForm("receiver")
	if receiver == "" {
		util.BadRequest(ctx, "receiver is required")
		return
	}
	file, _ := ctx.FormFile("file")

	claims := util.GetUserFromContext(ctx)
	msg, err := c.MessageService.Send(ctx.Request.Context(), claims.UserID, receiver, ctx.PostForm("content"), file)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "user not found")
		case errors.Is(err, util.ErrSelfSession):
			util.BadRequest(ctx, "cannot message yourself")
		case errors.Is(err, util.ErrEmptyMessage):
			util.BadRequest(ctx, "message needs content or a file")
		case errors.Is(err, util.ErrConnectionRejected):
			util.Forbidden(ctx, "connection request was rejected")
		case errors.Is(err, util.ErrConnectionPending):
			util.Forbidden(ctx, "wait for the recipient to accept your connection request")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, msg)
}

// Conversations godoc
// @Summary 会话列表
// @Description 去重的聊天对端，按最近消息时间倒序
// @Tags 消息
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.ConversationSummary}
// @Router /api/conversations [get]
func (c *MessageController) Conversations(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	summaries, err := c.MessageService.Conversations(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summaries)
}
