package controller

import (
	"errors"
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/service"
	"skillxchange_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ConnectionController struct {
	ConnectionService *service.ConnectionService
}

func NewConnectionController(connectionService *service.ConnectionService) *ConnectionController {
	return &ConnectionController{ConnectionService: connectionService}
}

// Request godoc
// @Summary 发起连接请求
// @Tags 连接
// @Produce  json
// @Security ApiKeyAuth
// @Param   userId path int true "对方用户ID"
// @Success 201 {object} util.Response{data=model.Connection}
// @Failure 400 {object} util.Response "不能连接自己"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/connections/request/{userId} [post]
func (c *ConnectionController) Request(ctx *gin.Context) {
	receiverID, err := strconv.ParseUint(ctx.Param("userId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	claims := util.GetUserFromContext(ctx)
	conn, created, err := c.ConnectionService.Request(claims.UserID, uint(receiverID))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "user not found")
		case errors.Is(err, util.ErrSelfSession):
			util.BadRequest(ctx, "cannot connect with yourself")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	if created {
		util.Created(ctx, conn)
		return
	}
	util.Success(ctx, conn)
}

// Accept godoc
// @Summary 接受连接请求
// @Tags 连接
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "连接ID"
// @Success 200 {object} util.Response{data=model.Connection}
// @Failure 400 {object} util.Response "状态不允许"
// @Failure 403 {object} util.Response "只有接收方可以处理"
// @Router /api/connections/{id}/accept [post]
func (c *ConnectionController) Accept(ctx *gin.Context) {
	c.respond(ctx, c.ConnectionService.Accept)
}

// Reject godoc
// @Summary 拒绝连接请求
// @Tags 连接
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "连接ID"
// @Success 200 {object} util.Response{data=model.Connection}
// @Failure 400 {object} util.Response "状态不允许"
// @Failure 403 {object} util.Response "只有接收方可以处理"
// @Router /api/connections/{id}/reject [post]
func (c *ConnectionController) Reject(ctx *gin.Context) {
	c.respond(ctx, c.ConnectionService.Reject)
}

func (c *ConnectionController) respond(ctx *gin.Context, op func(userID, connectionID uint) (*model.Connection, error)) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid connection id")
		return
	}

	claims := util.GetUserFromContext(ctx)
	conn, err := op(claims.UserID, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrConnectionNotFound):
			util.NotFound(ctx, "connection not found")
		case errors.Is(err, util.ErrNotReceiver):
			util.Forbidden(ctx, "only the receiver can respond to this request")
		case errors.Is(err, model.ErrInvalidTransition):
			util.BadRequest(ctx, "connection request already handled")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, conn)
}

// List godoc
// @Summary 我的连接列表
// @Tags 连接
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Connection}
// @Router /api/connections [get]
func (c *ConnectionController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	conns, err := c.ConnectionService.List(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, conns)
}
