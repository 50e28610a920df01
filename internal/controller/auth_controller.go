package controller

import (
	"errors"
	"skillxchange_backend/internal/service"
	"skillxchange_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// swagger:model RegisterRequest
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register godoc
// @Summary 注册新用户
// @Description 创建账户并发放初始积分
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "注册信息"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "用户名或邮箱已被占用"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, user, err := c.AuthService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmailRegistered):
			util.Error(ctx, 409, "email already registered")
		case errors.Is(err, util.ErrUsernameTaken):
			util.Error(ctx, 409, "username already taken")
		case errors.Is(err, util.ErrInvalidCredentials):
			util.BadRequest(ctx, "invalid registration data")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{
		"token":    token,
		"user_id":  user.ID,
		"username": user.Username,
	})
}

// swagger:model LoginRequest
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary 用户登录
// @Description 校验凭据并签发 JWT，同时记录当日登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response "凭据无效"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, user, err := c.AuthService.Login(req.Username, req.Password)
	if err != nil {
		util.Error(ctx, 401, "invalid credentials")
		return
	}

	util.Success(ctx, gin.H{
		"token":    token,
		"user_id":  user.ID,
		"username": user.Username,
	})
}

// CheckUsername godoc
// @Summary 用户名可用性检查
// @Description 被占用时附带一个随机后缀建议
// @Tags 认证
// @Produce  json
// @Param   username path string true "用户名"
// @Success 200 {object} util.Response{data=object}
// @Router /api/auth/check-username/{username} [get]
func (c *AuthController) CheckUsername(ctx *gin.Context) {
	available, suggestion, err := c.AuthService.CheckUsername(ctx.Param("username"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	resp := gin.H{"available": available}
	if suggestion != "" {
		resp["suggestion"] = suggestion
	}
	util.Success(ctx, resp)
}
