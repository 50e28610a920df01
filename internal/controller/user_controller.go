package controller

import (
	"errors"
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/service"
	"skillxchange_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// Profile godoc
// @Summary 当前用户资料
// @Description 同时用作令牌有效性校验
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User}
// @Failure 401 {object} util.Response
// @Router /api/profile [get]
func (c *UserController) Profile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	user, err := c.UserService.Profile(claims.UserID)
	if err != nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, user)
}

type UpdateProfileRequest struct {
	Bio *string `json:"bio"`
}

// UpdateProfile godoc
// @Summary 更新资料
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body UpdateProfileRequest true "资料变更"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/profile [patch]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	user, err := c.UserService.UpdateProfile(claims.UserID, req.Bio)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// PublicProfile godoc
// @Summary 查看他人资料
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Param   username path string true "用户名"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response
// @Router /api/users/profile/{username} [get]
func (c *UserController) PublicProfile(ctx *gin.Context) {
	user, err := c.UserService.ProfileByUsername(ctx.Param("username"))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "user not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// Search godoc
// @Summary 用户搜索
// @Description 按用户名或技能名查找，可按熟练度过滤
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Param   q query string true "关键词"
// @Param   skill_level query string false "beginner|intermediate|advanced|expert"
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/users/search [get]
func (c *UserController) Search(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	users, err := c.UserService.Search(
		ctx.Query("q"),
		model.ProficiencyLevel(ctx.Query("skill_level")),
		claims.UserID,
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, users)
}
