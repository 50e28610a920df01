package controller

import (
	"errors"
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/service"
	"skillxchange_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type SkillController struct {
	SkillService   *service.SkillService
	MatcherService *service.MatcherService
}

func NewSkillController(skillService *service.SkillService, matcherService *service.MatcherService) *SkillController {
	return &SkillController{
		SkillService:   skillService,
		MatcherService: matcherService,
	}
}

// List godoc
// @Summary 我的技能列表
// @Tags 技能
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Skill}
// @Router /api/skills [get]
func (c *SkillController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	skills, err := c.SkillService.List(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, skills)
}

type CreateSkillRequest struct {
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	ProficiencyLevel string `json:"proficiency_level"`
}

// Create godoc
// @Summary 添加技能
// @Description 配置了向量服务时同步生成技能向量
// @Tags 技能
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateSkillRequest true "技能信息"
// @Success 201 {object} util.Response{data=model.Skill}
// @Router /api/skills [post]
func (c *SkillController) Create(ctx *gin.Context) {
	var req CreateSkillRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	skill, err := c.SkillService.Create(claims.UserID, req.Name, req.Description, model.ProficiencyLevel(req.ProficiencyLevel))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, skill)
}

type UpdateSkillRequest struct {
	Description      *string `json:"description"`
	ProficiencyLevel *string `json:"proficiency_level"`
}

// Update godoc
// @Summary 更新技能
// @Tags 技能
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "技能ID"
// @Param   body body UpdateSkillRequest true "变更"
// @Success 200 {object} util.Response{data=model.Skill}
// @Failure 404 {object} util.Response
// @Router /api/skills/{id} [patch]
func (c *SkillController) Update(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid skill id")
		return
	}

	var req UpdateSkillRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var level *model.ProficiencyLevel
	if req.ProficiencyLevel != nil {
		l := model.ProficiencyLevel(*req.ProficiencyLevel)
		level = &l
	}

	claims := util.GetUserFromContext(ctx)
	skill, err := c.SkillService.Update(claims.UserID, uint(id), req.Description, level)
	if err != nil {
		if errors.Is(err, util.ErrSkillNotFound) {
			util.NotFound(ctx, "skill not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, skill)
}

// Delete godoc
// @Summary 删除技能
// @Tags 技能
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "技能ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/skills/{id} [delete]
func (c *SkillController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid skill id")
		return
	}

	claims := util.GetUserFromContext(ctx)
	if err := c.SkillService.Delete(claims.UserID, uint(id)); err != nil {
		if errors.Is(err, util.ErrSkillNotFound) {
			util.NotFound(ctx, "skill not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

type MatchSkillsRequest struct {
	Skill  string   `json:"skill"`
	Skills []string `json:"skills"`
}

// Match godoc
// @Summary 技能匹配
// @Description 按期望技能对全站用户打分，返回前 10 名
// @Tags 技能
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body MatchSkillsRequest true "期望技能"
// @Success 200 {object} util.Response{data=[]service.SkillMatch}
// @Router /api/match_skills [post]
func (c *SkillController) Match(ctx *gin.Context) {
	var req MatchSkillsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	desired := req.Skills
	if req.Skill != "" {
		desired = append(desired, req.Skill)
	}
	if len(desired) == 0 {
		util.BadRequest(ctx, "skill or skills is required")
		return
	}

	claims := util.GetUserFromContext(ctx)
	matches, err := c.MatcherService.Match(ctx.Request.Context(), claims.UserID, desired)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"matches": matches})
}
