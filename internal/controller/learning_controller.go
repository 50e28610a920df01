package controller

import (
	"errors"
	"net/http"
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/service"
	"skillxchange_backend/internal/util"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type LearningController struct {
	LearningService *service.LearningService
	RatingService   *service.RatingService
	BadgeService    *service.BadgeService
	PointService    *service.PointService
	UserService     *service.UserService
}

func NewLearningController(learningService *service.LearningService, ratingService *service.RatingService, badgeService *service.BadgeService, pointService *service.PointService, userService *service.UserService) *LearningController {
	return &LearningController{
		LearningService: learningService,
		RatingService:   ratingService,
		BadgeService:    badgeService,
		PointService:    pointService,
		UserService:     userService,
	}
}

// Points godoc
// @Summary 积分账户
// @Description 账户不存在时自动开户并入账初始积分；附最近 20 条流水
// @Tags 学习
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/learning/points [get]
func (c *LearningController) Points(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	account, txns, err := c.PointService.Overview(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"balance":      account.Balance,
		"total_earned": account.TotalEarned,
		"total_spent":  account.TotalSpent,
		"transactions": txns,
	})
}

type JoinRequest struct {
	TeacherID uint   `json:"teacher_id" binding:"required"`
	SkillName string `json:"skill_name" binding:"required"`
}

// Join godoc
// @Summary 发起学习请求
// @Description 校验余额但不扣分，扣分发生在教师接受时
// @Tags 学习
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body JoinRequest true "学习请求"
// @Success 201 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "余额不足或已有进行中的会话"
// @Router /api/learning/join [post]
func (c *LearningController) Join(ctx *gin.Context) {
	var req JoinRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	session, err := c.LearningService.Join(claims.UserID, req.TeacherID, req.SkillName)
	if err != nil {
		c.respondSessionError(ctx, err)
		return
	}
	util.Created(ctx, service.SerializeSession(session, time.Now()))
}

// Requests godoc
// @Summary 待处理的教学请求
// @Tags 学习
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]object}
// @Router /api/learning/requests [get]
func (c *LearningController) Requests(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	sessions, err := c.LearningService.Requests(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, serializeSessions(sessions))
}

// Accept godoc
// @Summary 接受教学请求
// @Description 此时扣除学习者积分，学习期开始计时
// @Tags 学习
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "会话ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "状态不允许或学习者余额不足"
// @Failure 403 {object} util.Response "只有教师可以处理"
// @Router /api/learning/requests/{id}/accept [post]
func (c *LearningController) Accept(ctx *gin.Context) {
	c.respondTransition(ctx, c.LearningService.Accept)
}

// RejectRequest godoc
// @Summary 拒绝教学请求
// @Tags 学习
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "会话ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 403 {object} util.Response "只有教师可以处理"
// @Router /api/learning/requests/{id}/reject [post]
func (c *LearningController) RejectRequest(ctx *gin.Context) {
	c.respondTransition(ctx, c.LearningService.Reject)
}

// End godoc
// @Summary 结束学习会话
// @Description 双方入账完成奖励并触发徽章判定
// @Tags 学习
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "会话ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "会话不在进行中"
// @Router /api/learning/end/{id} [post]
func (c *LearningController) End(ctx *gin.Context) {
	c.respondTransition(ctx, c.LearningService.End)
}

func (c *LearningController) respondTransition(ctx *gin.Context, op func(userID, sessionID uint) (*model.LearningSession, error)) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid session id")
		return
	}

	claims := util.GetUserFromContext(ctx)
	session, err := op(claims.UserID, uint(id))
	if err != nil {
		c.respondSessionError(ctx, err)
		return
	}
	util.Success(ctx, service.SerializeSession(session, time.Now()))
}

func (c *LearningController) respondSessionError(ctx *gin.Context, err error) {
	var insufficient *service.InsufficientPointsError
	switch {
	case errors.As(err, &insufficient):
		util.ErrorData(ctx, http.StatusBadRequest, "insufficient points", insufficient)
	case errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx, "user not found")
	case errors.Is(err, util.ErrSessionNotFound):
		util.NotFound(ctx, "learning session not found")
	case errors.Is(err, util.ErrSelfSession):
		util.BadRequest(ctx, "cannot start a session with yourself")
	case errors.Is(err, util.ErrDuplicateSession):
		util.BadRequest(ctx, "an active session for this skill already exists")
	case errors.Is(err, util.ErrNotSessionTeacher):
		util.Forbidden(ctx, "only the teacher can respond to this request")
	case errors.Is(err, util.ErrNotSessionParty):
		util.Forbidden(ctx, "not a participant of this session")
	case errors.Is(err, model.ErrInvalidTransition):
		util.BadRequest(ctx, "session state does not allow this operation")
	default:
		util.LogInternalError(ctx, err)
	}
}

// Sessions godoc
// @Summary 我的学习会话
// @Tags 学习
// @Produce  json
// @Security ApiKeyAuth
// @Param   role query string false "learner|teacher"
// @Param   status query string false "pending|in_progress|completed|rejected|cancelled"
// @Success 200 {object} util.Response{data=[]object}
// @Router /api/learning/sessions [get]
func (c *LearningController) Sessions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	sessions, err := c.LearningService.Sessions(claims.UserID, ctx.Query("role"), model.SessionStatus(ctx.Query("status")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, serializeSessions(sessions))
}

// Session godoc
// @Summary 会话详情
// @Tags 学习
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "会话ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 403 {object} util.Response "仅参与方可见"
// @Router /api/learning/sessions/{id} [get]
func (c *LearningController) Session(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid session id")
		return
	}

	claims := util.GetUserFromContext(ctx)
	session, err := c.LearningService.Session(claims.UserID, uint(id))
	if err != nil {
		c.respondSessionError(ctx, err)
		return
	}
	util.Success(ctx, service.SerializeSession(session, time.Now()))
}

// CanRate godoc
// @Summary 是否可以评分
// @Tags 学习
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "会话ID"
// @Success 200 {object} util.Response{data=service.CanRateResult}
// @Router /api/learning/can-rate/{id} [get]
func (c *LearningController) CanRate(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid session id")
		return
	}

	claims := util.GetUserFromContext(ctx)
	result, err := c.RatingService.CanRate(claims.UserID, uint(id))
	if err != nil {
		c.respondSessionError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

type RateRequest struct {
	Rating   int    `json:"rating" binding:"required"`
	Feedback string `json:"feedback"`
}

// Rate godoc
// @Summary 会话评分
// @Description 仅已完成会话的参与方，1~5 分，每人每会话一次
// @Tags 学习
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "会话ID"
// @Param   body body RateRequest true "评分"
// @Success 201 {object} util.Response{data=model.SkillRating}
// @Failure 400 {object} util.Response "分值无效、未完成或已评过"
// @Router /api/learning/rate/{id} [post]
func (c *LearningController) Rate(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid session id")
		return
	}

	var req RateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	rating, err := c.RatingService.Rate(claims.UserID, uint(id), req.Rating, req.Feedback)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidRating):
			util.BadRequest(ctx, "rating must be between 1 and 5")
		case errors.Is(err, util.ErrSessionNotCompleted):
			util.BadRequest(ctx, "session is not completed")
		case errors.Is(err, util.ErrAlreadyRated):
			util.BadRequest(ctx, "you already rated this session")
		default:
			c.respondSessionError(ctx, err)
		}
		return
	}
	util.Created(ctx, rating)
}

// SessionRatings godoc
// @Summary 会话的全部评分
// @Tags 学习
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "会话ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/learning/ratings/{id} [get]
func (c *LearningController) SessionRatings(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid session id")
		return
	}

	claims := util.GetUserFromContext(ctx)
	ratings, canRate, err := c.RatingService.SessionRatings(claims.UserID, uint(id))
	if err != nil {
		c.respondSessionError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"ratings": ratings, "can_rate": canRate})
}

// UserRatings godoc
// @Summary 用户收到的评分
// @Tags 学习
// @Produce  json
// @Security ApiKeyAuth
// @Param   username path string true "用户名"
// @Param   role query string false "as_learner|as_teacher"
// @Success 200 {object} util.Response{data=service.UserRatingSummary}
// @Router /api/learning/ratings/user/{username} [get]
func (c *LearningController) UserRatings(ctx *gin.Context) {
	summary, err := c.RatingService.UserRatings(ctx.Param("username"), ctx.Query("role"))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "user not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, summary)
}

// SkillsLearned godoc
// @Summary 学到的技能
// @Tags 学习
// @Produce  json
// @Security ApiKeyAuth
// @Param   username path string false "用户名，缺省为当前用户"
// @Success 200 {object} util.Response{data=[]object}
// @Router /api/learning/skills-learned [get]
func (c *LearningController) SkillsLearned(ctx *gin.Context) {
	c.skillsByRole(ctx, false)
}

// SkillsTaught godoc
// @Summary 教过的技能
// @Tags 学习
// @Produce  json
// @Security ApiKeyAuth
// @Param   username path string false "用户名，缺省为当前用户"
// @Success 200 {object} util.Response{data=[]object}
// @Router /api/learning/skills-taught [get]
func (c *LearningController) SkillsTaught(ctx *gin.Context) {
	c.skillsByRole(ctx, true)
}

func (c *LearningController) skillsByRole(ctx *gin.Context, asTeacher bool) {
	claims := util.GetUserFromContext(ctx)
	sessions, err := c.LearningService.SkillsByRole(claims.UserID, ctx.Param("username"), asTeacher)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "user not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, serializeSessions(sessions))
}

// Badges godoc
// @Summary 成就徽章
// @Tags 学习
// @Produce  json
// @Security ApiKeyAuth
// @Param   username path string false "用户名，缺省为当前用户"
// @Success 200 {object} util.Response{data=object}
// @Router /api/learning/badges [get]
func (c *LearningController) Badges(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	targetID := claims.UserID
	if username := ctx.Param("username"); username != "" {
		user, err := c.UserService.ProfileByUsername(username)
		if err != nil {
			util.NotFound(ctx, "user not found")
			return
		}
		targetID = user.ID
	}

	badges, err := c.BadgeService.Badges(targetID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"badges": badges, "total": len(badges)})
}

func serializeSessions(sessions []model.LearningSession) []map[string]interface{} {
	now := time.Now()
	out := make([]map[string]interface{}, 0, len(sessions))
	for i := range sessions {
		out = append(out, service.SerializeSession(&sessions[i], now))
	}
	return out
}
