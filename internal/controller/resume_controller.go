package controller

import (
	"errors"
	"skillxchange_backend/internal/service"
	"skillxchange_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResumeController struct {
	ResumeService *service.ResumeService
}

func NewResumeController(resumeService *service.ResumeService) *ResumeController {
	return &ResumeController{ResumeService: resumeService}
}

// Upload godoc
// @Summary 上传简历
// @Description 仅 PDF、最大 5MB；抽取技能写入资料，未识别出技能则拒绝
// @Tags 简历
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   resume formData file true "简历文件"
// @Success 201 {object} util.Response{data=service.ResumeUploadResult}
// @Failure 400 {object} util.Response
// @Router /api/upload_resume [post]
func (c *ResumeController) Upload(ctx *gin.Context) {
	file, err := ctx.FormFile("resume")
	if err != nil {
		util.BadRequest(ctx, "resume file is required")
		return
	}

	claims := util.GetUserFromContext(ctx)
	result, err := c.ResumeService.Upload(ctx.Request.Context(), claims.UserID, file)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrFileTooLarge):
			util.BadRequest(ctx, "resume exceeds the 5MB limit")
		case errors.Is(err, util.ErrUnsupportedFileType):
			util.BadRequest(ctx, "only PDF resumes are supported")
		case errors.Is(err, service.ErrNoSkillsFound):
			util.BadRequest(ctx, "no recognizable skills found in resume")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, result)
}

// Current godoc
// @Summary 当前简历
// @Tags 简历
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Resume}
// @Failure 404 {object} util.Response
// @Router /api/resume/current [get]
func (c *ResumeController) Current(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	resume, err := c.ResumeService.Current(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrResumeNotFound) {
			util.NotFound(ctx, "no resume uploaded")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, resume)
}

// Delete godoc
// @Summary 删除当前简历
// @Tags 简历
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/resume/current [delete]
func (c *ResumeController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.ResumeService.Delete(ctx.Request.Context(), claims.UserID); err != nil {
		if errors.Is(err, util.ErrResumeNotFound) {
			util.NotFound(ctx, "no resume uploaded")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
