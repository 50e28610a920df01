package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/repository"
	"skillxchange_backend/internal/util"
	"skillxchange_backend/pkg/logger"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxResumeSize = 5 << 20 // 5MB

var ErrNoSkillsFound = errors.New("no recognizable skills found in resume")

type ResumeService struct {
	ResumeRepo *repository.ResumeRepository
	SkillRepo  *repository.SkillRepository
	SkillSvc   *SkillService
	Storage    *StorageService
}

func NewResumeService(resumeRepo *repository.ResumeRepository, skillRepo *repository.SkillRepository, skillSvc *SkillService, storage *StorageService) *ResumeService {
	return &ResumeService{
		ResumeRepo: resumeRepo,
		SkillRepo:  skillRepo,
		SkillSvc:   skillSvc,
		Storage:    storage,
	}
}

type ResumeUploadResult struct {
	Resume      *model.Resume `json:"resume"`
	SkillsFound []string      `json:"skills_found"`
	SkillsAdded []model.Skill `json:"skills_added"`
}

// Upload 保存 PDF、抽取技能并与已有技能去重。一个技能都没识别出来
// 时拒绝上传并删除已存文件
func (s *ResumeService) Upload(ctx context.Context, userID uint, fileHeader *multipart.FileHeader) (*ResumeUploadResult, error) {
	if fileHeader.Size > maxResumeSize {
		return nil, util.ErrFileTooLarge
	}
	if strings.ToLower(filepath.Ext(fileHeader.Filename)) != ".pdf" {
		return nil, util.ErrUnsupportedFileType
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	storedName := fmt.Sprintf("resumes/%d/%s.pdf", userID, model.GenerateUUID())
	if _, err := s.Storage.Upload(ctx, storedName, src, fileHeader.Size, "application/pdf"); err != nil {
		return nil, err
	}

	text, err := extractPDFText(s.Storage.LocalPath(storedName))
	if err != nil {
		s.Storage.Delete(ctx, storedName)
		logger.Log.Warn("Resume text extraction failed", zap.Error(err), zap.Uint("userId", userID))
		return nil, util.ErrUnsupportedFileType
	}

	skillNames := ExtractSkills(text)
	if len(skillNames) == 0 {
		s.Storage.Delete(ctx, storedName)
		return nil, ErrNoSkillsFound
	}

	existing, err := s.SkillRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	existingNames := make(map[string]bool, len(existing))
	for _, sk := range existing {
		existingNames[strings.ToLower(sk.Name)] = true
	}

	var added []model.Skill
	for _, name := range skillNames {
		if existingNames[name] {
			continue
		}
		skill, err := s.SkillSvc.Create(userID, name, "Extracted from resume", model.Beginner)
		if err != nil {
			logger.Log.Warn("Failed to add extracted skill", zap.Error(err), zap.String("skill", name))
			continue
		}
		added = append(added, *skill)
	}

	resume := &model.Resume{
		UserID:    userID,
		FilePath:  storedName,
		FileName:  fileHeader.Filename,
		Processed: true,
	}
	if err := s.ResumeRepo.Upsert(resume); err != nil {
		return nil, err
	}

	if added == nil {
		added = []model.Skill{}
	}
	return &ResumeUploadResult{
		Resume:      resume,
		SkillsFound: skillNames,
		SkillsAdded: added,
	}, nil
}

func (s *ResumeService) Current(userID uint) (*model.Resume, error) {
	resume, err := s.ResumeRepo.FindByUser(userID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrResumeNotFound
	}
	return resume, err
}

func (s *ResumeService) Delete(ctx context.Context, userID uint) error {
	resume, err := s.Current(userID)
	if err != nil {
		return err
	}
	if err := s.Storage.Delete(ctx, resume.FilePath); err != nil {
		logger.Log.Warn("Failed to delete resume file", zap.Error(err), zap.String("path", resume.FilePath))
	}
	return s.ResumeRepo.Delete(userID)
}

func extractPDFText(path string) (string, error) {
	if path == "" {
		return "", errors.New("resume file unavailable")
	}
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	content, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	if _, err := buf.ReadFrom(content); err != nil {
		return "", err
	}
	return buf.String(), nil
}
