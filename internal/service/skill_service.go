package service

import (
	"context"
	"encoding/json"
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/repository"
	"skillxchange_backend/internal/util"
	"skillxchange_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SkillService struct {
	SkillRepo *repository.SkillRepository
	Embedder  *EmbeddingClient
}

func NewSkillService(skillRepo *repository.SkillRepository, embedder *EmbeddingClient) *SkillService {
	return &SkillService{
		SkillRepo: skillRepo,
		Embedder:  embedder,
	}
}

func (s *SkillService) List(userID uint) ([]model.Skill, error) {
	return s.SkillRepo.FindByUser(userID)
}

// Create 同名技能幂等返回已有行；向量化失败只记日志
func (s *SkillService) Create(userID uint, name, description string, level model.ProficiencyLevel) (*model.Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, util.ErrSkillNotFound
	}
	if level == "" {
		level = model.Beginner
	}
	if !level.Valid() {
		level = model.Beginner
	}

	if existing, err := s.SkillRepo.FindByUserAndName(userID, name); err == nil {
		return existing, nil
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	skill := &model.Skill{
		UserID:           userID,
		Name:             name,
		Description:      description,
		ProficiencyLevel: level,
		Embedding:        s.embed(name),
	}
	if err := s.SkillRepo.Create(skill); err != nil {
		return nil, err
	}
	return skill, nil
}

func (s *SkillService) Update(userID, skillID uint, description *string, level *model.ProficiencyLevel) (*model.Skill, error) {
	skill, err := s.owned(userID, skillID)
	if err != nil {
		return nil, err
	}
	if description != nil {
		skill.Description = *description
	}
	if level != nil && level.Valid() {
		skill.ProficiencyLevel = *level
	}
	if err := s.SkillRepo.Update(skill); err != nil {
		return nil, err
	}
	return skill, nil
}

func (s *SkillService) Delete(userID, skillID uint) error {
	if _, err := s.owned(userID, skillID); err != nil {
		return err
	}
	return s.SkillRepo.Delete(skillID)
}

func (s *SkillService) owned(userID, skillID uint) (*model.Skill, error) {
	skill, err := s.SkillRepo.FindByID(skillID)
	if err != nil {
		return nil, util.ErrSkillNotFound
	}
	if skill.UserID != userID {
		return nil, util.ErrSkillNotFound
	}
	return skill, nil
}

// embed 返回向量的 JSON 文本，失败或未配置时为空串
func (s *SkillService) embed(name string) string {
	if s.Embedder == nil || !s.Embedder.Enabled() {
		return ""
	}
	vec, err := s.Embedder.Embed(context.Background(), name)
	if err != nil {
		logger.Log.Warn("Skill embedding failed", zap.Error(err), zap.String("skill", name))
		return ""
	}
	if len(vec) == 0 {
		return ""
	}
	raw, err := json.Marshal(vec)
	if err != nil {
		return ""
	}
	return string(raw)
}
