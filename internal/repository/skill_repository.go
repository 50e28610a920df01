package repository

import (
	"skillxchange_backend/internal/model"

	"gorm.io/gorm"
)

type SkillRepository struct {
	DB *gorm.DB
}

func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{DB: db}
}

func (r *SkillRepository) Create(skill *model.Skill) error {
	return r.DB.Create(skill).Error
}

func (r *SkillRepository) FindByID(id uint) (*model.Skill, error) {
	var skill model.Skill
	err := r.DB.First(&skill, id).Error
	return &skill, err
}

func (r *SkillRepository) FindByUser(userID uint) ([]model.Skill, error) {
	var skills []model.Skill
	err := r.DB.Where("user_id = ?", userID).Order("name").Find(&skills).Error
	return skills, err
}

func (r *SkillRepository) FindByUserAndName(userID uint, name string) (*model.Skill, error) {
	var skill model.Skill
	err := r.DB.Where("user_id = ? AND name = ?", userID, name).First(&skill).Error
	return &skill, err
}

func (r *SkillRepository) Update(skill *model.Skill) error {
	return r.DB.Save(skill).Error
}

func (r *SkillRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Skill{}, id).Error
}

func (r *SkillRepository) DeleteByUser(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.Skill{}).Error
}
