package repository

import (
	"skillxchange_backend/internal/model"

	"gorm.io/gorm"
)

type ResumeRepository struct {
	DB *gorm.DB
}

func NewResumeRepository(db *gorm.DB) *ResumeRepository {
	return &ResumeRepository{DB: db}
}

func (r *ResumeRepository) FindByUser(userID uint) (*model.Resume, error) {
	var resume model.Resume
	err := r.DB.Where("user_id = ?", userID).First(&resume).Error
	return &resume, err
}

// Upsert 重新上传时覆盖旧简历记录
func (r *ResumeRepository) Upsert(resume *model.Resume) error {
	var existing model.Resume
	err := r.DB.Where("user_id = ?", resume.UserID).First(&existing).Error
	if err == nil {
		resume.ID = existing.ID
		resume.CreatedAt = existing.CreatedAt
		return r.DB.Save(resume).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.DB.Create(resume).Error
}

func (r *ResumeRepository) Delete(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.Resume{}).Error
}
