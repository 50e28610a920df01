package repository

import (
	"skillxchange_backend/internal/model"

	"gorm.io/gorm"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

func (r *BadgeRepository) FindByUser(userID uint) ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.Where("user_id = ?", userID).Order("created_at").Find(&badges).Error
	return badges, err
}

func (r *BadgeRepository) Has(userID uint, badgeType model.BadgeType) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Badge{}).
		Where("user_id = ? AND badge_type = ?", userID, badgeType).
		Count(&count).Error
	return count > 0, err
}

// Award 幂等授予，已存在时不重复插入
func (r *BadgeRepository) Award(userID uint, badgeType model.BadgeType) (bool, error) {
	has, err := r.Has(userID, badgeType)
	if err != nil || has {
		return false, err
	}
	badge := model.Badge{
		UserID:    userID,
		BadgeType: badgeType,
		Name:      model.BadgeName(badgeType),
	}
	if err := r.DB.Create(&badge).Error; err != nil {
		return false, err
	}
	return true, nil
}
