package repository

import (
	"skillxchange_backend/internal/model"

	"gorm.io/gorm"
)

type RatingRepository struct {
	DB *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{DB: db}
}

func (r *RatingRepository) Create(rating *model.SkillRating) error {
	if err := r.DB.Create(rating).Error; err != nil {
		return err
	}
	return r.DB.Preload("Rater").Preload("RatedUser").First(rating, rating.ID).Error
}

func (r *RatingRepository) Exists(sessionID, raterID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.SkillRating{}).
		Where("session_id = ? AND rater_id = ?", sessionID, raterID).
		Count(&count).Error
	return count > 0, err
}

func (r *RatingRepository) FindBySession(sessionID uint) ([]model.SkillRating, error) {
	var ratings []model.SkillRating
	err := r.DB.Preload("Rater").Preload("RatedUser").
		Where("session_id = ?", sessionID).
		Find(&ratings).Error
	return ratings, err
}

func (r *RatingRepository) FindByRatedUser(userID uint) ([]model.SkillRating, error) {
	var ratings []model.SkillRating
	err := r.DB.Preload("Rater").Preload("RatedUser").
		Where("rated_user_id = ?", userID).
		Order("created_at DESC").
		Find(&ratings).Error
	return ratings, err
}
