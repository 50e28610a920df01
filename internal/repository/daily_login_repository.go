package repository

import (
	"skillxchange_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type DailyLoginRepository struct {
	DB *gorm.DB
}

func NewDailyLoginRepository(db *gorm.DB) *DailyLoginRepository {
	return &DailyLoginRepository{DB: db}
}

// Record 幂等记录当天登录
func (r *DailyLoginRepository) Record(userID uint, day time.Time) error {
	day = truncateDay(day)
	var count int64
	if err := r.DB.Model(&model.DailyLogin{}).
		Where("user_id = ? AND date = ?", userID, day).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.DB.Create(&model.DailyLogin{UserID: userID, Date: day}).Error
}

// Dates 用户全部登录日，升序
func (r *DailyLoginRepository) Dates(userID uint) ([]time.Time, error) {
	var logins []model.DailyLogin
	err := r.DB.Where("user_id = ?", userID).Order("date ASC").Find(&logins).Error
	if err != nil {
		return nil, err
	}
	dates := make([]time.Time, 0, len(logins))
	for _, l := range logins {
		dates = append(dates, truncateDay(l.Date))
	}
	return dates, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
