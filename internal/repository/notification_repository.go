package repository

import (
	"skillxchange_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(n *model.Notification) error {
	if err := r.DB.Create(n).Error; err != nil {
		return err
	}
	return r.DB.Preload("Sender").First(n, n.ID).Error
}

// FindByUser 按创建时间倒序，after 非零时只取该时刻之后的通知
func (r *NotificationRepository) FindByUser(userID uint, after time.Time, limit int) ([]model.Notification, error) {
	var ns []model.Notification
	db := r.DB.Preload("Sender").Where("user_id = ?", userID)
	if !after.IsZero() {
		db = db.Where("created_at > ?", after)
	}
	err := db.Order("created_at DESC").Limit(limit).Find(&ns).Error
	return ns, err
}

func (r *NotificationRepository) FindByID(id uint) (*model.Notification, error) {
	var n model.Notification
	err := r.DB.First(&n, id).Error
	return &n, err
}

func (r *NotificationRepository) MarkRead(id uint) error {
	return r.DB.Model(&model.Notification{}).Where("id = ?", id).Update("read", true).Error
}

func (r *NotificationRepository) MarkAllRead(userID uint) error {
	return r.DB.Model(&model.Notification{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Update("read", true).Error
}

func (r *NotificationRepository) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Notification{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Count(&count).Error
	return count, err
}
