package service

import (
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/repository"
	"skillxchange_backend/internal/util"
	"skillxchange_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

type NotificationService struct {
	NotificationRepo *repository.NotificationRepository
	Hub              *RealtimeHub
}

func NewNotificationService(repo *repository.NotificationRepository, hub *RealtimeHub) *NotificationService {
	return &NotificationService{
		NotificationRepo: repo,
		Hub:              hub,
	}
}

// Notify 持久化通知并尽力推送，推送失败不影响调用方
func (s *NotificationService) Notify(userID uint, notifType model.NotificationType, title, message string, senderID *uint, link string) {
	n := &model.Notification{
		UserID:           userID,
		NotificationType: notifType,
		Title:            title,
		Message:          message,
		SenderID:         senderID,
		Link:             link,
	}
	if err := s.NotificationRepo.Create(n); err != nil {
		logger.Log.Error("Failed to create notification",
			zap.Error(err), zap.Uint("userId", userID), zap.String("type", string(notifType)))
		return
	}

	if s.Hub != nil {
		s.Hub.Publish(NotificationChannel(userID), "new-notification", s.Serialize(n))
	}
}

// Serialize 通知的对外表示
func (s *NotificationService) Serialize(n *model.Notification) map[string]interface{} {
	return map[string]interface{}{
		"id":                n.ID,
		"notification_type": n.NotificationType,
		"title":             n.Title,
		"message":           n.Message,
		"sender_username":   n.SenderUsername(),
		"link":              n.Link,
		"read":              n.Read,
		"created_at":        n.CreatedAt,
	}
}

// List after 为零值时返回全部
func (s *NotificationService) List(userID uint, after time.Time, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.NotificationRepo.FindByUser(userID, after, limit)
}

func (s *NotificationService) MarkRead(userID, notificationID uint) error {
	n, err := s.NotificationRepo.FindByID(notificationID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return util.ErrNotificationDenied
	}
	return s.NotificationRepo.MarkRead(notificationID)
}

func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.NotificationRepo.MarkAllRead(userID)
}

func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	return s.NotificationRepo.UnreadCount(userID)
}
