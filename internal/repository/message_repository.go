package repository

import (
	"skillxchange_backend/internal/model"

	"gorm.io/gorm"
)

type MessageRepository struct {
	DB *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) Create(msg *model.Message) error {
	if err := r.DB.Create(msg).Error; err != nil {
		return err
	}
	return r.DB.Preload("Sender").Preload("Receiver").First(msg, msg.ID).Error
}

// Conversation 两用户间的全部消息，按时间升序
func (r *MessageRepository) Conversation(a, b uint) ([]model.Message, error) {
	var msgs []model.Message
	err := r.DB.Preload("Sender").Preload("Receiver").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at ASC").
		Find(&msgs).Error
	return msgs, err
}

func (r *MessageRepository) MarkRead(senderID, receiverID uint) error {
	return r.DB.Model(&model.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND `read` = ?", senderID, receiverID, false).
		Update("read", true).Error
}

func (r *MessageRepository) UnreadCountFrom(senderID, receiverID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND `read` = ?", senderID, receiverID, false).
		Count(&count).Error
	return count, err
}

// LastBetween 两用户间最近一条消息，会话列表用
func (r *MessageRepository) LastBetween(a, b uint) (*model.Message, error) {
	var msg model.Message
	err := r.DB.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at DESC").
		First(&msg).Error
	return &msg, err
}
