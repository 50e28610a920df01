package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/repository"
	"skillxchange_backend/internal/util"
	"sort"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

type MessageService struct {
	MessageRepo   *repository.MessageRepository
	UserRepo      *repository.UserRepository
	ConnectionSvc *ConnectionService
	Notifier      *NotificationService
	Storage       *StorageService
	Hub           *RealtimeHub
}

func NewMessageService(msgRepo *repository.MessageRepository, userRepo *repository.UserRepository, connSvc *ConnectionService, notifier *NotificationService, storage *StorageService, hub *RealtimeHub) *MessageService {
	return &MessageService{
		MessageRepo:   msgRepo,
		UserRepo:      userRepo,
		ConnectionSvc: connSvc,
		Notifier:      notifier,
		Storage:       storage,
		Hub:           hub,
	}
}

// ResolveUser 接受用户 ID 或用户名
func (s *MessageService) ResolveUser(ref string) (*model.User, error) {
	if id, err := strconv.ParseUint(ref, 10, 32); err == nil {
		if user, err := s.UserRepo.FindByID(uint(id)); err == nil {
			return user, nil
		}
	}
	user, err := s.UserRepo.FindByUsername(model.NormalizeUsername(ref))
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	return user, nil
}

type ConversationView struct {
	Messages         []model.Message `json:"messages"`
	ConnectionStatus string          `json:"connection_status"`
	ConnectionID     *uint           `json:"connection_id"`
	IsRequester      bool            `json:"is_requester"`
}

// History 完整历史 + 连接状态块，并把对方发来的未读置已读
func (s *MessageService) History(userID uint, otherRef string) (*ConversationView, error) {
	other, err := s.ResolveUser(otherRef)
	if err != nil {
		return nil, err
	}

	msgs, err := s.MessageRepo.Conversation(userID, other.ID)
	if err != nil {
		return nil, err
	}
	s.MessageRepo.MarkRead(other.ID, userID)
	s.attachFileURLs(msgs)

	view := &ConversationView{
		Messages:         msgs,
		ConnectionStatus: "none",
	}
	if conn, err := s.ConnectionSvc.Between(userID, other.ID); err == nil {
		view.ConnectionStatus = string(conn.Status)
		view.ConnectionID = &conn.ID
		view.IsRequester = conn.RequesterID == userID
	}
	return view, nil
}

// Send 发送消息。无连接时首条消息自动创建 pending 连接请求；
// rejected 一律禁止；pending 只允许请求方继续发
func (s *MessageService) Send(ctx context.Context, senderID uint, receiverRef, content string, file *multipart.FileHeader) (*model.Message, error) {
	receiver, err := s.ResolveUser(receiverRef)
	if err != nil {
		return nil, err
	}
	if receiver.ID == senderID {
		return nil, util.ErrSelfSession
	}
	content = strings.TrimSpace(content)
	if content == "" && file == nil {
		return nil, util.ErrEmptyMessage
	}

	conn, err := s.ConnectionSvc.Between(senderID, receiver.ID)
	switch {
	case err == gorm.ErrRecordNotFound:
		// 首条消息即连接请求
		if _, _, err := s.ConnectionSvc.Request(senderID, receiver.ID); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case conn.Status == model.ConnectionRejected:
		return nil, util.ErrConnectionRejected
	case conn.Status == model.ConnectionPending && conn.RequesterID != senderID:
		return nil, util.ErrConnectionPending
	}

	msg := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiver.ID,
		Content:    content,
	}

	if file != nil {
		src, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer src.Close()

		storedName := fmt.Sprintf("messages/%d/%s%s", senderID, model.GenerateUUID(), filepath.Ext(file.Filename))
		if _, err := s.Storage.Upload(ctx, storedName, src, file.Size, file.Header.Get("Content-Type")); err != nil {
			return nil, err
		}
		msg.FilePath = storedName
		msg.FileName = file.Filename
	}

	if err := s.MessageRepo.Create(msg); err != nil {
		return nil, err
	}
	msg.FileURL = s.fileURL(msg)

	preview := content
	if runes := []rune(preview); len(runes) > 100 {
		preview = string(runes[:100])
	}
	if preview == "" {
		preview = "Sent you a file"
	}
	s.Notifier.Notify(receiver.ID, model.NotifyMessage,
		fmt.Sprintf("New message from %s", msg.Sender.Username),
		preview,
		&senderID,
		fmt.Sprintf("/messages/%s", msg.Sender.Username))

	if s.Hub != nil {
		s.Hub.Publish(ChatChannel(senderID, receiver.ID), "message", msg)
	}

	return msg, nil
}

type ConversationSummary struct {
	User        model.PublicUser `json:"user"`
	LastMessage *model.Message   `json:"last_message"`
	UnreadCount int64            `json:"unread_count"`
}

// Conversations 去重的对话对端列表，按最近消息时间倒序
func (s *MessageService) Conversations(userID uint) ([]ConversationSummary, error) {
	var msgs []model.Message
	err := s.MessageRepo.DB.
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool)
	var summaries []ConversationSummary
	for i := range msgs {
		otherID := msgs[i].SenderID
		if otherID == userID {
			otherID = msgs[i].ReceiverID
		}
		if seen[otherID] {
			continue
		}
		seen[otherID] = true

		other, err := s.UserRepo.FindByID(otherID)
		if err != nil {
			continue
		}
		unread, _ := s.MessageRepo.UnreadCountFrom(otherID, userID)
		last := msgs[i]
		last.FileURL = s.fileURL(&last)
		summaries = append(summaries, ConversationSummary{
			User:        other.Public(),
			LastMessage: &last,
			UnreadCount: unread,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastMessage.CreatedAt.After(summaries[j].LastMessage.CreatedAt)
	})
	if summaries == nil {
		summaries = []ConversationSummary{}
	}
	return summaries, nil
}

func (s *MessageService) attachFileURLs(msgs []model.Message) {
	for i := range msgs {
		msgs[i].FileURL = s.fileURL(&msgs[i])
	}
}

func (s *MessageService) fileURL(m *model.Message) string {
	if m.FilePath == "" {
		return ""
	}
	return s.Storage.GetURL(m.FilePath)
}
