package service

import (
	"fmt"
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/repository"
	"skillxchange_backend/internal/util"

	"gorm.io/gorm"
)

type ConnectionService struct {
	ConnectionRepo *repository.ConnectionRepository
	UserRepo       *repository.UserRepository
	Notifier       *NotificationService
}

func NewConnectionService(connRepo *repository.ConnectionRepository, userRepo *repository.UserRepository, notifier *NotificationService) *ConnectionService {
	return &ConnectionService{
		ConnectionRepo: connRepo,
		UserRepo:       userRepo,
		Notifier:       notifier,
	}
}

// Request 发起连接请求。已存在任意方向的边时原样返回
func (s *ConnectionService) Request(requesterID, receiverID uint) (*model.Connection, bool, error) {
	if requesterID == receiverID {
		return nil, false, util.ErrSelfSession
	}
	receiver, err := s.UserRepo.FindByID(receiverID)
	if err != nil {
		return nil, false, util.ErrUserNotFound
	}

	if existing, err := s.ConnectionRepo.FindBetween(requesterID, receiverID); err == nil {
		return existing, false, nil
	} else if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	conn := &model.Connection{
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      model.ConnectionPending,
	}
	if err := s.ConnectionRepo.Create(conn); err != nil {
		return nil, false, err
	}

	requester, err := s.UserRepo.FindByID(requesterID)
	if err == nil {
		s.Notifier.Notify(receiver.ID, model.NotifyConnectionRequest,
			"New connection request",
			fmt.Sprintf("%s wants to connect with you", requester.Username),
			&requesterID,
			fmt.Sprintf("/messages/%s", requester.Username))
	}

	created, err := s.ConnectionRepo.FindByID(conn.ID)
	if err != nil {
		return conn, true, nil
	}
	return created, true, nil
}

// Accept 仅接收方、仅 pending 状态可接受
func (s *ConnectionService) Accept(userID, connectionID uint) (*model.Connection, error) {
	conn, err := s.respondable(userID, connectionID)
	if err != nil {
		return nil, err
	}

	if err := s.ConnectionRepo.UpdateStatus(conn.ID, model.ConnectionConnected); err != nil {
		return nil, err
	}
	s.ConnectionRepo.InvalidateCache(conn.RequesterID, conn.ReceiverID)
	conn.Status = model.ConnectionConnected

	s.Notifier.Notify(conn.RequesterID, model.NotifyConnectionAccepted,
		"Connection accepted",
		fmt.Sprintf("%s accepted your connection request", conn.Receiver.Username),
		&conn.ReceiverID,
		fmt.Sprintf("/messages/%s", conn.Receiver.Username))

	return conn, nil
}

// Reject 仅接收方、仅 pending 状态可拒绝
func (s *ConnectionService) Reject(userID, connectionID uint) (*model.Connection, error) {
	conn, err := s.respondable(userID, connectionID)
	if err != nil {
		return nil, err
	}

	if err := s.ConnectionRepo.UpdateStatus(conn.ID, model.ConnectionRejected); err != nil {
		return nil, err
	}
	s.ConnectionRepo.InvalidateCache(conn.RequesterID, conn.ReceiverID)
	conn.Status = model.ConnectionRejected
	return conn, nil
}

func (s *ConnectionService) respondable(userID, connectionID uint) (*model.Connection, error) {
	conn, err := s.ConnectionRepo.FindByID(connectionID)
	if err != nil {
		return nil, util.ErrConnectionNotFound
	}
	if conn.ReceiverID != userID {
		return nil, util.ErrNotReceiver
	}
	if conn.Status != model.ConnectionPending {
		return nil, model.ErrInvalidTransition
	}
	return conn, nil
}

func (s *ConnectionService) List(userID uint) ([]model.Connection, error) {
	return s.ConnectionRepo.FindByUser(userID)
}

// Between 两用户间的连接边，可能不存在
func (s *ConnectionService) Between(a, b uint) (*model.Connection, error) {
	return s.ConnectionRepo.FindBetween(a, b)
}
