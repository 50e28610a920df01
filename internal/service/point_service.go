package service

import (
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/repository"

	"gorm.io/gorm"
)

type PointService struct {
	PointRepo *repository.PointRepository
}

func NewPointService(pointRepo *repository.PointRepository) *PointService {
	return &PointService{PointRepo: pointRepo}
}

// WithTx 积分入账并入外层事务，回滚时账户与流水一并回滚
func (s *PointService) WithTx(tx *gorm.DB) *PointService {
	return &PointService{PointRepo: s.PointRepo.WithTx(tx)}
}

// EnsureAccount 账户不存在时创建，初始积分走 bonus 流水入账，
// 保证 balance == total_earned - total_spent 恒成立
func (s *PointService) EnsureAccount(userID uint) (*model.UserPoints, error) {
	has, err := s.PointRepo.HasAccount(userID)
	if err != nil {
		return nil, err
	}
	if has {
		return s.PointRepo.Account(userID)
	}

	initial := s.PointRepo.ConfigValue(model.ConfigInitialUserPoints, model.DefaultInitialUserPoints)
	return s.PointRepo.Record(userID, model.TxnBonus, initial, "Welcome bonus", nil)
}

// Overview 账户与最近 20 条流水
func (s *PointService) Overview(userID uint) (*model.UserPoints, []model.PointTransaction, error) {
	account, err := s.EnsureAccount(userID)
	if err != nil {
		return nil, nil, err
	}
	txns, err := s.PointRepo.Transactions(userID, 20)
	if err != nil {
		return nil, nil, err
	}
	return account, txns, nil
}

func (s *PointService) Balance(userID uint) (int, error) {
	account, err := s.EnsureAccount(userID)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

func (s *PointService) Debit(userID uint, amount int, description string, sessionID *uint) (*model.UserPoints, error) {
	return s.PointRepo.Record(userID, model.TxnSpent, amount, description, sessionID)
}

func (s *PointService) Credit(userID uint, amount int, description string, sessionID *uint) (*model.UserPoints, error) {
	return s.PointRepo.Record(userID, model.TxnEarned, amount, description, sessionID)
}

func (s *PointService) JoinCost() int {
	return s.PointRepo.ConfigValue(model.ConfigJoinLearningCost, model.DefaultJoinLearningCost)
}

func (s *PointService) LearnerReward() int {
	return s.PointRepo.ConfigValue(model.ConfigLearnerReward, model.DefaultLearnerReward)
}

func (s *PointService) TeacherReward() int {
	return s.PointRepo.ConfigValue(model.ConfigTeacherReward, model.DefaultTeacherReward)
}

func (s *PointService) LearningPeriodDays() int {
	return s.PointRepo.ConfigValue(model.ConfigLearningPeriodDays, model.DefaultLearningPeriodDays)
}
