package service

import (
	"fmt"
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/repository"
	"skillxchange_backend/pkg/logger"

	"go.uber.org/zap"
)

type BadgeService struct {
	BadgeRepo    *repository.BadgeRepository
	LearningRepo *repository.LearningRepository
	Notifier     *NotificationService
}

func NewBadgeService(badgeRepo *repository.BadgeRepository, learningRepo *repository.LearningRepository, notifier *NotificationService) *BadgeService {
	return &BadgeService{
		BadgeRepo:    badgeRepo,
		LearningRepo: learningRepo,
		Notifier:     notifier,
	}
}

// AwardFor 按已完成的不同技能数核发徽章，幂等；新发徽章才通知
func (s *BadgeService) AwardFor(userID uint) []model.Badge {
	var awarded []model.Badge

	learned, err := s.LearningRepo.CompletedSkillNames(userID, false)
	if err != nil {
		logger.Log.Error("Badge check failed", zap.Error(err), zap.Uint("userId", userID))
		return nil
	}
	taught, err := s.LearningRepo.CompletedSkillNames(userID, true)
	if err != nil {
		logger.Log.Error("Badge check failed", zap.Error(err), zap.Uint("userId", userID))
		return nil
	}

	for _, threshold := range model.BadgeThresholds {
		count := len(learned)
		if threshold.AsTeacher {
			count = len(taught)
		}
		if count < threshold.Count {
			continue
		}

		created, err := s.BadgeRepo.Award(userID, threshold.Type)
		if err != nil {
			logger.Log.Error("Badge award failed", zap.Error(err),
				zap.Uint("userId", userID), zap.String("badge", string(threshold.Type)))
			continue
		}
		if !created {
			continue
		}

		name := model.BadgeName(threshold.Type)
		awarded = append(awarded, model.Badge{UserID: userID, BadgeType: threshold.Type, Name: name})
		if s.Notifier != nil {
			s.Notifier.Notify(userID, model.NotifySkillMatch,
				"New badge earned!",
				fmt.Sprintf("You earned the %q badge", name),
				nil,
				"/profile")
		}
	}
	return awarded
}

func (s *BadgeService) Badges(userID uint) ([]model.Badge, error) {
	return s.BadgeRepo.FindByUser(userID)
}

// Reconcile 对全量出现在已完成会话中的用户重跑核发，定时任务用
func (s *BadgeService) Reconcile() (int, error) {
	ids, err := s.LearningRepo.AllUserIDs()
	if err != nil {
		return 0, err
	}
	total := 0
	for _, id := range ids {
		total += len(s.AwardFor(id))
	}
	logger.Log.Info("Badge reconciliation finished",
		zap.Int("usersChecked", len(ids)), zap.Int("badgesAwarded", total))
	return total, nil
}
