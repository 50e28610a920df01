package service

import (
	"fmt"
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/repository"
	"skillxchange_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type LearningService struct {
	LearningRepo *repository.LearningRepository
	UserRepo     *repository.UserRepository
	PointSvc     *PointService
	BadgeSvc     *BadgeService
	Notifier     *NotificationService
}

func NewLearningService(learningRepo *repository.LearningRepository, userRepo *repository.UserRepository, pointSvc *PointService, badgeSvc *BadgeService, notifier *NotificationService) *LearningService {
	return &LearningService{
		LearningRepo: learningRepo,
		UserRepo:     userRepo,
		PointSvc:     pointSvc,
		BadgeSvc:     badgeSvc,
		Notifier:     notifier,
	}
}

// InsufficientPointsError 带余额信息的积分不足错误
type InsufficientPointsError struct {
	Current  int `json:"current_points"`
	Required int `json:"required_points"`
}

func (e *InsufficientPointsError) Error() string {
	return util.ErrInsufficientPoints.Error()
}

func (e *InsufficientPointsError) Unwrap() error {
	return util.ErrInsufficientPoints
}

// Join 学习者发起请求。只校验余额，不扣分；扣分发生在教师接受时
func (s *LearningService) Join(learnerID, teacherID uint, skillName string) (*model.LearningSession, error) {
	if learnerID == teacherID {
		return nil, util.ErrSelfSession
	}
	teacher, err := s.UserRepo.FindByID(teacherID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	cost := s.PointSvc.JoinCost()
	balance, err := s.PointSvc.Balance(learnerID)
	if err != nil {
		return nil, err
	}
	if balance < cost {
		return nil, &InsufficientPointsError{Current: balance, Required: cost}
	}

	if _, err := s.LearningRepo.FindActive(learnerID, teacherID, skillName); err == nil {
		return nil, util.ErrDuplicateSession
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	session := &model.LearningSession{
		LearnerID: learnerID,
		TeacherID: teacherID,
		SkillName: skillName,
		Status:    model.SessionPending,
		TotalDays: s.PointSvc.LearningPeriodDays(),
	}
	if err := s.LearningRepo.Create(session); err != nil {
		return nil, err
	}

	learner, err := s.UserRepo.FindByID(learnerID)
	if err == nil {
		s.Notifier.Notify(teacher.ID, model.NotifySkillMatch,
			"New learning request",
			fmt.Sprintf("%s wants to learn %s from you", learner.Username, skillName),
			&learnerID,
			"/learning/requests")
	}

	return s.LearningRepo.FindByID(session.ID)
}

// Accept 教师接受。扣费恰好发生一次，学习期从此刻起算
func (s *LearningService) Accept(teacherID, sessionID uint) (*model.LearningSession, error) {
	session, err := s.respondable(teacherID, sessionID)
	if err != nil {
		return nil, err
	}

	cost := s.PointSvc.JoinCost()
	balance, err := s.PointSvc.Balance(session.LearnerID)
	if err != nil {
		return nil, err
	}
	if balance < cost {
		return nil, &InsufficientPointsError{Current: balance, Required: cost}
	}

	if err := session.Accept(time.Now()); err != nil {
		return nil, err
	}
	session.PointsDeducted = cost

	// 扣费与状态变更同事务，避免扣了钱会话却停在 pending
	err = s.LearningRepo.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := s.PointSvc.WithTx(tx).Debit(session.LearnerID, cost,
			fmt.Sprintf("Joined learning session: %s", session.SkillName), &session.ID); err != nil {
			return err
		}
		return s.LearningRepo.WithTx(tx).Save(session)
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Notify(session.LearnerID, model.NotifySkillMatch,
		"Learning request accepted",
		fmt.Sprintf("%s accepted your request to learn %s", session.Teacher.Username, session.SkillName),
		&session.TeacherID,
		fmt.Sprintf("/learning/sessions/%d", session.ID))

	return session, nil
}

// Reject 教师拒绝，无积分变动
func (s *LearningService) Reject(teacherID, sessionID uint) (*model.LearningSession, error) {
	session, err := s.respondable(teacherID, sessionID)
	if err != nil {
		return nil, err
	}

	if err := session.Reject(); err != nil {
		return nil, err
	}
	if err := s.LearningRepo.Save(session); err != nil {
		return nil, err
	}

	s.Notifier.Notify(session.LearnerID, model.NotifySkillMatch,
		"Learning request declined",
		fmt.Sprintf("%s declined your request to learn %s", session.Teacher.Username, session.SkillName),
		&session.TeacherID,
		"/learning/sessions")

	return session, nil
}

// End 任一参与方可结束进行中的会话。双方入账，随后跑徽章判定
func (s *LearningService) End(userID, sessionID uint) (*model.LearningSession, error) {
	session, err := s.participantSession(userID, sessionID)
	if err != nil {
		return nil, err
	}

	if err := session.Complete(); err != nil {
		return nil, err
	}
	now := time.Now()
	session.EndDate = &now

	learnerReward := s.PointSvc.LearnerReward()
	teacherReward := s.PointSvc.TeacherReward()
	session.PointsAwardedLearner = learnerReward
	session.PointsAwardedTeacher = teacherReward

	// 双方入账与完成状态同事务
	err = s.LearningRepo.DB.Transaction(func(tx *gorm.DB) error {
		points := s.PointSvc.WithTx(tx)
		if _, err := points.Credit(session.LearnerID, learnerReward,
			fmt.Sprintf("Completed learning: %s", session.SkillName), &session.ID); err != nil {
			return err
		}
		if _, err := points.Credit(session.TeacherID, teacherReward,
			fmt.Sprintf("Completed teaching: %s", session.SkillName), &session.ID); err != nil {
			return err
		}
		return s.LearningRepo.WithTx(tx).Save(session)
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Notify(session.LearnerID, model.NotifySkillMatch,
		"Learning session completed",
		fmt.Sprintf("Your %s session is complete. You earned %d points!", session.SkillName, learnerReward),
		nil,
		fmt.Sprintf("/learning/rate/%d", session.ID))
	s.Notifier.Notify(session.TeacherID, model.NotifySkillMatch,
		"Teaching session completed",
		fmt.Sprintf("Your %s session is complete. You earned %d points!", session.SkillName, teacherReward),
		nil,
		fmt.Sprintf("/learning/rate/%d", session.ID))

	if s.BadgeSvc != nil {
		s.BadgeSvc.AwardFor(session.LearnerID)
		s.BadgeSvc.AwardFor(session.TeacherID)
	}

	return session, nil
}

func (s *LearningService) respondable(teacherID, sessionID uint) (*model.LearningSession, error) {
	session, err := s.LearningRepo.FindByID(sessionID)
	if err != nil {
		return nil, util.ErrSessionNotFound
	}
	if session.TeacherID != teacherID {
		return nil, util.ErrNotSessionTeacher
	}
	return session, nil
}

func (s *LearningService) participantSession(userID, sessionID uint) (*model.LearningSession, error) {
	session, err := s.LearningRepo.FindByID(sessionID)
	if err != nil {
		return nil, util.ErrSessionNotFound
	}
	if session.LearnerID != userID && session.TeacherID != userID {
		return nil, util.ErrNotSessionParty
	}
	return session, nil
}

// Session 会话详情，仅参与方可见
func (s *LearningService) Session(userID, sessionID uint) (*model.LearningSession, error) {
	return s.participantSession(userID, sessionID)
}

// Sessions 用户参与的会话，可按角色和状态过滤
func (s *LearningService) Sessions(userID uint, role string, status model.SessionStatus) ([]model.LearningSession, error) {
	sessions, err := s.LearningRepo.FindByParticipant(userID)
	if err != nil {
		return nil, err
	}

	filtered := make([]model.LearningSession, 0, len(sessions))
	for _, sess := range sessions {
		if role == "learner" && sess.LearnerID != userID {
			continue
		}
		if role == "teacher" && sess.TeacherID != userID {
			continue
		}
		if status != "" && sess.Status != status {
			continue
		}
		filtered = append(filtered, sess)
	}
	return filtered, nil
}

// Requests 待我处理的教学请求
func (s *LearningService) Requests(teacherID uint) ([]model.LearningSession, error) {
	return s.LearningRepo.PendingForTeacher(teacherID)
}

// SkillsByRole 已完成会话，username 为空时取当前用户
func (s *LearningService) SkillsByRole(userID uint, username string, asTeacher bool) ([]model.LearningSession, error) {
	targetID := userID
	if username != "" {
		user, err := s.UserRepo.FindByUsername(model.NormalizeUsername(username))
		if err != nil {
			return nil, util.ErrUserNotFound
		}
		targetID = user.ID
	}
	return s.LearningRepo.CompletedByRole(targetID, asTeacher)
}

// SerializeSession 会话对外表示，带进度与剩余天数派生字段
func SerializeSession(sess *model.LearningSession, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"id":                     sess.ID,
		"learner":                sess.Learner.Public(),
		"teacher":                sess.Teacher.Public(),
		"skill_name":             sess.SkillName,
		"status":                 sess.Status,
		"points_deducted":        sess.PointsDeducted,
		"points_awarded_learner": sess.PointsAwardedLearner,
		"points_awarded_teacher": sess.PointsAwardedTeacher,
		"total_days":             sess.TotalDays,
		"start_date":             sess.StartDate,
		"end_date":               sess.EndDate,
		"progress_percentage":    sess.Progress(now),
		"days_remaining":         sess.DaysRemaining(now),
		"meet_link":              sess.MeetLink,
		"created_at":             sess.CreatedAt,
	}
}
