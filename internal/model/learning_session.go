package model

import (
	"errors"
	"time"
)

type SessionStatus string

const (
	SessionPending    SessionStatus = "pending"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionRejected   SessionStatus = "rejected"
	SessionCancelled  SessionStatus = "cancelled"
)

var ErrInvalidTransition = errors.New("invalid session state transition")

// LearningSession 学习会话。状态机:
// pending -> in_progress | rejected
// in_progress -> completed | cancelled
// 其余状态为终态
type LearningSession struct {
	BaseModel
	LearnerID uint   `gorm:"index;not null" json:"-"`
	Learner   User   `gorm:"foreignKey:LearnerID;constraint:false" json:"learner"`
	TeacherID uint   `gorm:"index;not null" json:"-"`
	Teacher   User   `gorm:"foreignKey:TeacherID;constraint:false" json:"teacher"`
	SkillID   *uint  `gorm:"index" json:"-"`
	SkillName string `gorm:"size:100;not null;index" json:"skill_name"`

	Status               SessionStatus `gorm:"size:20;default:'pending'" json:"status"`
	PointsDeducted       int           `gorm:"default:0" json:"points_deducted"`
	PointsAwardedLearner int           `gorm:"default:0" json:"points_awarded_learner"`
	PointsAwardedTeacher int           `gorm:"default:0" json:"points_awarded_teacher"`
	TotalDays            int           `gorm:"default:30" json:"total_days"`
	StartDate            *time.Time    `json:"start_date"`
	EndDate              *time.Time    `json:"end_date"`
	MeetLink             string        `gorm:"size:500" json:"meet_link"`
}

func (LearningSession) TableName() string {
	return "learning_sessions"
}

func (s *LearningSession) Active() bool {
	return s.Status == SessionPending || s.Status == SessionInProgress
}

// Accept pending -> in_progress，学习期从接受时刻起算
func (s *LearningSession) Accept(now time.Time) error {
	if s.Status != SessionPending {
		return ErrInvalidTransition
	}
	end := now.AddDate(0, 0, s.TotalDays)
	s.Status = SessionInProgress
	s.StartDate = &now
	s.EndDate = &end
	return nil
}

// Reject pending -> rejected
func (s *LearningSession) Reject() error {
	if s.Status != SessionPending {
		return ErrInvalidTransition
	}
	s.Status = SessionRejected
	return nil
}

// Complete in_progress -> completed
func (s *LearningSession) Complete() error {
	if s.Status != SessionInProgress {
		return ErrInvalidTransition
	}
	s.Status = SessionCompleted
	return nil
}

// Cancel in_progress -> cancelled
func (s *LearningSession) Cancel() error {
	if s.Status != SessionInProgress {
		return ErrInvalidTransition
	}
	s.Status = SessionCancelled
	return nil
}

// DaysRemaining 剩余天数，非 in_progress 或已过期返回 0
func (s *LearningSession) DaysRemaining(now time.Time) int {
	if s.Status != SessionInProgress || s.EndDate == nil {
		return 0
	}
	d := int(s.EndDate.Sub(now).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// Progress 已消耗学习期比例，0~100
func (s *LearningSession) Progress(now time.Time) int {
	switch s.Status {
	case SessionCompleted:
		return 100
	case SessionInProgress:
	default:
		return 0
	}
	if s.StartDate == nil || s.EndDate == nil {
		return 0
	}
	total := s.EndDate.Sub(*s.StartDate)
	if total <= 0 {
		return 100
	}
	p := int(now.Sub(*s.StartDate) * 100 / total)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
