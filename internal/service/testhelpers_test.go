package service

import (
	"fmt"
	"skillxchange_backend/internal/config"
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/repository"
	"skillxchange_backend/internal/testutil"
	"testing"
	"time"

	"gorm.io/gorm"
)

type testEnv struct {
	db  *gorm.DB
	cfg *config.Config

	users    *repository.UserRepository
	skills   *repository.SkillRepository
	notes    *repository.NotificationRepository
	logins   *repository.DailyLoginRepository
	pointsDB *repository.PointRepository

	points   *PointService
	notifier *NotificationService
	badges   *BadgeService
	learning *LearningService
	ratings  *RatingService
	conns    *ConnectionService
	messages *MessageService
	streaks  *StreakService
	auth     *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.OpenTestDB(t)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	cfg.Storage.Type = "local"
	cfg.Storage.LocalPath = t.TempDir()

	users := repository.NewUserRepository(db)
	skills := repository.NewSkillRepository(db)
	notes := repository.NewNotificationRepository(db)
	logins := repository.NewDailyLoginRepository(db)
	pointsDB := repository.NewPointRepository(db)
	learningRepo := repository.NewLearningRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	connRepo := repository.NewConnectionRepository(db, nil)
	msgRepo := repository.NewMessageRepository(db)

	hub := NewRealtimeHub(nil)
	notifier := NewNotificationService(notes, hub)
	points := NewPointService(pointsDB)
	badges := NewBadgeService(badgeRepo, learningRepo, notifier)
	learning := NewLearningService(learningRepo, users, points, badges, notifier)
	ratings := NewRatingService(ratingRepo, learningRepo, users, notifier)
	conns := NewConnectionService(connRepo, users, notifier)
	storage := NewStorageService(cfg)
	messages := NewMessageService(msgRepo, users, conns, notifier, storage, hub)
	streaks := NewStreakService(logins)
	auth := NewAuthService(users, logins, points, cfg)

	return &testEnv{
		db:       db,
		cfg:      cfg,
		users:    users,
		skills:   skills,
		notes:    notes,
		logins:   logins,
		pointsDB: pointsDB,
		points:   points,
		notifier: notifier,
		badges:   badges,
		learning: learning,
		ratings:  ratings,
		conns:    conns,
		messages: messages,
		streaks:  streaks,
		auth:     auth,
	}
}

// createUser 直接建用户并开积分账户，绕过注册流程
func (e *testEnv) createUser(t *testing.T, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "irrelevant",
	}
	if err := e.users.Create(user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	if _, err := e.points.EnsureAccount(user.ID); err != nil {
		t.Fatalf("ensure account for %s: %v", username, err)
	}
	return user
}

func (e *testEnv) balance(t *testing.T, userID uint) int {
	t.Helper()
	b, err := e.points.Balance(userID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	return b
}

// completeSession 走完整生命周期: join -> accept -> end
func (e *testEnv) completeSession(t *testing.T, learnerID, teacherID uint, skill string) *model.LearningSession {
	t.Helper()
	sess, err := e.learning.Join(learnerID, teacherID, skill)
	if err != nil {
		t.Fatalf("join %s: %v", skill, err)
	}
	if _, err := e.learning.Accept(teacherID, sess.ID); err != nil {
		t.Fatalf("accept %s: %v", skill, err)
	}
	done, err := e.learning.End(learnerID, sess.ID)
	if err != nil {
		t.Fatalf("end %s: %v", skill, err)
	}
	return done
}
