package service

import (
	"fmt"
	"math/rand"
	"regexp"
	"skillxchange_backend/internal/config"
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/repository"
	"skillxchange_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type AuthService struct {
	UserRepo  *repository.UserRepository
	LoginRepo *repository.DailyLoginRepository
	PointSvc  *PointService
	Cfg       *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, loginRepo *repository.DailyLoginRepository, pointSvc *PointService, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:  userRepo,
		LoginRepo: loginRepo,
		PointSvc:  pointSvc,
		Cfg:       cfg,
	}
}

// Register 创建用户并发放初始积分，返回登录令牌
func (s *AuthService) Register(username, email, password string) (string, *model.User, error) {
	username = model.NormalizeUsername(username)
	if username == "" || email == "" || password == "" {
		return "", nil, util.ErrInvalidCredentials
	}
	if !emailPattern.MatchString(email) {
		return "", nil, util.ErrInvalidCredentials
	}

	if taken, err := s.UserRepo.EmailExists(email); err != nil {
		return "", nil, err
	} else if taken {
		return "", nil, util.ErrEmailRegistered
	}
	if taken, err := s.UserRepo.UsernameExists(username); err != nil {
		return "", nil, err
	} else if taken {
		return "", nil, util.ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
	}
	if err := s.UserRepo.Create(user); err != nil {
		return "", nil, err
	}

	if _, err := s.PointSvc.EnsureAccount(user.ID); err != nil {
		return "", nil, err
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Login 校验凭据，签发 JWT，记录当日登录
func (s *AuthService) Login(username, password string) (string, *model.User, error) {
	username = model.NormalizeUsername(username)
	user, err := s.UserRepo.FindByUsername(username)
	if err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}

	s.UserRepo.UpdateLastLogin(user.ID)
	s.LoginRepo.Record(user.ID, time.Now())

	return token, user, nil
}

// CheckUsername 可用性检查，被占用时给出随机后缀建议
func (s *AuthService) CheckUsername(username string) (bool, string, error) {
	username = model.NormalizeUsername(username)
	taken, err := s.UserRepo.UsernameExists(username)
	if err != nil {
		return false, "", err
	}
	if !taken {
		return true, "", nil
	}

	for i := 0; i < 5; i++ {
		suggestion := fmt.Sprintf("%s_%03d", username, rand.Intn(1000))
		exists, err := s.UserRepo.UsernameExists(suggestion)
		if err != nil {
			return false, "", err
		}
		if !exists {
			return false, suggestion, nil
		}
	}
	return false, "", nil
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, err := s.UserRepo.FindByID(claims.UserID)
	if err == gorm.ErrRecordNotFound || err != nil {
		return nil
	}
	return user
}
