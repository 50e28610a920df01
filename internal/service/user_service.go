package service

import (
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/repository"
	"skillxchange_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo  *repository.UserRepository
	SkillRepo *repository.SkillRepository
}

func NewUserService(userRepo *repository.UserRepository, skillRepo *repository.SkillRepository) *UserService {
	return &UserService{
		UserRepo:  userRepo,
		SkillRepo: skillRepo,
	}
}

func (s *UserService) Profile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

func (s *UserService) ProfileByUsername(username string) (*model.User, error) {
	user, err := s.UserRepo.FindByUsername(model.NormalizeUsername(username))
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

// UpdateProfile 目前仅 bio 可改
func (s *UserService) UpdateProfile(userID uint, bio *string) (*model.User, error) {
	user, err := s.Profile(userID)
	if err != nil {
		return nil, err
	}
	if bio != nil {
		user.Bio = *bio
	}
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Search 精确用户名命中优先，否则按用户名/技能名模糊匹配
func (s *UserService) Search(query string, skillLevel model.ProficiencyLevel, excludeID uint) ([]model.User, error) {
	if query == "" {
		return []model.User{}, nil
	}

	if exact, err := s.UserRepo.FindByUsername(model.NormalizeUsername(query)); err == nil && exact.ID != excludeID {
		return filterBySkillLevel([]model.User{*exact}, skillLevel), nil
	}

	users, err := s.UserRepo.Search(query, excludeID, 20)
	if err != nil {
		return nil, err
	}
	return filterBySkillLevel(users, skillLevel), nil
}

func filterBySkillLevel(users []model.User, level model.ProficiencyLevel) []model.User {
	if level == "" {
		return users
	}
	filtered := make([]model.User, 0, len(users))
	for _, u := range users {
		for _, sk := range u.Skills {
			if sk.ProficiencyLevel == level {
				filtered = append(filtered, u)
				break
			}
		}
	}
	return filtered
}
