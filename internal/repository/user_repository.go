package repository

import (
	"skillxchange_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.Preload("Skills").First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Preload("Skills").Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *UserRepository) UsernameExists(username string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateLastLogin(userID uint) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).Update("last_login", time.Now()).Error
}

// Search 按用户名或技能名模糊匹配，排除查询者本人
func (r *UserRepository) Search(query string, excludeID uint, limit int) ([]model.User, error) {
	var users []model.User
	searchTerm := "%" + query + "%"
	err := r.DB.Preload("Skills").
		Joins("LEFT JOIN skills ON skills.user_id = users.id AND skills.deleted_at IS NULL").
		Where("users.id <> ?", excludeID).
		Where("(users.username LIKE ? OR skills.name LIKE ?)", searchTerm, searchTerm).
		Group("users.id").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// AllExcept 匹配计算用，取除指定用户外的所有用户及其技能
func (r *UserRepository) AllExcept(excludeID uint) ([]model.User, error) {
	var users []model.User
	err := r.DB.Preload("Skills").Where("id <> ?", excludeID).Find(&users).Error
	return users, err
}
