package model

import (
	"strings"
	"time"
)

// User 平台用户。Username 全小写，空格折叠为下划线
// swagger:model User
type User struct {
	BaseModel
	Username  string    `gorm:"size:150;unique;not null" json:"username"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Bio       string     `gorm:"size:500" json:"bio"`
	LastLogin *time.Time `json:"last_login"`

	Skills []Skill `gorm:"foreignKey:UserID" json:"skills,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// NormalizeUsername 注册与查询共用的用户名规范化
func NormalizeUsername(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return strings.ReplaceAll(name, " ", "_")
}

// PublicUser 对外暴露的用户摘要
type PublicUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}
