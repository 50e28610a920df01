package model

import "time"

// DailyLogin 每用户每天至多一条，任何认证请求都会触发记录
type DailyLogin struct {
	BaseModel
	UserID uint      `gorm:"index;not null;uniqueIndex:idx_user_login_date" json:"-"`
	Date   time.Time `gorm:"type:date;not null;uniqueIndex:idx_user_login_date" json:"date"`
}

func (DailyLogin) TableName() string {
	return "daily_logins"
}
