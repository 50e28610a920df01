package model

// SkillRating 会话评分，(SessionID, RaterID) 唯一，创建后不可变
type SkillRating struct {
	BaseModel
	SessionID   uint   `gorm:"index;not null;uniqueIndex:idx_session_rater" json:"session_id"`
	RaterID     uint   `gorm:"index;not null;uniqueIndex:idx_session_rater" json:"-"`
	Rater       User   `gorm:"foreignKey:RaterID;constraint:false" json:"rater"`
	RatedUserID uint   `gorm:"index;not null" json:"-"`
	RatedUser   User   `gorm:"foreignKey:RatedUserID;constraint:false" json:"rated_user"`
	SkillName   string `gorm:"size:100;not null" json:"skill_name"`
	Rating      int    `gorm:"not null" json:"rating"`
	Feedback    string `gorm:"type:text" json:"feedback"`
}

func (SkillRating) TableName() string {
	return "skill_ratings"
}

func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}
