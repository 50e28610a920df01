package model

type BadgeType string

const (
	BadgeLearner3  BadgeType = "learner_3"
	BadgeLearner5  BadgeType = "learner_5"
	BadgeLearner10 BadgeType = "learner_10"
	BadgeTeacher3  BadgeType = "teacher_3"
	BadgeTeacher5  BadgeType = "teacher_5"
	BadgeTeacher10 BadgeType = "teacher_10"
)

// BadgeThresholds 徽章类型与所需不同技能数，按角色分组
var BadgeThresholds = []struct {
	Type      BadgeType
	AsTeacher bool
	Count     int
}{
	{BadgeLearner3, false, 3},
	{BadgeLearner5, false, 5},
	{BadgeLearner10, false, 10},
	{BadgeTeacher3, true, 3},
	{BadgeTeacher5, true, 5},
	{BadgeTeacher10, true, 10},
}

// Badge 成就徽章，(UserID, BadgeType) 唯一，只授予不撤销
type Badge struct {
	BaseModel
	UserID    uint      `gorm:"index;not null;uniqueIndex:idx_user_badge" json:"-"`
	BadgeType BadgeType `gorm:"size:30;not null;uniqueIndex:idx_user_badge" json:"badge_type"`
	Name      string    `gorm:"size:100;not null" json:"name"`
}

func (Badge) TableName() string {
	return "badges"
}

// BadgeName 徽章展示名
func BadgeName(t BadgeType) string {
	switch t {
	case BadgeLearner3:
		return "Curious Mind"
	case BadgeLearner5:
		return "Knowledge Seeker"
	case BadgeLearner10:
		return "Lifelong Learner"
	case BadgeTeacher3:
		return "Helping Hand"
	case BadgeTeacher5:
		return "Mentor"
	case BadgeTeacher10:
		return "Master Teacher"
	}
	return string(t)
}
