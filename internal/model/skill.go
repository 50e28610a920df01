package model

type ProficiencyLevel string

const (
	Beginner     ProficiencyLevel = "beginner"
	Intermediate ProficiencyLevel = "intermediate"
	Advanced     ProficiencyLevel = "advanced"
	Expert       ProficiencyLevel = "expert"
)

func (p ProficiencyLevel) Valid() bool {
	switch p {
	case Beginner, Intermediate, Advanced, Expert:
		return true
	}
	return false
}

// Skill 用户技能。Embedding 为外部向量服务返回的 JSON 数组，可为空
type Skill struct {
	BaseModel
	UserID           uint             `gorm:"index;not null;uniqueIndex:idx_user_skill_name" json:"-"`
	Name             string           `gorm:"size:100;not null;uniqueIndex:idx_user_skill_name" json:"name"`
	Description      string           `gorm:"type:text" json:"description"`
	ProficiencyLevel ProficiencyLevel `gorm:"size:20;default:'beginner'" json:"proficiency_level"`
	Embedding        string           `gorm:"type:json" json:"-"`
}

func (Skill) TableName() string {
	return "skills"
}
