package model

type NotificationType string

const (
	NotifyMessage            NotificationType = "message"
	NotifyConnectionRequest  NotificationType = "connection_request"
	NotifyConnectionAccepted NotificationType = "connection_accepted"
	NotifySkillMatch         NotificationType = "skill_match"
)

// Notification 站内通知，仅由后端事件产生，只允许 read=false→true 单向变更
type Notification struct {
	BaseModel
	UserID           uint             `gorm:"index;not null" json:"-"`
	NotificationType NotificationType `gorm:"size:30;not null" json:"notification_type"`
	Title            string           `gorm:"size:200;not null" json:"title"`
	Message          string           `gorm:"type:text" json:"message"`
	SenderID         *uint            `gorm:"index" json:"-"`
	Sender           *User            `gorm:"foreignKey:SenderID;constraint:false" json:"sender,omitempty"`
	Link             string           `gorm:"size:500" json:"link"`
	Read             bool             `gorm:"default:false" json:"read"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) SenderUsername() string {
	if n.Sender != nil {
		return n.Sender.Username
	}
	return ""
}
