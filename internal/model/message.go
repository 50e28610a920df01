package model

// Message 私信记录，创建后不可变，按 created_at 升序排列
type Message struct {
	BaseModel
	SenderID   uint   `gorm:"index;not null" json:"-"`
	Sender     User   `gorm:"foreignKey:SenderID;constraint:false" json:"sender"`
	ReceiverID uint   `gorm:"index;not null" json:"-"`
	Receiver   User   `gorm:"foreignKey:ReceiverID;constraint:false" json:"receiver"`
	Content    string `gorm:"type:text" json:"content"`
	FilePath   string `gorm:"size:255" json:"-"`
	FileName   string `gorm:"size:255" json:"file_name,omitempty"`
	FileURL    string `gorm:"-" json:"file_url,omitempty"`
	Read       bool   `gorm:"default:false" json:"read"`
}

func (Message) TableName() string {
	return "messages"
}
