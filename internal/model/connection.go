package model

type ConnectionStatus string

const (
	ConnectionPending   ConnectionStatus = "pending"
	ConnectionConnected ConnectionStatus = "connected"
	ConnectionRejected  ConnectionStatus = "rejected"
)

// Connection 两个用户之间的有向关系边，创建后不做物理删除
type Connection struct {
	BaseModel
	RequesterID uint             `gorm:"index;not null;uniqueIndex:idx_requester_receiver" json:"-"`
	Requester   User             `gorm:"foreignKey:RequesterID;constraint:false" json:"requester"`
	ReceiverID  uint             `gorm:"index;not null;uniqueIndex:idx_requester_receiver" json:"-"`
	Receiver    User             `gorm:"foreignKey:ReceiverID;constraint:false" json:"receiver"`
	Status      ConnectionStatus `gorm:"size:20;default:'pending'" json:"status"`
}

func (Connection) TableName() string {
	return "connections"
}

// Involves 判断用户是否为该关系的任意一端
func (c *Connection) Involves(userID uint) bool {
	return c.RequesterID == userID || c.ReceiverID == userID
}

// OtherParty 返回对端用户 ID
func (c *Connection) OtherParty(userID uint) uint {
	if c.RequesterID == userID {
		return c.ReceiverID
	}
	return c.RequesterID
}
