package model

type TransactionType string

const (
	TxnEarned TransactionType = "earned"
	TxnSpent  TransactionType = "spent"
	TxnBonus  TransactionType = "bonus"
	TxnRefund TransactionType = "refund"
)

// UserPoints 积分账户，不变式 Balance == TotalEarned - TotalSpent
type UserPoints struct {
	BaseModel
	UserID      uint `gorm:"uniqueIndex;not null" json:"-"`
	Balance     int  `gorm:"default:0" json:"balance"`
	TotalEarned int  `gorm:"default:0" json:"total_earned"`
	TotalSpent  int  `gorm:"default:0" json:"total_spent"`
}

func (UserPoints) TableName() string {
	return "user_points"
}

// Apply 把一笔流水记入账户，金额恒为正，方向由类型决定
func (p *UserPoints) Apply(txnType TransactionType, amount int) {
	switch txnType {
	case TxnSpent:
		p.Balance -= amount
		p.TotalSpent += amount
	default:
		p.Balance += amount
		p.TotalEarned += amount
	}
}

// PointTransaction 积分流水，只增不改
type PointTransaction struct {
	BaseModel
	UserID          uint            `gorm:"index;not null" json:"-"`
	Amount          int             `gorm:"not null" json:"amount"`
	TransactionType TransactionType `gorm:"size:20;not null" json:"transaction_type"`
	Description     string          `gorm:"size:255" json:"description"`
	SessionID       *uint           `gorm:"index" json:"session_id,omitempty"`
}

func (PointTransaction) TableName() string {
	return "point_transactions"
}

// PointConfiguration 积分参数，键值表，启动时播种默认值
type PointConfiguration struct {
	BaseModel
	Key         string `gorm:"size:50;unique;not null" json:"key"`
	Value       int    `gorm:"not null" json:"value"`
	Description string `gorm:"size:255" json:"description"`
}

func (PointConfiguration) TableName() string {
	return "point_configurations"
}

// 积分参数键名与默认值
const (
	ConfigJoinLearningCost    = "join_learning_cost"
	ConfigLearnerReward       = "learning_completion_reward_learner"
	ConfigTeacherReward       = "learning_completion_reward_teacher"
	ConfigLearningPeriodDays  = "default_learning_period_days"
	ConfigInitialUserPoints   = "initial_user_points"
	DefaultJoinLearningCost   = 100
	DefaultLearnerReward      = 50
	DefaultTeacherReward      = 150
	DefaultLearningPeriodDays = 30
	DefaultInitialUserPoints  = 1000
)
