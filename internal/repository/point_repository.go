package repository

import (
	"skillxchange_backend/internal/model"

	"gorm.io/gorm"
)

type PointRepository struct {
	DB *gorm.DB
}

func NewPointRepository(db *gorm.DB) *PointRepository {
	return &PointRepository{DB: db}
}

// WithTx 绑定到外层事务，用于跨账户/会话的原子变更
func (r *PointRepository) WithTx(tx *gorm.DB) *PointRepository {
	return &PointRepository{DB: tx}
}

func (r *PointRepository) HasAccount(userID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.UserPoints{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

// Account 读取账户，不存在时创建零余额账户
func (r *PointRepository) Account(userID uint) (*model.UserPoints, error) {
	var p model.UserPoints
	err := r.DB.Where("user_id = ?", userID).First(&p).Error
	if err == gorm.ErrRecordNotFound {
		p = model.UserPoints{UserID: userID}
		err = r.DB.Create(&p).Error
	}
	return &p, err
}

// Record 在单事务内更新账户并写入流水
func (r *PointRepository) Record(userID uint, txnType model.TransactionType, amount int, description string, sessionID *uint) (*model.UserPoints, error) {
	var account model.UserPoints
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&account).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			account = model.UserPoints{UserID: userID}
			if err := tx.Create(&account).Error; err != nil {
				return err
			}
		}

		account.Apply(txnType, amount)
		if err := tx.Save(&account).Error; err != nil {
			return err
		}

		txn := model.PointTransaction{
			UserID:          userID,
			Amount:          amount,
			TransactionType: txnType,
			Description:     description,
			SessionID:       sessionID,
		}
		return tx.Create(&txn).Error
	})
	return &account, err
}

func (r *PointRepository) Transactions(userID uint, limit int) ([]model.PointTransaction, error) {
	var txns []model.PointTransaction
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txns).Error
	return txns, err
}

// ConfigValue 读取积分参数，缺失时返回默认值
func (r *PointRepository) ConfigValue(key string, fallback int) int {
	var cfg model.PointConfiguration
	if err := r.DB.Where("`key` = ?", key).First(&cfg).Error; err != nil {
		return fallback
	}
	return cfg.Value
}
