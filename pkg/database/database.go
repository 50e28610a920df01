package database

import (
	"fmt"
	"log"
	"skillxchange_backend/internal/config"
	"skillxchange_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate 迁移全部表并播种默认积分参数
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Skill{},
		&model.Resume{},
		&model.Connection{},
		&model.Message{},
		&model.Notification{},
		&model.DailyLogin{},
		&model.LearningSession{},
		&model.UserPoints{},
		&model.PointTransaction{},
		&model.PointConfiguration{},
		&model.SkillRating{},
		&model.Badge{},
	)
	if err != nil {
		return err
	}

	return seedPointConfigurations(db)
}

func seedPointConfigurations(db *gorm.DB) error {
	defaults := []model.PointConfiguration{
		{Key: model.ConfigJoinLearningCost, Value: model.DefaultJoinLearningCost, Description: "加入学习会话扣除的积分"},
		{Key: model.ConfigLearnerReward, Value: model.DefaultLearnerReward, Description: "学习者完成会话获得的积分"},
		{Key: model.ConfigTeacherReward, Value: model.DefaultTeacherReward, Description: "教学者完成会话获得的积分"},
		{Key: model.ConfigLearningPeriodDays, Value: model.DefaultLearningPeriodDays, Description: "默认学习期天数"},
		{Key: model.ConfigInitialUserPoints, Value: model.DefaultInitialUserPoints, Description: "新用户初始积分"},
	}

	for _, d := range defaults {
		var count int64
		db.Model(&model.PointConfiguration{}).Where("`key` = ?", d.Key).Count(&count)
		if count == 0 {
			if err := db.Create(&d).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
