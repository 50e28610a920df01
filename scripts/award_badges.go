// 手动触发徽章补发脚本
//
// 该功能已集成到主应用的后台定时任务中（每天凌晨自动执行一次）。
// 此脚本仅用于手动触发，例如历史数据导入后需要立即补发徽章。
//
// 用法: go run scripts/award_badges.go

package main

import (
	"log"
	"skillxchange_backend/internal/config"
	"skillxchange_backend/internal/repository"
	"skillxchange_backend/internal/service"
	"skillxchange_backend/pkg/database"
	"skillxchange_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	badgeRepo := repository.NewBadgeRepository(db)
	learningRepo := repository.NewLearningRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// 离线补发不连 Redis，通知仅落库
	hub := service.NewRealtimeHub(nil)
	notifier := service.NewNotificationService(notificationRepo, hub)
	badges := service.NewBadgeService(badgeRepo, learningRepo, notifier)

	log.Println("手动触发徽章补发任务...")
	awarded, err := badges.Reconcile()
	if err != nil {
		log.Fatalf("徽章补发失败: %v", err)
	}
	log.Printf("完成！共补发 %d 枚徽章", awarded)
}
