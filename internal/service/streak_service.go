package service

import (
	"skillxchange_backend/internal/repository"
	"skillxchange_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

type StreakService struct {
	LoginRepo *repository.DailyLoginRepository
}

func NewStreakService(loginRepo *repository.DailyLoginRepository) *StreakService {
	return &StreakService{LoginRepo: loginRepo}
}

// RecordActivity 任何认证请求都视为当天活跃
func (s *StreakService) RecordActivity(userID uint) {
	if err := s.LoginRepo.Record(userID, time.Now()); err != nil {
		logger.Log.Error("Failed to record daily login", zap.Error(err), zap.Uint("userId", userID))
	}
}

type Contribution struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type StreakStats struct {
	CurrentStreak int            `json:"current_streak"`
	MaxStreak     int            `json:"max_streak"`
	TotalDays     int            `json:"total_days"`
	Contributions []Contribution `json:"contributions"`
}

// Stats 连续登录统计。当前连击允许今天尚未登录，从昨天起算
func (s *StreakService) Stats(userID uint, now time.Time) (*StreakStats, error) {
	dates, err := s.LoginRepo.Dates(userID)
	if err != nil {
		return nil, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	daySet := make(map[string]bool, len(dates))
	for _, d := range dates {
		daySet[d.Format("2006-01-02")] = true
	}

	// 当前连击
	current := 0
	cursor := today
	if !daySet[cursor.Format("2006-01-02")] {
		cursor = cursor.AddDate(0, 0, -1)
	}
	for daySet[cursor.Format("2006-01-02")] {
		current++
		cursor = cursor.AddDate(0, 0, -1)
	}

	// 历史最长连击
	max, run := 0, 0
	var prev time.Time
	for i, d := range dates {
		if i > 0 && d.Sub(prev) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > max {
			max = run
		}
		prev = d
	}

	// 最近 365 天贡献图
	contributions := make([]Contribution, 0, 365)
	start := today.AddDate(0, 0, -364)
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		count := 0
		if daySet[key] {
			count = 1
		}
		contributions = append(contributions, Contribution{Date: key, Count: count})
	}

	return &StreakStats{
		CurrentStreak: current,
		MaxStreak:     max,
		TotalDays:     len(dates),
		Contributions: contributions,
	}, nil
}
