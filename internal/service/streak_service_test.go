package service

import (
	"testing"
	"time"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return d
}

func TestStreakStats(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	// 一段 4 天的旧连击和一段延续到昨天的 2 天连击
	for _, d := range []string{
		"2026-08-20", "2026-08-21", "2026-08-22", "2026-08-23",
		"2026-08-29", "2026-08-30",
	} {
		if err := env.logins.Record(user.ID, day(t, d)); err != nil {
			t.Fatalf("record %s: %v", d, err)
		}
	}

	stats, err := env.streaks.Stats(user.ID, now)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	// 今天还没登录，连击从昨天起算，尚未断
	if stats.CurrentStreak != 2 {
		t.Fatalf("current_streak=%d, want 2", stats.CurrentStreak)
	}
	if stats.MaxStreak != 4 {
		t.Fatalf("max_streak=%d, want 4", stats.MaxStreak)
	}
	if stats.TotalDays != 6 {
		t.Fatalf("total_days=%d, want 6", stats.TotalDays)
	}
	if len(stats.Contributions) != 365 {
		t.Fatalf("contributions=%d, want 365", len(stats.Contributions))
	}
	last := stats.Contributions[len(stats.Contributions)-1]
	if last.Date != "2026-08-31" || last.Count != 0 {
		t.Fatalf("last contribution=%+v, want today with count 0", last)
	}
	yesterday := stats.Contributions[len(stats.Contributions)-2]
	if yesterday.Date != "2026-08-30" || yesterday.Count != 1 {
		t.Fatalf("yesterday contribution=%+v, want count 1", yesterday)
	}
}

func TestStreakBrokenByGap(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	// 最近一次登录在前天，连击归零
	for _, d := range []string{"2026-08-27", "2026-08-28", "2026-08-29"} {
		env.logins.Record(user.ID, day(t, d))
	}

	stats, err := env.streaks.Stats(user.ID, now)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.CurrentStreak != 0 {
		t.Fatalf("current_streak=%d, want 0", stats.CurrentStreak)
	}
	if stats.MaxStreak != 3 {
		t.Fatalf("max_streak=%d, want 3", stats.MaxStreak)
	}
}

func TestStreakCountsTodayWhenLoggedIn(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	env.logins.Record(user.ID, day(t, "2026-08-30"))
	env.logins.Record(user.ID, now)

	stats, err := env.streaks.Stats(user.ID, now)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.CurrentStreak != 2 {
		t.Fatalf("current_streak=%d, want 2", stats.CurrentStreak)
	}
}

func TestDailyLoginRecordIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")

	morning := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 8, 31, 22, 0, 0, 0, time.UTC)
	env.logins.Record(user.ID, morning)
	env.logins.Record(user.ID, evening)

	dates, err := env.logins.Dates(user.ID)
	if err != nil {
		t.Fatalf("Dates: %v", err)
	}
	if len(dates) != 1 {
		t.Fatalf("dates=%d, want 1 (same day recorded twice)", len(dates))
	}
}
