package service

import (
	"skillxchange_backend/internal/model"
	"testing"
)

func TestBadgeAwardedAtThreeDistinctSkills(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	env.completeSession(t, alice.ID, bob.ID, "Python")
	env.completeSession(t, alice.ID, bob.ID, "Go")

	badges, err := env.badges.Badges(alice.ID)
	if err != nil {
		t.Fatalf("Badges: %v", err)
	}
	if len(badges) != 0 {
		t.Fatalf("badges after 2 skills=%d, want 0", len(badges))
	}

	// 第三个不同技能触发 learner_3，教师侧同时拿到 teacher_3
	env.completeSession(t, alice.ID, bob.ID, "Rust")

	badges, _ = env.badges.Badges(alice.ID)
	if len(badges) != 1 || badges[0].BadgeType != model.BadgeLearner3 {
		t.Fatalf("alice badges=%+v, want exactly learner_3", badges)
	}
	if badges[0].Name != "Curious Mind" {
		t.Fatalf("badge name=%q, want Curious Mind", badges[0].Name)
	}

	teacherBadges, _ := env.badges.Badges(bob.ID)
	if len(teacherBadges) != 1 || teacherBadges[0].BadgeType != model.BadgeTeacher3 {
		t.Fatalf("bob badges=%+v, want exactly teacher_3", teacherBadges)
	}
}

func TestBadgeCountsDistinctSkillsOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	// Python 完成两次（不同教师）只算一个技能
	env.completeSession(t, alice.ID, bob.ID, "Python")
	env.completeSession(t, alice.ID, carol.ID, "Python")
	env.completeSession(t, alice.ID, bob.ID, "Go")

	badges, _ := env.badges.Badges(alice.ID)
	if len(badges) != 0 {
		t.Fatalf("badges=%+v, want none for 2 distinct skills", badges)
	}
}

func TestBadgeAwardIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	for _, skill := range []string{"Python", "Go", "Rust"} {
		env.completeSession(t, alice.ID, bob.ID, skill)
	}

	if again := env.badges.AwardFor(alice.ID); len(again) != 0 {
		t.Fatalf("re-award returned %d new badges, want 0", len(again))
	}
	badges, _ := env.badges.Badges(alice.ID)
	if len(badges) != 1 {
		t.Fatalf("badges=%d, want 1", len(badges))
	}
}

func TestBadgeReconcileBackfills(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	for _, skill := range []string{"Python", "Go", "Rust"} {
		env.completeSession(t, alice.ID, bob.ID, skill)
	}

	// 模拟历史数据缺徽章
	if err := env.db.Unscoped().Where("user_id = ?", alice.ID).Delete(&model.Badge{}).Error; err != nil {
		t.Fatalf("delete badges: %v", err)
	}

	awarded, err := env.badges.Reconcile()
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if awarded != 1 {
		t.Fatalf("reconcile awarded=%d, want 1", awarded)
	}
	badges, _ := env.badges.Badges(alice.ID)
	if len(badges) != 1 || badges[0].BadgeType != model.BadgeLearner3 {
		t.Fatalf("badges after reconcile=%+v", badges)
	}
}
