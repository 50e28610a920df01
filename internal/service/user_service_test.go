package service

import (
	"errors"
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/util"
	"testing"
)

func newUserService(env *testEnv) *UserService {
	return NewUserService(env.users, env.skills)
}

func TestUpdateProfileBioOnly(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env)
	alice := env.createUser(t, "alice")

	bio := "I teach Go and learn piano"
	updated, err := svc.UpdateProfile(alice.ID, &bio)
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Bio != bio {
		t.Fatalf("bio=%q", updated.Bio)
	}

	reloaded, err := svc.Profile(alice.ID)
	if err != nil || reloaded.Bio != bio {
		t.Fatalf("reload err=%v bio=%q", err, reloaded.Bio)
	}

	if _, err := svc.Profile(9999); !errors.Is(err, util.ErrUserNotFound) {
		t.Fatalf("missing profile err=%v", err)
	}
}

func TestSearchExactUsernameWins(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env)
	me := env.createUser(t, "me")
	bob := env.createUser(t, "bob")
	env.createUser(t, "bobby")

	results, err := svc.Search("bob", "", me.ID)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != bob.ID {
		t.Fatalf("results=%+v, want exact bob only", results)
	}
}

func TestSearchBySkillWithLevelFilter(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env)
	me := env.createUser(t, "me")
	expert := env.createUser(t, "guru")
	novice := env.createUser(t, "newbie")

	env.db.Create(&model.Skill{UserID: expert.ID, Name: "Python", ProficiencyLevel: model.Expert})
	env.db.Create(&model.Skill{UserID: novice.ID, Name: "Python", ProficiencyLevel: model.Beginner})

	all, err := svc.Search("Python", "", me.ID)
	if err != nil || len(all) != 2 {
		t.Fatalf("skill search err=%v len=%d, want 2", err, len(all))
	}

	experts, err := svc.Search("Python", model.Expert, me.ID)
	if err != nil || len(experts) != 1 || experts[0].Username != "guru" {
		t.Fatalf("filtered err=%v results=%+v", err, experts)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env)
	me := env.createUser(t, "me")

	results, err := svc.Search("", "", me.ID)
	if err != nil || len(results) != 0 {
		t.Fatalf("empty query err=%v len=%d", err, len(results))
	}
}
