package service

import (
	"errors"
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/util"
	"testing"
)

func newSkillService(env *testEnv) *SkillService {
	return NewSkillService(env.skills, NewEmbeddingClient(&env.cfg.Embedding))
}

func TestSkillCreateIsIdempotentPerName(t *testing.T) {
	env := newTestEnv(t)
	svc := newSkillService(env)
	alice := env.createUser(t, "alice")

	first, err := svc.Create(alice.ID, "Python", "backend work", model.Advanced)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	again, err := svc.Create(alice.ID, "Python", "different text", model.Beginner)
	if err != nil {
		t.Fatalf("repeat create: %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("repeat create made a new row: %d vs %d", again.ID, first.ID)
	}

	list, _ := svc.List(alice.ID)
	if len(list) != 1 {
		t.Fatalf("skills=%d, want 1", len(list))
	}
}

func TestSkillCreateDefaultsInvalidLevel(t *testing.T) {
	env := newTestEnv(t)
	svc := newSkillService(env)
	alice := env.createUser(t, "alice")

	skill, err := svc.Create(alice.ID, "Go", "", "wizard")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if skill.ProficiencyLevel != model.Beginner {
		t.Fatalf("level=%s, want beginner fallback", skill.ProficiencyLevel)
	}

	if _, err := svc.Create(alice.ID, "   ", "", model.Beginner); err == nil {
		t.Fatal("blank name should fail")
	}
}

func TestSkillUpdateAndDeleteRequireOwnership(t *testing.T) {
	env := newTestEnv(t)
	svc := newSkillService(env)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	skill, _ := svc.Create(alice.ID, "Python", "", model.Intermediate)

	desc := "updated"
	if _, err := svc.Update(bob.ID, skill.ID, &desc, nil); !errors.Is(err, util.ErrSkillNotFound) {
		t.Fatalf("foreign update err=%v, want ErrSkillNotFound", err)
	}
	if err := svc.Delete(bob.ID, skill.ID); !errors.Is(err, util.ErrSkillNotFound) {
		t.Fatalf("foreign delete err=%v, want ErrSkillNotFound", err)
	}

	level := model.Expert
	updated, err := svc.Update(alice.ID, skill.ID, &desc, &level)
	if err != nil || updated.Description != "updated" || updated.ProficiencyLevel != model.Expert {
		t.Fatalf("update err=%v skill=%+v", err, updated)
	}

	if err := svc.Delete(alice.ID, skill.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ := svc.List(alice.ID)
	if len(list) != 0 {
		t.Fatalf("skills after delete=%d, want 0", len(list))
	}
}
