package repository

import (
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/testutil"
	"testing"
)

func TestLastLoginNullUntilFirstLogin(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewUserRepository(db)

	user := &model.User{Username: "alice", Email: "alice@example.com", Password: "x"}
	if err := repo.Create(user); err != nil {
		t.Fatalf("create: %v", err)
	}

	fresh, err := repo.FindByID(user.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if fresh.LastLogin != nil {
		t.Fatalf("last_login=%v, want nil before first login", fresh.LastLogin)
	}

	if err := repo.UpdateLastLogin(user.ID); err != nil {
		t.Fatalf("update last login: %v", err)
	}
	logged, err := repo.FindByID(user.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if logged.LastLogin == nil || logged.LastLogin.IsZero() {
		t.Fatalf("last_login=%v, want set after login", logged.LastLogin)
	}
}
