package repository

import (
	"errors"
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/testutil"
	"testing"

	"gorm.io/gorm"
)

func TestPointConfigSeededAndOverridable(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewPointRepository(db)

	if got := repo.ConfigValue(model.ConfigJoinLearningCost, 0); got != 100 {
		t.Fatalf("join cost=%d, want seeded 100", got)
	}
	if got := repo.ConfigValue("no_such_key", 42); got != 42 {
		t.Fatalf("fallback=%d, want 42", got)
	}

	// 键名需与已有部署的种子数据一致
	seeded := map[string]int{
		"join_learning_cost":                 100,
		"learning_completion_reward_learner": 50,
		"learning_completion_reward_teacher": 150,
		"default_learning_period_days":       30,
		"initial_user_points":                1000,
	}
	for key, want := range seeded {
		if got := repo.ConfigValue(key, -1); got != want {
			t.Fatalf("config %s=%d, want %d", key, got, want)
		}
	}

	err := db.Model(&model.PointConfiguration{}).
		Where("`key` = ?", model.ConfigJoinLearningCost).
		Update("value", 250).Error
	if err != nil {
		t.Fatalf("override: %v", err)
	}
	if got := repo.ConfigValue(model.ConfigJoinLearningCost, 0); got != 250 {
		t.Fatalf("overridden cost=%d, want 250", got)
	}
}

func TestRecordKeepsAccountAndLedgerInSync(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewPointRepository(db)

	account, err := repo.Record(1, model.TxnBonus, 1000, "Welcome bonus", nil)
	if err != nil {
		t.Fatalf("bonus: %v", err)
	}
	if account.Balance != 1000 || account.TotalEarned != 1000 {
		t.Fatalf("account=%+v", account)
	}

	account, err = repo.Record(1, model.TxnSpent, 100, "join", nil)
	if err != nil {
		t.Fatalf("spend: %v", err)
	}
	if account.Balance != 900 || account.TotalSpent != 100 {
		t.Fatalf("account=%+v", account)
	}

	account, err = repo.Record(1, model.TxnEarned, 50, "reward", nil)
	if err != nil {
		t.Fatalf("earn: %v", err)
	}
	if account.Balance != 950 || account.TotalEarned != 1050 {
		t.Fatalf("account=%+v", account)
	}

	txns, err := repo.Transactions(1, 10)
	if err != nil || len(txns) != 3 {
		t.Fatalf("txns err=%v len=%d", err, len(txns))
	}
	if account.Balance != account.TotalEarned-account.TotalSpent {
		t.Fatalf("invariant broken: %+v", account)
	}
}

func TestRecordRollsBackWithEnclosingTransaction(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewPointRepository(db)

	if _, err := repo.Record(1, model.TxnBonus, 1000, "Welcome bonus", nil); err != nil {
		t.Fatalf("bonus: %v", err)
	}

	boom := errors.New("boom")
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := repo.WithTx(tx).Record(1, model.TxnSpent, 100, "join", nil); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v, want the injected failure", err)
	}

	account, err := repo.Account(1)
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if account.Balance != 1000 || account.TotalSpent != 0 {
		t.Fatalf("rolled-back debit leaked into account: %+v", account)
	}
	txns, err := repo.Transactions(1, 10)
	if err != nil || len(txns) != 1 {
		t.Fatalf("txns err=%v len=%d, want only the bonus", err, len(txns))
	}
}
