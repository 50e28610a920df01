package service

import (
	"errors"
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/util"
	"testing"
)

func TestJoinDoesNotDebitUntilAccept(t *testing.T) {
	env := newTestEnv(t)
	learner := env.createUser(t, "alice")
	teacher := env.createUser(t, "bob")

	sess, err := env.learning.Join(learner.ID, teacher.ID, "Python")
	if err != nil {
		t.Fatalf("Join error: %v", err)
	}
	if sess.Status != model.SessionPending {
		t.Fatalf("status=%s, want pending", sess.Status)
	}
	if got := env.balance(t, learner.ID); got != 1000 {
		t.Fatalf("balance after join=%d, want 1000 (debit happens on accept)", got)
	}

	accepted, err := env.learning.Accept(teacher.ID, sess.ID)
	if err != nil {
		t.Fatalf("Accept error: %v", err)
	}
	if accepted.Status != model.SessionInProgress {
		t.Fatalf("status=%s, want in_progress", accepted.Status)
	}
	if accepted.StartDate == nil || accepted.EndDate == nil {
		t.Fatal("accept should set start and end dates")
	}
	if accepted.PointsDeducted != 100 {
		t.Fatalf("points_deducted=%d, want 100", accepted.PointsDeducted)
	}
	if got := env.balance(t, learner.ID); got != 900 {
		t.Fatalf("balance after accept=%d, want 900", got)
	}

	// 重复接受不再扣费
	if _, err := env.learning.Accept(teacher.ID, sess.ID); !errors.Is(err, model.ErrInvalidTransition) {
		t.Fatalf("second accept err=%v, want ErrInvalidTransition", err)
	}
	if got := env.balance(t, learner.ID); got != 900 {
		t.Fatalf("balance after second accept=%d, want 900", got)
	}
}

func TestJoinInsufficientBalance(t *testing.T) {
	env := newTestEnv(t)
	learner := env.createUser(t, "alice")
	teacher := env.createUser(t, "bob")

	if _, err := env.pointsDB.Record(learner.ID, model.TxnSpent, 950, "setup", nil); err != nil {
		t.Fatalf("setup debit: %v", err)
	}

	_, err := env.learning.Join(learner.ID, teacher.ID, "Python")
	var insufficient *InsufficientPointsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("err=%v, want InsufficientPointsError", err)
	}
	if insufficient.Current != 50 || insufficient.Required != 100 {
		t.Fatalf("got current=%d required=%d, want 50/100", insufficient.Current, insufficient.Required)
	}
	if !errors.Is(err, util.ErrInsufficientPoints) {
		t.Fatal("InsufficientPointsError should unwrap to ErrInsufficientPoints")
	}
	if got := env.balance(t, learner.ID); got != 50 {
		t.Fatalf("balance=%d, want 50 (failed join must not touch points)", got)
	}
}

func TestJoinGuards(t *testing.T) {
	env := newTestEnv(t)
	learner := env.createUser(t, "alice")
	teacher := env.createUser(t, "bob")

	if _, err := env.learning.Join(learner.ID, learner.ID, "Python"); !errors.Is(err, util.ErrSelfSession) {
		t.Fatalf("self join err=%v, want ErrSelfSession", err)
	}
	if _, err := env.learning.Join(learner.ID, 9999, "Python"); !errors.Is(err, util.ErrUserNotFound) {
		t.Fatalf("unknown teacher err=%v, want ErrUserNotFound", err)
	}

	if _, err := env.learning.Join(learner.ID, teacher.ID, "Python"); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if _, err := env.learning.Join(learner.ID, teacher.ID, "Python"); !errors.Is(err, util.ErrDuplicateSession) {
		t.Fatalf("duplicate join err=%v, want ErrDuplicateSession", err)
	}
}

func TestRejectLeavesPointsUntouched(t *testing.T) {
	env := newTestEnv(t)
	learner := env.createUser(t, "alice")
	teacher := env.createUser(t, "bob")

	sess, err := env.learning.Join(learner.ID, teacher.ID, "Python")
	if err != nil {
		t.Fatalf("Join error: %v", err)
	}

	// 只有教师本人能处理请求
	if _, err := env.learning.Reject(learner.ID, sess.ID); !errors.Is(err, util.ErrNotSessionTeacher) {
		t.Fatalf("reject by learner err=%v, want ErrNotSessionTeacher", err)
	}

	rejected, err := env.learning.Reject(teacher.ID, sess.ID)
	if err != nil {
		t.Fatalf("Reject error: %v", err)
	}
	if rejected.Status != model.SessionRejected {
		t.Fatalf("status=%s, want rejected", rejected.Status)
	}
	if got := env.balance(t, learner.ID); got != 1000 {
		t.Fatalf("balance=%d, want 1000", got)
	}

	// 拒绝后可以重新发起同一技能的请求
	if _, err := env.learning.Join(learner.ID, teacher.ID, "Python"); err != nil {
		t.Fatalf("rejoin after reject: %v", err)
	}
}

func TestEndCreditsBothParties(t *testing.T) {
	env := newTestEnv(t)
	learner := env.createUser(t, "alice")
	teacher := env.createUser(t, "bob")

	sess, _ := env.learning.Join(learner.ID, teacher.ID, "Python")
	if _, err := env.learning.Accept(teacher.ID, sess.ID); err != nil {
		t.Fatalf("Accept error: %v", err)
	}

	if _, err := env.learning.End(9999, sess.ID); !errors.Is(err, util.ErrSessionNotFound) && !errors.Is(err, util.ErrNotSessionParty) {
		t.Fatalf("end by outsider err=%v, want party check failure", err)
	}

	done, err := env.learning.End(learner.ID, sess.ID)
	if err != nil {
		t.Fatalf("End error: %v", err)
	}
	if done.Status != model.SessionCompleted {
		t.Fatalf("status=%s, want completed", done.Status)
	}
	if done.EndDate == nil {
		t.Fatal("completed session should have an end date")
	}
	if done.PointsAwardedLearner != 50 || done.PointsAwardedTeacher != 150 {
		t.Fatalf("awarded=%d/%d, want 50/150", done.PointsAwardedLearner, done.PointsAwardedTeacher)
	}

	// 学习者: 1000 - 100 + 50, 教学者: 1000 + 150
	if got := env.balance(t, learner.ID); got != 950 {
		t.Fatalf("learner balance=%d, want 950", got)
	}
	if got := env.balance(t, teacher.ID); got != 1150 {
		t.Fatalf("teacher balance=%d, want 1150", got)
	}

	if _, err := env.learning.End(teacher.ID, sess.ID); !errors.Is(err, model.ErrInvalidTransition) {
		t.Fatalf("second end err=%v, want ErrInvalidTransition", err)
	}
	if got := env.balance(t, teacher.ID); got != 1150 {
		t.Fatalf("teacher balance after double end=%d, want 1150", got)
	}
}

func TestRelearnSkillAfterCompletion(t *testing.T) {
	env := newTestEnv(t)
	learner := env.createUser(t, "alice")
	teacher := env.createUser(t, "bob")

	env.completeSession(t, learner.ID, teacher.ID, "Python")

	// 已完成的会话保留，不挡同一技能的再次请求
	again, err := env.learning.Join(learner.ID, teacher.ID, "Python")
	if err != nil {
		t.Fatalf("rejoin after completion: %v", err)
	}
	if again.Status != model.SessionPending {
		t.Fatalf("status=%s, want pending", again.Status)
	}

	sessions, err := env.learning.Sessions(learner.ID, "learner", "")
	if err != nil || len(sessions) != 2 {
		t.Fatalf("sessions err=%v len=%d, want both kept", err, len(sessions))
	}
}

func TestLearningNotificationsTaggedSkillMatch(t *testing.T) {
	env := newTestEnv(t)
	learner := env.createUser(t, "alice")
	teacher := env.createUser(t, "bob")

	env.completeSession(t, learner.ID, teacher.ID, "Python")

	var notes []model.Notification
	if err := env.db.Where("user_id IN ?", []uint{learner.ID, teacher.ID}).Find(&notes).Error; err != nil {
		t.Fatalf("load notifications: %v", err)
	}
	if len(notes) == 0 {
		t.Fatal("lifecycle should have produced notifications")
	}
	for _, n := range notes {
		if n.NotificationType != model.NotifySkillMatch {
			t.Fatalf("notification %q type=%s, want skill_match", n.Title, n.NotificationType)
		}
	}
}

func TestLedgerStaysConsistent(t *testing.T) {
	env := newTestEnv(t)
	learner := env.createUser(t, "alice")
	teacher := env.createUser(t, "bob")

	env.completeSession(t, learner.ID, teacher.ID, "Python")

	for _, id := range []uint{learner.ID, teacher.ID} {
		account, txns, err := env.points.Overview(id)
		if err != nil {
			t.Fatalf("Overview: %v", err)
		}
		if account.Balance != account.TotalEarned-account.TotalSpent {
			t.Fatalf("user %d: balance=%d earned=%d spent=%d", id, account.Balance, account.TotalEarned, account.TotalSpent)
		}
		sum := 0
		for _, txn := range txns {
			switch txn.TransactionType {
			case model.TxnSpent:
				sum -= txn.Amount
			default:
				sum += txn.Amount
			}
		}
		if sum != account.Balance {
			t.Fatalf("user %d: txn sum=%d, balance=%d", id, sum, account.Balance)
		}
	}
}

func TestSessionsFilterByRoleAndStatus(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	env.completeSession(t, alice.ID, bob.ID, "Python")
	if _, err := env.learning.Join(carol.ID, alice.ID, "Go"); err != nil {
		t.Fatalf("join: %v", err)
	}

	all, err := env.learning.Sessions(alice.ID, "", "")
	if err != nil || len(all) != 2 {
		t.Fatalf("all sessions err=%v len=%d, want 2", err, len(all))
	}

	asLearner, _ := env.learning.Sessions(alice.ID, "learner", "")
	if len(asLearner) != 1 || asLearner[0].SkillName != "Python" {
		t.Fatalf("learner sessions=%v, want the Python one", asLearner)
	}

	pending, _ := env.learning.Sessions(alice.ID, "teacher", model.SessionPending)
	if len(pending) != 1 || pending[0].SkillName != "Go" {
		t.Fatalf("pending teacher sessions=%v, want the Go one", pending)
	}

	requests, err := env.learning.Requests(alice.ID)
	if err != nil || len(requests) != 1 {
		t.Fatalf("requests err=%v len=%d, want 1", err, len(requests))
	}
}

func TestSessionVisibility(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	sess, err := env.learning.Join(alice.ID, bob.ID, "Python")
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	if _, err := env.learning.Session(carol.ID, sess.ID); !errors.Is(err, util.ErrNotSessionParty) {
		t.Fatalf("outsider err=%v, want ErrNotSessionParty", err)
	}
	if _, err := env.learning.Session(bob.ID, sess.ID); err != nil {
		t.Fatalf("teacher view err=%v", err)
	}
}
