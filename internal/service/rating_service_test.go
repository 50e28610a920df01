package service

import (
	"errors"
	"skillxchange_backend/internal/util"
	"testing"
)

func TestCanRateLifecycle(t *testing.T) {
	env := newTestEnv(t)
	learner := env.createUser(t, "alice")
	teacher := env.createUser(t, "bob")

	sess, err := env.learning.Join(learner.ID, teacher.ID, "Python")
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	res, err := env.ratings.CanRate(learner.ID, sess.ID)
	if err != nil {
		t.Fatalf("CanRate pending: %v", err)
	}
	if res.CanRate || res.SessionStatus != "pending" {
		t.Fatalf("pending session: can_rate=%v status=%s", res.CanRate, res.SessionStatus)
	}

	env.learning.Accept(teacher.ID, sess.ID)
	env.learning.End(learner.ID, sess.ID)

	res, err = env.ratings.CanRate(learner.ID, sess.ID)
	if err != nil || !res.CanRate {
		t.Fatalf("completed session: err=%v can_rate=%v", err, res.CanRate)
	}

	if _, err := env.ratings.Rate(learner.ID, sess.ID, 4, "Great session"); err != nil {
		t.Fatalf("Rate: %v", err)
	}

	res, _ = env.ratings.CanRate(learner.ID, sess.ID)
	if res.CanRate || !res.HasRated {
		t.Fatalf("after rating: can_rate=%v has_rated=%v", res.CanRate, res.HasRated)
	}
}

func TestRateTargetsCounterpart(t *testing.T) {
	env := newTestEnv(t)
	learner := env.createUser(t, "alice")
	teacher := env.createUser(t, "bob")
	outsider := env.createUser(t, "carol")

	sess := env.completeSession(t, learner.ID, teacher.ID, "Python")

	if _, err := env.ratings.Rate(learner.ID, sess.ID, 6, ""); !errors.Is(err, util.ErrInvalidRating) {
		t.Fatalf("rating=6 err=%v, want ErrInvalidRating", err)
	}
	if _, err := env.ratings.Rate(outsider.ID, sess.ID, 4, ""); !errors.Is(err, util.ErrNotSessionParty) {
		t.Fatalf("outsider err=%v, want ErrNotSessionParty", err)
	}

	fromLearner, err := env.ratings.Rate(learner.ID, sess.ID, 4, "Great session")
	if err != nil {
		t.Fatalf("learner rates: %v", err)
	}
	if fromLearner.RatedUserID != teacher.ID {
		t.Fatalf("rated_user=%d, want teacher %d", fromLearner.RatedUserID, teacher.ID)
	}
	if fromLearner.SkillName != "Python" || fromLearner.Rating != 4 || fromLearner.Feedback != "Great session" {
		t.Fatalf("unexpected rating row: %+v", fromLearner)
	}

	if _, err := env.ratings.Rate(learner.ID, sess.ID, 5, ""); !errors.Is(err, util.ErrAlreadyRated) {
		t.Fatalf("second rating err=%v, want ErrAlreadyRated", err)
	}

	fromTeacher, err := env.ratings.Rate(teacher.ID, sess.ID, 5, "")
	if err != nil {
		t.Fatalf("teacher rates: %v", err)
	}
	if fromTeacher.RatedUserID != learner.ID {
		t.Fatalf("rated_user=%d, want learner %d", fromTeacher.RatedUserID, learner.ID)
	}

	all, canRate, err := env.ratings.SessionRatings(learner.ID, sess.ID)
	if err != nil || len(all) != 2 || canRate.CanRate {
		t.Fatalf("SessionRatings err=%v len=%d can_rate=%v", err, len(all), canRate.CanRate)
	}
}

func TestRateRequiresCompletedSession(t *testing.T) {
	env := newTestEnv(t)
	learner := env.createUser(t, "alice")
	teacher := env.createUser(t, "bob")

	sess, _ := env.learning.Join(learner.ID, teacher.ID, "Python")
	if _, err := env.ratings.Rate(learner.ID, sess.ID, 4, ""); !errors.Is(err, util.ErrSessionNotCompleted) {
		t.Fatalf("pending err=%v, want ErrSessionNotCompleted", err)
	}

	env.learning.Accept(teacher.ID, sess.ID)
	if _, err := env.ratings.Rate(learner.ID, sess.ID, 4, ""); !errors.Is(err, util.ErrSessionNotCompleted) {
		t.Fatalf("in_progress err=%v, want ErrSessionNotCompleted", err)
	}
}

func TestUserRatingsAverageAndRoleFilter(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	// bob 教 alice Python，alice 教 bob Go
	taught := env.completeSession(t, alice.ID, bob.ID, "Python")
	learned := env.completeSession(t, bob.ID, alice.ID, "Go")

	env.ratings.Rate(alice.ID, taught.ID, 4, "")  // bob 作为教师收到 4
	env.ratings.Rate(alice.ID, learned.ID, 5, "") // bob 作为学习者收到 5

	summary, err := env.ratings.UserRatings("bob", "")
	if err != nil {
		t.Fatalf("UserRatings: %v", err)
	}
	if summary.Count != 2 || summary.Average != 4.5 {
		t.Fatalf("count=%d average=%v, want 2/4.5", summary.Count, summary.Average)
	}

	asTeacher, _ := env.ratings.UserRatings("bob", "as_teacher")
	if asTeacher.Count != 1 || asTeacher.Average != 4 {
		t.Fatalf("as_teacher count=%d average=%v, want 1/4", asTeacher.Count, asTeacher.Average)
	}
	asLearner, _ := env.ratings.UserRatings("bob", "as_learner")
	if asLearner.Count != 1 || asLearner.Average != 5 {
		t.Fatalf("as_learner count=%d average=%v, want 1/5", asLearner.Count, asLearner.Average)
	}
}
