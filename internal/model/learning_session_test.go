package model

import (
	"errors"
	"testing"
	"time"
)

func TestSessionTransitions(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	s := &LearningSession{Status: SessionPending, TotalDays: 30}
	if err := s.Complete(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("complete from pending err=%v", err)
	}
	if err := s.Cancel(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("cancel from pending err=%v", err)
	}

	if err := s.Accept(now); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if s.Status != SessionInProgress {
		t.Fatalf("status=%s", s.Status)
	}
	if !s.StartDate.Equal(now) {
		t.Fatalf("start=%v, want %v", s.StartDate, now)
	}
	if want := now.AddDate(0, 0, 30); !s.EndDate.Equal(want) {
		t.Fatalf("end=%v, want %v", s.EndDate, want)
	}

	if err := s.Accept(now); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("double accept err=%v", err)
	}
	if err := s.Reject(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("reject after accept err=%v", err)
	}

	if err := s.Complete(); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := s.Cancel(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("cancel after complete err=%v", err)
	}
}

func TestSessionRejectAndCancelAreTerminal(t *testing.T) {
	now := time.Now()

	s := &LearningSession{Status: SessionPending}
	if err := s.Reject(); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if err := s.Accept(now); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("accept after reject err=%v", err)
	}

	s = &LearningSession{Status: SessionPending, TotalDays: 30}
	s.Accept(now)
	if err := s.Cancel(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := s.Complete(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("complete after cancel err=%v", err)
	}
}

func TestSessionProgressAndDaysRemaining(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	s := &LearningSession{Status: SessionPending, TotalDays: 30}
	s.Accept(start)

	if got := s.Progress(start); got != 0 {
		t.Fatalf("progress at start=%d", got)
	}
	if got := s.Progress(start.AddDate(0, 0, 15)); got != 50 {
		t.Fatalf("progress mid=%d, want 50", got)
	}
	if got := s.Progress(start.AddDate(0, 0, 60)); got != 100 {
		t.Fatalf("progress past end=%d, want 100", got)
	}

	if got := s.DaysRemaining(start.AddDate(0, 0, 10)); got != 20 {
		t.Fatalf("days remaining=%d, want 20", got)
	}
	if got := s.DaysRemaining(start.AddDate(0, 0, 60)); got != 0 {
		t.Fatalf("days remaining past end=%d, want 0", got)
	}

	s.Complete()
	if got := s.Progress(start.AddDate(0, 0, 5)); got != 100 {
		t.Fatalf("completed progress=%d, want 100", got)
	}
	if got := s.DaysRemaining(start); got != 0 {
		t.Fatalf("completed days remaining=%d, want 0", got)
	}
}

func TestNormalizeUsername(t *testing.T) {
	cases := map[string]string{
		"John Doe":   "john_doe",
		"  Alice  ":  "alice",
		"BOB":        "bob",
		"mary jane ": "mary_jane",
	}
	for in, want := range cases {
		if got := NormalizeUsername(in); got != want {
			t.Fatalf("NormalizeUsername(%q)=%q, want %q", in, got, want)
		}
	}
}
