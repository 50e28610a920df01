package service

import (
	"context"
	"errors"
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/util"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFirstMessageCreatesPendingConnection(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	ctx := context.Background()

	msg, err := env.messages.Send(ctx, alice.ID, "bob", "hey there", nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if msg.Content != "hey there" || msg.ReceiverID != bob.ID {
		t.Fatalf("unexpected message: %+v", msg)
	}

	conn, err := env.conns.Between(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("connection should exist after first message: %v", err)
	}
	if conn.Status != model.ConnectionPending || conn.RequesterID != alice.ID {
		t.Fatalf("conn status=%s requester=%d, want pending from alice", conn.Status, conn.RequesterID)
	}
}

func TestPendingConnectionGatesReceiver(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	ctx := context.Background()

	env.messages.Send(ctx, alice.ID, "bob", "hello", nil)

	// pending 状态下只有请求方能继续发
	if _, err := env.messages.Send(ctx, bob.ID, "alice", "reply", nil); !errors.Is(err, util.ErrConnectionPending) {
		t.Fatalf("receiver reply err=%v, want ErrConnectionPending", err)
	}
	if _, err := env.messages.Send(ctx, alice.ID, "bob", "follow-up", nil); err != nil {
		t.Fatalf("requester follow-up: %v", err)
	}

	conn, _ := env.conns.Between(alice.ID, bob.ID)
	if _, err := env.conns.Accept(bob.ID, conn.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := env.messages.Send(ctx, bob.ID, "alice", "now we can talk", nil); err != nil {
		t.Fatalf("reply after accept: %v", err)
	}
}

func TestRejectedConnectionBlocksBothSides(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	ctx := context.Background()

	env.messages.Send(ctx, alice.ID, "bob", "hello", nil)
	conn, _ := env.conns.Between(alice.ID, bob.ID)
	env.conns.Reject(bob.ID, conn.ID)

	if _, err := env.messages.Send(ctx, alice.ID, "bob", "please", nil); !errors.Is(err, util.ErrConnectionRejected) {
		t.Fatalf("requester after reject err=%v, want ErrConnectionRejected", err)
	}
	if _, err := env.messages.Send(ctx, bob.ID, "alice", "no", nil); !errors.Is(err, util.ErrConnectionRejected) {
		t.Fatalf("receiver after reject err=%v, want ErrConnectionRejected", err)
	}
}

func TestSendValidation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	env.createUser(t, "bob")
	ctx := context.Background()

	if _, err := env.messages.Send(ctx, alice.ID, "alice", "hi me", nil); !errors.Is(err, util.ErrSelfSession) {
		t.Fatalf("self message err=%v, want ErrSelfSession", err)
	}
	if _, err := env.messages.Send(ctx, alice.ID, "bob", "   ", nil); !errors.Is(err, util.ErrEmptyMessage) {
		t.Fatalf("blank message err=%v, want ErrEmptyMessage", err)
	}
	if _, err := env.messages.Send(ctx, alice.ID, "ghost", "hi", nil); !errors.Is(err, util.ErrUserNotFound) {
		t.Fatalf("unknown receiver err=%v, want ErrUserNotFound", err)
	}
}

func TestHistoryMarksReadAndReportsConnection(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	ctx := context.Background()

	env.messages.Send(ctx, alice.ID, "bob", "one", nil)
	env.messages.Send(ctx, alice.ID, "bob", "two", nil)

	view, err := env.messages.History(bob.ID, "alice")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(view.Messages) != 2 {
		t.Fatalf("messages=%d, want 2", len(view.Messages))
	}
	if view.ConnectionStatus != "pending" || view.IsRequester {
		t.Fatalf("status=%s is_requester=%v, want pending/false for bob", view.ConnectionStatus, view.IsRequester)
	}

	// 查看历史后未读清零
	convos, err := env.messages.Conversations(bob.ID)
	if err != nil || len(convos) != 1 {
		t.Fatalf("Conversations err=%v len=%d", err, len(convos))
	}
	if convos[0].UnreadCount != 0 {
		t.Fatalf("unread=%d, want 0 after reading history", convos[0].UnreadCount)
	}
	if convos[0].User.Username != "alice" || convos[0].LastMessage.Content != "two" {
		t.Fatalf("unexpected conversation summary: %+v", convos[0])
	}
}

func TestConversationsUnreadCount(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	ctx := context.Background()

	env.messages.Send(ctx, alice.ID, "bob", "one", nil)
	env.messages.Send(ctx, alice.ID, "bob", "two", nil)

	convos, err := env.messages.Conversations(bob.ID)
	if err != nil || len(convos) != 1 {
		t.Fatalf("Conversations err=%v len=%d", err, len(convos))
	}
	if convos[0].UnreadCount != 2 {
		t.Fatalf("unread=%d, want 2", convos[0].UnreadCount)
	}
}

func TestNotificationPreviewTruncatesOnRuneBoundary(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	ctx := context.Background()

	long := strings.Repeat("学", 150)
	if _, err := env.messages.Send(ctx, alice.ID, "bob", long, nil); err != nil {
		t.Fatalf("Send: %v", err)
	}

	var note model.Notification
	if err := env.db.Where("user_id = ?", bob.ID).First(&note).Error; err != nil {
		t.Fatalf("load notification: %v", err)
	}
	if !utf8.ValidString(note.Message) {
		t.Fatalf("preview is not valid UTF-8: %q", note.Message)
	}
	if got := utf8.RuneCountInString(note.Message); got != 100 {
		t.Fatalf("preview runes=%d, want 100", got)
	}
}
