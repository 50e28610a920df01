package service

import (
	"errors"
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/util"
	"testing"
	"time"
)

func TestNotificationCursor(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	env.notifier.Notify(alice.ID, model.NotifyMessage, "first", "m1", nil, "")
	env.notifier.Notify(alice.ID, model.NotifyMessage, "second", "m2", nil, "")

	all, err := env.notifier.List(alice.ID, time.Time{}, 50)
	if err != nil || len(all) != 2 {
		t.Fatalf("list all err=%v len=%d", err, len(all))
	}

	// 把第一条推到一小时前，游标只取其后的
	past := time.Now().Add(-time.Hour)
	if err := env.db.Model(&model.Notification{}).
		Where("title = ?", "first").
		Update("created_at", past).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}

	after, err := env.notifier.List(alice.ID, past.Add(time.Minute), 50)
	if err != nil {
		t.Fatalf("list after err=%v", err)
	}
	if len(after) != 1 || after[0].Title != "second" {
		t.Fatalf("cursor result=%+v, want only the second notification", after)
	}
}

func TestNotificationMarkReadIsOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	env.notifier.Notify(alice.ID, model.NotifyMessage, "hello", "m", &bob.ID, "/messages/bob")
	notes, _ := env.notifier.List(alice.ID, time.Time{}, 10)
	if len(notes) != 1 || notes[0].Read {
		t.Fatalf("setup notes=%+v", notes)
	}
	id := notes[0].ID

	if err := env.notifier.MarkRead(bob.ID, id); !errors.Is(err, util.ErrNotificationDenied) {
		t.Fatalf("foreign mark_read err=%v, want ErrNotificationDenied", err)
	}

	if err := env.notifier.MarkRead(alice.ID, id); err != nil {
		t.Fatalf("mark_read: %v", err)
	}
	count, _ := env.notifier.UnreadCount(alice.ID)
	if count != 0 {
		t.Fatalf("unread=%d, want 0", count)
	}

	// 已读是单向的，重复标记无害
	if err := env.notifier.MarkRead(alice.ID, id); err != nil {
		t.Fatalf("second mark_read: %v", err)
	}
}

func TestMarkAllRead(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	for i := 0; i < 3; i++ {
		env.notifier.Notify(alice.ID, model.NotifyMessage, "t", "m", nil, "")
	}
	count, _ := env.notifier.UnreadCount(alice.ID)
	if count != 3 {
		t.Fatalf("unread=%d, want 3", count)
	}

	if err := env.notifier.MarkAllRead(alice.ID); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	count, _ = env.notifier.UnreadCount(alice.ID)
	if count != 0 {
		t.Fatalf("unread after mark all=%d, want 0", count)
	}
}

func TestNotificationSerialize(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	env.notifier.Notify(alice.ID, model.NotifyConnectionRequest, "New connection request", "bob wants to connect", &bob.ID, "/messages/bob")
	notes, _ := env.notifier.List(alice.ID, time.Time{}, 1)
	if len(notes) != 1 {
		t.Fatalf("notes=%d", len(notes))
	}

	out := env.notifier.Serialize(&notes[0])
	if out["sender_username"] != "bob" || out["link"] != "/messages/bob" {
		t.Fatalf("serialized=%v", out)
	}
	if out["notification_type"] != model.NotifyConnectionRequest {
		t.Fatalf("type=%v", out["notification_type"])
	}
}
