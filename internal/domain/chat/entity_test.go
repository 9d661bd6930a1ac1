package chat

import (
	"testing"
	"time"
)

func TestMarkDelivered(t *testing.T) {
	now := time.Now()
	m := Message{Status: StatusSent}

	if !m.MarkDelivered(now) {
		t.Fatal("SENT message should accept delivery")
	}
	if m.Status != StatusDelivered || !m.DeliveredAt.Valid {
		t.Fatalf("got status %s, deliveredAt valid=%v", m.Status, m.DeliveredAt.Valid)
	}

	// A second confirmation changes nothing.
	if m.MarkDelivered(now.Add(time.Second)) {
		t.Fatal("already delivered message must ignore a second confirmation")
	}
	if !m.DeliveredAt.Time.Equal(now) {
		t.Fatal("deliveredAt must keep its original value")
	}
}

func TestMarkDeliveredAfterReadIsIgnored(t *testing.T) {
	now := time.Now()
	m := Message{Status: StatusSent}
	m.MarkRead(now)

	if m.MarkDelivered(now.Add(time.Second)) {
		t.Fatal("a stray delivery confirmation must never regress READ")
	}
	if m.Status != StatusRead {
		t.Fatalf("got status %s, want READ", m.Status)
	}
}

func TestMarkReadBackfillsDeliveredAt(t *testing.T) {
	now := time.Now()

	t.Run("never delivered", func(t *testing.T) {
		m := Message{Status: StatusSent}
		if !m.MarkRead(now) {
			t.Fatal("unread message should accept read")
		}
		if !m.DeliveredAt.Valid || !m.ReadAt.Valid {
			t.Fatal("both timestamps must be set")
		}
		if !m.DeliveredAt.Time.Equal(m.ReadAt.Time) {
			t.Fatal("backfilled deliveredAt must match readAt")
		}
	})

	t.Run("already delivered", func(t *testing.T) {
		delivered := now.Add(-time.Minute)
		m := Message{Status: StatusSent}
		m.MarkDelivered(delivered)
		m.MarkRead(now)
		if !m.DeliveredAt.Time.Equal(delivered) {
			t.Fatal("existing deliveredAt must be preserved")
		}
		if m.Status != StatusRead {
			t.Fatalf("got status %s, want READ", m.Status)
		}
	})

	t.Run("already read", func(t *testing.T) {
		m := Message{Status: StatusSent}
		m.MarkRead(now)
		if m.MarkRead(now.Add(time.Second)) {
			t.Fatal("READ is terminal")
		}
		if !m.ReadAt.Time.Equal(now) {
			t.Fatal("readAt must keep its original value")
		}
	})
}
