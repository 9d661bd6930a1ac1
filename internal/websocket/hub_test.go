package websocket

import (
	"testing"

	"github.com/google/uuid"

	"salon-chat/internal/services"
)

// Tests drive the hub through its internal mutations directly so they stay
// deterministic without the Run loop.

func TestBroadcastReachesOnlySubscribers(t *testing.T) {
	hub := NewHub()
	subscriber := NewClient(nil)
	bystander := NewClient(nil)
	hub.addClient(subscriber)
	hub.addClient(bystander)
	hub.subscribeToTopic(subscriber, "messages/abc")

	hub.Broadcast("messages/abc", []byte("hello"))

	select {
	case msg := <-subscriber.Send:
		if string(msg) != "hello" {
			t.Fatalf("got %q, want %q", msg, "hello")
		}
	default:
		t.Fatal("subscriber received nothing")
	}

	select {
	case msg := <-bystander.Send:
		t.Fatalf("bystander received %q", msg)
	default:
	}
}

func TestBroadcastToUser(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	tab1 := NewClient(nil)
	tab1.SetPrincipal(services.Principal{ID: userID})
	tab2 := NewClient(nil)
	tab2.SetPrincipal(services.Principal{ID: userID})
	anonymous := NewClient(nil)

	hub.addClient(tab1)
	hub.addClient(tab2)
	hub.addClient(anonymous)

	hub.BroadcastToUser(userID.String(), []byte("ping"))

	for _, c := range []*Client{tab1, tab2} {
		select {
		case <-c.Send:
		default:
			t.Fatal("every connection of the user must receive the payload")
		}
	}
	select {
	case <-anonymous.Send:
		t.Fatal("unauthenticated connection must not receive user broadcasts")
	default:
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	client := NewClient(nil)
	hub.addClient(client)
	hub.subscribeToTopic(client, "messages/abc")
	hub.unsubscribeFromTopic(client, "messages/abc")

	if hub.SubscriberCount("messages/abc") != 0 {
		t.Fatal("empty topic must be dropped")
	}

	hub.Broadcast("messages/abc", []byte("hello"))
	select {
	case <-client.Send:
		t.Fatal("unsubscribed client must not receive the payload")
	default:
	}
}

func TestRemoveClientCleansTopics(t *testing.T) {
	hub := NewHub()
	client := NewClient(nil)
	hub.addClient(client)
	hub.subscribeToTopic(client, "messages/abc")
	hub.subscribeToTopic(client, "users/self")

	hub.removeClient(client)

	if hub.ClientCount() != 0 {
		t.Fatalf("hub still tracks %d clients", hub.ClientCount())
	}
	if hub.SubscriberCount("messages/abc") != 0 || hub.SubscriberCount("users/self") != 0 {
		t.Fatal("removal must clear every topic membership")
	}
	if _, open := <-client.Send; open {
		t.Fatal("send channel must be closed on removal")
	}

	// A second removal of the same client is a no-op, not a double close.
	hub.removeClient(client)
}

func TestSendMessageDropsWhenBufferFull(t *testing.T) {
	client := NewClient(nil)
	for i := 0; i < cap(client.Send); i++ {
		client.SendMessage([]byte("fill"))
	}

	// Must not block.
	client.SendMessage([]byte("overflow"))

	if len(client.Send) != cap(client.Send) {
		t.Fatalf("buffer holds %d, want %d", len(client.Send), cap(client.Send))
	}
}
