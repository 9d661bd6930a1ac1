package websocket

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"salon-chat/internal/events"
)

type fakeParticipantChecker struct {
	members map[uuid.UUID]map[uuid.UUID]bool
	err     error
}

func (f *fakeParticipantChecker) IsParticipant(_ context.Context, conversationID, userID uuid.UUID) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.members[conversationID][userID], nil
}

func TestCanSubscribe(t *testing.T) {
	user := uuid.New()
	other := uuid.New()
	conv := uuid.New()

	checker := &fakeParticipantChecker{members: map[uuid.UUID]map[uuid.UUID]bool{
		conv: {user: true},
	}}
	auth := NewTopicAuthorizer(checker)

	tests := []struct {
		name  string
		topic string
		want  bool
	}{
		{"own private channel", events.UserTopic(user), true},
		{"someone else's private channel", events.UserTopic(other), false},
		{"conversation as participant", events.ConversationTopic(conv), true},
		{"conversation as outsider", events.ConversationTopic(uuid.New()), false},
		{"malformed conversation id", events.TopicPrefixConversation + "not-a-uuid", false},
		{"unscoped topic", "announcements", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.CanSubscribe(context.Background(), user, tt.topic)
			if err != nil {
				t.Fatalf("CanSubscribe: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanSubscribePropagatesLookupError(t *testing.T) {
	lookupErr := errors.New("store down")
	auth := NewTopicAuthorizer(&fakeParticipantChecker{err: lookupErr})

	_, err := auth.CanSubscribe(context.Background(), uuid.New(), events.ConversationTopic(uuid.New()))
	if !errors.Is(err, lookupErr) {
		t.Fatalf("want lookup error surfaced, got %v", err)
	}
}
