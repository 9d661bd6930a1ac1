package events

import (
	"testing"

	"github.com/google/uuid"
)

func TestParseConversationTopic(t *testing.T) {
	id := uuid.New()

	got, ok := ParseConversationTopic(ConversationTopic(id))
	if !ok || got != id {
		t.Fatalf("got (%s, %v), want (%s, true)", got, ok, id)
	}

	for _, topic := range []string{
		"messages/not-a-uuid",
		"users/" + id.String(),
		id.String(),
		"",
	} {
		if _, ok := ParseConversationTopic(topic); ok {
			t.Fatalf("topic %q must not parse as a conversation topic", topic)
		}
	}
}
