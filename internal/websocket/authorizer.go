package websocket

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"salon-chat/internal/events"
)

// ParticipantChecker answers whether a user belongs to a conversation.
// Satisfied by the chat service.
type ParticipantChecker interface {
	IsParticipant(ctx context.Context, conversationID, userID uuid.UUID) (bool, error)
}

// TopicAuthorizer decides whether an authenticated user may subscribe to a
// topic.
type TopicAuthorizer struct {
	participants ParticipantChecker
}

func NewTopicAuthorizer(participants ParticipantChecker) *TopicAuthorizer {
	return &TopicAuthorizer{participants: participants}
}

// CanSubscribe applies the topic authorization rules: a user's own private
// channel is always allowed, another user's never is, conversation topics
// require participant membership, and topics outside those scopes are open
// to any authenticated connection.
func (a *TopicAuthorizer) CanSubscribe(ctx context.Context, userID uuid.UUID, topic string) (bool, error) {
	if strings.HasPrefix(topic, events.TopicPrefixUser) {
		return topic == events.UserTopic(userID), nil
	}

	if strings.HasPrefix(topic, events.TopicPrefixConversation) {
		conversationID, ok := events.ParseConversationTopic(topic)
		if !ok {
			return false, nil
		}
		return a.participants.IsParticipant(ctx, conversationID, userID)
	}

	return true, nil
}
