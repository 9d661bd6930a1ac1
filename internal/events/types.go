package events

import (
	"strings"

	"github.com/google/uuid"
)

// Event types pushed over the realtime gateway, format: domain.action.
const (
	EventTypeMessageCreated      = "message.created"
	EventTypeNotificationCreated = "notification.created"
)

// Aggregate type constants
const (
	AggregateTypeMessage      = "message"
	AggregateTypeNotification = "notification"
)

// Topic prefixes. Conversation topics carry new-message broadcasts and are
// gated on participant membership; user topics are private per-user channels
// joined implicitly at authentication.
const (
	TopicPrefixConversation = "messages/"
	TopicPrefixUser         = "users/"
)

// ConversationTopic builds the broadcast topic for a conversation.
func ConversationTopic(conversationID uuid.UUID) string {
	return TopicPrefixConversation + conversationID.String()
}

// UserTopic builds the private channel name for a user.
func UserTopic(userID uuid.UUID) string {
	return TopicPrefixUser + userID.String()
}

// ParseConversationTopic extracts the conversation id from a topic name.
// The second return value is false for topics outside the conversation scope.
func ParseConversationTopic(topic string) (uuid.UUID, bool) {
	raw, ok := strings.CutPrefix(topic, TopicPrefixConversation)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
