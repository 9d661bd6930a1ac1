package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Notification types the chat core emits.
const (
	TypeNewMessage = "NEW_MESSAGE"
)

// Event is the notification-creation contract. The notification service owns
// the persisted entity; the chat core only hands over what to tell the user.
type Event struct {
	Type           string     `json:"type"`
	Description    string     `json:"description"`
	BookingID      *uuid.UUID `json:"bookingId,omitempty"`
	ConversationID *uuid.UUID `json:"conversationId,omitempty"`
	MessageID      *uuid.UUID `json:"messageId,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Notifier is the notification sink collaborator. Delivery guarantees belong
// to the implementation, never to the chat core.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, event Event) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}
