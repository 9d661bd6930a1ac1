package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"salon-chat/internal/domain/chat"
)

type ConversationRepository interface {
	Create(ctx context.Context, c *chat.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (chat.Conversation, error)
	GetByPair(ctx context.Context, customerID, salonOwnerID uuid.UUID) (chat.Conversation, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]chat.Conversation, error)
	IsParticipant(ctx context.Context, conversationID, userID uuid.UUID) (bool, error)
	TouchUpdatedAt(ctx context.Context, conversationID uuid.UUID, at time.Time) error
}

type MessageRepository interface {
	Create(ctx context.Context, m *chat.Message) error
	GetByClientMessageID(ctx context.Context, clientMessageID string) (chat.Message, error)
	// ListByConversationDesc returns the newest `limit` messages first;
	// callers reorder for chronological reads.
	ListByConversationDesc(ctx context.Context, conversationID uuid.UUID, limit int) ([]chat.Message, error)
	LatestMessage(ctx context.Context, conversationID uuid.UUID) (chat.Message, error)
	UnreadFor(ctx context.Context, conversationID, receiverID uuid.UUID) ([]chat.Message, error)
	CountUnread(ctx context.Context, receiverID uuid.UUID) (int64, error)
	SaveStatus(ctx context.Context, m chat.Message) error
	SaveStatuses(ctx context.Context, msgs []chat.Message) error
}
