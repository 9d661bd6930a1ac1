package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"salon-chat/internal/domain/chat"
	"salon-chat/internal/notify"
	"salon-chat/internal/repository"
	chat_errors "salon-chat/pkg/errors"
	"salon-chat/pkg/logger"
)

const (
	historyDefaultLimit = 50
	historyMaxLimit     = 200
	contentMaxLen       = 2000
)

// PresenceReader is the view of the presence tracker the chat service needs:
// a point read of whether the receiver currently has a live connection.
type PresenceReader interface {
	IsOnline(userID uuid.UUID) bool
}

// ChatService owns conversation and message orchestration. It is the single
// writer of message status transitions; repositories never advance status on
// their own.
type ChatService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	directory     UserDirectory
	presence      PresenceReader
	notifier      notify.Notifier
	log           *logger.Logger
}

func NewChatService(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	directory UserDirectory,
	presence PresenceReader,
	notifier notify.Notifier,
	log *logger.Logger,
) *ChatService {
	return &ChatService{
		conversations: conversations,
		messages:      messages,
		directory:     directory,
		presence:      presence,
		notifier:      notifier,
		log:           log,
	}
}

// ConversationWithLast pairs a conversation with its most recent message, if
// any, for list views.
type ConversationWithLast struct {
	Conversation chat.Conversation
	LastMessage  *chat.Message
}

// GetOrCreateConversation resolves the (customer, salon owner) pair for the
// two users and returns their conversation, creating it on first contact.
// Concurrent first-contact attempts race on the unique (customer_id,
// salon_owner_id) index; the loser re-reads the winner's row.
func (s *ChatService) GetOrCreateConversation(ctx context.Context, currentUserID, otherUserID uuid.UUID) (chat.Conversation, error) {
	if currentUserID == otherUserID {
		return chat.Conversation{}, chat_errors.ErrInvalidInput
	}

	currentRoles, err := s.directory.Roles(ctx, currentUserID)
	if err != nil {
		return chat.Conversation{}, participantLookupErr(err)
	}
	otherRoles, err := s.directory.Roles(ctx, otherUserID)
	if err != nil {
		return chat.Conversation{}, participantLookupErr(err)
	}

	customerID, salonOwnerID, err := chat.ResolvePair(
		chat.Participant{ID: currentUserID, Roles: currentRoles},
		chat.Participant{ID: otherUserID, Roles: otherRoles},
	)
	if err != nil {
		return chat.Conversation{}, err
	}

	conv, err := s.conversations.GetByPair(ctx, customerID, salonOwnerID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, chat_errors.ErrNotFound) {
		return chat.Conversation{}, err
	}

	now := time.Now()
	conv = chat.Conversation{
		ID:           uuid.New(),
		CustomerID:   customerID,
		SalonOwnerID: salonOwnerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = s.conversations.Create(ctx, &conv)
	if errors.Is(err, chat_errors.ErrAlreadyExists) {
		return s.conversations.GetByPair(ctx, customerID, salonOwnerID)
	}
	if err != nil {
		return chat.Conversation{}, err
	}
	return conv, nil
}

// ListConversations returns the user's conversations, most recently updated
// first, each with its latest message embedded when one exists.
func (s *ChatService) ListConversations(ctx context.Context, userID uuid.UUID) ([]ConversationWithLast, error) {
	conversations, err := s.conversations.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]ConversationWithLast, 0, len(conversations))
	for _, conv := range conversations {
		item := ConversationWithLast{Conversation: conv}
		last, err := s.messages.LatestMessage(ctx, conv.ID)
		if err == nil {
			item.LastMessage = &last
		} else if !errors.Is(err, chat_errors.ErrNotFound) {
			return nil, err
		}
		result = append(result, item)
	}
	return result, nil
}

type SendMessageInput struct {
	SenderID        uuid.UUID
	ConversationID  uuid.UUID
	ReceiverID      uuid.UUID
	Content         string
	ClientMessageID string
}

// SendMessage persists a message and decides its initial status from the
// receiver's presence. Retries carrying the same clientMessageId from the
// same sender return the original message unchanged.
func (s *ChatService) SendMessage(ctx context.Context, in SendMessageInput) (chat.Message, error) {
	conv, err := s.conversations.GetByID(ctx, in.ConversationID)
	if err != nil {
		return chat.Message{}, err
	}
	if !isMember(conv, in.SenderID) || !isMember(conv, in.ReceiverID) {
		return chat.Message{}, chat_errors.ErrForbidden
	}

	// The limit counts characters, not bytes, so multibyte text gets the
	// full budget.
	content := strings.TrimSpace(in.Content)
	if content == "" || utf8.RuneCountInString(content) > contentMaxLen {
		return chat.Message{}, chat_errors.ErrInvalidInput
	}

	clientMessageID := strings.TrimSpace(in.ClientMessageID)
	if clientMessageID != "" {
		existing, err := s.messages.GetByClientMessageID(ctx, clientMessageID)
		if err == nil {
			if existing.SenderID == in.SenderID {
				return existing, nil
			}
			// Same idempotency key from a different sender is a collision,
			// not a retry.
			return chat.Message{}, chat_errors.ErrAlreadyExists
		}
		if !errors.Is(err, chat_errors.ErrNotFound) {
			return chat.Message{}, err
		}
	}

	now := time.Now()
	msg := chat.Message{
		ID:             uuid.New(),
		ConversationID: in.ConversationID,
		SenderID:       in.SenderID,
		ReceiverID:     in.ReceiverID,
		Content:        content,
		Status:         chat.StatusSent,
		CreatedAt:      now,
	}
	if clientMessageID != "" {
		msg.ClientMessageID = sql.NullString{String: clientMessageID, Valid: true}
	}

	if err := s.messages.Create(ctx, &msg); err != nil {
		return chat.Message{}, err
	}

	if s.presence.IsOnline(in.ReceiverID) {
		if msg.MarkDelivered(time.Now()) {
			if err := s.messages.SaveStatus(ctx, msg); err != nil {
				return chat.Message{}, err
			}
		}
	}

	if err := s.conversations.TouchUpdatedAt(ctx, in.ConversationID, now); err != nil {
		s.log.Warnf("failed to bump conversation %s: %s", in.ConversationID, err)
	}

	convID := msg.ConversationID
	msgID := msg.ID
	if err := s.notifier.Notify(ctx, in.ReceiverID, notify.Event{
		Type:           notify.TypeNewMessage,
		Description:    "You have a new message",
		ConversationID: &convID,
		MessageID:      &msgID,
	}); err != nil {
		// The sink owns delivery guarantees; a failed push never fails a send.
		s.log.Warnf("notification push for message %s failed: %s", msg.ID, err)
	}

	return msg, nil
}

// GetChatHistory returns the most recent messages of a conversation in
// ascending creation order. The limit defaults to 50 and is clamped to
// [1, 200].
func (s *ChatService) GetChatHistory(ctx context.Context, userID, conversationID uuid.UUID, limit int) ([]chat.Message, error) {
	if err := s.ensureParticipant(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	if limit == 0 {
		limit = historyDefaultLimit
	}
	limit = min(max(limit, 1), historyMaxLimit)

	messages, err := s.messages.ListByConversationDesc(ctx, conversationID, limit)
	if err != nil {
		return nil, err
	}

	// Storage hands back the newest page first; flip it so history reads
	// chronologically.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// MarkConversationRead advances every unread message addressed to the user in
// the conversation to READ, backfilling DeliveredAt for messages that were
// never observed as delivered.
func (s *ChatService) MarkConversationRead(ctx context.Context, userID, conversationID uuid.UUID) error {
	if err := s.ensureParticipant(ctx, conversationID, userID); err != nil {
		return err
	}

	unread, err := s.messages.UnreadFor(ctx, conversationID, userID)
	if err != nil {
		return err
	}
	if len(unread) == 0 {
		return nil
	}

	now := time.Now()
	updated := unread[:0]
	for _, m := range unread {
		if m.MarkRead(now) {
			updated = append(updated, m)
		}
	}
	return s.messages.SaveStatuses(ctx, updated)
}

// UnreadMessageCount returns the user's unread message total across all
// conversations.
func (s *ChatService) UnreadMessageCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.messages.CountUnread(ctx, userID)
}

// UnreadNotificationCount asks the notification sink for its unread total.
func (s *ChatService) UnreadNotificationCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifier.CountUnread(ctx, userID)
}

// IsParticipant gates realtime topic subscriptions and every chat operation.
func (s *ChatService) IsParticipant(ctx context.Context, conversationID, userID uuid.UUID) (bool, error) {
	return s.conversations.IsParticipant(ctx, conversationID, userID)
}

func (s *ChatService) ensureParticipant(ctx context.Context, conversationID, userID uuid.UUID) error {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if !isMember(conv, userID) {
		return chat_errors.ErrForbidden
	}
	return nil
}

func isMember(conv chat.Conversation, userID uuid.UUID) bool {
	return conv.CustomerID == userID || conv.SalonOwnerID == userID
}

func participantLookupErr(err error) error {
	if errors.Is(err, chat_errors.ErrNotFound) {
		return chat_errors.ErrInvalidInput
	}
	return err
}
