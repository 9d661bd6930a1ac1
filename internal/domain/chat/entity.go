package chat

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status is the delivery state of a message. It only ever advances:
// SENT -> DELIVERED -> READ.
type Status string

const (
	StatusSent      Status = "SENT"
	StatusDelivered Status = "DELIVERED"
	StatusRead      Status = "READ"
)

// Conversation is a 1:1 channel between one customer and one salon owner.
// The (customer_id, salon_owner_id) pair is unique so concurrent first-contact
// attempts collapse onto a single row.
type Conversation struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_conversation_customer_owner;index:idx_conversation_customer"`
	SalonOwnerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_conversation_customer_owner;index:idx_conversation_owner"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Message represents the messages table
type Message struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ConversationID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_message_conversation_created,priority:1"`
	SenderID        uuid.UUID      `gorm:"type:uuid;not null;index:idx_message_sender_created,priority:1"`
	ReceiverID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_message_receiver_status,priority:1"`
	ClientMessageID sql.NullString `gorm:"size:100;uniqueIndex:uk_message_client_id"`
	Content         string         `gorm:"size:2000;not null"`
	Status          Status         `gorm:"size:32;not null;index:idx_message_receiver_status,priority:2"`
	CreatedAt       time.Time      `gorm:"index:idx_message_conversation_created,priority:2;index:idx_message_sender_created,priority:2;index:idx_message_receiver_status,priority:3"`
	DeliveredAt     sql.NullTime
	ReadAt          sql.NullTime
}

func (Conversation) TableName() string {
	return "conversations"
}

func (Message) TableName() string {
	return "messages"
}

// MarkDelivered advances the message to DELIVERED. A delivery confirmation
// arriving after the message was already delivered or read is ignored, so the
// state machine never moves backwards.
func (m *Message) MarkDelivered(now time.Time) bool {
	if m.Status != StatusSent {
		return false
	}
	m.Status = StatusDelivered
	m.DeliveredAt = sql.NullTime{Time: now, Valid: true}
	return true
}

// MarkRead advances the message to READ. DeliveredAt is backfilled when the
// message was never observed as delivered (receiver read it on reconnect).
func (m *Message) MarkRead(now time.Time) bool {
	if m.Status == StatusRead {
		return false
	}
	m.Status = StatusRead
	m.ReadAt = sql.NullTime{Time: now, Valid: true}
	if !m.DeliveredAt.Valid {
		m.DeliveredAt = sql.NullTime{Time: now, Valid: true}
	}
	return true
}
