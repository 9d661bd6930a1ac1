package httpdto

import (
	"time"

	"salon-chat/internal/domain/chat"
	"salon-chat/internal/services"
)

type MessageResponse struct {
	ID              string     `json:"id"`
	ConversationID  string     `json:"conversationId"`
	SenderID        string     `json:"senderId"`
	ReceiverID      string     `json:"receiverId"`
	Content         string     `json:"content"`
	ClientMessageID string     `json:"clientMessageId,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	DeliveredAt     *time.Time `json:"deliveredAt,omitempty"`
	ReadAt          *time.Time `json:"readAt,omitempty"`
}

type ConversationResponse struct {
	ID           string           `json:"id"`
	CustomerID   string           `json:"customerId"`
	SalonOwnerID string           `json:"salonOwnerId"`
	LastMessage  *MessageResponse `json:"lastMessage,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

type UnreadCountResponse struct {
	UnreadMessages      int64 `json:"unreadMessages"`
	UnreadNotifications int64 `json:"unreadNotifications"`
}

func FromMessage(m chat.Message) MessageResponse {
	resp := MessageResponse{
		ID:             m.ID.String(),
		ConversationID: m.ConversationID.String(),
		SenderID:       m.SenderID.String(),
		ReceiverID:     m.ReceiverID.String(),
		Content:        m.Content,
		Status:         string(m.Status),
		CreatedAt:      m.CreatedAt,
	}
	if m.ClientMessageID.Valid {
		resp.ClientMessageID = m.ClientMessageID.String
	}
	if m.DeliveredAt.Valid {
		t := m.DeliveredAt.Time
		resp.DeliveredAt = &t
	}
	if m.ReadAt.Valid {
		t := m.ReadAt.Time
		resp.ReadAt = &t
	}
	return resp
}

func FromMessages(msgs []chat.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, FromMessage(m))
	}
	return out
}

func FromConversation(c chat.Conversation, last *chat.Message) ConversationResponse {
	resp := ConversationResponse{
		ID:           c.ID.String(),
		CustomerID:   c.CustomerID.String(),
		SalonOwnerID: c.SalonOwnerID.String(),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if last != nil {
		lm := FromMessage(*last)
		resp.LastMessage = &lm
	}
	return resp
}

func FromConversationList(items []services.ConversationWithLast) []ConversationResponse {
	out := make([]ConversationResponse, 0, len(items))
	for _, item := range items {
		out = append(out, FromConversation(item.Conversation, item.LastMessage))
	}
	return out
}
