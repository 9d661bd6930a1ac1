package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"salon-chat/internal/domain/chat"
	chat_errors "salon-chat/pkg/errors"
)

type PostgresMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m *chat.Message) error {
	res := r.db.WithContext(ctx).Create(m)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return chat_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresMessageRepository) GetByClientMessageID(ctx context.Context, clientMessageID string) (chat.Message, error) {
	var m chat.Message
	err := r.db.WithContext(ctx).
		Where("client_message_id = ?", clientMessageID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chat.Message{}, chat_errors.ErrNotFound
		}
		return chat.Message{}, err
	}
	return m, nil
}

func (r *PostgresMessageRepository) ListByConversationDesc(ctx context.Context, conversationID uuid.UUID, limit int) ([]chat.Message, error) {
	var messages []chat.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *PostgresMessageRepository) LatestMessage(ctx context.Context, conversationID uuid.UUID) (chat.Message, error) {
	var m chat.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chat.Message{}, chat_errors.ErrNotFound
		}
		return chat.Message{}, err
	}
	return m, nil
}

func (r *PostgresMessageRepository) UnreadFor(ctx context.Context, conversationID, receiverID uuid.UUID) ([]chat.Message, error) {
	var messages []chat.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND receiver_id = ? AND status <> ?", conversationID, receiverID, chat.StatusRead).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *PostgresMessageRepository) CountUnread(ctx context.Context, receiverID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Where("receiver_id = ? AND status <> ?", receiverID, chat.StatusRead).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresMessageRepository) SaveStatus(ctx context.Context, m chat.Message) error {
	res := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"status":       m.Status,
			"delivered_at": m.DeliveredAt,
			"read_at":      m.ReadAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return chat_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresMessageRepository) SaveStatuses(ctx context.Context, msgs []chat.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range msgs {
			res := tx.Model(&chat.Message{}).
				Where("id = ?", m.ID).
				Updates(map[string]interface{}{
					"status":       m.Status,
					"delivered_at": m.DeliveredAt,
					"read_at":      m.ReadAt,
				})
			if res.Error != nil {
				return res.Error
			}
		}
		return nil
	})
}
