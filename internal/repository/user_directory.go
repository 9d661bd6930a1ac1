package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	chat_errors "salon-chat/pkg/errors"
)

// userRecord is a read-only projection of the externally-owned users table.
// The user service owns the schema; this repository never writes to it.
type userRecord struct {
	ID   uuid.UUID
	Role string
}

func (userRecord) TableName() string {
	return "users"
}

type PostgresUserDirectory struct {
	db *gorm.DB
}

func NewUserDirectory(db *gorm.DB) *PostgresUserDirectory {
	return &PostgresUserDirectory{db: db}
}

func (r *PostgresUserDirectory) Roles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var u userRecord
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, chat_errors.ErrNotFound
		}
		return nil, err
	}
	return []string{u.Role}, nil
}
