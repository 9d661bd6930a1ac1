package services

import (
	"context"

	"github.com/google/uuid"
)

// UserDirectory resolves the capability labels of externally-owned user
// records. The user service owns registration and role management; this core
// only reads role labels to classify conversation participants.
type UserDirectory interface {
	Roles(ctx context.Context, userID uuid.UUID) ([]string, error)
}
