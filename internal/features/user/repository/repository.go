package repository

import (
	"context"
	"errors"

	"easysmm-backend/internal/features/user/models"
)

var ErrNotFound = errors.New("user not found")

type UserRepository interface {
	// Upsert creates the user or refreshes their non-identity fields and
	// last_login, and returns the persisted row. created_at and is_banned
	// are never touched by a sync.
	Upsert(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// List returns users newest first, bounded by limit.
	List(ctx context.Context, limit int) ([]*models.User, error)
	SetBanned(ctx context.Context, id int64, banned bool) error
}
