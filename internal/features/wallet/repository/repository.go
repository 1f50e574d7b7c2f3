package repository

import (
	"context"
	"errors"

	"easysmm-backend/internal/features/wallet/models"
)

var ErrNotFound = errors.New("wallet not connected")

type WalletRepository interface {
	// Upsert stores the link, replacing any previous wallet for the user.
	Upsert(ctx context.Context, link *models.WalletLink) error
	GetByUser(ctx context.Context, userID int64) (*models.WalletLink, error)
	// Disconnect marks the link as disconnected without deleting it.
	Disconnect(ctx context.Context, userID int64) error
}
