package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"easysmm-backend/internal/features/wallet/models"
	"easysmm-backend/internal/features/wallet/repository"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.WalletRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Upsert(ctx context.Context, link *models.WalletLink) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO wallets (user_id, address, wallet_app, is_connected, connected_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			address = EXCLUDED.address,
			wallet_app = EXCLUDED.wallet_app,
			is_connected = EXCLUDED.is_connected,
			connected_at = EXCLUDED.connected_at
	`, link.UserID, link.Address, link.WalletApp, link.IsConnected, link.ConnectedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert wallet: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByUser(ctx context.Context, userID int64) (*models.WalletLink, error) {
	var link models.WalletLink
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, address, wallet_app, is_connected, connected_at
		FROM wallets WHERE user_id = $1
	`, userID).Scan(&link.UserID, &link.Address, &link.WalletApp, &link.IsConnected, &link.ConnectedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &link, nil
}

func (r *postgresRepository) Disconnect(ctx context.Context, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE wallets SET is_connected = FALSE WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to disconnect wallet: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
