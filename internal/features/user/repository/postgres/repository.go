package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"easysmm-backend/internal/features/user/models"
	"easysmm-backend/internal/features/user/repository"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.UserRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, first_name, last_name, username, photo_url, language_code, last_login)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			username = EXCLUDED.username,
			photo_url = EXCLUDED.photo_url,
			language_code = EXCLUDED.language_code,
			last_login = NOW()
		RETURNING id, first_name, last_name, username, photo_url, language_code,
			is_banned, created_at, last_login
	`

	var out models.User
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Username, user.PhotoURL, user.LanguageCode,
	).Scan(
		&out.ID, &out.FirstName, &out.LastName, &out.Username, &out.PhotoURL, &out.LanguageCode,
		&out.IsBanned, &out.CreatedAt, &out.LastLogin,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return &out, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, first_name, last_name, username, photo_url, language_code,
			is_banned, created_at, last_login
		FROM users
		WHERE id = $1
	`

	var user models.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Username, &user.PhotoURL, &user.LanguageCode,
		&user.IsBanned, &user.CreatedAt, &user.LastLogin,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *postgresRepository) List(ctx context.Context, limit int) ([]*models.User, error) {
	query := `
		SELECT id, first_name, last_name, username, photo_url, language_code,
			is_banned, created_at, last_login
		FROM users
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID, &user.FirstName, &user.LastName, &user.Username, &user.PhotoURL, &user.LanguageCode,
			&user.IsBanned, &user.CreatedAt, &user.LastLogin,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	return users, rows.Err()
}

func (r *postgresRepository) SetBanned(ctx context.Context, id int64, banned bool) error {
	// Idempotent: setting the flag to its current value is a success.
	res, err := r.db.ExecContext(ctx, `UPDATE users SET is_banned = $2 WHERE id = $1`, id, banned)
	if err != nil {
		return fmt.Errorf("failed to update ban flag: %w", err)
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
