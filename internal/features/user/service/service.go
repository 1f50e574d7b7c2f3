package service

import (
	"context"
	"errors"
	"time"

	"easysmm-backend/internal/common/apperr"
	"easysmm-backend/internal/features/auth"
	"easysmm-backend/internal/features/user/models"
	"easysmm-backend/internal/features/user/repository"
)

var ErrUserNotFound = errors.New("user not found")

// newUserWindow: a record created within this window counts as new in the
// sync response.
const newUserWindow = 60 * time.Second

const listLimit = 100

type UserService interface {
	// Sync upserts the verified identity and reports ban state. Called on
	// every app open.
	Sync(ctx context.Context, ident *auth.Identity) (*models.SyncResult, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	IsBanned(ctx context.Context, id int64) (bool, error)
	SetBanned(ctx context.Context, id int64, banned bool) error
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Sync(ctx context.Context, ident *auth.Identity) (*models.SyncResult, error) {
	user, err := s.repo.Upsert(ctx, &models.User{
		ID:           ident.ID,
		FirstName:    ident.FirstName,
		LastName:     ident.LastName,
		Username:     ident.Username,
		PhotoURL:     ident.PhotoURL,
		LanguageCode: ident.LanguageCode,
	})
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to sync user")
	}

	return &models.SyncResult{
		IsBanned: user.IsBanned,
		IsNew:    time.Since(user.CreatedAt) < newUserWindow,
	}, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to load user")
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.List(ctx, listLimit)
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to list users")
	}
	return users, nil
}

func (s *userService) IsBanned(ctx context.Context, id int64) (bool, error) {
	user, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		// Not synced yet; nothing to enforce.
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.IsBanned, nil
}

func (s *userService) SetBanned(ctx context.Context, id int64, banned bool) error {
	err := s.repo.SetBanned(ctx, id, banned)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return apperr.Upstream(err, "Failed to update ban flag")
	}
	return nil
}
