package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"easysmm-backend/internal/common/logger"
	"easysmm-backend/internal/features/user/models"
	"easysmm-backend/internal/features/user/repository"
	redisp "easysmm-backend/internal/platform/redis"
)

// userTTL keeps the ban gate cheap: every authenticated request reads the
// user, so reads go through Redis with a short TTL.
const userTTL = 60 * time.Second

// cachedRepository is a read-through cache in front of the authoritative
// user store. Writes invalidate; the cache is never the source of truth.
type cachedRepository struct {
	inner repository.UserRepository
	rdb   *redisp.Client
}

func NewCachedRepository(inner repository.UserRepository, rdb *redisp.Client) repository.UserRepository {
	return &cachedRepository{inner: inner, rdb: rdb}
}

func userKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

func (r *cachedRepository) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	out, err := r.inner.Upsert(ctx, user)
	if err != nil {
		return nil, err
	}
	r.store(ctx, out)
	return out, nil
}

func (r *cachedRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	data, err := r.rdb.Get(ctx, userKey(id)).Bytes()
	if err == nil {
		var user models.User
		if json.Unmarshal(data, &user) == nil {
			return &user, nil
		}
	} else if err != redis.Nil {
		logger.Warn().Err(err).Int64("user_id", id).Msg("user cache read failed")
	}

	user, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, user)
	return user, nil
}

func (r *cachedRepository) List(ctx context.Context, limit int) ([]*models.User, error) {
	// Admin-only and bounded; not worth caching.
	return r.inner.List(ctx, limit)
}

func (r *cachedRepository) SetBanned(ctx context.Context, id int64, banned bool) error {
	if err := r.inner.SetBanned(ctx, id, banned); err != nil {
		return err
	}
	_ = r.rdb.Del(ctx, userKey(id)).Err()
	return nil
}

func (r *cachedRepository) store(ctx context.Context, user *models.User) {
	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	_ = r.rdb.Set(ctx, userKey(user.ID), data, userTTL).Err()
}
