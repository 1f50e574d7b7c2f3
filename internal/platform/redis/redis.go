package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Client is the single-node Redis connection behind the read-through caches
// (user records for the ban gate, wallet balances). Everything stored in it
// is rebuildable from postgres or the chain API.
type Client struct {
	*redis.Client
}

// Open connects and pings. The cache is never authoritative, but a dead
// Redis at boot means misconfiguration, so startup fails fast instead of
// serving degraded.
func Open(ctx context.Context, addr, password string, db int) (*Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("empty redis addr")
	}

	c := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Client{Client: c}, nil
}
