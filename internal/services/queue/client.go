package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Client runs queue operations on a Redis connection owned by the caller
type Client struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// NewClient wraps a shared connection and checks that it is reachable.
// The caller keeps ownership of rdb and closes it.
func NewClient(ctx context.Context, rdb *redis.Client, logger *slog.Logger) (*Client, error) {
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to reach redis for queue: %w", err)
	}

	logger.Info("Queue service ready", "addr", rdb.Options().Addr)

	return &Client{
		rdb:    rdb,
		logger: logger,
	}, nil
}

// GetRedisClient returns the shared Redis client for locks and pub/sub
func (c *Client) GetRedisClient() *redis.Client {
	return c.rdb
}
