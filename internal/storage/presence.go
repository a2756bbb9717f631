package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/bingo-engine/pkg/player"
	"github.com/redis/go-redis/v9"
)

const (
	playerNamesKey   = "player-names"
	playersOnlineKey = "players-online"

	presenceTimeout = 2 * time.Second
)

// RedisPresence tracks player names and who is connected.
// Lookups never fail: a Redis error reads as unknown or offline.
type RedisPresence struct {
	client *redis.Client
	logger *slog.Logger
}

var _ player.Presence = (*RedisPresence)(nil)

// Presence returns a presence tracker sharing this storage's connection
func (r *RedisStorage) Presence() *RedisPresence {
	return &RedisPresence{client: r.client, logger: r.logger}
}

// SetName records the display name for an identity
func (p *RedisPresence) SetName(ctx context.Context, id uuid.UUID, name string) error {
	if err := p.client.HSet(ctx, playerNamesKey, id.String(), name).Err(); err != nil {
		return fmt.Errorf("failed to set player name: %w", err)
	}
	return nil
}

// SetOnline marks an identity as connected or disconnected
func (p *RedisPresence) SetOnline(ctx context.Context, id uuid.UUID, online bool) error {
	var err error
	if online {
		err = p.client.SAdd(ctx, playersOnlineKey, id.String()).Err()
	} else {
		err = p.client.SRem(ctx, playersOnlineKey, id.String()).Err()
	}
	if err != nil {
		return fmt.Errorf("failed to update player presence: %w", err)
	}
	return nil
}

func (p *RedisPresence) Name(id uuid.UUID) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
	defer cancel()

	name, err := p.client.HGet(ctx, playerNamesKey, id.String()).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			p.logger.Warn("Failed to look up player name", "player_id", id, "error", err)
		}
		return "", false
	}
	return name, true
}

func (p *RedisPresence) IsOnline(id uuid.UUID) bool {
	ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
	defer cancel()

	online, err := p.client.SIsMember(ctx, playersOnlineKey, id.String()).Result()
	if err != nil {
		p.logger.Warn("Failed to look up player presence", "player_id", id, "error", err)
		return false
	}
	return online
}
