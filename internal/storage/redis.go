package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/bingo-engine/pkg/storage"
	"github.com/jwebster45206/bingo-engine/pkg/trigger"
	"github.com/redis/go-redis/v9"
)

const inventoryTTL = 24 * time.Hour

// RedisStorage implements the Storage interface using Redis for inventories
// and the filesystem for trigger documents
type RedisStorage struct {
	client  *redis.Client
	logger  *slog.Logger
	dataDir string
}

// Ensure RedisStorage implements Storage interface
var _ storage.Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance
func NewRedisStorage(redisURL string, dataDir string, logger *slog.Logger) (*RedisStorage, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	if dataDir == "" {
		dataDir = "./data"
	}

	return &RedisStorage{
		client:  redis.NewClient(opt),
		logger:  logger,
		dataDir: dataDir,
	}, nil
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Client returns the underlying connection so other services can share it
func (r *RedisStorage) Client() *redis.Client {
	return r.client
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Inventory operations (Redis-backed)

func inventoryKey(gameID, playerID uuid.UUID) string {
	return fmt.Sprintf("inventory:%s:%s", gameID.String(), playerID.String())
}

func (r *RedisStorage) RecordItem(ctx context.Context, gameID, playerID uuid.UUID, item string) error {
	key := inventoryKey(gameID, playerID)

	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, item)
	pipe.Expire(ctx, key, inventoryTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to record item", "game_id", gameID, "player_id", playerID, "error", err)
		return fmt.Errorf("failed to record item: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadInventory(ctx context.Context, gameID, playerID uuid.UUID) ([]string, error) {
	items, err := r.client.LRange(ctx, inventoryKey(gameID, playerID), 0, -1).Result()
	if err != nil {
		r.logger.Error("Failed to load inventory", "game_id", gameID, "player_id", playerID, "error", err)
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}

func (r *RedisStorage) ClearInventory(ctx context.Context, gameID, playerID uuid.UUID) error {
	if err := r.client.Del(ctx, inventoryKey(gameID, playerID)).Err(); err != nil {
		r.logger.Error("Failed to clear inventory", "game_id", gameID, "player_id", playerID, "error", err)
		return fmt.Errorf("failed to clear inventory: %w", err)
	}
	return nil
}

// Trigger operations (filesystem-backed)

func (r *RedisStorage) LoadTriggerCatalog(ctx context.Context, filename string) (*trigger.Catalog, error) {
	path := filepath.Join(r.dataDir, "triggers", filename)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("trigger file not found: %s", filename)
		}
		return nil, fmt.Errorf("failed to read trigger file: %w", err)
	}

	catalog, err := trigger.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse trigger file %s: %w", filename, err)
	}

	r.logger.Info("Trigger catalog loaded", "file", filename, "goals", catalog.Len())
	return catalog, nil
}

func (r *RedisStorage) ListTriggerFiles(ctx context.Context) ([]string, error) {
	triggersPath := filepath.Join(r.dataDir, "triggers")

	entries, err := os.ReadDir(triggersPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read triggers directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yml", ".yaml":
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	return files, nil
}
