package storage

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jwebster45206/bingo-engine/pkg/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStorage(t *testing.T, dataDir string) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s, err := NewRedisStorage("redis://"+mr.Addr(), dataDir, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func writeTriggerFile(t *testing.T, dir, name, content string) {
	t.Helper()
	triggers := filepath.Join(dir, "triggers")
	require.NoError(t, os.MkdirAll(triggers, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(triggers, name), []byte(content), 0644))
}

func TestRedisStorage_Ping(t *testing.T) {
	s, _ := setupStorage(t, t.TempDir())
	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.WaitForConnection(context.Background(), 3, 10*time.Millisecond))
}

func TestRedisStorage_WaitForConnectionFails(t *testing.T) {
	s, mr := setupStorage(t, t.TempDir())
	mr.Close()

	err := s.WaitForConnection(context.Background(), 2, 10*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not become available")
}

func TestRedisStorage_BadURL(t *testing.T) {
	_, err := NewRedisStorage("::", "", slog.Default())
	assert.Error(t, err)
}

func TestRedisStorage_Inventory(t *testing.T) {
	s, mr := setupStorage(t, t.TempDir())
	ctx := context.Background()
	gameID, alice, bob := uuid.New(), uuid.New(), uuid.New()

	items, err := s.LoadInventory(ctx, gameID, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{}, items, "unknown inventory is empty, not an error")

	for _, item := range []string{"minecraft:potato", "minecraft:potato", "minecraft:beetroot"} {
		require.NoError(t, s.RecordItem(ctx, gameID, alice, item))
	}
	require.NoError(t, s.RecordItem(ctx, gameID, bob, "minecraft:diamond"))

	items, err = s.LoadInventory(ctx, gameID, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"minecraft:potato", "minecraft:potato", "minecraft:beetroot"}, items)

	assert.True(t, mr.TTL(inventoryKey(gameID, alice)) > 0, "inventory keys expire")

	require.NoError(t, s.ClearInventory(ctx, gameID, alice))
	items, err = s.LoadInventory(ctx, gameID, alice)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = s.LoadInventory(ctx, gameID, bob)
	require.NoError(t, err)
	assert.Equal(t, []string{"minecraft:diamond"}, items)
}

func TestRedisStorage_LoadTriggerCatalog(t *testing.T) {
	dir := t.TempDir()
	writeTriggerFile(t, dir, "item_triggers.yml", "jm_book_quill:\n  items: [minecraft:writable_book]\n")
	writeTriggerFile(t, dir, "broken.yml", "jm_bad:\n  items:\n    - regex: \"(\"\n")

	s, _ := setupStorage(t, dir)
	ctx := context.Background()

	c, err := s.LoadTriggerCatalog(ctx, "item_triggers.yml")
	require.NoError(t, err)
	_, ok := c.Lookup("jm_book_quill")
	assert.True(t, ok)

	_, err = s.LoadTriggerCatalog(ctx, "missing.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = s.LoadTriggerCatalog(ctx, "broken.yml")
	var defErr *trigger.DefinitionError
	require.True(t, errors.As(err, &defErr))
	assert.Equal(t, "jm_bad", defErr.GoalID)
}

func TestRedisStorage_ListTriggerFiles(t *testing.T) {
	dir := t.TempDir()
	s, _ := setupStorage(t, dir)
	ctx := context.Background()

	files, err := s.ListTriggerFiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, files)

	writeTriggerFile(t, dir, "b.yaml", "")
	writeTriggerFile(t, dir, "a.yml", "")
	writeTriggerFile(t, dir, "notes.txt", "")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "triggers", "sub.yml"), 0755))

	files, err = s.ListTriggerFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.yml", "b.yaml"}, files)
}

func TestRedisStorage_ClientIsShared(t *testing.T) {
	s, mr := setupStorage(t, t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Client().Set(ctx, "shared-key", "1", 0).Err())
	v, err := mr.Get("shared-key")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
	assert.Same(t, s.Client(), s.Client())
}
