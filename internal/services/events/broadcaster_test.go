package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBroadcaster(t *testing.T) (*Broadcaster, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewBroadcaster(client, logger), client
}

func subscribe(t *testing.T, client *redis.Client, gameID uuid.UUID) *redis.PubSub {
	t.Helper()

	ctx := context.Background()
	sub := client.Subscribe(ctx, Channel(gameID))
	t.Cleanup(func() { _ = sub.Close() })

	// Wait for the subscription to be confirmed before publishing
	_, err := sub.Receive(ctx)
	require.NoError(t, err)
	return sub
}

func receiveEvent(t *testing.T, sub *redis.PubSub) Event {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var event Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
	return event
}

func TestBroadcaster_PublishAutoActivated(t *testing.T) {
	b, client := setupBroadcaster(t)
	gameID := uuid.New()
	sub := subscribe(t, client, gameID)

	err := b.PublishAutoActivated(context.Background(), gameID, "Alice", []string{"jm_book_quill", "jm_n_diamonds"})
	require.NoError(t, err)

	event := receiveEvent(t, sub)
	assert.Equal(t, EventTypeGoalAutoActivated, event.Type)
	assert.Equal(t, gameID.String(), event.GameID)
	assert.Equal(t, "Alice", event.Player)
	assert.Equal(t, []any{"jm_book_quill", "jm_n_diamonds"}, event.Data["goals"])
}

func TestBroadcaster_PublishAutoActivatedEmpty(t *testing.T) {
	b, client := setupBroadcaster(t)
	gameID := uuid.New()
	sub := subscribe(t, client, gameID)

	require.NoError(t, b.PublishAutoActivated(context.Background(), gameID, "Alice", nil))
	require.NoError(t, b.PublishGoalCompleted(context.Background(), gameID, "Alice", "jm_book_quill", "minecraft:writable_book"))

	// The first message seen is the completion; the empty activation was skipped
	event := receiveEvent(t, sub)
	assert.Equal(t, EventTypeGoalCompleted, event.Type)
	assert.Equal(t, "jm_book_quill", event.Data["goal"])
	assert.Equal(t, "minecraft:writable_book", event.Data["item"])
}

func TestBroadcaster_PublishBoardFilled(t *testing.T) {
	b, client := setupBroadcaster(t)
	gameID := uuid.New()
	sub := subscribe(t, client, gameID)

	require.NoError(t, b.PublishBoardFilled(context.Background(), gameID, "Red Team", []string{"a", "b"}))

	event := receiveEvent(t, sub)
	assert.Equal(t, EventTypeBoardFilled, event.Type)
	assert.Equal(t, "Red Team", event.Player)
	assert.Len(t, event.Data["goals"], 2)
}

func TestChannel(t *testing.T) {
	id := uuid.MustParse("6f1c2a34-0000-4000-8000-000000000001")
	assert.Equal(t, "game-events:6f1c2a34-0000-4000-8000-000000000001", Channel(id))
}
