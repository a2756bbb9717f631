package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeBoardFilled       EventType = "board.filled"
	EventTypeGoalAutoActivated EventType = "goal.auto_activated"
	EventTypeGoalCompleted     EventType = "goal.completed"
)

// Event represents a generic event structure
type Event struct {
	Type   EventType      `json:"type"`
	GameID string         `json:"game_id,omitempty"`
	Player string         `json:"player,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}

// Broadcaster publishes game notifications to Redis Pub/Sub
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// Channel returns the pub/sub channel for a game
func Channel(gameID uuid.UUID) string {
	return fmt.Sprintf("game-events:%s", gameID.String())
}

// PublishBoardFilled publishes a board.filled event with the goal ids in position order
func (b *Broadcaster) PublishBoardFilled(ctx context.Context, gameID uuid.UUID, player string, goalIDs []string) error {
	event := Event{
		Type:   EventTypeBoardFilled,
		GameID: gameID.String(),
		Player: player,
		Data: map[string]any{
			"goals": goalIDs,
		},
	}
	return b.publishToGame(ctx, gameID, event)
}

// PublishAutoActivated publishes the goals a board fill found already satisfied.
// Nothing is published when no goal auto-activated.
func (b *Broadcaster) PublishAutoActivated(ctx context.Context, gameID uuid.UUID, player string, goalIDs []string) error {
	if len(goalIDs) == 0 {
		return nil
	}
	event := Event{
		Type:   EventTypeGoalAutoActivated,
		GameID: gameID.String(),
		Player: player,
		Data: map[string]any{
			"goals": goalIDs,
		},
	}
	return b.publishToGame(ctx, gameID, event)
}

// PublishGoalCompleted publishes a goal.completed event for a live completion
func (b *Broadcaster) PublishGoalCompleted(ctx context.Context, gameID uuid.UUID, player string, goalID string, item string) error {
	event := Event{
		Type:   EventTypeGoalCompleted,
		GameID: gameID.String(),
		Player: player,
		Data: map[string]any{
			"goal": goalID,
			"item": item,
		},
	}
	return b.publishToGame(ctx, gameID, event)
}

// publishToGame publishes an event to the game-specific channel
func (b *Broadcaster) publishToGame(ctx context.Context, gameID uuid.UUID, event Event) error {
	channel := Channel(gameID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event", event)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
		"player", event.Player,
	)

	return nil
}
