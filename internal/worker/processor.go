package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jwebster45206/bingo-engine/internal/session"
	"github.com/jwebster45206/bingo-engine/pkg/player"
	queuePkg "github.com/jwebster45206/bingo-engine/pkg/queue"
)

// PresenceStore is the writable side of player presence
type PresenceStore interface {
	player.Presence
	SetName(ctx context.Context, id uuid.UUID, name string) error
	SetOnline(ctx context.Context, id uuid.UUID, online bool) error
}

// RequestProcessor applies dequeued requests to the live boards
type RequestProcessor struct {
	sessions *session.Manager
	presence PresenceStore
	logger   *slog.Logger
}

func NewRequestProcessor(sessions *session.Manager, presence PresenceStore, logger *slog.Logger) *RequestProcessor {
	return &RequestProcessor{
		sessions: sessions,
		presence: presence,
		logger:   logger,
	}
}

// Process handles one request. Items for players without a board are not an error.
func (p *RequestProcessor) Process(ctx context.Context, req *queuePkg.Request) error {
	switch req.Type {
	case queuePkg.RequestTypeItem:
		if req.Item == "" {
			return fmt.Errorf("item request %s has no item", req.RequestID)
		}
		completed, err := p.sessions.ApplyItem(ctx, req.GameID, req.Player, req.Item)
		if errors.Is(err, session.ErrNoSession) {
			p.logger.Debug("Item recorded for player without a board",
				"game_id", req.GameID.String(),
				"player_id", req.Player.String(),
				"item", req.Item)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to apply item: %w", err)
		}
		if len(completed) > 0 {
			p.logger.Info("Item completed goals", "request_id", req.RequestID, "goal_ids", completed)
		}

	case queuePkg.RequestTypeFillBoard:
		if req.Board == nil || len(req.Board.Members) == 0 {
			return fmt.Errorf("fill request %s has no board members", req.RequestID)
		}
		if _, err := p.sessions.Start(ctx, req.GameID, p.playerFor(req.Board), req.Board.Goals); err != nil {
			return fmt.Errorf("failed to fill board: %w", err)
		}

	case queuePkg.RequestTypeEndGame:
		p.sessions.End(ctx, req.GameID)

	case queuePkg.RequestTypePresence:
		if req.Name != "" {
			if err := p.presence.SetName(ctx, req.Player, req.Name); err != nil {
				return err
			}
		}
		if err := p.presence.SetOnline(ctx, req.Player, req.Online); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown request type: %s", req.Type)
	}

	return nil
}

func (p *RequestProcessor) playerFor(b *queuePkg.BoardSpec) player.Player {
	if b.IsTeam() {
		return player.NewTeam(b.TeamName, b.Members, b.Color, p.presence)
	}
	return player.NewSingle(b.Members[0], p.presence, p.logger)
}
