package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/bingo-engine/internal/logger"
	"github.com/jwebster45206/bingo-engine/pkg/activation"
	"github.com/jwebster45206/bingo-engine/pkg/board"
	"github.com/jwebster45206/bingo-engine/pkg/goal"
	"github.com/jwebster45206/bingo-engine/pkg/player"
	"github.com/jwebster45206/bingo-engine/pkg/storage"
	"github.com/jwebster45206/bingo-engine/pkg/trigger"
)

var (
	// ErrNoSession is returned when an item arrives for an identity with no board in the game
	ErrNoSession = errors.New("no board for player in game")

	// ErrIdentityTaken is returned when an identity already plays on another board in the game
	ErrIdentityTaken = errors.New("player already has a board in game")
)

// Notifier publishes board events to listeners. events.Broadcaster implements it.
type Notifier interface {
	PublishBoardFilled(ctx context.Context, gameID uuid.UUID, player string, goalIDs []string) error
	PublishAutoActivated(ctx context.Context, gameID uuid.UUID, player string, goalIDs []string) error
	PublishGoalCompleted(ctx context.Context, gameID uuid.UUID, player string, goalID string, item string) error
}

// Session is one player's board within a game
type Session struct {
	mu     sync.Mutex
	GameID uuid.UUID
	Player player.Player
	Board  *board.GameBoard
}

func (s *Session) owns(id uuid.UUID) bool {
	return slices.Contains(s.Player.Identities(), id)
}

// Manager owns every live board, keyed by game
type Manager struct {
	mu       sync.RWMutex
	games    map[uuid.UUID][]*Session
	catalog  *trigger.Catalog
	storage  storage.Storage
	notifier Notifier
	logger   *slog.Logger
}

// NewManager creates a session manager. A nil notifier disables event publishing.
func NewManager(catalog *trigger.Catalog, store storage.Storage, notifier Notifier, log *slog.Logger) *Manager {
	return &Manager{
		games:    make(map[uuid.UUID][]*Session),
		catalog:  catalog,
		storage:  store,
		notifier: notifier,
		logger:   log,
	}
}

// Start fills a new board for p. The inventories of all of p's identities
// form the snapshot used for auto activation.
func (m *Manager) Start(ctx context.Context, gameID uuid.UUID, p player.Player, goals []goal.ConcreteGoal) (activation.Activation, error) {
	log := logger.WithGameID(m.logger, gameID).With("player", p.Name())

	m.mu.RLock()
	err := m.checkIdentities(gameID, p)
	m.mu.RUnlock()
	if err != nil {
		return activation.Activation{}, err
	}

	snapshot, err := m.snapshot(ctx, gameID, p)
	if err != nil {
		return activation.Activation{}, err
	}

	b := board.New(activation.NewRegistry(m.catalog, log), log)
	act, err := b.Fill(goals, snapshot)
	if err != nil {
		return activation.Activation{}, err
	}

	m.mu.Lock()
	if err := m.checkIdentities(gameID, p); err != nil {
		m.mu.Unlock()
		return activation.Activation{}, err
	}
	m.games[gameID] = append(m.games[gameID], &Session{GameID: gameID, Player: p, Board: b})
	m.mu.Unlock()

	log.Info("Board filled", "display", p.FormattedName(), "goals", len(goals), "auto_activated", len(act.Activated))

	if m.notifier != nil {
		if err := m.notifier.PublishBoardFilled(ctx, gameID, p.Name(), goal.IDs(goals)); err != nil {
			logger.WithError(log, err).Warn("Failed to publish board filled event")
		}
		if err := m.notifier.PublishAutoActivated(ctx, gameID, p.Name(), act.Activated); err != nil {
			logger.WithError(log, err).Warn("Failed to publish auto activation event")
		}
	}

	return act, nil
}

// checkIdentities must be called with m.mu held
func (m *Manager) checkIdentities(gameID uuid.UUID, p player.Player) error {
	for _, s := range m.games[gameID] {
		for _, id := range p.Identities() {
			if s.owns(id) {
				return fmt.Errorf("%w: %s", ErrIdentityTaken, id)
			}
		}
	}
	return nil
}

func (m *Manager) snapshot(ctx context.Context, gameID uuid.UUID, p player.Player) ([]string, error) {
	var snapshot []string
	for _, id := range p.Identities() {
		items, err := m.storage.LoadInventory(ctx, gameID, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load inventory for %s: %w", id, err)
		}
		snapshot = append(snapshot, items...)
	}
	return snapshot, nil
}

// ApplyItem records an acquired item and feeds it to the board that owns the identity.
// It returns the goals the item completed. The item is recorded even when no board
// exists yet, so a board filled later sees it in its snapshot.
func (m *Manager) ApplyItem(ctx context.Context, gameID, playerID uuid.UUID, item string) ([]string, error) {
	log := logger.WithGameID(m.logger, gameID)

	// A failed write still lets the board progress
	if err := m.storage.RecordItem(ctx, gameID, playerID, item); err != nil {
		logger.WithError(log, err).Error("Failed to record item", "player_id", playerID, "item", item)
	}

	s, ok := m.Find(gameID, playerID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSession, playerID)
	}
	log = log.With("player", s.Player.Name())

	s.mu.Lock()
	completed := s.Board.Apply(item)
	s.mu.Unlock()

	for _, goalID := range completed {
		log.Info("Goal completed", "goal_id", goalID, "goal", displayName(s.Board, goalID), "item", item)
		if m.notifier == nil {
			continue
		}
		if err := m.notifier.PublishGoalCompleted(ctx, gameID, s.Player.Name(), goalID, item); err != nil {
			logger.WithError(log, err).Warn("Failed to publish goal completed event", "goal_id", goalID)
		}
	}

	return completed, nil
}

// Find returns the session whose player includes the identity
func (m *Manager) Find(gameID, playerID uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.games[gameID] {
		if s.owns(playerID) {
			return s, true
		}
	}
	return nil, false
}

// Sessions returns the boards of a game in the order they were started
func (m *Manager) Sessions(gameID uuid.UUID) []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.games[gameID])
}

// End discards every board of a game, clears the inventories of their players and
// returns how many boards there were
func (m *Manager) End(ctx context.Context, gameID uuid.UUID) int {
	m.mu.Lock()
	sessions := m.games[gameID]
	delete(m.games, gameID)
	m.mu.Unlock()

	if len(sessions) == 0 {
		return 0
	}

	log := logger.WithGameID(m.logger, gameID)
	for _, s := range sessions {
		for _, id := range s.Player.Identities() {
			if err := m.storage.ClearInventory(ctx, gameID, id); err != nil {
				logger.WithError(log, err).Warn("Failed to clear inventory", "player_id", id)
			}
		}
	}
	log.Info("Game ended", "boards", len(sessions))
	return len(sessions)
}

func displayName(b *board.GameBoard, goalID string) string {
	if pos, ok := b.Position(goalID); ok {
		return b.At(pos).DisplayName()
	}
	return goalID
}
