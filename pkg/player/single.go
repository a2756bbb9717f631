package player

import (
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// Single is an individual playing on their own board
type Single struct {
	id       uuid.UUID
	presence Presence
	logger   *slog.Logger
}

var _ Player = (*Single)(nil)

// NewSingle creates a player for one identity
func NewSingle(id uuid.UUID, presence Presence, logger *slog.Logger) *Single {
	if logger == nil {
		logger = slog.Default()
	}
	return &Single{id: id, presence: presence, logger: logger}
}

// ID returns the underlying identity
func (s *Single) ID() uuid.UUID {
	return s.id
}

// Name falls back to the identity string when the runtime does not know the player
func (s *Single) Name() string {
	name, ok := s.presence.Name(s.id)
	if !ok || name == "" {
		s.logger.Warn("Player name is unknown", "player_id", s.id)
		return s.id.String()
	}
	return name
}

func (s *Single) FormattedName() string {
	return lipgloss.NewStyle().Bold(true).Render(s.Name())
}

func (s *Single) ConnectedIdentities() []uuid.UUID {
	if !s.presence.IsOnline(s.id) {
		return []uuid.UUID{}
	}
	return []uuid.UUID{s.id}
}

func (s *Single) Identities() []uuid.UUID {
	return []uuid.UUID{s.id}
}
