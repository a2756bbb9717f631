package player

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// Team is a group of identities sharing one board
type Team struct {
	name     string
	members  []uuid.UUID
	color    string // lipgloss color, empty for none
	presence Presence
}

var _ Player = (*Team)(nil)

// NewTeam creates a team. Duplicate members are dropped; order is kept.
func NewTeam(name string, members []uuid.UUID, color string, presence Presence) *Team {
	seen := make(map[uuid.UUID]bool, len(members))
	unique := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		if !seen[m] {
			seen[m] = true
			unique = append(unique, m)
		}
	}

	return &Team{
		name:     name,
		members:  unique,
		color:    color,
		presence: presence,
	}
}

func (t *Team) Name() string {
	return t.name
}

func (t *Team) FormattedName() string {
	style := lipgloss.NewStyle().Bold(true)
	if t.color != "" {
		style = style.Foreground(lipgloss.Color(t.color))
	}
	return style.Render(t.name)
}

func (t *Team) ConnectedIdentities() []uuid.UUID {
	online := make([]uuid.UUID, 0, len(t.members))
	for _, m := range t.members {
		if t.presence.IsOnline(m) {
			online = append(online, m)
		}
	}
	return online
}

// Identities returns every identity on the team, online or not
func (t *Team) Identities() []uuid.UUID {
	out := make([]uuid.UUID, len(t.members))
	copy(out, t.members)
	return out
}
