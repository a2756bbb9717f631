package player

import (
	"strings"

	"github.com/google/uuid"
)

// Player is whoever owns a board: a single person or a team
type Player interface {
	// Name is the plain display name
	Name() string
	// FormattedName is the display name styled for terminal output
	FormattedName() string
	// ConnectedIdentities lists the identities currently online for this player.
	// It is empty when nobody is connected.
	ConnectedIdentities() []uuid.UUID
	// Identities lists every identity whose items count toward the board
	Identities() []uuid.UUID
}

// Presence is the runtime's view of who exists and who is online
type Presence interface {
	// Name returns the last known name for an identity
	Name(id uuid.UUID) (string, bool)
	// IsOnline reports whether the identity is currently connected
	IsOnline(id uuid.UUID) bool
}

// SlugName is the player's name with spaces removed, for use in keys and channels
func SlugName(p Player) string {
	return strings.ReplaceAll(p.Name(), " ", "")
}
