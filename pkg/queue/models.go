package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/bingo-engine/pkg/goal"
)

// RequestType identifies the type of request in the queue
type RequestType string

const (
	// RequestTypeItem is an item acquisition reported by the game runtime
	RequestTypeItem RequestType = "item"

	// RequestTypeFillBoard places 25 goals on a player's board
	RequestTypeFillBoard RequestType = "fill_board"

	// RequestTypeEndGame discards every board of a game
	RequestTypeEndGame RequestType = "end_game"

	// RequestTypePresence updates a player's name or connection state
	RequestTypePresence RequestType = "presence"
)

// BoardSpec describes who owns a board and which goals go on it.
// A board with one member and no team name belongs to an individual.
type BoardSpec struct {
	TeamName string              `json:"team_name,omitempty"`
	Color    string              `json:"color,omitempty"`
	Members  []uuid.UUID         `json:"members"`
	Goals    []goal.ConcreteGoal `json:"goals"`
}

// IsTeam reports whether the board belongs to a team
func (b *BoardSpec) IsTeam() bool {
	return b.TeamName != "" || len(b.Members) > 1
}

// Request represents a unified request in the queue
type Request struct {
	RequestID string      `json:"request_id"`
	Type      RequestType `json:"type"`
	GameID    uuid.UUID   `json:"game_id"`

	// Item-specific fields
	Player uuid.UUID `json:"player,omitempty"`
	Item   string    `json:"item,omitempty"`

	// Fill-specific fields
	Board *BoardSpec `json:"board,omitempty"`

	// Presence-specific fields
	Name   string `json:"name,omitempty"`
	Online bool   `json:"online,omitempty"`

	EnqueuedAt time.Time `json:"enqueued_at"`
}

func newRequest(t RequestType, gameID uuid.UUID) *Request {
	return &Request{
		RequestID:  uuid.New().String(),
		Type:       t,
		GameID:     gameID,
		EnqueuedAt: time.Now().UTC(),
	}
}

// NewItemRequest creates a request for one acquired item
func NewItemRequest(gameID, player uuid.UUID, item string) *Request {
	r := newRequest(RequestTypeItem, gameID)
	r.Player = player
	r.Item = item
	return r
}

// NewFillBoardRequest creates a request to fill a board
func NewFillBoardRequest(gameID uuid.UUID, board BoardSpec) *Request {
	r := newRequest(RequestTypeFillBoard, gameID)
	r.Board = &board
	return r
}

// NewEndGameRequest creates a request to discard a game's boards
func NewEndGameRequest(gameID uuid.UUID) *Request {
	return newRequest(RequestTypeEndGame, gameID)
}

// NewPresenceRequest creates a request announcing a player's name and connection state
func NewPresenceRequest(gameID, player uuid.UUID, name string, online bool) *Request {
	r := newRequest(RequestTypePresence, gameID)
	r.Player = player
	r.Name = name
	r.Online = online
	return r
}

// ToJSON converts the request to JSON bytes for Redis
func (r *Request) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// FromJSON parses a request from JSON bytes
func FromJSON(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}
