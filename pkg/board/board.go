package board

import (
	"fmt"
	"log/slog"

	"github.com/jwebster45206/bingo-engine/pkg/activation"
	"github.com/jwebster45206/bingo-engine/pkg/goal"
)

// Size is the number of cells on a board (5x5)
const Size = 25

// ConfigurationError signals an integration bug upstream, such as filling a board with
// the wrong number of goals. It is not recoverable by the player.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "board configuration: " + e.Reason
}

// GameBoard holds the 25 goals of one game and the trigger state behind them
type GameBoard struct {
	filled   bool
	squares  [Size]goal.ConcreteGoal
	registry *activation.Registry
	logger   *slog.Logger
}

// New creates an empty board whose goals will be tracked by registry
func New(registry *activation.Registry, logger *slog.Logger) *GameBoard {
	if logger == nil {
		logger = slog.Default()
	}
	return &GameBoard{
		registry: registry,
		logger:   logger,
	}
}

// Fill places exactly 25 goals on the board and auto-activates every goal the
// snapshot already satisfies. A board can only be filled once.
func (b *GameBoard) Fill(goals []goal.ConcreteGoal, snapshot []string) (activation.Activation, error) {
	if len(goals) != Size {
		return activation.Activation{}, &ConfigurationError{
			Reason: fmt.Sprintf("fill requires %d goals, got %d", Size, len(goals)),
		}
	}
	if b.filled {
		return activation.Activation{}, &ConfigurationError{Reason: "board is already filled"}
	}

	copy(b.squares[:], goals)
	b.filled = true

	act := b.registry.RegisterGoals(goals, snapshot)
	b.logger.Info("Auto activation on",
		"goal_ids", act.Activated,
		"untracked", len(act.Untracked),
		"snapshot_size", len(snapshot))
	if len(act.AlreadyRegistered) > 0 {
		b.logger.Warn("Board contains repeated goals", "goal_ids", act.AlreadyRegistered)
	}

	return act, nil
}

// Filled reports whether Fill has succeeded
func (b *GameBoard) Filled() bool {
	return b.filled
}

// All returns the goals in position order, or an empty slice before the board is filled
func (b *GameBoard) All() []goal.ConcreteGoal {
	if !b.filled {
		return []goal.ConcreteGoal{}
	}
	out := make([]goal.ConcreteGoal, Size)
	copy(out, b.squares[:])
	return out
}

// At returns the goal at a position. Positions come from a fixed layout, so an
// out-of-range position is a programming error and panics.
func (b *GameBoard) At(position int) goal.ConcreteGoal {
	if position < 0 || position >= Size {
		panic(fmt.Sprintf("board position %d out of range [0, %d)", position, Size))
	}
	return b.squares[position]
}

// Apply feeds a live item event to the board's goals and returns the goals it completed
func (b *GameBoard) Apply(item string) []string {
	if !b.filled {
		return nil
	}
	return b.registry.Apply(item)
}

// Completed reports whether a goal on this board has been satisfied
func (b *GameBoard) Completed(goalID string) bool {
	return b.registry.Completed(goalID)
}

// Position returns the first position holding the goal
func (b *GameBoard) Position(goalID string) (int, bool) {
	if !b.filled {
		return 0, false
	}
	for i, g := range b.squares {
		if g.ID == goalID {
			return i, true
		}
	}
	return 0, false
}
