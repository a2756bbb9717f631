package activation

import (
	"log/slog"

	"github.com/jwebster45206/bingo-engine/pkg/goal"
	"github.com/jwebster45206/bingo-engine/pkg/trigger"
)

// Activation is the outcome of one RegisterGoals call. Goal ids appear in the order
// the goals were supplied.
type Activation struct {
	// Activated goals are already satisfied by the snapshot
	Activated []string
	// AlreadyRegistered goals were registered by an earlier call and were left untouched
	AlreadyRegistered []string
	// Untracked goals have no trigger in the catalog and never auto-complete
	Untracked []string
	// Unresolved goals have a trigger whose thresholds reference variables the goal lacks
	Unresolved []string
}

// IsActivated reports whether the goal was activated by this call
func (a Activation) IsActivated(goalID string) bool {
	for _, id := range a.Activated {
		if id == goalID {
			return true
		}
	}
	return false
}

// Registry owns the trigger state of every goal registered for one board.
// It is not safe for concurrent use; callers serialize events per game.
type Registry struct {
	catalog    *trigger.Catalog
	states     map[string]*trigger.State
	registered map[string]bool
	order      []string
	logger     *slog.Logger
}

// NewRegistry creates an empty registry backed by a shared catalog
func NewRegistry(catalog *trigger.Catalog, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		catalog:    catalog,
		states:     make(map[string]*trigger.State),
		registered: make(map[string]bool),
		logger:     logger,
	}
}

// RegisterGoals creates primed trigger state for each goal by folding the snapshot
// through it, and returns the goals the snapshot already satisfies. Registering a goal
// a second time is a no-op reported in AlreadyRegistered.
func (r *Registry) RegisterGoals(goals []goal.ConcreteGoal, snapshot []string) Activation {
	var act Activation

	for _, g := range goals {
		// Every goal is remembered, including untracked and unresolved ones
		if r.registered[g.ID] {
			act.AlreadyRegistered = append(act.AlreadyRegistered, g.ID)
			continue
		}
		r.registered[g.ID] = true

		group, ok := r.catalog.Lookup(g.ID)
		if !ok {
			act.Untracked = append(act.Untracked, g.ID)
			continue
		}

		state, err := trigger.NewState(g.ID, group, g.Variables)
		if err != nil {
			r.logger.Warn("Goal trigger could not be resolved", "goal_id", g.ID, "error", err)
			act.Unresolved = append(act.Unresolved, g.ID)
			continue
		}

		state.ApplyAll(snapshot)
		r.states[g.ID] = state
		r.order = append(r.order, g.ID)

		if state.Satisfied() {
			act.Activated = append(act.Activated, g.ID)
		}
	}

	if len(act.AlreadyRegistered) > 0 {
		r.logger.Warn("Goals registered more than once", "goal_ids", act.AlreadyRegistered)
	}
	return act
}

// Apply feeds one live item event to every registered goal and returns the goals it
// newly completed, in registration order
func (r *Registry) Apply(item string) []string {
	var completed []string
	for _, id := range r.order {
		if r.states[id].Apply(item) {
			completed = append(completed, id)
		}
	}
	return completed
}

// Completed reports whether a registered goal has been satisfied
func (r *Registry) Completed(goalID string) bool {
	s, ok := r.states[goalID]
	return ok && s.Satisfied()
}

// State returns the trigger state of a registered goal
func (r *Registry) State(goalID string) (*trigger.State, bool) {
	s, ok := r.states[goalID]
	return s, ok
}

// Registered reports whether the goal was passed to RegisterGoals, whether or not
// it has trigger state
func (r *Registry) Registered(goalID string) bool {
	return r.registered[goalID]
}
