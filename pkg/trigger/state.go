package trigger

import "fmt"

// GroupState holds the counters for one MatchGroup. Its children are aligned with the
// group's children by index.
type GroupState struct {
	GroupID string

	seen       map[string]struct{}
	total      int
	needUnique int
	needTotal  int
	children   []*GroupState
}

// Unique is the number of distinct items counted directly by this group
func (s *GroupState) Unique() int {
	return len(s.seen)
}

// Total is the number of matching events counted directly by this group
func (s *GroupState) Total() int {
	return s.total
}

// Seen reports whether the item has been counted by this group
func (s *GroupState) Seen(id string) bool {
	_, ok := s.seen[id]
	return ok
}

// Thresholds returns the resolved unique and total requirements
func (s *GroupState) Thresholds() (unique, total int) {
	return s.needUnique, s.needTotal
}

// Child returns the sub-state of a descendant group
func (s *GroupState) Child(id string) (*GroupState, bool) {
	for _, c := range s.children {
		if c.GroupID == id {
			return c, true
		}
		if found, ok := c.Child(id); ok {
			return found, true
		}
	}
	return nil, false
}

func (s *GroupState) record(id string) {
	s.seen[id] = struct{}{}
	s.total++
}

// State tracks one concrete goal's progress against its trigger tree.
// A State has a single owner; it is not safe for concurrent use.
type State struct {
	GoalID string

	group     *MatchGroup
	root      *GroupState
	satisfied bool
}

// NewState builds empty counters for a goal. Variable thresholds are resolved against
// vars; a missing variable is an error.
func NewState(goalID string, group *MatchGroup, vars map[string]int) (*State, error) {
	root, err := newGroupState(group, vars)
	if err != nil {
		return nil, fmt.Errorf("goal %s: %w", goalID, err)
	}

	s := &State{GoalID: goalID, group: group, root: root}
	// Zero thresholds can make a goal complete before any event arrives
	s.satisfied = group.IsSatisfied(root)
	return s, nil
}

func newGroupState(g *MatchGroup, vars map[string]int) (*GroupState, error) {
	unique, err := g.Unique.Resolve(vars)
	if err != nil {
		return nil, fmt.Errorf("group %s unique threshold: %w", g.ID, err)
	}
	total, err := g.Total.Resolve(vars)
	if err != nil {
		return nil, fmt.Errorf("group %s total threshold: %w", g.ID, err)
	}

	gs := &GroupState{
		GroupID:    g.ID,
		seen:       make(map[string]struct{}),
		needUnique: unique,
		needTotal:  total,
		children:   make([]*GroupState, 0, len(g.Children)),
	}
	for _, child := range g.Children {
		cs, err := newGroupState(child, vars)
		if err != nil {
			return nil, err
		}
		gs.children = append(gs.children, cs)
	}
	return gs, nil
}

// Apply counts one item-acquisition event. It returns true only when this event moves
// the goal from unsatisfied to satisfied. Unmatched items leave the state unchanged.
func (s *State) Apply(id string) bool {
	res := s.group.Classify(id)
	if !res.Matched() {
		return false
	}

	node := s.root
	for _, i := range res.Path {
		node = node.children[i]
	}
	node.record(id)

	if s.satisfied {
		return false
	}
	s.satisfied = s.group.IsSatisfied(s.root)
	return s.satisfied
}

// ApplyAll folds events in order and reports whether any of them completed the goal
func (s *State) ApplyAll(ids []string) bool {
	completed := false
	for _, id := range ids {
		if s.Apply(id) {
			completed = true
		}
	}
	return completed
}

// Satisfied reports whether the goal has ever been satisfied. Once true it stays true.
func (s *State) Satisfied() bool {
	return s.satisfied
}

// Root returns the counters of the root group
func (s *State) Root() *GroupState {
	return s.root
}

// Group returns the counters of any group in the tree, root included
func (s *State) Group(id string) (*GroupState, bool) {
	if s.root.GroupID == id {
		return s.root, true
	}
	return s.root.Child(id)
}
