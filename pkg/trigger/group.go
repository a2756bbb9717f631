package trigger

// MatchGroup is a node of a goal's trigger tree. Its own patterns define the items it
// counts directly; its children carve out items that are counted separately and are
// never attributed to this group.
type MatchGroup struct {
	ID       string
	Patterns []Pattern
	Unique   Threshold // distinct matching items required
	Total    Threshold // matching events required, repeats included
	Children []*MatchGroup
}

// MatchResult describes where an item landed in a trigger tree.
// The zero value means no group matched.
type MatchResult struct {
	GroupID string
	// Path holds the child indexes from the root down to the matching group.
	// An empty path with a non-empty GroupID is a root match.
	Path []int
}

// Matched reports whether any group in the tree matched
func (r MatchResult) Matched() bool {
	return r.GroupID != ""
}

// Classify finds the group that owns an item identifier. Children are tried first, in
// declaration order, and the first child subtree that matches wins. Only if no child
// matches are the group's own patterns tested.
func (g *MatchGroup) Classify(id string) MatchResult {
	for i, child := range g.Children {
		if res := child.Classify(id); res.Matched() {
			res.Path = append([]int{i}, res.Path...)
			return res
		}
	}

	if g.NameMatches(id) {
		return MatchResult{GroupID: g.ID}
	}
	return MatchResult{}
}

// NameMatches reports whether the item is counted directly by this group, i.e. it
// matches one of the group's own patterns and none of its children.
func (g *MatchGroup) NameMatches(id string) bool {
	for _, child := range g.Children {
		if child.Classify(id).Matched() {
			return false
		}
	}
	for _, p := range g.Patterns {
		if p.Matches(id) {
			return true
		}
	}
	return false
}

// IsSatisfied checks the group's thresholds against its own counters and requires
// every child to be satisfied by its own sub-state
func (g *MatchGroup) IsSatisfied(s *GroupState) bool {
	if s == nil {
		return false
	}
	if len(s.seen) < s.needUnique || s.total < s.needTotal {
		return false
	}
	for i, child := range g.Children {
		if i >= len(s.children) || !child.IsSatisfied(s.children[i]) {
			return false
		}
	}
	return true
}

// Find returns the group with the given id in this subtree
func (g *MatchGroup) Find(id string) (*MatchGroup, bool) {
	if g.ID == id {
		return g, true
	}
	for _, child := range g.Children {
		if found, ok := child.Find(id); ok {
			return found, true
		}
	}
	return nil, false
}

// Walk visits every group depth-first in declaration order
func (g *MatchGroup) Walk(fn func(*MatchGroup)) {
	fn(g)
	for _, child := range g.Children {
		child.Walk(fn)
	}
}
