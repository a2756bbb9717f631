package trigger

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// groupSpec is the document form of a MatchGroup
type groupSpec struct {
	ID     string        `yaml:"id"`
	Items  []patternSpec `yaml:"items"`
	Unique *Threshold    `yaml:"unique"`
	Total  *Threshold    `yaml:"total"`
	Groups []groupSpec   `yaml:"groups"`
}

// Catalog maps goal ids to their trigger trees. It is built once by Parse and is
// read-only afterwards, so a single Catalog can back any number of games.
type Catalog struct {
	goals map[string]*MatchGroup
}

// Parse reads a YAML trigger document keyed by goal id. Every problem found is
// reported; each one is a *DefinitionError.
func Parse(doc []byte) (*Catalog, error) {
	order, err := goalOrder(doc)
	if err != nil {
		return nil, err
	}

	specs := make(map[string]groupSpec, len(order))
	if len(order) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(doc))
		decoder.KnownFields(true)
		if err := decoder.Decode(&specs); err != nil && !errors.Is(err, io.EOF) {
			return nil, &DefinitionError{Reason: err.Error()}
		}
	}

	c := &Catalog{goals: make(map[string]*MatchGroup, len(order))}
	var errs []error
	for _, goalID := range order {
		b := treeBuilder{goalID: goalID, ids: make(map[string]bool)}
		spec := specs[goalID]
		if spec.ID != "" && spec.ID != goalID {
			b.fail(goalID, fmt.Sprintf("root id %q must be omitted or equal the goal id", spec.ID))
		}
		spec.ID = goalID

		group := b.build(spec, true)
		if len(b.errs) > 0 {
			errs = append(errs, b.errs...)
			continue
		}
		c.goals[goalID] = group
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}

// goalOrder returns the top-level keys in document order, rejecting duplicates
func goalOrder(doc []byte) ([]string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(doc, &root); err != nil {
		return nil, &DefinitionError{Reason: err.Error()}
	}
	if len(root.Content) == 0 {
		return nil, nil // empty document
	}

	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, &DefinitionError{Reason: "document must be a mapping of goal id to trigger"}
	}

	var order []string
	var errs []error
	seen := make(map[string]int)
	for i := 0; i+1 < len(top.Content); i += 2 {
		key := top.Content[i]
		if line, dup := seen[key.Value]; dup {
			errs = append(errs, &DefinitionError{
				GoalID: key.Value,
				Reason: fmt.Sprintf("duplicate goal id (line %d, first defined on line %d)", key.Line, line),
			})
			continue
		}
		seen[key.Value] = key.Line
		order = append(order, key.Value)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return order, nil
}

type treeBuilder struct {
	goalID string
	ids    map[string]bool
	errs   []error
}

func (b *treeBuilder) fail(groupID, reason string) {
	b.errs = append(b.errs, &DefinitionError{GoalID: b.goalID, GroupID: groupID, Reason: reason})
}

func (b *treeBuilder) build(spec groupSpec, isRoot bool) *MatchGroup {
	if spec.ID == "" && !isRoot {
		b.fail("", "child group is missing an id")
	} else if b.ids[spec.ID] {
		b.fail(spec.ID, "duplicate group id")
	}
	b.ids[spec.ID] = true

	g := &MatchGroup{ID: spec.ID}
	for _, ps := range spec.Items {
		p, err := ps.compile()
		if err != nil {
			b.fail(spec.ID, err.Error())
			continue
		}
		g.Patterns = append(g.Patterns, p)
	}

	// Thresholds default to 1 for groups that count items and 0 for pure containers
	def := Count(0)
	if len(spec.Items) > 0 {
		def = Count(1)
	}
	g.Unique, g.Total = def, def
	if spec.Unique != nil {
		g.Unique = *spec.Unique
	}
	if spec.Total != nil {
		g.Total = *spec.Total
	}

	for _, child := range spec.Groups {
		g.Children = append(g.Children, b.build(child, false))
	}

	b.validate(g, spec)
	return g
}

func (b *treeBuilder) validate(g *MatchGroup, spec groupSpec) {
	if g.Unique.Value < 0 {
		b.fail(g.ID, fmt.Sprintf("unique threshold is negative (%d)", g.Unique.Value))
	}
	if g.Total.Value < 0 {
		b.fail(g.ID, fmt.Sprintf("total threshold is negative (%d)", g.Total.Value))
	}

	hasThreshold := g.Unique.IsVariable() || g.Total.IsVariable() || g.Unique.Value > 0 || g.Total.Value > 0
	switch {
	case len(spec.Items) == 0 && len(spec.Groups) == 0:
		b.fail(g.ID, "group has neither items nor groups")
	case len(spec.Items) == 0 && hasThreshold:
		b.fail(g.ID, "thresholds set on a group with no items can never be met")
	case len(spec.Groups) == 0 && !hasThreshold:
		b.fail(g.ID, "leaf group with zero unique and total thresholds is always satisfied")
	}
}

// Lookup returns the trigger tree for a goal. Goals without a trigger are simply absent.
func (c *Catalog) Lookup(goalID string) (*MatchGroup, bool) {
	g, ok := c.goals[goalID]
	return g, ok
}

// GoalIDs returns every goal with a trigger, sorted
func (c *Catalog) GoalIDs() []string {
	ids := make([]string, 0, len(c.goals))
	for id := range c.goals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of goals in the catalog
func (c *Catalog) Len() int {
	return len(c.goals)
}
