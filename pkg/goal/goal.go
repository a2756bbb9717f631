package goal

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ConcreteGoal is a goal placed on a board. Variables hold the values rolled for this
// instance, e.g. {"var": 3} for "Collect $var diamonds".
type ConcreteGoal struct {
	ID          string         `json:"id"`
	Description string         `json:"description,omitempty"`
	Variables   map[string]int `json:"variables,omitempty"`
}

// New creates a goal with no variables
func New(id string) ConcreteGoal {
	return ConcreteGoal{ID: id}
}

// WithVars creates a goal with the given variable values
func WithVars(id string, vars map[string]int) ConcreteGoal {
	return ConcreteGoal{ID: id, Variables: vars}
}

// DisplayName returns the description if set, otherwise a readable form of the id
// with its author prefix removed ("jm_book_quill" -> "Book Quill").
func (g ConcreteGoal) DisplayName() string {
	if g.Description != "" {
		return g.Description
	}

	name := g.ID
	if prefix, rest, ok := strings.Cut(name, "_"); ok && len(prefix) <= 3 && rest != "" {
		name = rest
	}
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// IDs returns the ids of goals in order
func IDs(goals []ConcreteGoal) []string {
	ids := make([]string, len(goals))
	for i, g := range goals {
		ids[i] = g.ID
	}
	return ids
}
