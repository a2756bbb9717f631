package trigger

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// PatternKind identifies how a Pattern compares item identifiers
type PatternKind string

const (
	PatternExact PatternKind = "exact"
	PatternRegex PatternKind = "regex"
)

// Pattern matches a single item identifier, either by exact name or by regular expression
type Pattern struct {
	Kind  PatternKind
	Value string

	re *regexp.Regexp
}

// NewExactPattern returns a case-sensitive equality pattern
func NewExactPattern(value string) Pattern {
	return Pattern{Kind: PatternExact, Value: value}
}

// NewRegexPattern compiles value as a full-string match
func NewRegexPattern(value string) (Pattern, error) {
	// The bare value must compile so unbalanced groups cannot escape the anchors
	if _, err := regexp.Compile(value); err != nil {
		return Pattern{}, fmt.Errorf("invalid regex %q: %w", value, err)
	}
	re, err := regexp.Compile(`^(?:` + value + `)$`)
	if err != nil {
		return Pattern{}, fmt.Errorf("invalid regex %q: %w", value, err)
	}
	return Pattern{Kind: PatternRegex, Value: value, re: re}, nil
}

// Matches reports whether the identifier satisfies this pattern
func (p Pattern) Matches(id string) bool {
	switch p.Kind {
	case PatternExact:
		return p.Value == id
	case PatternRegex:
		return p.re != nil && p.re.MatchString(id)
	default:
		return false
	}
}

func (p Pattern) String() string {
	if p.Kind == PatternRegex {
		return "regex:" + p.Value
	}
	return p.Value
}

// patternSpec is one entry of an `items` list. A plain string is an exact pattern;
// a mapping uses either an `exact` or a `regex` key.
type patternSpec struct {
	Exact string
	Regex string
}

// UnmarshalYAML accepts both the scalar and the mapping form
func (ps *patternSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&ps.Exact)
	}

	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: pattern must be a string or a mapping", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		var target *string
		switch key.Value {
		case "exact":
			target = &ps.Exact
		case "regex":
			target = &ps.Regex
		default:
			return fmt.Errorf("line %d: unknown pattern key %q", key.Line, key.Value)
		}
		if err := value.Decode(target); err != nil {
			return err
		}
	}

	if ps.Exact != "" && ps.Regex != "" {
		return fmt.Errorf("line %d: pattern sets both exact and regex", node.Line)
	}
	return nil
}

func (ps patternSpec) compile() (Pattern, error) {
	switch {
	case ps.Regex != "":
		return NewRegexPattern(ps.Regex)
	case ps.Exact != "":
		return NewExactPattern(ps.Exact), nil
	default:
		return Pattern{}, fmt.Errorf("empty pattern")
	}
}
