package trigger

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Threshold is a non-negative count requirement. It is either a literal value or a
// reference to a goal variable ("$var") that is resolved per concrete goal.
type Threshold struct {
	Value int
	Var   string
}

// Count returns a literal threshold
func Count(n int) Threshold {
	return Threshold{Value: n}
}

// IsVariable reports whether the threshold depends on a goal variable
func (t Threshold) IsVariable() bool {
	return t.Var != ""
}

// Resolve returns the concrete threshold for a goal with the given variables
func (t Threshold) Resolve(vars map[string]int) (int, error) {
	if !t.IsVariable() {
		return t.Value, nil
	}
	v, ok := vars[t.Var]
	if !ok {
		return 0, fmt.Errorf("variable $%s is not set", t.Var)
	}
	if v < 0 {
		return 0, fmt.Errorf("variable $%s is negative (%d)", t.Var, v)
	}
	return v, nil
}

func (t Threshold) String() string {
	if t.IsVariable() {
		return "$" + t.Var
	}
	return strconv.Itoa(t.Value)
}

// UnmarshalYAML accepts an integer or a "$name" variable reference
func (t *Threshold) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: threshold must be an integer or $variable", node.Line)
	}

	if name, ok := strings.CutPrefix(node.Value, "$"); ok {
		if name == "" {
			return fmt.Errorf("line %d: empty variable name in threshold", node.Line)
		}
		t.Var = name
		return nil
	}

	n, err := strconv.Atoi(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: threshold %q is not an integer", node.Line, node.Value)
	}
	t.Value = n
	return nil
}
