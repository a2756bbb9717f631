package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/bingo-engine/pkg/trigger"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/pflag"
)

const defaultWrapWidth = 120

func main() {
	width := pflag.IntP("width", "w", defaultWrapWidth, "wrap validation messages at this column")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <item_triggers.yml>...\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() < 1 {
		pflag.Usage()
		os.Exit(1)
	}

	failed := false
	for _, filename := range pflag.Args() {
		validator := &TriggerValidator{width: *width}
		if err := validator.validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("%s is valid (%d goals)\n", filename, validator.goals)
	}

	if failed {
		os.Exit(1)
	}
}

// TriggerValidator checks a trigger document for load errors and naming conventions
type TriggerValidator struct {
	errors []string
	goals  int
	width  int
}

func (v *TriggerValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	ext := filepath.Ext(baseName)
	if ext != ".yml" && ext != ".yaml" {
		return fmt.Errorf("trigger file must have .yml or .yaml extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ext)
	if !isValidID(nameWithoutExt) {
		return fmt.Errorf("trigger filename '%s' must be lowercase snake_case (e.g., item_triggers.yml, not item-triggers.yml)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	return v.validate(filename, data)
}

func (v *TriggerValidator) validate(filename string, data []byte) error {
	v.errors = nil

	catalog, err := trigger.Parse(data)
	if err != nil {
		for _, e := range unjoin(err) {
			v.addError(e.Error())
		}
	} else {
		v.goals = catalog.Len()
		v.validateCatalog(catalog)
	}

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *TriggerValidator) validateCatalog(c *trigger.Catalog) {
	for _, goalID := range c.GoalIDs() {
		v.validateIDFormat("goal ID", goalID)

		root, _ := c.Lookup(goalID)
		root.Walk(func(g *trigger.MatchGroup) {
			if g != root {
				v.validateIDFormat(fmt.Sprintf("group ID in goal %s", goalID), g.ID)
			}
			for _, th := range []trigger.Threshold{g.Unique, g.Total} {
				if th.IsVariable() && !isValidID(th.Var) {
					v.addError(fmt.Sprintf("group %s in goal %s has invalid variable name '%s' - should be lowercase snake_case", g.ID, goalID, th.Var))
				}
			}
			for _, p := range g.Patterns {
				if p.Kind == trigger.PatternExact && !validItemRegex.MatchString(p.Value) {
					v.addError(fmt.Sprintf("group %s in goal %s has item '%s' - expected namespace:item", g.ID, goalID, p.Value))
				}
			}
		})
	}
}

func (v *TriggerValidator) validateIDFormat(fieldName, id string) {
	if id == "" {
		return
	}

	if !isValidID(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

// addError wraps long messages and indents continuation lines under the bullet
func (v *TriggerValidator) addError(msg string) {
	width := v.width
	if width <= 0 {
		width = defaultWrapWidth
	}
	wrapped := wordwrap.String(msg, width)
	first, rest, found := strings.Cut(wrapped, "\n")
	if found {
		first += "\n" + indent.String(rest, 4)
	}
	v.errors = append(v.errors, "  - "+first)
}

// unjoin flattens an errors.Join result
func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

var (
	validIDRegex   = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)
	validItemRegex = regexp.MustCompile(`^[a-z0-9_.-]+:[a-z0-9_./-]+$`)
)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}
