package trigger

import "fmt"

// DefinitionError reports a malformed trigger definition. It is only ever produced
// while parsing a document; evaluating events never fails.
type DefinitionError struct {
	GoalID  string
	GroupID string // empty when the problem is with the goal entry itself
	Reason  string
}

func (e *DefinitionError) Error() string {
	if e.GoalID == "" {
		return "trigger definition: " + e.Reason
	}
	if e.GroupID == "" || e.GroupID == e.GoalID {
		return fmt.Sprintf("trigger definition %s: %s", e.GoalID, e.Reason)
	}
	return fmt.Sprintf("trigger definition %s (group %s): %s", e.GoalID, e.GroupID, e.Reason)
}
