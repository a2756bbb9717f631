package activation

import (
	"log/slog"
	"os"
	"testing"

	"github.com/jwebster45206/bingo-engine/pkg/goal"
	"github.com/jwebster45206/bingo-engine/pkg/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTriggers = `
jm_book_quill:
  items: [minecraft:writable_book]

jm_different_edible:
  items:
    - minecraft:beetroot
    - regex: minecraft:.*_stew
  unique: 2
  groups:
    - id: potato
      items: [minecraft:potato]

jm_n_diamonds:
  items: [minecraft:diamond]
  total: $var
`

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	catalog, err := trigger.Parse([]byte(testTriggers))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewRegistry(catalog, logger)
}

func TestRegisterGoals_Snapshot(t *testing.T) {
	r := newTestRegistry(t)

	goals := []goal.ConcreteGoal{
		goal.New("jm_different_edible"),
		goal.New("jm_book_quill"),
		goal.WithVars("jm_n_diamonds", map[string]int{"var": 2}),
		goal.New("jm_untracked_goal"),
	}
	snapshot := []string{
		"minecraft:writable_book",
		"minecraft:diamond",
		"minecraft:diamond",
		"minecraft:potato",
		"minecraft:beetroot",
	}

	act := r.RegisterGoals(goals, snapshot)
	assert.Equal(t, []string{"jm_book_quill", "jm_n_diamonds"}, act.Activated)
	assert.Equal(t, []string{"jm_untracked_goal"}, act.Untracked)
	assert.Empty(t, act.AlreadyRegistered)
	assert.Empty(t, act.Unresolved)
	assert.True(t, act.IsActivated("jm_book_quill"))
	assert.False(t, act.IsActivated("jm_different_edible"))

	assert.True(t, r.Completed("jm_book_quill"))
	assert.False(t, r.Completed("jm_different_edible"))
	assert.False(t, r.Completed("jm_untracked_goal"))
	assert.True(t, r.Registered("jm_untracked_goal"))
	_, ok := r.State("jm_untracked_goal")
	assert.False(t, ok)
}

func TestRegisterGoals_StateStaysPrimed(t *testing.T) {
	r := newTestRegistry(t)

	act := r.RegisterGoals([]goal.ConcreteGoal{goal.New("jm_different_edible")},
		[]string{"minecraft:potato", "minecraft:beetroot"})
	assert.Empty(t, act.Activated)

	// One more distinct parent item finishes the goal; the snapshot was not discarded
	completed := r.Apply("minecraft:mushroom_stew")
	assert.Equal(t, []string{"jm_different_edible"}, completed)

	assert.Empty(t, r.Apply("minecraft:beetroot_stew"), "completion is reported once")
	assert.True(t, r.Completed("jm_different_edible"))
}

func TestRegisterGoals_Idempotent(t *testing.T) {
	once := newTestRegistry(t)
	twice := newTestRegistry(t)

	goals := []goal.ConcreteGoal{goal.WithVars("jm_n_diamonds", map[string]int{"var": 3})}
	snapshot := []string{"minecraft:diamond", "minecraft:diamond"}

	first := once.RegisterGoals(goals, snapshot)

	twice.RegisterGoals(goals, snapshot)
	second := twice.RegisterGoals(goals, snapshot)

	assert.Equal(t, []string{"jm_n_diamonds"}, second.AlreadyRegistered)
	assert.Empty(t, second.Activated)
	assert.Empty(t, second.Untracked, "re-registration is distinct from an unknown goal")

	a, _ := once.State("jm_n_diamonds")
	b, _ := twice.State("jm_n_diamonds")
	assert.Equal(t, a.Root().Total(), b.Root().Total())
	assert.Equal(t, 2, b.Root().Total())
	assert.Equal(t, once.Completed("jm_n_diamonds"), twice.Completed("jm_n_diamonds"))
	assert.Empty(t, first.Activated)
}

func TestRegisterGoals_EmptySnapshot(t *testing.T) {
	r := newTestRegistry(t)

	act := r.RegisterGoals([]goal.ConcreteGoal{
		goal.New("jm_book_quill"),
		goal.New("jm_different_edible"),
	}, nil)
	assert.Empty(t, act.Activated)
}

func TestRegisterGoals_ZeroVariableActivates(t *testing.T) {
	r := newTestRegistry(t)

	act := r.RegisterGoals([]goal.ConcreteGoal{
		goal.WithVars("jm_n_diamonds", map[string]int{"var": 0}),
	}, nil)
	// unique defaults to 1, so a zero total alone is not enough
	assert.Empty(t, act.Activated)
}

func TestRegisterGoals_Unresolved(t *testing.T) {
	r := newTestRegistry(t)

	act := r.RegisterGoals([]goal.ConcreteGoal{goal.New("jm_n_diamonds")}, []string{"minecraft:diamond"})
	assert.Equal(t, []string{"jm_n_diamonds"}, act.Unresolved)
	assert.Empty(t, act.Activated)
	assert.True(t, r.Registered("jm_n_diamonds"))
	_, ok := r.State("jm_n_diamonds")
	assert.False(t, ok)
}

func TestRegisterGoals_IdempotentWithoutState(t *testing.T) {
	tests := []struct {
		name string
		goal goal.ConcreteGoal
	}{
		{"untracked goal", goal.New("unknown_goal")},
		{"unresolved goal", goal.New("jm_n_diamonds")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t)
			goals := []goal.ConcreteGoal{tt.goal}

			first := r.RegisterGoals(goals, nil)
			assert.Empty(t, first.AlreadyRegistered)
			assert.Len(t, append(first.Untracked, first.Unresolved...), 1)

			second := r.RegisterGoals(goals, nil)
			assert.Equal(t, []string{tt.goal.ID}, second.AlreadyRegistered)
			assert.Empty(t, second.Untracked)
			assert.Empty(t, second.Unresolved)
		})
	}
}

func TestApply_UnmatchedItem(t *testing.T) {
	r := newTestRegistry(t)
	r.RegisterGoals([]goal.ConcreteGoal{goal.New("jm_book_quill")}, nil)

	assert.Empty(t, r.Apply("minecraft:dirt"))
	s, ok := r.State("jm_book_quill")
	require.True(t, ok)
	assert.Equal(t, 0, s.Root().Total())
}
