package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRegex(t *testing.T, value string) Pattern {
	t.Helper()
	p, err := NewRegexPattern(value)
	require.NoError(t, err)
	return p
}

// edibleGroup mirrors jm_different_edible: a broad parent with a potato carve-out
func edibleGroup(t *testing.T) *MatchGroup {
	return &MatchGroup{
		ID: "edible",
		Patterns: []Pattern{
			NewExactPattern("minecraft:beetroot"),
			mustRegex(t, "minecraft:.*"),
		},
		Unique: Count(2),
		Total:  Count(2),
		Children: []*MatchGroup{
			{
				ID:       "potato",
				Patterns: []Pattern{NewExactPattern("minecraft:potato")},
				Unique:   Count(1),
				Total:    Count(1),
			},
			{
				ID:       "fish",
				Patterns: []Pattern{mustRegex(t, "minecraft:(cod|salmon)")},
				Unique:   Count(1),
				Total:    Count(1),
				Children: []*MatchGroup{
					{
						ID:       "cooked_fish",
						Patterns: []Pattern{mustRegex(t, "minecraft:cooked_(cod|salmon)")},
						Unique:   Count(1),
						Total:    Count(1),
					},
				},
			},
		},
	}
}

func TestPattern_Matches(t *testing.T) {
	tests := []struct {
		name    string
		pattern Pattern
		id      string
		want    bool
	}{
		{"exact equal", NewExactPattern("minecraft:book"), "minecraft:book", true},
		{"exact is case sensitive", NewExactPattern("minecraft:book"), "minecraft:BOOK", false},
		{"exact is not a prefix match", NewExactPattern("minecraft:book"), "minecraft:bookshelf", false},
		{"regex full match", mustRegex(t, "minecraft:.*_stew"), "minecraft:regex_stew", true},
		{"regex rejects substring", mustRegex(t, "minecraft:.*_stew"), "minecraft:rabbit_stew_bowl", false},
		{"regex alternation is anchored", mustRegex(t, "minecraft:cod|minecraft:salmon"), "minecraft:salmon_bucket", false},
		{"zero value never matches", Pattern{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pattern.Matches(tt.id))
		})
	}
}

func TestNewRegexPattern_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"unclosed class", "minecraft:["},
		{"unbalanced groups", "minecraft:a)|(minecraft:b"},
		{"stray close paren", "minecraft:a)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegexPattern(tt.value)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid regex")
		})
	}
}

func TestMatchGroup_Classify(t *testing.T) {
	g := edibleGroup(t)

	tests := []struct {
		name      string
		id        string
		wantGroup string
		wantPath  []int
	}{
		{"parent exact", "minecraft:beetroot", "edible", nil},
		{"parent regex", "minecraft:bread", "edible", nil},
		{"child shadows parent", "minecraft:potato", "potato", []int{0}},
		{"second child", "minecraft:cod", "fish", []int{1}},
		{"grandchild shadows child", "minecraft:cooked_salmon", "cooked_fish", []int{1, 0}},
		{"no match", "other:bread", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := g.Classify(tt.id)
			assert.Equal(t, tt.wantGroup, res.GroupID)
			assert.Equal(t, tt.wantGroup != "", res.Matched())
			if len(tt.wantPath) == 0 {
				assert.Empty(t, res.Path)
			} else {
				assert.Equal(t, tt.wantPath, res.Path)
			}
		})
	}
}

func TestMatchGroup_FirstChildWins(t *testing.T) {
	g := &MatchGroup{
		ID:       "root",
		Patterns: []Pattern{NewExactPattern("x")},
		Children: []*MatchGroup{
			{ID: "first", Patterns: []Pattern{mustRegex(t, "a.*")}},
			{ID: "second", Patterns: []Pattern{NewExactPattern("abc")}},
		},
	}

	assert.Equal(t, "first", g.Classify("abc").GroupID)
}

func TestMatchGroup_ChildMatchNeverAttributedToParent(t *testing.T) {
	g := edibleGroup(t)
	ids := []string{"minecraft:potato", "minecraft:cod", "minecraft:cooked_cod", "minecraft:salmon"}

	for _, id := range ids {
		assert.False(t, g.NameMatches(id), id)
		assert.NotEqual(t, "edible", g.Classify(id).GroupID, id)
	}
}

func TestMatchGroup_Find(t *testing.T) {
	g := edibleGroup(t)

	found, ok := g.Find("cooked_fish")
	require.True(t, ok)
	assert.Equal(t, "cooked_fish", found.ID)

	_, ok = g.Find("missing")
	assert.False(t, ok)
}

func TestMatchGroup_IsSatisfiedNil(t *testing.T) {
	assert.False(t, edibleGroup(t).IsSatisfied(nil))
}

func TestMatchGroup_Walk(t *testing.T) {
	var ids []string
	edibleGroup(t).Walk(func(g *MatchGroup) {
		ids = append(ids, g.ID)
	})
	assert.Equal(t, []string{"edible", "potato", "fish", "cooked_fish"}, ids)
}
