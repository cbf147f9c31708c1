package trivia

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedgerAward(t *testing.T) {
	l := NewLedger()

	l.Award("alice", "red", 5)
	l.Award("alice", "red", 3)
	l.Award("bob", "", 2)

	assert.Equal(t, 8, l.Get("alice"))
	assert.Equal(t, 2, l.Get("bob"))
	assert.Equal(t, 8, l.Team["red"])
	assert.NotContains(t, l.Team, "")
	assert.Equal(t, 0, l.Get("nobody"))

	_, ok := l.Lookup("nobody")
	assert.False(t, ok)
}

func TestLedgerSetCreatesEntry(t *testing.T) {
	l := NewLedger()
	l.Set("carol", -4)

	score, ok := l.Lookup("carol")
	assert.True(t, ok)
	assert.Equal(t, -4, score)
}

func TestRankTeams(t *testing.T) {
	tests := []struct {
		name   string
		scores map[string]int
		want   []Standing
	}{
		{
			name:   "ties broken by name descending",
			scores: map[string]int{"red": 10, "blue": 10, "green": 5},
			want:   []Standing{{"red", 10}, {"blue", 10}, {"green", 5}},
		},
		{
			name:   "score first",
			scores: map[string]int{"a": 1, "b": 7, "c": 3},
			want:   []Standing{{"b", 7}, {"c", 3}, {"a", 1}},
		},
		{
			name:   "empty",
			scores: map[string]int{},
			want:   []Standing{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLedger()
			l.Team = tt.scores
			assert.Equal(t, tt.want, l.RankTeams())
		})
	}
}

func TestLedgerClearAndClone(t *testing.T) {
	l := NewLedger()
	l.Award("alice", "red", 5)

	c := l.Clone()
	l.Clear()

	assert.Equal(t, 0, l.Get("alice"))
	assert.Empty(t, l.Team)
	assert.NotNil(t, l.User)
	assert.Equal(t, 5, c.Get("alice"))
	assert.Equal(t, 5, c.Team["red"])
}
