package trivia

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoteSessionThreshold(t *testing.T) {
	v := NewVoteSession(3)

	assert.Equal(t, VoteResult{Registered: true, Remaining: 2}, v.CastSkip("a"))
	assert.Equal(t, VoteResult{Remaining: 2}, v.CastSkip("a"))
	assert.Equal(t, VoteResult{Registered: true, Remaining: 1}, v.CastSkip("b"))
	assert.Equal(t, VoteResult{Registered: true, ThresholdReached: true}, v.CastSkip("c"))

	v.Reset()
	assert.Equal(t, 0, v.Votes())
	assert.Equal(t, VoteResult{Registered: true, Remaining: 2}, v.CastSkip("a"))
}

func TestVoteSessionDefaultThreshold(t *testing.T) {
	assert.Equal(t, DefaultSkipVotes, NewVoteSession(0).Threshold())
}
