package trivia

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func hidden(clue string) int {
	return strings.Count(clue, string(maskRune))
}

func TestMaskerRevealsProgressively(t *testing.T) {
	m := NewMasker(rand.New(rand.NewPCG(1, 2)))
	m.SetAnswer("Red Hot Chili Peppers")

	first := m.CurrentClue()
	assert.Equal(t, "___ ___ _____ _______", first)

	prev := hidden(first)
	for range clueTiers - 1 {
		clue := m.GiveClue()
		assert.Less(t, hidden(clue), prev)
		assert.Len(t, clue, len("Red Hot Chili Peppers"))
		prev = hidden(clue)
	}
	assert.Positive(t, prev)

	// the sequence does not continue past the last tier
	assert.Equal(t, prev, hidden(m.GiveClue()))
	assert.Equal(t, "Red Hot Chili Peppers", m.Answer())
}

func TestMaskerKeepsPunctuation(t *testing.T) {
	m := NewMasker(nil)
	m.SetAnswer("AC/DC")
	assert.Equal(t, "__/__", m.CurrentClue())
}

func TestMaskerNewAnswerRestarts(t *testing.T) {
	m := NewMasker(nil)
	m.SetAnswer("first")
	m.GiveClue()
	m.GiveClue()

	m.SetAnswer("second")
	assert.Equal(t, "______", m.CurrentClue())
}
