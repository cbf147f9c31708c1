package trivia

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuestion(t *testing.T) {
	q, err := ParseQuestion("What is the capital of France? ` Paris ")
	require.NoError(t, err)
	assert.Equal(t, Question{Text: "What is the capital of France?", Answer: "Paris"}, q)

	for _, bad := range []string{"", "no delimiter", "a`b`c", "`answer only", "question only`"} {
		_, err := ParseQuestion(bad)
		assert.ErrorIs(t, err, ErrMalformedQuestion, bad)
	}
}

func TestQuestionMatches(t *testing.T) {
	q := Question{Text: "?", Answer: "paris"}
	assert.True(t, q.Matches(" Paris "))
	assert.True(t, q.Matches("PARIS"))
	assert.False(t, q.Matches("pari"))
}
