package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/airylvat/trivia-rounds/trivia"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDirRandom(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "geo.txt", "Capital of France?`Paris\r\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	q, err := NewDir(dir).Random(context.Background())
	require.NoError(t, err)
	assert.Equal(t, trivia.Question{Text: "Capital of France?", Answer: "Paris"}, q)
}

func TestDirRandomMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.txt", "no delimiter at all\n")

	_, err := NewDir(dir).Random(context.Background())
	assert.ErrorIs(t, err, trivia.ErrMalformedQuestion)
}

func TestDirRandomEmpty(t *testing.T) {
	_, err := NewDir(t.TempDir()).Random(context.Background())
	assert.ErrorIs(t, err, trivia.ErrNoQuestions)

	_, err = NewDir(filepath.Join(t.TempDir(), "missing")).Random(context.Background())
	assert.Error(t, err)
}

func TestReadQuestionLines(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "one`1\ntwo`2\n")
	writeFile(t, dir, "b.txt", "three`3")

	lines, err := ReadQuestionLines(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one`1", "two`2", "three`3"}, lines)
}
