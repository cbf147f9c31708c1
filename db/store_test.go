package db

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/airylvat/trivia-rounds/trivia"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)

	ledger := trivia.NewLedger()
	ledger.Award("alice", "red", 5)

	teams := trivia.NewRegistry(4)
	_, err := teams.Join("alice", "red")
	require.NoError(t, err)
	_, err = teams.Join("bob", "red")
	require.NoError(t, err)

	require.NoError(t, s.Save(ledger, teams))
	gotLedger, gotTeams := s.Load()

	if diff := cmp.Diff(ledger, gotLedger); diff != "" {
		t.Errorf("ledger mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(teams, gotTeams, cmpopts.IgnoreUnexported(trivia.Registry{})); diff != "" {
		t.Errorf("teams mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreFileShapes(t *testing.T) {
	s := newTestStore(t)
	ledger := trivia.NewLedger()
	ledger.Award("alice", "red", 5)
	teams := trivia.NewRegistry(4)
	_, _ = teams.Join("alice", "red")
	require.NoError(t, s.Save(ledger, teams))

	data, err := os.ReadFile(filepath.Join(s.Dir(), scoresFile))
	require.NoError(t, err)
	assert.JSONEq(t, `{"user":{"alice":5},"team":{"red":5}}`, string(data))

	data, err = os.ReadFile(filepath.Join(s.Dir(), teamsFile))
	require.NoError(t, err)
	assert.JSONEq(t, `{"users":{"alice":"red"},"teams":{"red":{"owner":"alice","name":"red","members":["alice"]}}}`, string(data))

	matches, err := filepath.Glob(filepath.Join(s.Dir(), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestStoreLoadMissing(t *testing.T) {
	s := newTestStore(t)

	ledger, teams := s.Load()
	assert.Equal(t, trivia.NewLedger(), ledger)
	assert.Empty(t, teams.Teams)
	assert.NotNil(t, teams.Users)
	assert.Equal(t, trivia.Checkpoint{}, s.LoadCheckpoint())
}

func TestStoreLoadCorrupt(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), scoresFile), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), teamsFile), []byte("[]"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), roundFile), []byte("nope"), 0o644))

	ledger, teams := s.Load()
	assert.Empty(t, ledger.User)
	assert.Empty(t, teams.Teams)
	assert.Equal(t, trivia.Checkpoint{}, s.LoadCheckpoint())
}

func TestStoreLoadFillsMissingSubMaps(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), scoresFile), []byte(`{"user":{"alice":2}}`), 0o644))

	ledger, _ := s.Load()
	assert.Equal(t, 2, ledger.Get("alice"))
	assert.NotNil(t, ledger.Team)
}

func TestStoreArchive(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC) }

	ledger := trivia.NewLedger()
	ledger.Award("alice", "red", 5)

	path, err := s.Archive(ledger)
	require.NoError(t, err)
	ledger.Clear()

	assert.Equal(t, filepath.Join(s.Dir(), "scores-2024-03-01-12-30-00.000.json"), path)
	assert.Equal(t, 0, ledger.Get("alice"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var archived trivia.Ledger
	require.NoError(t, json.Unmarshal(data, &archived))
	assert.Equal(t, 5, archived.User["alice"])
	assert.Equal(t, 5, archived.Team["red"])

	_, err = s.Archive(ledger)
	assert.Error(t, err)
}

func TestStoreCheckpoint(t *testing.T) {
	s := newTestStore(t)
	cp := trivia.Checkpoint{Running: true, QuestionNumber: 4}

	require.NoError(t, s.SaveCheckpoint(cp))
	assert.Equal(t, cp, s.LoadCheckpoint())
}
