package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/airylvat/trivia-rounds/trivia"
)

const (
	scoresFile = "scores.json"
	teamsFile  = "teams.json"
	roundFile  = "round.json"

	archiveLayout = "2006-01-02-15-04-05.000"
)

// Store keeps scores, teams and the round checkpoint as JSON files in one
// directory. Files are replaced atomically via a temp file and rename.
type Store struct {
	dir string
	log *slog.Logger
	now func() time.Time

	mu sync.Mutex
}

func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	return &Store{dir: dir, log: logger, now: time.Now}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Load reads the ledger and the registry. A missing or unreadable file
// yields an empty structure; this never fails.
func (s *Store) Load() (*trivia.Ledger, *trivia.Registry) {
	ledger := trivia.NewLedger()
	if err := s.readJSON(scoresFile, ledger); err != nil {
		s.log.Warn("starting with empty scores", slog.Any("error", err))
		ledger = trivia.NewLedger()
	}
	if ledger.User == nil {
		ledger.User = make(map[string]int)
	}
	if ledger.Team == nil {
		ledger.Team = make(map[string]int)
	}

	teams := trivia.NewRegistry(0)
	if err := s.readJSON(teamsFile, teams); err != nil {
		s.log.Warn("starting with no teams", slog.Any("error", err))
		teams = trivia.NewRegistry(0)
	}
	teams.Normalize()

	s.log.Info("game loaded",
		slog.Int("users", len(ledger.User)),
		slog.Int("teams", len(teams.Teams)),
	)
	return ledger, teams
}

// LoadCheckpoint returns the saved round position, or the zero value.
func (s *Store) LoadCheckpoint() trivia.Checkpoint {
	var cp trivia.Checkpoint
	if err := s.readJSON(roundFile, &cp); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("ignoring round checkpoint", slog.Any("error", err))
		}
		return trivia.Checkpoint{}
	}
	return cp
}

func (s *Store) Save(ledger *trivia.Ledger, teams *trivia.Registry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeJSON(scoresFile, ledger); err != nil {
		return fmt.Errorf("save scores: %w", err)
	}
	if err := s.writeJSON(teamsFile, teams); err != nil {
		return fmt.Errorf("save teams: %w", err)
	}
	return nil
}

// Archive writes the ledger to a timestamped scores file and returns its path.
func (s *Store) Archive(ledger *trivia.Ledger) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := fmt.Sprintf("scores-%s.json", s.now().Format(archiveLayout))
	if _, err := os.Stat(filepath.Join(s.dir, name)); err == nil {
		return "", fmt.Errorf("archive %s already exists", name)
	}
	if err := s.writeJSON(name, ledger); err != nil {
		return "", fmt.Errorf("archive scores: %w", err)
	}
	return filepath.Join(s.dir, name), nil
}

func (s *Store) SaveCheckpoint(cp trivia.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(roundFile, cp)
}

func (s *Store) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *Store) writeJSON(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.dir, name))
}
