package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/airylvat/trivia-rounds/trivia"

	_ "github.com/mattn/go-sqlite3"
)

// DB is the sqlite question bank.
type DB struct {
	*sql.DB
	log *slog.Logger
}

func NewDB(path string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("opening question database", slog.String("path", path))
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS questions (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            text TEXT NOT NULL,
            answer TEXT NOT NULL
        );
    `)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create questions table: %w", err)
	}

	return &DB{DB: db, log: logger}, nil
}

// Random returns a random question. A stored row with an empty side is
// reported as malformed so the engine draws again.
func (db *DB) Random(ctx context.Context) (trivia.Question, error) {
	var rec trivia.BankEntry
	err := db.QueryRowContext(ctx, "SELECT id, text, answer FROM questions ORDER BY RANDOM() LIMIT 1").
		Scan(&rec.ID, &rec.Text, &rec.Answer)
	if errors.Is(err, sql.ErrNoRows) {
		return trivia.Question{}, trivia.ErrNoQuestions
	}
	if err != nil {
		return trivia.Question{}, err
	}

	q := trivia.Question{Text: strings.TrimSpace(rec.Text), Answer: strings.TrimSpace(rec.Answer)}
	if q.Text == "" || q.Answer == "" {
		return trivia.Question{}, fmt.Errorf("%w: question %d", trivia.ErrMalformedQuestion, rec.ID)
	}
	return q, nil
}

func (db *DB) AddQuestion(ctx context.Context, q trivia.Question) (int64, error) {
	res, err := db.ExecContext(ctx, "INSERT INTO questions (text, answer) VALUES (?, ?)",
		strings.TrimSpace(q.Text), strings.TrimSpace(q.Answer))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (db *DB) RemoveQuestion(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, "DELETE FROM questions WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", trivia.ErrNoSuchQuestion, id)
	}
	return nil
}

func (db *DB) CountQuestions(ctx context.Context) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM questions").Scan(&n)
	return n, err
}

// ListQuestions returns the whole bank ordered by id.
func (db *DB) ListQuestions(ctx context.Context) ([]trivia.BankEntry, error) {
	rows, err := db.QueryContext(ctx, "SELECT id, text, answer FROM questions ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []trivia.BankEntry
	for rows.Next() {
		var q trivia.BankEntry
		if err := rows.Scan(&q.ID, &q.Text, &q.Answer); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

// Import parses bank lines and inserts the well-formed ones in a single
// transaction. Blank lines are ignored; malformed lines are counted.
func (db *DB) Import(ctx context.Context, lines []string) (added, skipped int, err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO questions (text, answer) VALUES (?, ?)")
	if err != nil {
		return 0, 0, err
	}
	defer stmt.Close()

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		q, perr := trivia.ParseQuestion(line)
		if perr != nil {
			db.log.Debug("skipping broken question", slog.Any("error", perr))
			skipped++
			continue
		}
		if _, err := stmt.ExecContext(ctx, q.Text, q.Answer); err != nil {
			return 0, 0, err
		}
		added++
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return added, skipped, nil
}
