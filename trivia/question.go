package trivia

import (
	"context"
	"fmt"
	"strings"
)

// QuestionDelimiter separates question text from its answer in a bank line.
const QuestionDelimiter = "`"

type Question struct {
	Text   string
	Answer string
}

// QuestionSource supplies random questions. Implementations return an error
// wrapping ErrMalformedQuestion for an entry that could not be parsed; the
// engine discards it and draws again.
type QuestionSource interface {
	Random(ctx context.Context) (Question, error)
}

// BankEntry is a stored question and its id in the bank.
type BankEntry struct {
	ID int64
	Question
}

// QuestionEditor is implemented by sources that can be edited from chat.
type QuestionEditor interface {
	AddQuestion(ctx context.Context, q Question) (int64, error)
	RemoveQuestion(ctx context.Context, id int64) error
	CountQuestions(ctx context.Context) (int, error)
	ListQuestions(ctx context.Context) ([]BankEntry, error)
}

// ParseQuestion splits a bank line into question and answer on the single
// delimiter. Lines without exactly one delimiter, or with an empty side, are
// malformed.
func ParseQuestion(line string) (Question, error) {
	parts := strings.Split(line, QuestionDelimiter)
	if len(parts) != 2 {
		return Question{}, fmt.Errorf("%w: %q", ErrMalformedQuestion, line)
	}
	q := Question{Text: strings.TrimSpace(parts[0]), Answer: strings.TrimSpace(parts[1])}
	if q.Text == "" || q.Answer == "" {
		return Question{}, fmt.Errorf("%w: %q", ErrMalformedQuestion, line)
	}
	return q, nil
}

// Matches compares a guess to the answer ignoring case and surrounding space.
func (q Question) Matches(guess string) bool {
	return strings.EqualFold(strings.TrimSpace(guess), strings.TrimSpace(q.Answer))
}
