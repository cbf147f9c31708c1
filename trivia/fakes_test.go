package trivia

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

type line struct {
	to   string
	text string
}

type fakeSink struct {
	mu    sync.Mutex
	said  []line
	whisp []line
}

func (f *fakeSink) Say(channel, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.said = append(f.said, line{to: channel, text: text})
}

func (f *fakeSink) Whisper(user, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.whisp = append(f.whisp, line{to: user, text: text})
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.said) + len(f.whisp)
}

// saw reports whether any said line contains substr.
func (f *fakeSink) saw(substr string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.said {
		if strings.Contains(l.text, substr) {
			return true
		}
	}
	return false
}

func (f *fakeSink) whispered(user, substr string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.whisp {
		if l.to == user && strings.Contains(l.text, substr) {
			return true
		}
	}
	return false
}

func (f *fakeSink) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.said, f.whisp = nil, nil
}

type fakeStore struct {
	mu          sync.Mutex
	saves       int
	archived    []*Ledger
	archiveErr  error
	checkpoints []Checkpoint
}

func (f *fakeStore) Save(*Ledger, *Registry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	return nil
}

func (f *fakeStore) Archive(l *Ledger) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.archiveErr != nil {
		return "", f.archiveErr
	}
	f.archived = append(f.archived, l.Clone())
	return "scores-test.json", nil
}

func (f *fakeStore) SaveCheckpoint(cp Checkpoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkpoints = append(f.checkpoints, cp)
	return nil
}

func (f *fakeStore) lastCheckpoint() Checkpoint {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.checkpoints) == 0 {
		return Checkpoint{}
	}
	return f.checkpoints[len(f.checkpoints)-1]
}

// fakeSource replays results in order, then repeats the last one.
type fakeSource struct {
	results []sourceResult
	calls   int
}

type sourceResult struct {
	q   Question
	err error
}

func fixedSource(q Question) *fakeSource {
	return &fakeSource{results: []sourceResult{{q: q}}}
}

func (f *fakeSource) Random(context.Context) (Question, error) {
	r := f.results[min(f.calls, len(f.results)-1)]
	f.calls++
	return r.q, r.err
}

type fakeTimer struct {
	armed bool
	last  time.Duration
	arms  int
	fn    func()
}

func (f *fakeTimer) Reschedule(d time.Duration, fn func()) {
	f.armed = true
	f.last = d
	f.arms++
	f.fn = fn
}

func (f *fakeTimer) Stop() {
	f.armed = false
}

// fakeClues names each tier so tests can tell them apart.
type fakeClues struct {
	answer string
	tier   int
}

func (f *fakeClues) SetAnswer(a string) { f.answer, f.tier = a, 0 }
func (f *fakeClues) CurrentClue() string {
	return "tier" + string(rune('0'+f.tier))
}
func (f *fakeClues) GiveClue() string {
	f.tier++
	return f.CurrentClue()
}
func (f *fakeClues) Answer() string { return f.answer }

const game = "#trivia"

func testConfig() Config {
	return Config{
		GameChannel:       game,
		Owner:             "joe",
		Prefix:            "!",
		QuestionsPerRound: 3,
		TeamLimit:         2,
		SkipVotes:         3,
		ClueInterval:      10 * time.Second,
		AnswerWait:        5 * time.Second,
		QuestionWait:      15 * time.Second,
	}
}

type harness struct {
	e     *Engine
	sink  *fakeSink
	store *fakeStore
	timer *fakeTimer
}

func newHarness(t *testing.T, cfg Config, src QuestionSource) *harness {
	t.Helper()
	h := &harness{sink: &fakeSink{}, store: &fakeStore{}, timer: &fakeTimer{}}
	h.e = New(cfg, Deps{
		Sink:   h.sink,
		Store:  h.store,
		Source: src,
		Clues:  &fakeClues{},
		Timer:  h.timer,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return h
}

func (h *harness) say(user, text string) {
	h.e.handle(Message{User: user, Channel: game, Text: text})
}

func (h *harness) admin(user, text string) {
	h.e.handle(Message{User: user, Channel: game, Text: text, Admin: true})
}
