package trivia

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/airylvat/trivia-rounds/metrics"
)

// Sink delivers engine output to the chat transport.
type Sink interface {
	Say(channel, text string)
	Whisper(user, text string)
}

// Store persists the ledger, the registry and the round position.
type Store interface {
	Save(ledger *Ledger, teams *Registry) error
	Archive(ledger *Ledger) (string, error)
	SaveCheckpoint(cp Checkpoint) error
}

// Checkpoint is the persisted round position used to resume after a restart.
type Checkpoint struct {
	Running        bool `json:"running"`
	QuestionNumber int  `json:"question_number"`
}

// Shutdown is requested by the die and restart commands.
type Shutdown int

const (
	ShutdownDie Shutdown = iota + 1
	ShutdownRestart
)

func (s Shutdown) String() string {
	switch s {
	case ShutdownDie:
		return "die"
	case ShutdownRestart:
		return "restart"
	}
	return fmt.Sprintf("Shutdown(%d)", int(s))
}

type Config struct {
	GameChannel       string
	Owner             string
	Prefix            string
	QuestionsPerRound int
	TeamLimit         int
	SkipVotes         int
	ClueInterval      time.Duration
	AnswerWait        time.Duration
	QuestionWait      time.Duration
}

// Deps are the collaborators of an Engine. Ledger, Teams, Clues, Timer and
// Logger get defaults when nil.
type Deps struct {
	Sink       Sink
	Store      Store
	Source     QuestionSource
	Clues      ClueProvider
	Timer      Timer
	Metrics    *metrics.Collector
	Logger     *slog.Logger
	Ledger     *Ledger
	Teams      *Registry
	Checkpoint Checkpoint
}

// Engine owns all round, score, team and vote state. Every mutation runs on
// the goroutine executing Run; the exported methods only enqueue work.
type Engine struct {
	cfg     Config
	sink    Sink
	store   Store
	source  QuestionSource
	clues   ClueProvider
	timer   Timer
	metrics *metrics.Collector
	log     *slog.Logger

	ledger *Ledger
	teams  *Registry
	votes  *VoteSession

	round    roundState
	question *Question
	resume   Checkpoint
	gen      uint64

	ctx      context.Context
	events   chan func()
	done     chan struct{}
	shutdown chan Shutdown
}

func New(cfg Config, deps Deps) *Engine {
	e := &Engine{
		cfg:      cfg,
		sink:     deps.Sink,
		store:    deps.Store,
		source:   deps.Source,
		clues:    deps.Clues,
		timer:    deps.Timer,
		metrics:  deps.Metrics,
		log:      deps.Logger,
		ledger:   deps.Ledger,
		teams:    deps.Teams,
		votes:    NewVoteSession(cfg.SkipVotes),
		resume:   deps.Checkpoint,
		ctx:      context.Background(),
		events:   make(chan func(), 64),
		done:     make(chan struct{}),
		shutdown: make(chan Shutdown, 1),
	}
	if e.clues == nil {
		e.clues = NewMasker(nil)
	}
	if e.timer == nil {
		e.timer = NewClockTimer()
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	if e.ledger == nil {
		e.ledger = NewLedger()
	}
	if e.teams == nil {
		e.teams = NewRegistry(cfg.TeamLimit)
	}
	e.teams.SetLimit(cfg.TeamLimit)
	if !e.resume.Running {
		e.resume = Checkpoint{}
	}
	return e
}

// Run processes events until ctx is cancelled. The timer is disarmed on return.
func (e *Engine) Run(ctx context.Context) error {
	e.ctx = ctx
	defer close(e.done)
	defer e.timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-e.events:
			e.exec(fn)
		}
	}
}

// exec runs one event. A panic is logged and the loop carries on.
func (e *Engine) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("event handler panicked",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()
	fn()
}

func (e *Engine) post(fn func()) bool {
	select {
	case e.events <- fn:
		return true
	case <-e.done:
		return false
	}
}

// call enqueues fn and waits for it to finish.
func (e *Engine) call(fn func()) {
	finished := make(chan struct{})
	if !e.post(func() {
		defer close(finished)
		fn()
	}) {
		return
	}
	select {
	case <-finished:
	case <-e.done:
	}
}

// Handle queues a chat message for processing.
func (e *Engine) Handle(msg Message) {
	e.post(func() { e.handle(msg) })
}

func (e *Engine) Start() { e.call(e.start) }

// Stop ends the round. No tick fires after it returns.
func (e *Engine) Stop() { e.call(e.stop) }

// Resume restarts a round that was running when the process last exited,
// or greets the channel when there is none.
func (e *Engine) Resume() {
	e.call(func() {
		if e.resume.Running {
			e.log.Info("resuming round", slog.Int("question", e.resume.QuestionNumber))
			e.start()
			return
		}
		e.announce("Welcome to trivia!")
		e.announce("Have an admin start the game when you are ready.")
		e.announce(fmt.Sprintf("For how to use this bot, just say %shelp.", e.cfg.Prefix))
	})
}

// Shutdowns delivers die and restart requests.
func (e *Engine) Shutdowns() <-chan Shutdown {
	return e.shutdown
}

func (e *Engine) requestShutdown(s Shutdown) {
	select {
	case e.shutdown <- s:
	default:
	}
}

// reschedule arms the timer; a firing from an earlier arm is ignored.
func (e *Engine) reschedule(d time.Duration) {
	e.gen++
	gen := e.gen
	e.timer.Reschedule(d, func() {
		e.post(func() {
			if gen != e.gen {
				return
			}
			e.tick()
		})
	})
}

func (e *Engine) disarm() {
	e.gen++
	e.timer.Stop()
}

func (e *Engine) announce(text string) {
	e.sink.Say(e.cfg.GameChannel, text)
}

func (e *Engine) save() {
	err := e.store.Save(e.ledger, e.teams)
	e.metrics.Saved(err)
	if err != nil {
		e.log.Error("failed to save game", slog.Any("error", err))
		return
	}
	e.log.Debug("game saved")
}

func (e *Engine) saveCheckpoint() {
	cp := Checkpoint{Running: e.round.running, QuestionNumber: e.round.questionNumber}
	if err := e.store.SaveCheckpoint(cp); err != nil {
		e.log.Error("failed to save round checkpoint", slog.Any("error", err))
	}
}
