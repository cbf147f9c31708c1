package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/airylvat/trivia-rounds/bot"
	"github.com/airylvat/trivia-rounds/db"
	"github.com/airylvat/trivia-rounds/metrics"
	"github.com/airylvat/trivia-rounds/trivia"

	"github.com/prometheus/client_golang/prometheus"
)

var errRestart = errors.New("restart requested")

// flushTimeout bounds how long shutdown waits for queued chat lines.
const flushTimeout = 20 * time.Second

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// openSource prefers the sqlite bank when both sources are configured.
func openSource(cfg *Config, logger *slog.Logger) (trivia.QuestionSource, func() error, error) {
	if cfg.questionDB != "" {
		bank, err := db.NewDB(cfg.questionDB, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open question db: %w", err)
		}
		return bank, bank.Close, nil
	}
	return db.NewDir(cfg.questionsDir), func() error { return nil }, nil
}

func run(ctx context.Context, cfg *Config) error {
	logger := newLogger(cfg.verbose)

	store, err := db.NewStore(cfg.saveDir, logger)
	if err != nil {
		return err
	}
	ledger, teams := store.Load()

	source, closeSource, err := openSource(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	collector := metrics.New(prometheus.NewRegistry())

	b, err := bot.NewBot(bot.Config{
		Token:       cfg.token,
		GameChannel: cfg.gameChannel,
		Prefix:      cfg.prefix,
		Admins:      cfg.admins,
		AdminRoleID: cfg.adminRole,
		LineRate:    cfg.lineRate,
	}, logger)
	if err != nil {
		return err
	}

	engine := trivia.New(trivia.Config{
		GameChannel:       cfg.gameChannel,
		Owner:             cfg.owner,
		Prefix:            cfg.prefix,
		QuestionsPerRound: cfg.questionsPerRound,
		TeamLimit:         cfg.teamLimit,
		SkipVotes:         cfg.skipVotes,
		ClueInterval:      cfg.clueInterval,
		AnswerWait:        cfg.answerWait,
		QuestionWait:      cfg.questionWait,
	}, trivia.Deps{
		Sink:       b,
		Store:      store,
		Source:     source,
		Metrics:    collector,
		Logger:     logger,
		Ledger:     ledger,
		Teams:      teams,
		Checkpoint: store.LoadCheckpoint(),
	})
	b.OnMessage(engine.Handle)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	engineDone := make(chan error, 1)
	go func() { engineDone <- engine.Run(ctx) }()

	if cfg.metricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.metricsAddr, collector, logger); err != nil {
				logger.Error("metrics server failed", slog.Any("error", err))
			}
		}()
	}

	if err := b.Start(ctx); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer b.Close()
	defer func() {
		flushCtx, done := context.WithTimeout(context.Background(), flushTimeout)
		defer done()
		if n := b.Flush(flushCtx); n > 0 {
			logger.Warn("dropped unsent chat lines", slog.Int("count", n))
		}
	}()

	engine.Resume()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return nil
	case err := <-engineDone:
		return err
	case s := <-engine.Shutdowns():
		logger.Info("shutdown requested", slog.String("kind", s.String()))
		if s == trivia.ShutdownRestart {
			return errRestart
		}
		return nil
	}
}
