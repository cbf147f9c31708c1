package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	token             string
	gameChannel       string
	admins            []string
	adminRole         string
	owner             string
	prefix            string
	saveDir           string
	questionsDir      string
	questionDB        string
	questionsPerRound int
	teamLimit         int
	skipVotes         int
	clueInterval      time.Duration
	answerWait        time.Duration
	questionWait      time.Duration
	lineRate          time.Duration
	metricsAddr       string
	verbose           bool
}

func (c *Config) validate() error {
	if c.token == "" {
		return errors.New("--token is required")
	}
	if c.gameChannel == "" {
		return errors.New("--game-channel is required")
	}
	if c.questionsDir == "" && c.questionDB == "" {
		return errors.New("one of --questions-dir or --question-db must be provided")
	}
	if c.questionsPerRound < 1 {
		return fmt.Errorf("invalid questions per round (must be at least 1): %d", c.questionsPerRound)
	}
	if c.teamLimit < 1 {
		return fmt.Errorf("invalid team limit (must be at least 1): %d", c.teamLimit)
	}
	if c.skipVotes < 1 {
		return fmt.Errorf("invalid skip votes (must be at least 1): %d", c.skipVotes)
	}
	for name, d := range map[string]time.Duration{
		"clue-interval": c.clueInterval,
		"answer-wait":   c.answerWait,
		"question-wait": c.questionWait,
	} {
		if d <= 0 {
			return fmt.Errorf("invalid --%s (must be positive): %s", name, d)
		}
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("TRIVIA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "trivia-bot",
		Short:         "A chat trivia bot with clues, teams and standings.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	pfs := cmd.PersistentFlags()
	pfs.StringVar(&cfg.questionDB, "question-db", "", "path to the sqlite question bank (env: TRIVIA_QUESTION_DB)")
	pfs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: TRIVIA_VERBOSE)")

	fs := cmd.Flags()
	fs.StringVar(&cfg.token, "token", "", "discord bot token (env: TRIVIA_TOKEN)")
	fs.StringVar(&cfg.gameChannel, "game-channel", "", "channel id the game is played in (env: TRIVIA_GAME_CHANNEL)")
	fs.StringSliceVar(&cfg.admins, "admins", nil, "user ids or names allowed to run admin commands (env: TRIVIA_ADMINS)")
	fs.StringVar(&cfg.adminRole, "admin-role", "", "role id whose members may run admin commands (env: TRIVIA_ADMIN_ROLE)")
	fs.StringVar(&cfg.owner, "owner", "", "name of the bot's owner, shown in help (env: TRIVIA_OWNER)")
	fs.StringVar(&cfg.prefix, "prefix", "!", "command prefix (env: TRIVIA_PREFIX)")
	fs.StringVar(&cfg.saveDir, "save-dir", "./data", "directory for scores and teams (env: TRIVIA_SAVE_DIR)")
	fs.StringVar(&cfg.questionsDir, "questions-dir", "", "directory of question`answer files (env: TRIVIA_QUESTIONS_DIR)")
	fs.IntVar(&cfg.questionsPerRound, "questions-per-round", 10, "questions in a round (env: TRIVIA_QUESTIONS_PER_ROUND)")
	fs.IntVar(&cfg.teamLimit, "team-limit", 4, "maximum members per team (env: TRIVIA_TEAM_LIMIT)")
	fs.IntVar(&cfg.skipVotes, "skip-votes", 3, "votes needed to skip a question (env: TRIVIA_SKIP_VOTES)")
	fs.DurationVar(&cfg.clueInterval, "clue-interval", 10*time.Second, "time between clues (env: TRIVIA_CLUE_INTERVAL)")
	fs.DurationVar(&cfg.answerWait, "answer-wait", 5*time.Second, "pause after a correct answer (env: TRIVIA_ANSWER_WAIT)")
	fs.DurationVar(&cfg.questionWait, "question-wait", 15*time.Second, "pause after an unanswered or skipped question (env: TRIVIA_QUESTION_WAIT)")
	fs.DurationVar(&cfg.lineRate, "line-rate", time.Second, "minimum time between outgoing messages (env: TRIVIA_LINE_RATE)")
	fs.StringVar(&cfg.metricsAddr, "metrics-addr", "", "address for /metrics and /healthz, empty to disable (env: TRIVIA_METRICS_ADDR)")

	bindEnv(v, pfs)
	bindEnv(v, fs)

	cmd.AddCommand(newImportCmd(cfg))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("trivia-bot v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}
