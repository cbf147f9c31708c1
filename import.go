package main

import (
	"errors"
	"fmt"

	"github.com/airylvat/trivia-rounds/db"

	"github.com/spf13/cobra"
)

func newImportCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Load question`answer files into the sqlite question bank.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.questionDB == "" {
				return errors.New("--question-db is required")
			}
			logger := newLogger(cfg.verbose)

			lines, err := db.ReadQuestionLines(args[0])
			if err != nil {
				return err
			}
			bank, err := db.NewDB(cfg.questionDB, logger)
			if err != nil {
				return err
			}
			defer bank.Close()

			added, skipped, err := bank.Import(cmd.Context(), lines)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d questions, skipped %d broken lines\n", added, skipped)
			return nil
		},
	}
}
