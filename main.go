package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	releaseVersion = "0.4.0"

	// restartExitCode tells the process supervisor to relaunch the bot.
	restartExitCode = 3
)

func main() {
	log.SetFlags(0)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("error loading .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := &Config{}
	err := newCmd(cfg).ExecuteContext(ctx)
	if errors.Is(err, errRestart) {
		stop()
		os.Exit(restartExitCode)
	}
	cobra.CheckErr(err)
}
