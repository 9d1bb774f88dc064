package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/GrupaDomanscy/whisper-connector/internal/app"
	"github.com/GrupaDomanscy/whisper-connector/internal/audio"
	"github.com/GrupaDomanscy/whisper-connector/internal/cli"
	"github.com/GrupaDomanscy/whisper-connector/internal/config"
	"github.com/GrupaDomanscy/whisper-connector/internal/inject"
	"github.com/GrupaDomanscy/whisper-connector/internal/logging"
	"github.com/GrupaDomanscy/whisper-connector/internal/whisper"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

func main() {
	// Load config from XDG/Library/AppData, .env and the environment
	cfg, err := config.Load()
	if err != nil {
		// Use default logger if config fails to load
		log := logging.New()
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Interrupt cancels a recording in progress without transcribing
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root := cli.NewRootCommand(cli.Options{
		Config:  cfg,
		NewApp:  newApp,
		Keys:    os.Stdin,
		Version: Version,
		Commit:  Commit,
	})

	err = root.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newApp(cfg *config.Config) (*app.App, error) {
	// Initialize logger with configured level
	log := logging.NewWithLevel(cfg.LogLevel)

	capture, err := audio.New(cfg.Capture, log)
	if err != nil {
		return nil, err
	}

	return app.New(app.Config{
		Audio:         capture,
		Transcriber:   whisper.New(cfg.Whisper, log),
		Injector:      inject.New(cfg.Inject, os.Stdout, log),
		Config:        cfg,
		Logger:        log,
		StatusUpdater: cli.NewStatus(os.Stderr),
	}), nil
}
