// Command regform-cli fills in the registration form from a terminal.
// It reads the same APP_* environment as the server.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"regform/src/app/cli"
	"regform/src/core/usecase"
	"regform/src/infra/config"
	"regform/src/infra/countries"
	"regform/src/infra/logger"
	"regform/src/infra/sink"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, cli.ErrAborted) || errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		log.Printf("fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Prompts own stdout; logs go to stderr.
	log := logger.NewWithWriter(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	directory := usecase.NewDirectory()
	provider := countries.NewRestClient(cfg.Countries, nil, logger.WithComponent(log, "countries"))
	task := usecase.NewDirectoryLoader(provider, nil, logger.WithComponent(log, "directory")).Start(ctx, directory)
	defer task.Cancel()

	engine := usecase.NewFormEngine(
		directory,
		usecase.NewValidator(time.Now),
		sink.NewLogSink(logger.WithComponent(log, "sink")),
		nil,
		log,
	)

	_, err = cli.NewRunner(cli.NewSurveyDriver(os.Stdout), engine, log).Run(ctx)
	return err
}
