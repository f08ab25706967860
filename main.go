// Package main is the entry point for the registration form API server.
// It initializes all dependencies and starts the HTTP server.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"regform/src/app/server"
	"regform/src/core/usecase"
	"regform/src/infra/config"
	"regform/src/infra/countries"
	"regform/src/infra/logger"
	"regform/src/infra/metrics"
	"regform/src/infra/repo"
	"regform/src/infra/sink"
)

func main() {
	if err := run(); err != nil {
		log.Printf("fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	log.Info("starting application",
		"port", cfg.Server.Port,
		"log_level", cfg.Log.Level,
		"countries_url", cfg.Countries.BaseURL,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The directory starts empty; the form is usable before the load ends.
	directory := usecase.NewDirectory()
	provider := countries.NewRestClient(cfg.Countries, nil, logger.WithComponent(log, "countries"))
	loader := usecase.NewDirectoryLoader(provider, m, logger.WithComponent(log, "directory"))
	task := loader.Start(ctx, directory)
	defer task.Cancel()

	engine := usecase.NewFormEngine(
		directory,
		usecase.NewValidator(time.Now),
		sink.NewLogSink(logger.WithComponent(log, "sink")),
		m,
		log,
	)

	sessions := repo.NewMemorySessionRepository(logger.WithComponent(log, "sessions"),
		repo.WithTTL(cfg.Sessions.TTL),
		repo.WithMaxSessions(cfg.Sessions.MaxSessions),
	)
	go sessions.RunSweeper(ctx, cfg.Sessions.SweepInterval)

	srv := server.New(cfg, log, server.Deps{
		Sessions: sessions,
		Engine:   engine,
		Metrics:  m,
		Gatherer: reg,
	})

	// Run blocks until shutdown signal is received
	return srv.Run(ctx)
}
