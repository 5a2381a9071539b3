package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/straye-as/elevator-api/internal/config"
	"github.com/straye-as/elevator-api/internal/logger"
	"go.uber.org/zap"
)

const usage = `usage: migrate [-dir ./migrations] [-timeout 5m] <command> [args]

commands:
  up                 apply all pending migrations
  up-by-one          apply the next pending migration
  down               roll back the latest migration
  redo               roll back and re-apply the latest migration
  status             print the state of every migration
  version            print the current schema version
  create <name>      write a new timestamped SQL migration
`

// commands accepted by goose that this tool exposes
var commands = map[string]bool{
	"up":        true,
	"up-by-one": true,
	"down":      true,
	"redo":      true,
	"status":    true,
	"version":   true,
	"create":    true,
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dir := flag.String("dir", "./migrations", "directory holding the SQL migrations")
	timeout := flag.Duration("timeout", 5*time.Minute, "upper bound for the whole run")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 || !commands[args[0]] {
		flag.Usage()
		return fmt.Errorf("missing or unknown command")
	}
	command, arguments := args[0], args[1:]
	if command == "create" {
		if len(arguments) == 0 {
			return fmt.Errorf("create requires a migration name")
		}
		arguments = []string{arguments[0], "sql"}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// Vault-backed credentials when enabled for the environment
	cfg, err = config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to resolve secrets: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	log.Info("running migrations",
		zap.String("command", command),
		zap.String("dir", *dir),
		zap.String("database", cfg.Database.Name),
	)
	start := time.Now()
	if err := goose.RunContext(ctx, command, db, *dir, arguments...); err != nil {
		return fmt.Errorf("%s failed: %w", command, err)
	}
	log.Info("migrations finished", zap.String("command", command), zap.Duration("duration", time.Since(start)))
	return nil
}
