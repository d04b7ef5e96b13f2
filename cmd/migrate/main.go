package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/noah-isme/mun-club-api/migrations"
	"github.com/noah-isme/mun-club-api/pkg/config"
	"github.com/noah-isme/mun-club-api/pkg/database"
	"github.com/noah-isme/mun-club-api/pkg/logger"
)

const usage = `usage: migrate COMMAND [ARGS]

commands:
  up                  apply all pending migrations
  up-by-one           apply the next migration
  up-to VERSION       apply migrations up to VERSION
  down                roll back the latest migration
  down-to VERSION     roll back to VERSION
  redo                roll back and re-apply the latest migration
  reset               roll back every migration
  status              print migration status
  version             print the current schema version`

var errUsage = errors.New(usage)

var gooseRun = goose.RunContext

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := run(ctx, db.DB, os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		logr.Fatal("migration failed", zap.Strings("args", os.Args[1:]), zap.Error(err))
	}
	logr.Info("migration finished", zap.Strings("args", os.Args[1:]))
}

func run(ctx context.Context, db *sql.DB, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "up", "up-by-one", "down", "redo", "reset", "status", "version":
		if len(args) > 1 {
			return fmt.Errorf("%s takes no arguments", args[0])
		}
	case "up-to", "down-to":
		if len(args) != 2 {
			return fmt.Errorf("%s requires a VERSION argument", args[0])
		}
	default:
		return fmt.Errorf("%q: %w", args[0], errUsage)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	return gooseRun(ctx, args[0], db, ".", args[1:]...)
}
