package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/eduwaly/eduwaly-api/internal/bootstrap"
	"github.com/eduwaly/eduwaly-api/internal/cli"
	"github.com/eduwaly/eduwaly-api/pkg/config"
	"github.com/eduwaly/eduwaly-api/pkg/database"
	"github.com/eduwaly/eduwaly-api/pkg/logger"
)

type migrator struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func (m migrator) Up(ctx context.Context) error {
	return database.MigrateUp(m.db.DB, m.logger)
}

func (m migrator) Down(ctx context.Context, steps int) error {
	return database.MigrateDown(m.db.DB, steps, m.logger)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	// The CLI renders without Redis so offline sheets always reflect the database.
	services, err := bootstrap.New(cfg, db, nil, logr)
	if err != nil {
		return err
	}

	app := &cli.App{
		Migrations: migrator{db: db, logger: logr},
		Workload:   services.Export,
		Out:        os.Stdout,
	}
	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
