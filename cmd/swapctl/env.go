package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/swapmatch-backend/internal/adapter/postgres"
	"github.com/heartmarshall/swapmatch-backend/internal/app"
	"github.com/heartmarshall/swapmatch-backend/internal/config"
	"github.com/heartmarshall/swapmatch-backend/internal/domain"
	"github.com/heartmarshall/swapmatch-backend/internal/service/opportunity"
	"github.com/heartmarshall/swapmatch-backend/migrations"
)

type opportunityOps interface {
	RunDiscoveryCycle(ctx context.Context, snapshotTime time.Time) (*domain.RunReport, error)
	Maintain(ctx context.Context, now time.Time) (*opportunity.MaintenanceReport, error)
}

type migrator interface {
	Up(ctx context.Context) ([]migrationRow, error)
	Status(ctx context.Context) ([]migrationRow, error)
	Close() error
}

// env is everything a command touches outside its own flags. Tests replace
// the constructors.
type env struct {
	out        io.Writer
	now        func() time.Time
	loadConfig func(path string) (*config.Config, error)
	newLogger  func(config.LogConfig) *slog.Logger
	openOps    func(ctx context.Context, cfg *config.Config, log *slog.Logger) (opportunityOps, func(), error)
	openMig    func(ctx context.Context, cfg *config.Config) (migrator, error)
}

func defaultEnv() *env {
	return &env{
		out:        os.Stdout,
		now:        time.Now,
		loadConfig: config.LoadFile,
		newLogger:  app.NewLogger,
		openOps:    openOps,
		openMig:    openMigrator,
	}
}

func openOps(ctx context.Context, cfg *config.Config, log *slog.Logger) (opportunityOps, func(), error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	return app.NewServices(cfg, pool, log).Opportunity, pool.Close, nil
}

type gooseMigrator struct {
	m *postgres.Migrator
}

func openMigrator(ctx context.Context, cfg *config.Config) (migrator, error) {
	m, err := postgres.NewMigrator(ctx, cfg.Database.DSN, migrations.FS)
	if err != nil {
		return nil, err
	}
	return &gooseMigrator{m: m}, nil
}

func (g *gooseMigrator) Up(ctx context.Context) ([]migrationRow, error) {
	results, err := g.m.Up(ctx)
	rows := make([]migrationRow, 0, len(results))
	for _, r := range results {
		row := migrationRow{State: "applied", Duration: r.Duration.String()}
		if r.Source != nil {
			row.Version, row.File = r.Source.Version, r.Source.Path
		}
		if r.Error != nil {
			row.State = "failed"
		}
		rows = append(rows, row)
	}
	return rows, err
}

func (g *gooseMigrator) Status(ctx context.Context) ([]migrationRow, error) {
	status, err := g.m.Status(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]migrationRow, 0, len(status))
	for _, s := range status {
		row := migrationRow{State: string(s.State)}
		if s.Source != nil {
			row.Version, row.File = s.Source.Version, s.Source.Path
		}
		if !s.AppliedAt.IsZero() {
			at := s.AppliedAt.UTC()
			row.AppliedAt = &at
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (g *gooseMigrator) Close() error {
	return g.m.Close()
}
