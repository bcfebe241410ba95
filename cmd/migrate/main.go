// Command migrate applies the SQL migrations under migrations/ with the atlas CLI.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"parkshare/internal/handler/middleware"
	"parkshare/internal/pkg/config"
	"parkshare/internal/pkg/errs"

	"ariga.io/atlas-go-sdk/atlasexec"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding the migration files and atlas.sum")
	statusOnly := flag.Bool("status", false, "print pending migrations without applying them")
	bin := flag.String("atlas", "atlas", "atlas binary")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := middleware.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := run(ctx, logger, cfg.DB.BuildDSN(), *dir, *bin, *statusOnly); err != nil {
		logger.Error("migration failed", "error", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, dsn, dir, bin string, statusOnly bool) error {
	workdir, err := atlasexec.NewWorkingDir(atlasexec.WithMigrations(os.DirFS(dir)))
	if err != nil {
		return errs.Wrap(err, "load migration directory")
	}
	defer workdir.Close()

	client, err := atlasexec.NewClient(workdir.Path(), bin)
	if err != nil {
		return errs.Wrap(err, "init atlas client")
	}

	if statusOnly {
		status, err := client.MigrateStatus(ctx, &atlasexec.MigrateStatusParams{URL: dsn})
		if err != nil {
			return errs.Wrap(err, "migrate status")
		}
		logger.Info("migration status",
			"current", status.Current,
			"next", status.Next,
			"pending", len(status.Pending),
		)
		return nil
	}

	res, err := client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{URL: dsn})
	if err != nil {
		return errs.Wrap(err, "migrate apply")
	}
	logger.Info("migrations applied",
		"applied", len(res.Applied),
		"current", res.Current,
		"target", res.Target,
	)
	return nil
}
