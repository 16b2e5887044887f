package main

import (
	"context"
	"log/slog"

	githubadapter "github.com/ericfisherdev/basalt-site/internal/adapter/driven/github"
	"github.com/ericfisherdev/basalt-site/internal/adapter/driven/memory"
	sqliteadapter "github.com/ericfisherdev/basalt-site/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/basalt-site/internal/config"
	"github.com/ericfisherdev/basalt-site/internal/domain/port/driven"
)

// stores bundles the driven store adapters selected by configuration.
type stores struct {
	stats         driven.StatsStore
	subscriptions driven.SubscriptionStore
	close         func() error
}

// openStores builds the in-memory stores, or opens and migrates SQLite when
// BASALT_STORE=sqlite.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if !cfg.UsesSQLite() {
		return &stores{
			stats:         memory.NewStatsStore(),
			subscriptions: memory.NewSubscriptionStore(),
			close:         func() error { return nil },
		}, nil
	}

	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	slog.Info("database opened", "path", cfg.DBPath)

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		return nil, err
	}
	slog.Info("migrations complete")

	return &stores{
		stats:         sqliteadapter.NewStatsRepo(db),
		subscriptions: sqliteadapter.NewSubscriptionRepo(db),
		close:         db.Close,
	}, nil
}

// newGitHubClient creates the GitHub adapter, pointed at BASALT_GITHUB_API_URL
// when set.
func newGitHubClient(cfg *config.Config) (*githubadapter.Client, error) {
	client := githubadapter.NewClient(cfg.GitHubToken)
	if cfg.GitHubAPIURL != "" {
		return client.WithBaseURL(cfg.GitHubAPIURL)
	}
	return client, nil
}
