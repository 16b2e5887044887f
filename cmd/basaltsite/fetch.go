package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/basalt-site/internal/adapter/driven/memory"
	"github.com/ericfisherdev/basalt-site/internal/application"
	"github.com/ericfisherdev/basalt-site/internal/config"
	"github.com/ericfisherdev/basalt-site/internal/domain/metrics"
	"github.com/ericfisherdev/basalt-site/internal/domain/model"
)

// fetchOutput is the JSON printed by the fetch command.
type fetchOutput struct {
	Repositories     []fetchedRepo `json:"repositories"`
	TotalStars       int           `json:"totalStars"`
	TotalForks       int           `json:"totalForks"`
	ActiveDevelopers int           `json:"activeDevelopers"`
}

type fetchedRepo struct {
	Repository string `json:"repository"`
	Stars      int    `json:"stars"`
	Forks      int    `json:"forks"`
}

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch [owner/repo...]",
		Short: "Fetch live GitHub stats and print them with the derived totals",
		Long: `fetch calls the GitHub API once per repository and prints the
counts as JSON. With no arguments the tracked Basalt repositories are fetched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ghClient, err := newGitHubClient(cfg)
			if err != nil {
				return err
			}

			repos := args
			if len(repos) == 0 {
				repos = metrics.TrackedRepositories
			}
			for _, r := range repos {
				if _, _, ok := strings.Cut(r, "/"); !ok {
					return fmt.Errorf("invalid repository %q: expected owner/repo", r)
				}
			}

			svc := application.NewStatsService(memory.NewStatsStore(), ghClient, repos, cfg.FetchTimeout, 0, slog.Default())
			records, refreshErr := svc.RefreshAll(cmd.Context())
			if len(records) == 0 && refreshErr != nil {
				return refreshErr
			}

			if err := printFetchOutput(cmd, records); err != nil {
				return err
			}
			if refreshErr != nil {
				return errors.New("some repositories could not be fetched")
			}
			return nil
		},
	}
}

func printFetchOutput(cmd *cobra.Command, records []model.StatRecord) error {
	out := fetchOutput{
		Repositories:     make([]fetchedRepo, 0, len(records)),
		TotalStars:       metrics.TotalStars(records, metrics.FallbackStars),
		TotalForks:       metrics.TotalForks(records, metrics.FallbackForks),
		ActiveDevelopers: metrics.EstimateActiveDevelopers(records, metrics.FallbackActiveDevelopers),
	}
	for _, rec := range records {
		out.Repositories = append(out.Repositories, fetchedRepo{
			Repository: rec.Repository,
			Stars:      rec.Stars,
			Forks:      rec.Forks,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
