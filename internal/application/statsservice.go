// Package application contains use-case orchestration services.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/basalt-site/internal/domain/metrics"
	"github.com/ericfisherdev/basalt-site/internal/domain/model"
	"github.com/ericfisherdev/basalt-site/internal/domain/port/driven"
)

// DefaultFetchTimeout bounds a single GitHub call when no timeout is configured.
const DefaultFetchTimeout = 10 * time.Second

// StatsService serves cached repository stats and refreshes them from GitHub.
type StatsService struct {
	store        driven.StatsStore
	client       driven.RepoMetadataClient
	tracked      []string
	fetchTimeout time.Duration
	interval     time.Duration
	logger       *slog.Logger
}

// NewStatsService creates a StatsService. tracked lists the "owner/name"
// repositories refreshed by RefreshAll. A non-positive interval disables the
// background refresh loop started by Start.
func NewStatsService(
	store driven.StatsStore,
	client driven.RepoMetadataClient,
	tracked []string,
	fetchTimeout time.Duration,
	interval time.Duration,
	logger *slog.Logger,
) *StatsService {
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &StatsService{
		store:        store,
		client:       client,
		tracked:      tracked,
		fetchTimeout: fetchTimeout,
		interval:     interval,
		logger:       logger,
	}
}

// StatsSummary is the site-wide roll-up of the tracked repositories.
type StatsSummary struct {
	TotalStars       int
	TotalForks       int
	ActiveDevelopers int
	Repositories     []model.StatRecord
	UsingFallback    bool
}

type statsUpdateInput struct {
	Repository string `json:"repository" validate:"required,max=200"`
	Stars      *int   `json:"stars" validate:"required,gte=0"`
	Forks      *int   `json:"forks" validate:"required,gte=0"`
}

type repoRefInput struct {
	Owner string `json:"owner" validate:"required,max=100,ghname"`
	Repo  string `json:"repo" validate:"required,max=100,ghname"`
}

// List returns every cached record.
func (s *StatsService) List(ctx context.Context) ([]model.StatRecord, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stats: %w", err)
	}
	return records, nil
}

// Get returns the cached record for repository or driven.ErrStatsNotFound.
func (s *StatsService) Get(ctx context.Context, repository string) (model.StatRecord, error) {
	rec, err := s.store.Get(ctx, repository)
	if err != nil {
		return model.StatRecord{}, fmt.Errorf("get stats %s: %w", repository, err)
	}
	if rec == nil {
		return model.StatRecord{}, fmt.Errorf("get stats %s: %w", repository, driven.ErrStatsNotFound)
	}
	return *rec, nil
}

// Update stores caller-supplied stats. Stars and forks must be present and
// non-negative; otherwise a *ValidationError is returned.
func (s *StatsService) Update(ctx context.Context, repository string, stars, forks *int) (model.StatRecord, error) {
	in := statsUpdateInput{Repository: strings.TrimSpace(repository), Stars: stars, Forks: forks}
	if err := validateStruct(in); err != nil {
		return model.StatRecord{}, err
	}

	rec, err := s.store.Upsert(ctx, in.Repository, *in.Stars, *in.Forks)
	if err != nil {
		return model.StatRecord{}, fmt.Errorf("update stats %s: %w", in.Repository, err)
	}
	return rec, nil
}

// Refresh fetches owner/repo from GitHub under the configured timeout and
// upserts the result. Upstream failures come back as *driven.UpstreamError
// and leave the store untouched. There is no retry.
func (s *StatsService) Refresh(ctx context.Context, owner, repo string) (model.StatRecord, error) {
	in := repoRefInput{Owner: owner, Repo: repo}
	if err := validateStruct(in); err != nil {
		return model.StatRecord{}, err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	stats, err := s.client.FetchRepoStats(fetchCtx, owner, repo)
	if err != nil {
		var upstream *driven.UpstreamError
		if !errors.As(err, &upstream) {
			err = &driven.UpstreamError{Repository: owner + "/" + repo, Err: err}
		}
		return model.StatRecord{}, err
	}

	repository := stats.Repository
	if repository == "" {
		repository = owner + "/" + repo
	}

	rec, err := s.store.Upsert(ctx, repository, stats.Stars, stats.Forks)
	if err != nil {
		return model.StatRecord{}, fmt.Errorf("store stats %s: %w", repository, err)
	}

	s.logger.Debug("stats refreshed", "repo", repository, "stars", rec.Stars, "forks", rec.Forks)
	return rec, nil
}

// RefreshAll refreshes every tracked repository concurrently. A failure for
// one repository does not stop the others; the refreshed records are
// returned alongside the joined failures.
func (s *StatsService) RefreshAll(ctx context.Context) ([]model.StatRecord, error) {
	start := time.Now()

	results := make([]*model.StatRecord, len(s.tracked))
	errs := make([]error, len(s.tracked))

	var g errgroup.Group
	for i, fullName := range s.tracked {
		g.Go(func() error {
			owner, repo, ok := strings.Cut(fullName, "/")
			if !ok {
				errs[i] = &ValidationError{Field: "repository", Message: fmt.Sprintf("%q is not owner/name", fullName)}
				return nil
			}

			rec, err := s.Refresh(ctx, owner, repo)
			if err != nil {
				s.logger.Error("stats refresh failed", "repo", fullName, "error", err)
				errs[i] = err
				return nil
			}
			results[i] = &rec
			return nil
		})
	}
	_ = g.Wait()

	refreshed := make([]model.StatRecord, 0, len(results))
	for _, rec := range results {
		if rec != nil {
			refreshed = append(refreshed, *rec)
		}
	}

	joined := errors.Join(errs...)
	s.logger.Info("stats refresh cycle complete",
		"repos", len(s.tracked),
		"refreshed", len(refreshed),
		"failed", len(s.tracked)-len(refreshed),
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return refreshed, joined
}

// Summary evaluates the display metrics over the cached tracked repositories.
// An empty cache yields the fallback constants with UsingFallback set.
func (s *StatsService) Summary(ctx context.Context) (StatsSummary, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return StatsSummary{}, fmt.Errorf("summarise stats: %w", err)
	}

	tracked := make([]model.StatRecord, 0, len(records))
	for _, rec := range records {
		if metrics.IsTracked(rec.Repository) {
			tracked = append(tracked, rec)
		}
	}

	return StatsSummary{
		TotalStars:       metrics.TotalStars(records, metrics.FallbackStars),
		TotalForks:       metrics.TotalForks(records, metrics.FallbackForks),
		ActiveDevelopers: metrics.EstimateActiveDevelopers(records, metrics.FallbackActiveDevelopers),
		Repositories:     tracked,
		UsingFallback:    len(records) == 0,
	}, nil
}

// Start runs an immediate RefreshAll, then repeats it every interval until
// ctx is cancelled. It returns at once when the interval is not positive.
func (s *StatsService) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("stats refresh loop disabled")
		return
	}

	if _, err := s.RefreshAll(ctx); err != nil {
		s.logger.Warn("initial stats refresh incomplete", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stats refresh loop stopped")
			return
		case <-ticker.C:
			if _, err := s.RefreshAll(ctx); err != nil {
				s.logger.Warn("stats refresh cycle incomplete", "error", err)
			}
		}
	}
}
