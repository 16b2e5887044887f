// Package driven defines the ports the application uses to reach stores and
// the GitHub API.
package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/basalt-site/internal/domain/model"
)

// ErrStatsNotFound indicates no stats are cached for the requested repository.
var ErrStatsNotFound = errors.New("repository stats not found")

// StatsStore defines the driven port for the repository stats cache.
// Get returns nil, nil when no record exists for the repository.
// Upsert preserves the record ID on update and always bumps UpdatedAt.
type StatsStore interface {
	Upsert(ctx context.Context, repository string, stars, forks int) (model.StatRecord, error)
	Get(ctx context.Context, repository string) (*model.StatRecord, error)
	List(ctx context.Context) ([]model.StatRecord, error)
}
