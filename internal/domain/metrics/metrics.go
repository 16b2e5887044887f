// Package metrics derives the display figures shown in the site's SDK
// statistics section from cached repository stats.
package metrics

import (
	"math"

	"github.com/ericfisherdev/basalt-site/internal/domain/model"
)

// TrackedRepositories are the repositories whose stats roll up into the
// site-wide totals. Records for any other repository are ignored.
var TrackedRepositories = []string{
	"basalt-dev/basalt",
	"basalt-dev/basalt-js",
	"basalt-dev/basalt-go",
	"basalt-dev/basalt-python",
	"basalt-dev/basalt-dart",
}

// Fallbacks shown when no live stats are available.
const (
	FallbackStars            = 58000
	FallbackForks            = 3200
	FallbackActiveDevelopers = 25000
)

// Bounds and weights for EstimateActiveDevelopers.
const (
	MinActiveDevelopers = 15000
	MaxActiveDevelopers = 150000

	developersPerFork = 7
	developersPerStar = 0.04
	forkWeight        = 0.7
	starWeight        = 0.3
)

// TotalStars sums stars across TrackedRepositories. It returns fallback when
// records is empty.
func TotalStars(records []model.StatRecord, fallback int) int {
	if len(records) == 0 {
		return fallback
	}
	return sumTracked(records, func(r model.StatRecord) int { return r.Stars })
}

// TotalForks sums forks across TrackedRepositories. It returns fallback when
// records is empty.
func TotalForks(records []model.StatRecord, fallback int) int {
	if len(records) == 0 {
		return fallback
	}
	return sumTracked(records, func(r model.StatRecord) int { return r.Forks })
}

// EstimateActiveDevelopers is a display heuristic, not a measurement:
// round(0.7*forks*7 + 0.3*stars*0.04) clamped to
// [MinActiveDevelopers, MaxActiveDevelopers]. Empty records yield fallback.
func EstimateActiveDevelopers(records []model.StatRecord, fallback int) int {
	if len(records) == 0 {
		return fallback
	}

	forkEstimate := float64(TotalForks(records, 0)) * developersPerFork
	starEstimate := float64(TotalStars(records, 0)) * developersPerStar
	estimate := int(math.Round(forkWeight*forkEstimate + starWeight*starEstimate))

	return min(max(estimate, MinActiveDevelopers), MaxActiveDevelopers)
}

// IsTracked reports whether repository is one of TrackedRepositories.
func IsTracked(repository string) bool {
	for _, name := range TrackedRepositories {
		if name == repository {
			return true
		}
	}
	return false
}

func sumTracked(records []model.StatRecord, field func(model.StatRecord) int) int {
	total := 0
	for _, r := range records {
		if IsTracked(r.Repository) {
			total += field(r)
		}
	}
	return total
}
