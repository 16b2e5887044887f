package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/basalt-site/internal/domain/metrics"
	"github.com/ericfisherdev/basalt-site/internal/domain/model"
)

// trackedRecords spreads the given totals over the first tracked repository
// and zeroes the rest.
func trackedRecords(stars, forks int) []model.StatRecord {
	records := make([]model.StatRecord, 0, len(metrics.TrackedRepositories))
	for i, name := range metrics.TrackedRepositories {
		r := model.StatRecord{Repository: name}
		if i == 0 {
			r.Stars = stars
			r.Forks = forks
		}
		records = append(records, r)
	}
	return records
}

func TestTrackedRepositories_FiveNamed(t *testing.T) {
	assert.Len(t, metrics.TrackedRepositories, 5)
}

func TestTotalStars(t *testing.T) {
	tests := []struct {
		name     string
		records  []model.StatRecord
		fallback int
		want     int
	}{
		{name: "nil records", records: nil, fallback: 123, want: 123},
		{name: "empty records", records: []model.StatRecord{}, fallback: 7, want: 7},
		{
			name: "sums tracked only",
			records: []model.StatRecord{
				{Repository: "basalt-dev/basalt", Stars: 100},
				{Repository: "basalt-dev/basalt-js", Stars: 20},
				{Repository: "basalt-dev/basalt-go", Stars: 3},
				{Repository: "someone/else", Stars: 100000},
			},
			fallback: 1,
			want:     123,
		},
		{
			name:     "no tracked records present",
			records:  []model.StatRecord{{Repository: "someone/else", Stars: 50}},
			fallback: 99,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, metrics.TotalStars(tt.records, tt.fallback))
		})
	}
}

func TestTotalForks(t *testing.T) {
	records := []model.StatRecord{
		{Repository: "basalt-dev/basalt", Forks: 10},
		{Repository: "basalt-dev/basalt-python", Forks: 5},
		{Repository: "basalt-dev/basalt-dart", Forks: 1},
		{Repository: "basalt-dev/website", Forks: 400},
	}

	assert.Equal(t, 16, metrics.TotalForks(records, 0))
	assert.Equal(t, 42, metrics.TotalForks(nil, 42))
}

func TestEstimateActiveDevelopers(t *testing.T) {
	tests := []struct {
		name     string
		records  []model.StatRecord
		fallback int
		want     int
	}{
		{name: "no records returns fallback", records: nil, fallback: 31337, want: 31337},
		{name: "within bounds", records: trackedRecords(100000, 20000), want: 99200},
		{name: "clamped to minimum", records: trackedRecords(10, 10), want: metrics.MinActiveDevelopers},
		{name: "clamped to maximum", records: trackedRecords(1000000, 100000), want: metrics.MaxActiveDevelopers},
		{
			// 0.7*2000*7 + 0.3*50000*0.04 = 9800 + 600 -> below min
			name:    "small project clamps up",
			records: trackedRecords(50000, 2000),
			want:    metrics.MinActiveDevelopers,
		},
		{
			// 0.7*5000*7 + 0.3*60000*0.04 = 24500 + 720
			name:    "rounds weighted sum",
			records: trackedRecords(60000, 5000),
			want:    25220,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, metrics.EstimateActiveDevelopers(tt.records, tt.fallback))
		})
	}
}

func TestEstimateActiveDevelopers_IgnoresUntracked(t *testing.T) {
	records := append(trackedRecords(100000, 20000), model.StatRecord{
		Repository: "someone/huge",
		Stars:      5000000,
		Forks:      900000,
	})

	assert.Equal(t, 99200, metrics.EstimateActiveDevelopers(records, 0))
}

func TestIsTracked(t *testing.T) {
	assert.True(t, metrics.IsTracked("basalt-dev/basalt-go"))
	assert.False(t, metrics.IsTracked("basalt-dev/Basalt-Go"))
	assert.False(t, metrics.IsTracked(""))
}
