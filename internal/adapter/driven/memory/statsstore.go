// Package memory implements the driven store ports with process-lifetime
// in-memory tables.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ericfisherdev/basalt-site/internal/domain/model"
	"github.com/ericfisherdev/basalt-site/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.StatsStore = (*StatsStore)(nil)

// StatsStore is an in-memory StatsStore guarded by a single table lock.
type StatsStore struct {
	mu      sync.RWMutex
	records map[string]model.StatRecord
	nextID  int64
	now     func() time.Time
}

// NewStatsStore creates an empty StatsStore.
func NewStatsStore() *StatsStore {
	return &StatsStore{
		records: make(map[string]model.StatRecord),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Upsert replaces the stars and forks for repository, or inserts a new record.
func (s *StatsStore) Upsert(_ context.Context, repository string, stars, forks int) (model.StatRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[repository]
	if !ok {
		s.nextID++
		rec = model.StatRecord{ID: s.nextID, Repository: repository}
	}
	rec.Stars = stars
	rec.Forks = forks
	rec.UpdatedAt = s.now()

	s.records[repository] = rec
	return rec, nil
}

// Get returns the record for repository, or nil, nil if none exists.
func (s *StatsStore) Get(_ context.Context, repository string) (*model.StatRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[repository]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// List returns all records ordered by repository.
func (s *StatsStore) List(_ context.Context) ([]model.StatRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.StatRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Repository < out[j].Repository })

	return out, nil
}
