package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/ericfisherdev/basalt-site/internal/domain/model"
	"github.com/ericfisherdev/basalt-site/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockMetadataClient struct {
	mu    sync.Mutex
	calls []string
	fetch func(ctx context.Context, owner, repo string) (driven.RepoStats, error)
}

func (m *mockMetadataClient) FetchRepoStats(ctx context.Context, owner, repo string) (driven.RepoStats, error) {
	m.mu.Lock()
	m.calls = append(m.calls, owner+"/"+repo)
	m.mu.Unlock()
	return m.fetch(ctx, owner, repo)
}

func (m *mockMetadataClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// staticClient answers every fetch with fixed counts.
func staticClient(stars, forks int) *mockMetadataClient {
	return &mockMetadataClient{
		fetch: func(_ context.Context, owner, repo string) (driven.RepoStats, error) {
			return driven.RepoStats{Repository: owner + "/" + repo, Stars: stars, Forks: forks}, nil
		},
	}
}

var errStoreDown = errors.New("store down")

// failingStatsStore returns errStoreDown from every method.
type failingStatsStore struct{}

func (failingStatsStore) Upsert(_ context.Context, _ string, _, _ int) (model.StatRecord, error) {
	return model.StatRecord{}, errStoreDown
}
func (failingStatsStore) Get(_ context.Context, _ string) (*model.StatRecord, error) {
	return nil, errStoreDown
}
func (failingStatsStore) List(_ context.Context) ([]model.StatRecord, error) {
	return nil, errStoreDown
}

type failingSubscriptionStore struct{}

func (failingSubscriptionStore) Subscribe(_ context.Context, _ string) (model.Subscription, bool, error) {
	return model.Subscription{}, false, errStoreDown
}
func (failingSubscriptionStore) GetByEmail(_ context.Context, _ string) (*model.Subscription, error) {
	return nil, errStoreDown
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }
