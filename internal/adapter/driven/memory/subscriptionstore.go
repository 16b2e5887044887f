package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ericfisherdev/basalt-site/internal/domain/model"
	"github.com/ericfisherdev/basalt-site/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SubscriptionStore = (*SubscriptionStore)(nil)

// SubscriptionStore is an in-memory SubscriptionStore keyed by email.
type SubscriptionStore struct {
	mu     sync.Mutex
	subs   map[string]model.Subscription
	nextID int64
	now    func() time.Time
}

// NewSubscriptionStore creates an empty SubscriptionStore.
func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{
		subs: make(map[string]model.Subscription),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Subscribe stores a new subscription for email. An existing subscription is
// returned as-is with created=false.
func (s *SubscriptionStore) Subscribe(_ context.Context, email string) (model.Subscription, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub, ok := s.subs[email]; ok {
		return sub, false, nil
	}

	s.nextID++
	sub := model.Subscription{
		ID:         s.nextID,
		Email:      email,
		Subscribed: true,
		CreatedAt:  s.now(),
	}
	s.subs[email] = sub

	return sub, true, nil
}

// GetByEmail returns the subscription for email, or nil, nil if none exists.
func (s *SubscriptionStore) GetByEmail(_ context.Context, email string) (*model.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[email]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}
