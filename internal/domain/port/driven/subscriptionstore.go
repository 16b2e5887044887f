package driven

import (
	"context"

	"github.com/ericfisherdev/basalt-site/internal/domain/model"
)

// SubscriptionStore defines the driven port for newsletter signups.
type SubscriptionStore interface {
	// Subscribe inserts a subscription for email unless one already exists.
	// The existing record is returned unchanged with created=false.
	Subscribe(ctx context.Context, email string) (sub model.Subscription, created bool, err error)
	GetByEmail(ctx context.Context, email string) (*model.Subscription, error)
}
