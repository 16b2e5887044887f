package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/basalt-site/internal/domain/model"
	"github.com/ericfisherdev/basalt-site/internal/domain/port/driven"
)

// NewsletterService handles newsletter signups.
type NewsletterService struct {
	store  driven.SubscriptionStore
	logger *slog.Logger
}

// NewNewsletterService creates a NewsletterService backed by store.
func NewNewsletterService(store driven.SubscriptionStore, logger *slog.Logger) *NewsletterService {
	return &NewsletterService{store: store, logger: logger}
}

type subscribeInput struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// Subscribe validates and normalises email, then records the signup.
// Repeat signups return the original subscription with created=false.
// Invalid addresses return a *ValidationError.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (model.Subscription, bool, error) {
	in := subscribeInput{Email: strings.ToLower(strings.TrimSpace(email))}
	if err := validateStruct(in); err != nil {
		return model.Subscription{}, false, err
	}

	sub, created, err := s.store.Subscribe(ctx, in.Email)
	if err != nil {
		return model.Subscription{}, false, fmt.Errorf("subscribe: %w", err)
	}

	if created {
		s.logger.Info("newsletter subscription created", "subscription_id", sub.ID)
	}

	return sub, created, nil
}
