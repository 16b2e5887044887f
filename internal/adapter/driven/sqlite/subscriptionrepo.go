package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/basalt-site/internal/domain/model"
	"github.com/ericfisherdev/basalt-site/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SubscriptionStore = (*SubscriptionRepo)(nil)

// SubscriptionRepo is the SQLite implementation of the SubscriptionStore port interface.
type SubscriptionRepo struct {
	db  *DB
	now func() time.Time
}

// NewSubscriptionRepo creates a new SubscriptionRepo backed by the given DB.
func NewSubscriptionRepo(db *DB) *SubscriptionRepo {
	return &SubscriptionRepo{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Subscribe inserts a subscription for email. If the email is already present
// the stored row is returned untouched and created is false.
func (r *SubscriptionRepo) Subscribe(ctx context.Context, email string) (model.Subscription, bool, error) {
	const insert = `INSERT INTO newsletter_subscriptions (email, subscribed, created_at) VALUES (?, 1, ?)
		ON CONFLICT(email) DO NOTHING`

	result, err := r.db.Writer.ExecContext(ctx, insert, email, r.now().Format(time.RFC3339Nano))
	if err != nil {
		return model.Subscription{}, false, fmt.Errorf("subscribe %s: %w", email, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return model.Subscription{}, false, fmt.Errorf("check rows affected: %w", err)
	}

	// Read back through the writer so the row is visible without waiting on a reader.
	sub, err := r.getByEmail(ctx, r.db.Writer, email)
	if err != nil {
		return model.Subscription{}, false, err
	}
	if sub == nil {
		return model.Subscription{}, false, fmt.Errorf("subscribe %s: row missing after insert", email)
	}

	return *sub, rows == 1, nil
}

// GetByEmail retrieves a subscription by email. Returns nil, nil if none exists.
func (r *SubscriptionRepo) GetByEmail(ctx context.Context, email string) (*model.Subscription, error) {
	return r.getByEmail(ctx, r.db.Reader, email)
}

func (r *SubscriptionRepo) getByEmail(ctx context.Context, conn *sql.DB, email string) (*model.Subscription, error) {
	const query = `SELECT id, email, subscribed, created_at FROM newsletter_subscriptions WHERE email = ?`

	var sub model.Subscription
	var createdAt string

	err := conn.QueryRowContext(ctx, query, email).Scan(&sub.ID, &sub.Email, &sub.Subscribed, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription %s: %w", email, err)
	}

	sub.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &sub, nil
}
