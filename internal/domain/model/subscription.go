package model

import "time"

// Subscription is a newsletter signup. Email is the unique key and is stored
// trimmed and lowercased.
type Subscription struct {
	ID         int64
	Email      string
	Subscribed bool
	CreatedAt  time.Time
}
