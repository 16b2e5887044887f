package model

import "time"

// StatRecord is the last known star/fork snapshot for one GitHub repository.
// Repository is the unique key in "owner/name" form.
type StatRecord struct {
	ID         int64
	Repository string
	Stars      int
	Forks      int
	UpdatedAt  time.Time
}
