package driven

import (
	"context"
	"fmt"
)

// RepoStats is the subset of GitHub repository metadata the site caches.
type RepoStats struct {
	Repository string
	Stars      int
	Forks      int
}

// RepoMetadataClient defines the driven port for reading repository metadata
// from GitHub. Failures are returned as *UpstreamError.
type RepoMetadataClient interface {
	FetchRepoStats(ctx context.Context, owner, repo string) (RepoStats, error)
}

// UpstreamError reports a failed call to the repository metadata API.
// Status is the upstream HTTP status, or 0 when no response was received
// (network failure, timeout, cancellation).
type UpstreamError struct {
	Repository string
	Status     int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("fetch %s: %v", e.Repository, e.Err)
	}
	return fmt.Sprintf("fetch %s: upstream status %d: %v", e.Repository, e.Status, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
