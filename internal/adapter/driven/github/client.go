// Package github implements the RepoMetadataClient port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/basalt-site/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RepoMetadataClient = (*Client)(nil)

// Client implements the driven.RepoMetadataClient port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client, PAT auth when token is non-empty)
//
// The public repository endpoint works without a token at a lower rate limit.
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &Client{gh: client}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// Used for tests against an httptest server and for GitHub Enterprise hosts.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	client := gh.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return (&Client{gh: client}).WithBaseURL(baseURL)
}

// WithBaseURL points the client at a different API root, such as a GitHub
// Enterprise host. The URL must end in a slash.
func (c *Client) WithBaseURL(baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		return nil, fmt.Errorf("base URL %q must have a trailing slash", baseURL)
	}
	c.gh.BaseURL = u

	return c, nil
}

// FetchRepoStats reads stargazers_count and forks_count for owner/repo.
// Any failure is returned as *driven.UpstreamError; Status is 0 when GitHub
// never answered.
func (c *Client) FetchRepoStats(ctx context.Context, owner, repo string) (driven.RepoStats, error) {
	fullName := owner + "/" + repo

	repository, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return driven.RepoStats{}, &driven.UpstreamError{
			Repository: fullName,
			Status:     statusOf(resp),
			Err:        err,
		}
	}

	logRateLimit(resp, fullName)

	return driven.RepoStats{
		Repository: fullName,
		Stars:      max(repository.GetStargazersCount(), 0),
		Forks:      max(repository.GetForksCount(), 0),
	}, nil
}

func statusOf(resp *gh.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	// Unauthenticated clients get 60 requests an hour, so warn early.
	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 10 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
