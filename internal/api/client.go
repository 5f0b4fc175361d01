// Package api is the gateway to the GitHub API. It exposes the four lookup
// operations the rest of the app depends on and maps remote failures onto a
// small error taxonomy (APIError for structured API failures,
// ValidationError for bad arguments caught locally, anything else passed
// through untouched).
package api

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	github "github.com/google/go-github/v84/github"
	"golang.org/x/oauth2"

	"github.com/orgscope/orgscope/internal/models"
)

const requestTimeout = 30 * time.Second

// Lookup defines the remote operations the orchestrator depends on.
// Pagination is 0-based at this boundary; the gateway converts to the
// API's 1-based pages internally.
type Lookup interface {
	SearchAccounts(ctx context.Context, query string) ([]models.AccountCandidate, int, error)
	GetAccount(ctx context.Context, login string) (models.Account, error)
	ListRepositoriesForUser(ctx context.Context, login string, page, pageSize int, repoType models.RepoType) ([]models.RepositoryRecord, error)
	SearchRepositories(ctx context.Context, org, text string, page, pageSize int) (models.RepositoryPage, error)
}

// Client implements Lookup against api.github.com.
type Client struct {
	gh     *github.Client
	logger *log.Logger
}

// NewClient creates a GitHub API client. An empty token degrades to
// unauthenticated (rate-limited) access rather than failing.
func NewClient(token string) *Client {
	rateLimiter := github_ratelimit.New(nil)

	var transport http.RoundTripper = rateLimiter
	if token != "" {
		transport = &oauth2.Transport{
			Base:   rateLimiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		}
	}

	httpClient := &http.Client{
		Transport: transport,
		Timeout:   requestTimeout,
	}

	return &Client{gh: github.NewClient(httpClient)}
}

// NewClientWithLogging creates a client that logs every request and the
// remaining rate-limit budget to the given file.
func NewClientWithLogging(token, logPath string) *Client {
	c := NewClient(token)

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		// Fall back to a silent client if the log file can't be opened
		return c
	}

	c.logger = log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "API",
	})
	return c
}

// SearchAccounts performs a fuzzy account search and returns the matches in
// the service's order along with the reported total.
func (c *Client) SearchAccounts(ctx context.Context, query string) ([]models.AccountCandidate, int, error) {
	c.logRequest("search users", "query", query)

	result, resp, err := c.gh.Search.Users(ctx, query, &github.SearchOptions{})
	c.logRate(resp)
	if err != nil {
		c.logError("search users failed", err)
		return nil, 0, classify(err)
	}

	candidates := make([]models.AccountCandidate, 0, len(result.Users))
	for _, u := range result.Users {
		candidates = append(candidates, models.AccountCandidate{Login: u.GetLogin()})
	}
	return candidates, result.GetTotal(), nil
}

// GetAccount fetches one account's public metadata. A missing account comes
// back as an APIError with status 404; check it with IsNotFound.
func (c *Client) GetAccount(ctx context.Context, login string) (models.Account, error) {
	c.logRequest("get user", "login", login)

	user, resp, err := c.gh.Users.Get(ctx, login)
	c.logRate(resp)
	if err != nil {
		c.logError("get user failed", err)
		return models.Account{}, classify(err)
	}

	return models.Account{
		Login:       user.GetLogin(),
		PublicRepos: user.GetPublicRepos(),
	}, nil
}

// ListRepositoriesForUser returns one page of a user's repositories in the
// service's default order. Arguments are validated before any network call.
//
// This deliberately lists *user* repositories rather than organization
// repositories: the org endpoint 404s for accounts that are plain users,
// while the user endpoint serves both.
func (c *Client) ListRepositoriesForUser(ctx context.Context, login string, page, pageSize int, repoType models.RepoType) ([]models.RepositoryRecord, error) {
	if !repoType.Valid() {
		return nil, &ValidationError{Field: "type", Reason: "must be one of all, owner, member"}
	}
	if pageSize < 1 {
		return nil, &ValidationError{Field: "pageSize", Reason: "must be greater than 0"}
	}
	if page < 0 {
		return nil, &ValidationError{Field: "page", Reason: "must be greater than or equal to 0"}
	}

	c.logRequest("list repos", "login", login, "page", page, "type", string(repoType))

	opts := &github.RepositoryListByUserOptions{
		Type: string(repoType),
		ListOptions: github.ListOptions{
			Page:    page + 1,
			PerPage: pageSize,
		},
	}
	repos, resp, err := c.gh.Repositories.ListByUser(ctx, login, opts)
	c.logRate(resp)
	if err != nil {
		c.logError("list repos failed", err)
		return nil, classify(err)
	}

	return toRecords(repos), nil
}

// SearchRepositories performs a full-text repository search scoped to the
// given account via an org: qualifier. The issue-count range cannot be
// expressed in the query, so callers filter those bounds client-side.
func (c *Client) SearchRepositories(ctx context.Context, org, text string, page, pageSize int) (models.RepositoryPage, error) {
	if pageSize < 1 {
		return models.RepositoryPage{}, &ValidationError{Field: "pageSize", Reason: "must be greater than 0"}
	}
	if page < 0 {
		return models.RepositoryPage{}, &ValidationError{Field: "page", Reason: "must be greater than or equal to 0"}
	}

	query := "org:" + org
	if text != "" {
		query += " " + text
	}

	c.logRequest("search repos", "query", query, "page", page)

	opts := &github.SearchOptions{
		ListOptions: github.ListOptions{
			Page:    page + 1,
			PerPage: pageSize,
		},
	}
	result, resp, err := c.gh.Search.Repositories(ctx, query, opts)
	c.logRate(resp)
	if err != nil {
		c.logError("search repos failed", err)
		return models.RepositoryPage{}, classify(err)
	}

	return models.RepositoryPage{
		Items:      toRecords(result.Repositories),
		TotalCount: result.GetTotal(),
	}, nil
}

func toRecords(repos []*github.Repository) []models.RepositoryRecord {
	records := make([]models.RepositoryRecord, 0, len(repos))
	for _, r := range repos {
		records = append(records, models.RepositoryRecord{
			ID:              r.GetID(),
			Name:            r.GetName(),
			OpenIssuesCount: r.GetOpenIssuesCount(),
			StargazersCount: r.GetStargazersCount(),
		})
	}
	return records
}

func (c *Client) logRequest(msg string, keyvals ...interface{}) {
	if c.logger != nil {
		c.logger.Info(msg, keyvals...)
	}
}

func (c *Client) logError(msg string, err error) {
	if c.logger != nil {
		c.logger.Error(msg, "error", err)
	}
}

func (c *Client) logRate(resp *github.Response) {
	if c.logger != nil && resp != nil {
		c.logger.Debug("rate limit", "remaining", resp.Rate.Remaining, "reset", resp.Rate.Reset, "status", resp.StatusCode)
	}
}
