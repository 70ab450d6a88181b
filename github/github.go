// Package github is a minimal GitHub REST client covering the calls the bot
// makes: editing issue, pull request and comment bodies, posting a comment,
// and reading the repository's censor.yml.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sonnes/censor/config"
	"github.com/sonnes/censor/core"
)

const (
	DefaultAPIURL = "https://api.github.com"
	apiVersion    = "2022-11-28"
	userAgent     = "censor"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GitHub API error: %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Config configures a Client.
type Config struct {
	Token  string
	APIURL string // defaults to DefaultAPIURL; set for GitHub Enterprise
	// HTTPClient overrides the default client with a 60s timeout.
	HTTPClient *http.Client
}

// Client provides access to the GitHub REST API.
type Client struct {
	token   string
	apiURL  string
	httpCli *http.Client
}

// New creates a Client. A token is required.
func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("GitHub token is not set")
	}

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	httpCli := cfg.HTTPClient
	if httpCli == nil {
		httpCli = &http.Client{Timeout: 60 * time.Second}
	}

	return &Client{
		token:   cfg.Token,
		apiURL:  strings.TrimRight(apiURL, "/"),
		httpCli: httpCli,
	}, nil
}

type bodyRequest struct {
	Body string `json:"body"`
}

// EditIssue replaces the body of an issue or pull request. Pull requests are
// edited through the issues endpoint.
func (c *Client) EditIssue(ctx context.Context, repo core.Repo, number int, body string) error {
	u := fmt.Sprintf("%s/issues/%d", c.repoURL(repo), number)
	_, err := c.do(ctx, http.MethodPatch, u, bodyRequest{Body: body}, "application/vnd.github+json")
	return err
}

// EditComment replaces the body of an issue or pull request comment.
func (c *Client) EditComment(ctx context.Context, repo core.Repo, id int64, body string) error {
	u := fmt.Sprintf("%s/issues/comments/%d", c.repoURL(repo), id)
	_, err := c.do(ctx, http.MethodPatch, u, bodyRequest{Body: body}, "application/vnd.github+json")
	return err
}

// CreateComment posts a new comment on an issue or pull request.
func (c *Client) CreateComment(ctx context.Context, repo core.Repo, number int, body string) error {
	u := fmt.Sprintf("%s/issues/%d/comments", c.repoURL(repo), number)
	_, err := c.do(ctx, http.MethodPost, u, bodyRequest{Body: body}, "application/vnd.github+json")
	return err
}

// FetchFile returns the raw content of path on the default branch. A missing
// file is reported as config.ErrNotFound.
func (c *Client) FetchFile(ctx context.Context, repo core.Repo, path string) ([]byte, error) {
	u := fmt.Sprintf("%s/contents/%s", c.repoURL(repo), escapePath(path))
	data, err := c.do(ctx, http.MethodGet, u, nil, "application/vnd.github.raw+json")
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", path, config.ErrNotFound)
	}
	return data, err
}

func (c *Client) repoURL(repo core.Repo) string {
	return fmt.Sprintf("%s/repos/%s/%s", c.apiURL, url.PathEscape(repo.Owner), url.PathEscape(repo.Name))
}

// escapePath escapes each segment of a slash-separated path.
func escapePath(p string) string {
	segs := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

func (c *Client) do(ctx context.Context, method, u string, payload any, accept string) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", accept)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, u, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Method:     method,
			URL:        u,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}
	return data, nil
}
