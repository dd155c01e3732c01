// Package github lists the owner's latest public repositories and their
// language breakdown.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

var ErrFetch = errors.New("failed to fetch from GitHub")

// RepoLimit is how many recently updated repositories are shown.
const RepoLimit = 6

type Repo struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	HTMLURL     string    `json:"html_url"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Client struct {
	baseURL string
	user    string
	token   string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient builds a client for user's repositories. perMinute caps
// outbound requests; zero disables the cap.
func NewClient(baseURL, user, token string, timeout time.Duration, perMinute float64) *Client {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if perMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(perMinute/60), RepoLimit+1)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		user:    user,
		token:   token,
		http:    &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

func (c *Client) User() string { return c.user }

// Repos returns the user's most recently updated repositories.
func (c *Client) Repos(ctx context.Context) ([]Repo, error) {
	path := fmt.Sprintf("/users/%s/repos?sort=updated&per_page=%d", url.PathEscape(c.user), RepoLimit)
	var repos []Repo
	if err := c.get(ctx, path, &repos); err != nil {
		return nil, err
	}
	if repos == nil {
		repos = []Repo{}
	}
	return repos, nil
}

// Languages returns bytes of code per language for one repository.
func (c *Client) Languages(ctx context.Context, repo string) (map[string]int64, error) {
	path := fmt.Sprintf("/repos/%s/%s/languages", url.PathEscape(c.user), url.PathEscape(repo))
	langs := map[string]int64{}
	if err := c.get(ctx, path, &langs); err != nil {
		return nil, err
	}
	return langs, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	if err := c.wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %w", ErrFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned %d", ErrFetch, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s: %w", ErrFetch, path, err)
	}
	return nil
}

// wait takes a limiter token, giving up at once when none frees up within
// the client timeout.
func (c *Client) wait(ctx context.Context) error {
	if c.http.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.http.Timeout)
		defer cancel()
	}
	return c.limiter.Wait(ctx)
}
