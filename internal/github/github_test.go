package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clawzd/portfolio/internal/status"
)

func newGitHubServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/users/Clawzd/repos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "updated", r.URL.Query().Get("sort"))
		assert.Equal(t, "6", r.URL.Query().Get("per_page"))
		w.Write([]byte(`[
			{"id":1,"name":"portfolio","description":"site","html_url":"https://github.com/Clawzd/portfolio","updated_at":"2025-05-01T10:00:00Z"},
			{"id":2,"name":"broken","description":"","html_url":"https://github.com/Clawzd/broken","updated_at":"2025-04-01T10:00:00Z"},
			{"id":3,"name":"empty","description":"","html_url":"https://github.com/Clawzd/empty","updated_at":"2025-03-01T10:00:00Z"}
		]`))
	})
	mux.HandleFunc("/repos/Clawzd/portfolio/languages", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Go":600,"HTML":300,"CSS":100}`))
	})
	mux.HandleFunc("/repos/Clawzd/broken/languages", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/repos/Clawzd/empty/languages", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestRepos(t *testing.T) {
	server := newGitHubServer(t)
	c := NewClient(server.URL, "Clawzd", "", time.Second, 0)

	repos, err := c.Repos(context.Background())
	require.NoError(t, err)
	require.Len(t, repos, 3)
	assert.Equal(t, "portfolio", repos[0].Name)
	assert.Equal(t, 2025, repos[0].UpdatedAt.Year())
}

func TestTokenHeader(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	repos, err := NewClient(server.URL, "Clawzd", "secret", time.Second, 0).Repos(context.Background())
	require.NoError(t, err)
	assert.Empty(t, repos)
	assert.Equal(t, "Bearer secret", got)
}

func TestRateLimitFailsFast(t *testing.T) {
	server := newGitHubServer(t)
	c := NewClient(server.URL, "Clawzd", "", 100*time.Millisecond, 30)
	ctx := context.Background()

	// the burst covers about two overviews of three repositories
	c.Overview(ctx)
	c.Overview(ctx)

	start := time.Now()
	o := c.Overview(ctx)
	assert.Less(t, time.Since(start), 500*time.Millisecond, "no waiting for a token beyond the client timeout")
	assert.Equal(t, status.Error, o.Status)
	assert.Empty(t, o.Repos)

	_, err := c.Repos(ctx)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestOverview(t *testing.T) {
	server := newGitHubServer(t)
	c := NewClient(server.URL, "Clawzd", "", time.Second, 600)

	o := c.Overview(context.Background())
	assert.Equal(t, status.Success, o.Status)
	require.Len(t, o.Repos, 3)

	require.NotNil(t, o.Repos[0].Languages)
	assert.Equal(t, "Go", o.Repos[0].Languages.Segments[0].Name)
	assert.Equal(t, 60.0, o.Repos[0].Languages.Segments[0].Percent)

	assert.Nil(t, o.Repos[1].Languages, "failed language fetch drops only the bar")
	assert.Equal(t, "broken", o.Repos[1].Name)
	assert.Nil(t, o.Repos[2].Languages, "empty breakdown draws nothing")
}

func TestOverviewRepoFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	o := NewClient(server.URL, "Clawzd", "", time.Second, 0).Overview(context.Background())
	assert.Equal(t, status.Error, o.Status)
	assert.Empty(t, o.Repos)
}

func TestNewBar(t *testing.T) {
	assert.Nil(t, NewBar(nil))
	assert.Nil(t, NewBar(map[string]int64{"Go": 0}))

	bar := NewBar(map[string]int64{
		"Go":         500,
		"HTML":       200,
		"CSS":        100,
		"Shell":      100,
		"Dockerfile": 50,
		"Makefile":   30,
		"Zig":        20,
	})
	require.NotNil(t, bar)
	require.Len(t, bar.Segments, MaxSegments)

	names := make([]string, 0, len(bar.Segments))
	for _, s := range bar.Segments {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Go", "HTML", "CSS", "Shell", "Dockerfile"}, names, "ties break by name")
	assert.Equal(t, 50.0, bar.Segments[0].Percent)
	assert.Equal(t, "#00ADD8", bar.Segments[0].Color)
	assert.Equal(t, 5.0, bar.Omitted)
}

func TestPercentRounding(t *testing.T) {
	bar := NewBar(map[string]int64{"Go": 1, "Rust": 2})
	require.NotNil(t, bar)
	assert.Equal(t, 66.7, bar.Segments[0].Percent)
	assert.Equal(t, 33.3, bar.Segments[1].Percent)
	assert.Zero(t, bar.Omitted)
}

func TestColor(t *testing.T) {
	assert.Equal(t, "#f1e05a", Color("JavaScript"))
	assert.Equal(t, OtherColor, Color("Zig"))
}
