package github

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/Clawzd/portfolio/internal/status"
)

// RepoView is a repository with its language bar, nil when the languages
// could not be fetched or are empty.
type RepoView struct {
	Repo
	Languages *Bar
}

type Overview struct {
	Status status.Status
	Repos  []RepoView
}

// Overview fetches the repositories, then all language breakdowns at once.
// A failed breakdown only drops that repository's bar.
func (c *Client) Overview(ctx context.Context) Overview {
	repos, err := c.Repos(ctx)
	if err != nil {
		log.Printf("Error fetching GitHub repos: %v", err)
		return Overview{Status: status.Error}
	}

	views := make([]RepoView, len(repos))
	var g errgroup.Group
	for i, repo := range repos {
		i, repo := i, repo
		views[i].Repo = repo
		g.Go(func() error {
			langs, err := c.Languages(ctx, repo.Name)
			if err != nil {
				log.Printf("Error fetching languages for %s: %v", repo.Name, err)
				return nil
			}
			views[i].Languages = NewBar(langs)
			return nil
		})
	}
	_ = g.Wait()

	return Overview{Status: status.Success, Repos: views}
}
