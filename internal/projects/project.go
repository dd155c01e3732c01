// Package projects holds the portfolio's project list and the
// category/search/tag/level/sort pipeline the gallery renders.
package projects

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const (
	CategoryRecent   = "recent"
	CategoryUpcoming = "upcoming"
)

const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

// AllTags is the closed set of topical labels.
var AllTags = []string{"Cybersecurity", "AI", "Game Dev", "Web", "Mobile", "Blockchain"}

// Levels in display order.
var Levels = []string{LevelBeginner, LevelIntermediate, LevelAdvanced}

type Project struct {
	ID          int      `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url,omitempty"`
	Date        string   `json:"date,omitempty"`
	CreatedDate string   `json:"created_date,omitempty"`
	GitHubURL   string   `json:"github_url,omitempty"`
	Tags        []string `json:"tags"`
	Category    string   `json:"category"`
	Level       string   `json:"level"`
}

// Key identifies a project in a rendered list. Projects without an id fall
// back to title+index, which is not stable across filters.
func Key(p Project, index int) string {
	if p.ID != 0 {
		return strconv.Itoa(p.ID)
	}
	return p.Title + strconv.Itoa(index)
}

// HasTag reports whether p carries tag.
func (p Project) HasTag(tag string) bool {
	return slices.Contains(p.Tags, tag)
}

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid project")

// Validate checks a project submitted for add or edit.
func (p Project) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if p.Category != CategoryRecent && p.Category != CategoryUpcoming {
		return fmt.Errorf("%w: category %q must be recent or upcoming", ErrInvalid, p.Category)
	}
	if p.Level != "" && !slices.Contains(Levels, p.Level) {
		return fmt.Errorf("%w: level %q", ErrInvalid, p.Level)
	}
	for _, tag := range p.Tags {
		if !slices.Contains(AllTags, tag) {
			return fmt.Errorf("%w: unknown tag %q", ErrInvalid, tag)
		}
	}
	return nil
}

// Seed is the built-in project list, returned as a fresh copy.
func Seed() []Project {
	return []Project{
		{
			ID:          1,
			Title:       "Flying Stars",
			Description: "Reaction-time game where a fast star moves and you must hit the correct edge. Focus on timing, input, and clear feedback.",
			ImageURL:    "/images/flying-stars.png",
			Date:        "2024-03-10",
			GitHubURL:   "https://github.com/Clawzd/FlyingStars",
			Tags:        []string{"Game Dev"},
			Category:    CategoryRecent,
			Level:       LevelBeginner,
		},
		{
			ID:          2,
			Title:       "Treasure Quest",
			Description: "Maze shortest-path solver: user provides a maze; the program finds the optimal route to the treasure.",
			ImageURL:    "/images/treasure-quest.png",
			Date:        "2024-08-22",
			GitHubURL:   "https://github.com/Clawzd/TREASURE-QUEST",
			Tags:        []string{"Game Dev"},
			Category:    CategoryRecent,
			Level:       LevelIntermediate,
		},
		{
			ID:          3,
			Title:       "KFUPM Restaurant System",
			Description: "Campus ordering system with menus, cart, and simple order tracking for university restaurants.",
			ImageURL:    "/images/kfupm.png",
			Date:        "2025-08-30",
			Tags:        []string{"Web"},
			Category:    CategoryUpcoming,
			Level:       LevelAdvanced,
		},
		{
			ID:          4,
			Title:       "Football SQL",
			Description: "Relational database for football stats with analytical queries for matches, players, and leaderboards.",
			ImageURL:    "/images/sql.png",
			Date:        "2025-09-15",
			GitHubURL:   "https://github.com/Clawzd/sqlProject",
			Tags:        []string{"Web", "Mobile"},
			Category:    CategoryUpcoming,
			Level:       LevelIntermediate,
		},
	}
}
