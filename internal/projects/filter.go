package projects

import (
	"net/url"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey orders the filtered list.
type SortKey string

const (
	SortDateDesc  SortKey = "date-desc"
	SortDateAsc   SortKey = "date-asc"
	SortTitleAsc  SortKey = "title-asc"
	SortTitleDesc SortKey = "title-desc"
)

// LevelAll disables the level stage.
const LevelAll = "all"

// Query is everything the gallery filters on.
type Query struct {
	Category string
	Search   string
	Tags     []string
	Level    string
	Sort     SortKey
}

// DefaultQuery is what an unfiltered gallery shows.
func DefaultQuery() Query {
	return Query{Category: CategoryRecent, Level: LevelAll, Sort: SortDateDesc}
}

// ParseQuery reads category, q, tag (repeatable), level and sort.
func ParseQuery(v url.Values) Query {
	q := DefaultQuery()
	if c := v.Get("category"); c != "" {
		q.Category = c
	}
	q.Search = v.Get("q")
	for _, tag := range v["tag"] {
		if tag = strings.TrimSpace(tag); tag != "" && !slices.Contains(q.Tags, tag) {
			q.Tags = append(q.Tags, tag)
		}
	}
	if l := v.Get("level"); l != "" {
		q.Level = l
	}
	if s := v.Get("sort"); s != "" {
		q.Sort = SortKey(s)
	}
	return q
}

// Filter runs the category, search, tag and level stages over list and
// sorts the survivors. The input slice is never modified.
func Filter(list []Project, q Query) []Project {
	category := q.Category
	if category == "" {
		category = CategoryRecent
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))
	level := q.Level
	if level == "" {
		level = LevelAll
	}

	out := make([]Project, 0, len(list))
	for _, p := range list {
		if !inCategory(p, category) ||
			!matchesSearch(p, search) ||
			!matchesTags(p, q.Tags) ||
			!matchesLevel(p, level) {
			continue
		}
		out = append(out, p)
	}

	sortProjects(out, q.Sort)
	return out
}

func inCategory(p Project, category string) bool {
	c := p.Category
	if c == "" {
		c = CategoryRecent
	}
	return c == category
}

// search is already lower-cased and trimmed.
func matchesSearch(p Project, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), search) ||
		strings.Contains(strings.ToLower(p.Description), search)
}

// matchesTags keeps a project sharing at least one selected tag.
func matchesTags(p Project, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, tag := range selected {
		if p.HasTag(tag) {
			return true
		}
	}
	return false
}

func matchesLevel(p Project, level string) bool {
	if level == LevelAll {
		return true
	}
	return strings.EqualFold(p.Level, level)
}

func sortProjects(list []Project, key SortKey) {
	switch key {
	case SortDateDesc:
		slices.SortStableFunc(list, func(a, b Project) int {
			return compareInt(dateValue(b), dateValue(a))
		})
	case SortDateAsc:
		slices.SortStableFunc(list, func(a, b Project) int {
			return compareInt(dateValue(a), dateValue(b))
		})
	case SortTitleAsc, SortTitleDesc:
		// a Collator keeps internal buffers; one per sort
		c := collate.New(language.English)
		slices.SortStableFunc(list, func(a, b Project) int {
			if key == SortTitleDesc {
				a, b = b, a
			}
			return c.CompareString(a.Title, b.Title)
		})
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// dateValue is the project's date in Unix milliseconds, 0 when missing or
// unparseable. created_date stands in for an empty date.
func dateValue(p Project) int64 {
	s := p.Date
	if s == "" {
		s = p.CreatedDate
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
