package projects

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Clawzd/portfolio/internal/storage"
)

func titles(list []Project) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.Title
	}
	return out
}

func TestFilterRecentDateAsc(t *testing.T) {
	q := DefaultQuery()
	q.Sort = SortDateAsc

	got := Filter(Seed(), q)
	assert.Equal(t, []string{"Flying Stars", "Treasure Quest"}, titles(got))
}

func TestFilterCategorySubset(t *testing.T) {
	seed := Seed()
	for _, category := range []string{CategoryRecent, CategoryUpcoming, "archived"} {
		q := DefaultQuery()
		q.Category = category
		for _, p := range Filter(seed, q) {
			assert.Equal(t, category, p.Category)
			assert.Contains(t, seed, p)
		}
	}
}

func TestFilterEmptyCategoryCountsAsRecent(t *testing.T) {
	list := []Project{{ID: 9, Title: "Untitled"}}
	got := Filter(list, Query{})
	require.Len(t, got, 1)

	q := DefaultQuery()
	q.Category = CategoryUpcoming
	assert.Empty(t, Filter(list, q))
}

func TestFilterSearch(t *testing.T) {
	q := Query{Category: CategoryUpcoming, Level: LevelAll, Search: "  LEADERBOARDS "}
	assert.Equal(t, []string{"Football SQL"}, titles(Filter(Seed(), q)))

	q.Search = "kfupm"
	assert.Equal(t, []string{"KFUPM Restaurant System"}, titles(Filter(Seed(), q)))

	q.Search = ""
	assert.Len(t, Filter(Seed(), q), 2)
}

func TestFilterTagsAreOr(t *testing.T) {
	q := Query{Category: CategoryUpcoming, Level: LevelAll, Tags: []string{"Mobile"}}
	before := Filter(Seed(), q)
	assert.Equal(t, []string{"Football SQL"}, titles(before))

	q.Tags = append(q.Tags, "Web")
	after := Filter(Seed(), q)
	for _, p := range before {
		assert.Contains(t, after, p, "adding a tag never drops an earlier match")
	}
	assert.Len(t, after, 2)

	q.Tags = []string{"Blockchain"}
	assert.Empty(t, Filter(Seed(), q))
}

func TestFilterLevelCaseInsensitive(t *testing.T) {
	q := Query{Category: CategoryRecent, Level: "intermediate"}
	assert.Equal(t, []string{"Treasure Quest"}, titles(Filter(Seed(), q)))

	q.Level = LevelAll
	assert.Len(t, Filter(Seed(), q), 2)
}

func TestFilterSortKeys(t *testing.T) {
	list := []Project{
		{ID: 1, Title: "banana", Date: "2024-05-01"},
		{ID: 2, Title: "Apple", CreatedDate: "2024-01-01"},
		{ID: 3, Title: "cherry", Date: "not a date"},
		{ID: 4, Title: "apple", Date: "2024-09-01T10:00:00Z"},
	}

	t.Run("date-desc non-increasing", func(t *testing.T) {
		got := Filter(list, Query{Sort: SortDateDesc})
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, dateValue(got[i-1]), dateValue(got[i]))
		}
		assert.Equal(t, "cherry", got[len(got)-1].Title, "unparseable date sorts as epoch 0")
	})

	t.Run("date-asc uses created_date fallback", func(t *testing.T) {
		got := Filter(list, Query{Sort: SortDateAsc})
		assert.Equal(t, []string{"cherry", "Apple", "banana", "apple"}, titles(got))
	})

	t.Run("title-asc non-decreasing under collation", func(t *testing.T) {
		c := collate.New(language.English)
		got := Filter(list, Query{Sort: SortTitleAsc})
		for i := 1; i < len(got); i++ {
			assert.LessOrEqual(t, c.CompareString(got[i-1].Title, got[i].Title), 0)
		}
		assert.Equal(t, "cherry", got[len(got)-1].Title)
	})

	t.Run("title-desc reverses", func(t *testing.T) {
		got := Filter(list, Query{Sort: SortTitleDesc})
		assert.Equal(t, "cherry", got[0].Title)
	})

	t.Run("unknown key keeps order", func(t *testing.T) {
		got := Filter(list, Query{Sort: "popularity"})
		assert.Equal(t, titles(list), titles(got))
	})
}

func TestFilterIsPure(t *testing.T) {
	seed := Seed()
	q := Query{Category: CategoryUpcoming, Level: LevelAll, Sort: SortTitleDesc}
	first := Filter(seed, q)
	second := Filter(seed, q)
	assert.Equal(t, first, second)
	assert.Equal(t, Seed(), seed, "input untouched")
}

func TestParseQuery(t *testing.T) {
	v := url.Values{
		"category": {"upcoming"},
		"q":        {"sql"},
		"tag":      {"Web", "Mobile", "Web", " "},
		"level":    {"advanced"},
		"sort":     {"title-asc"},
	}
	q := ParseQuery(v)
	assert.Equal(t, CategoryUpcoming, q.Category)
	assert.Equal(t, "sql", q.Search)
	assert.Equal(t, []string{"Web", "Mobile"}, q.Tags)
	assert.Equal(t, "advanced", q.Level)
	assert.Equal(t, SortTitleAsc, q.Sort)

	assert.Equal(t, DefaultQuery(), ParseQuery(url.Values{}))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "7", Key(Project{ID: 7, Title: "x"}, 3))
	assert.Equal(t, "x3", Key(Project{Title: "x"}, 3))
}

func TestRepositoryFallsBackToSeed(t *testing.T) {
	ctx := context.Background()

	cases := map[string]string{
		"corrupt json": "{not json",
		"null":         "null",
		"object":       `{"id":1}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			store := storage.NewMemory()
			require.NoError(t, store.Set(ctx, storage.KeyProjects, raw))
			list := NewRepository(store).List(ctx)
			assert.Len(t, list, 4)
			assert.Equal(t, Seed(), list)
		})
	}

	t.Run("absent", func(t *testing.T) {
		assert.Equal(t, Seed(), NewRepository(storage.NewMemory()).List(ctx))
	})

	t.Run("stored empty list is honoured", func(t *testing.T) {
		store := storage.NewMemory()
		require.NoError(t, store.Set(ctx, storage.KeyProjects, "[]"))
		assert.Empty(t, NewRepository(store).List(ctx))
	})
}

func TestRepositoryAddUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(storage.NewMemory())

	added, err := repo.Add(ctx, Project{
		Title:    "Chain Ledger",
		Date:     "2025-01-05",
		Tags:     []string{"Blockchain"},
		Category: CategoryRecent,
		Level:    LevelAdvanced,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, added.ID)
	assert.Len(t, repo.List(ctx), 5)

	edited := added
	edited.Title = "Chain Ledger v2"
	_, err = repo.Update(ctx, added.ID, edited)
	require.NoError(t, err)

	got, err := repo.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chain Ledger v2", got.Title)

	_, err = repo.Update(ctx, 99, edited)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Add(ctx, Project{Title: "Bad", Category: CategoryRecent, Tags: []string{"Quantum"}})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = repo.Add(ctx, Project{Title: "", Category: CategoryRecent})
	assert.ErrorIs(t, err, ErrInvalid)
}

type slowStore struct{ storage.Store }

func (s slowStore) Get(ctx context.Context, key string) (string, error) {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Get(ctx, key)
}

func TestRepositoryConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(storage.Namespace(slowStore{storage.NewMemory()}, storage.VisitorPrefix("v1")))
	const adds = 10

	ids := make([]int, adds)
	var wg sync.WaitGroup
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := repo.Add(ctx, Project{Title: "Parallel", Date: "2025-02-01", Category: CategoryRecent, Level: LevelBeginner})
			assert.NoError(t, err)
			ids[i] = p.ID
		}(i)
	}
	wg.Wait()

	assert.ElementsMatch(t, []int{5, 6, 7, 8, 9, 10, 11, 12, 13, 14}, ids)
	assert.Len(t, repo.List(ctx), len(Seed())+adds)
}
