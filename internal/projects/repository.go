package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/Clawzd/portfolio/internal/storage"
)

var ErrNotFound = errors.New("project not found")

// Repository serves the seed list until a visitor saves their own, which
// then replaces it wholesale.
type Repository struct {
	store storage.Store
}

func NewRepository(store storage.Store) *Repository {
	return &Repository{store: store}
}

// List returns the stored list, or the seed when nothing usable is stored.
func (r *Repository) List(ctx context.Context) []Project {
	raw, ok := storage.Lookup(ctx, r.store, storage.KeyProjects)
	return decodeList(raw, ok)
}

func decodeList(raw string, found bool) []Project {
	if !found {
		return Seed()
	}
	var list []Project
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		log.Printf("[projects] stored list unreadable, using seed: %v", err)
		return Seed()
	}
	if list == nil {
		return Seed()
	}
	return list
}

// Save overwrites the stored list.
func (r *Repository) Save(ctx context.Context, list []Project) error {
	data, err := marshalList(list)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, storage.KeyProjects, data)
}

func marshalList(list []Project) (string, error) {
	if list == nil {
		list = []Project{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to marshal projects: %w", err)
	}
	return string(data), nil
}

// Add appends p under the next free id. Concurrent adds get distinct ids.
func (r *Repository) Add(ctx context.Context, p Project) (Project, error) {
	if err := p.Validate(); err != nil {
		return Project{}, err
	}
	err := r.modify(ctx, func(list []Project) ([]Project, error) {
		p.ID = nextID(list)
		return append(list, p), nil
	})
	if err != nil {
		return Project{}, err
	}
	return p, nil
}

// Update replaces the project with the given id.
func (r *Repository) Update(ctx context.Context, id int, p Project) (Project, error) {
	if err := p.Validate(); err != nil {
		return Project{}, err
	}
	p.ID = id
	err := r.modify(ctx, func(list []Project) ([]Project, error) {
		for i := range list {
			if list[i].ID == id {
				list[i] = p
				return list, nil
			}
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return Project{}, err
	}
	return p, nil
}

// modify rewrites the stored list under the store's per-key lock.
func (r *Repository) modify(ctx context.Context, fn func([]Project) ([]Project, error)) error {
	return storage.Update(ctx, r.store, storage.KeyProjects, func(raw string, found bool) (string, error) {
		list, err := fn(decodeList(raw, found))
		if err != nil {
			return "", err
		}
		return marshalList(list)
	})
}

// Get finds a project by id.
func (r *Repository) Get(ctx context.Context, id int) (Project, error) {
	for _, p := range r.List(ctx) {
		if p.ID == id {
			return p, nil
		}
	}
	return Project{}, ErrNotFound
}

func nextID(list []Project) int {
	highest := 0
	for _, p := range list {
		if p.ID > highest {
			highest = p.ID
		}
	}
	return highest + 1
}
