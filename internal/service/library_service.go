package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"lifetiles/internal/model"
	"lifetiles/internal/repository"
	"lifetiles/internal/schedule"
)

// ListType selects one of the two library collections.
type ListType string

const (
	ListBooks ListType = "books"
	ListFilms ListType = "films"
)

// LibraryService wraps books/films CRUD. Pure collection management, no
// derived state.
type LibraryService struct {
	repo  *repository.LibraryRepository
	clock schedule.Clock
}

func NewLibraryService(repo *repository.LibraryRepository, clock schedule.Clock) *LibraryService {
	return &LibraryService{repo: repo, clock: clock}
}

// List returns one collection sorted for display: uncompleted entries first,
// then case-insensitive name order within each group.
func (s *LibraryService) List(ctx context.Context, list ListType) ([]model.CollectionItem, error) {
	lib, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	items, err := pick(&lib, list)
	if err != nil {
		return nil, err
	}

	sorted := make([]model.CollectionItem, len(*items))
	copy(sorted, *items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Completed != sorted[j].Completed {
			return !sorted[i].Completed
		}
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})
	return sorted, nil
}

// Add appends a new entry to the given collection.
func (s *LibraryService) Add(ctx context.Context, list ListType, name string) (*model.CollectionItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	lib, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	items, err := pick(&lib, list)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	item := model.CollectionItem{
		ID:      uuid.NewString(),
		Name:    name,
		Created: now,
		Updated: now,
	}
	*items = append(*items, item)

	if err := s.repo.Save(ctx, lib); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update changes an entry's name and/or notes. Empty name keeps the old one.
func (s *LibraryService) Update(ctx context.Context, list ListType, id, name, notes string) error {
	return s.mutate(ctx, list, id, func(item *model.CollectionItem) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			item.Name = trimmed
		}
		item.Notes = notes
	})
}

// SetCompleted toggles an entry's completion flag.
func (s *LibraryService) SetCompleted(ctx context.Context, list ListType, id string, completed bool) error {
	return s.mutate(ctx, list, id, func(item *model.CollectionItem) {
		item.Completed = completed
	})
}

// Delete removes an entry from the given collection.
func (s *LibraryService) Delete(ctx context.Context, list ListType, id string) error {
	lib, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	items, err := pick(&lib, list)
	if err != nil {
		return err
	}
	for i := range *items {
		if (*items)[i].ID == id {
			*items = append((*items)[:i], (*items)[i+1:]...)
			return s.repo.Save(ctx, lib)
		}
	}
	return fmt.Errorf("%s entry %s not found", list, id)
}

func (s *LibraryService) mutate(ctx context.Context, list ListType, id string, apply func(*model.CollectionItem)) error {
	lib, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	items, err := pick(&lib, list)
	if err != nil {
		return err
	}
	for i := range *items {
		if (*items)[i].ID == id {
			apply(&(*items)[i])
			(*items)[i].Updated = s.clock.Now()
			return s.repo.Save(ctx, lib)
		}
	}
	return fmt.Errorf("%s entry %s not found", list, id)
}

func pick(lib *model.Library, list ListType) (*[]model.CollectionItem, error) {
	switch list {
	case ListBooks:
		return &lib.Books, nil
	case ListFilms:
		return &lib.Films, nil
	default:
		return nil, fmt.Errorf("unknown collection %q", list)
	}
}
