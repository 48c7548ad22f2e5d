package repository

import (
	"context"
	"errors"

	"lifetiles/internal/model"
)

// LibraryRepository persists the books/films collections.
type LibraryRepository struct {
	kv KV
}

func NewLibraryRepository(kv KV) *LibraryRepository {
	return &LibraryRepository{kv: kv}
}

// Load returns the stored library, or an empty one if nothing was saved yet.
func (r *LibraryRepository) Load(ctx context.Context) (model.Library, error) {
	var lib model.Library
	err := r.kv.Get(ctx, KeyBooksFilms, &lib)
	if errors.Is(err, ErrNotFound) {
		return model.Library{}, nil
	}
	if err != nil {
		return model.Library{}, err
	}
	return lib, nil
}

func (r *LibraryRepository) Save(ctx context.Context, lib model.Library) error {
	return r.kv.Set(ctx, KeyBooksFilms, lib)
}
