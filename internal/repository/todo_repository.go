package repository

import (
	"context"
	"errors"

	"lifetiles/internal/model"
)

// TodoRepository persists the to-do collection document.
type TodoRepository struct {
	kv KV
}

func NewTodoRepository(kv KV) *TodoRepository {
	return &TodoRepository{kv: kv}
}

// Load returns the stored collection, or an empty one if nothing was saved yet.
func (r *TodoRepository) Load(ctx context.Context) (model.TodoCollection, error) {
	var col model.TodoCollection
	err := r.kv.Get(ctx, KeyTodoList, &col)
	if errors.Is(err, ErrNotFound) {
		return model.TodoCollection{}, nil
	}
	if err != nil {
		return model.TodoCollection{}, err
	}
	return col, nil
}

func (r *TodoRepository) Save(ctx context.Context, col model.TodoCollection) error {
	return r.kv.Set(ctx, KeyTodoList, col)
}
