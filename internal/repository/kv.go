package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Storage keys for the persisted documents.
const (
	KeyTodoList       = "lifetiles_todo_list"
	KeyStatusByDate   = "lifetiles_daily_status_by_date"
	KeyChallengeCache = "lifetiles_calendar_hasChallenge_cache"
	KeyBooksFilms     = "lifetiles_books_films"
)

// ErrNotFound reports a key with no stored value.
var ErrNotFound = errors.New("key not found")

// KV is the synchronous JSON key-value contract everything persists through.
type KV interface {
	Get(ctx context.Context, key string, out any) error
	Set(ctx context.Context, key string, value any) error
}

type kvEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte
	UpdatedAt time.Time
}

func (kvEntry) TableName() string { return "kv_entries" }

// KVStore implements KV on a gorm-managed SQLite table.
type KVStore struct {
	db *gorm.DB
}

func NewKVStore(db *gorm.DB) *KVStore {
	return &KVStore{db: db}
}

// Get unmarshals the stored JSON for key into out. Returns ErrNotFound when
// the key has never been written.
func (s *KVStore) Get(ctx context.Context, key string, out any) error {
	var entry kvEntry
	if err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(entry.Value, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// Set marshals value as JSON and upserts it under key.
func (s *KVStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	entry := kvEntry{Key: key, Value: raw}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&entry).Error; err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
