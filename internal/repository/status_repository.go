package repository

import (
	"context"
	"errors"

	"lifetiles/internal/model"
)

// StatusRepository persists the derived per-date status cache and the
// per-month challenge-day cache. Both are read optimizations: discarding them
// and recomputing from the to-do collection yields identical results.
type StatusRepository struct {
	kv KV
}

func NewStatusRepository(kv KV) *StatusRepository {
	return &StatusRepository{kv: kv}
}

// LoadStatuses returns the day-key to status map, empty when never written.
func (r *StatusRepository) LoadStatuses(ctx context.Context) (map[string]model.DateStatus, error) {
	statuses := make(map[string]model.DateStatus)
	err := r.kv.Get(ctx, KeyStatusByDate, &statuses)
	if errors.Is(err, ErrNotFound) {
		return statuses, nil
	}
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *StatusRepository) SaveStatuses(ctx context.Context, statuses map[string]model.DateStatus) error {
	return r.kv.Set(ctx, KeyStatusByDate, statuses)
}

// LoadChallengeDays returns the month-key ("YYYY-MM") to challenge day-key
// list map, empty when never written.
func (r *StatusRepository) LoadChallengeDays(ctx context.Context) (map[string][]string, error) {
	days := make(map[string][]string)
	err := r.kv.Get(ctx, KeyChallengeCache, &days)
	if errors.Is(err, ErrNotFound) {
		return days, nil
	}
	if err != nil {
		return nil, err
	}
	return days, nil
}

func (r *StatusRepository) SaveChallengeDays(ctx context.Context, days map[string][]string) error {
	return r.kv.Set(ctx, KeyChallengeCache, days)
}
