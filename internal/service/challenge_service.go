package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"lifetiles/internal/model"
	"lifetiles/internal/repository"
	"lifetiles/internal/schedule"
)

// rescueWindowDays is the grace period after a due date during which late
// completion still counts as rescued rather than failed.
const rescueWindowDays = 3

// historyEpochYear is where the first-success scan starts (January 1st).
const historyEpochYear = 2020

const monthKeyLayout = "2006-01"

// ChallengeService derives per-date challenge statuses from recurring-item
// completion history. Status values are never authoritative: the cache it
// maintains can always be discarded and rebuilt with identical results.
type ChallengeService struct {
	todoRepo   *repository.TodoRepository
	statusRepo *repository.StatusRepository
	clock      schedule.Clock
	frame      schedule.Frame

	mu                sync.Mutex
	firstSuccess      *time.Time
	firstSuccessValid bool
}

func NewChallengeService(todoRepo *repository.TodoRepository, statusRepo *repository.StatusRepository, clock schedule.Clock, frame schedule.Frame) *ChallengeService {
	return &ChallengeService{
		todoRepo:   todoRepo,
		statusRepo: statusRepo,
		clock:      clock,
		frame:      frame,
	}
}

// RequiredItemsFor filters items to those due on date, preserving input order.
func (s *ChallengeService) RequiredItemsFor(date time.Time, items []model.TodoItem) []model.TodoItem {
	var required []model.TodoItem
	for _, item := range items {
		if s.frame.IsDue(item.Recurring, date) {
			required = append(required, item)
		}
	}
	return required
}

// IsChallengeDate reports whether at least one recurring item is due on date.
func (s *ChallengeService) IsChallengeDate(date time.Time, items []model.TodoItem) bool {
	for _, item := range items {
		if s.frame.IsDue(item.Recurring, date) {
			return true
		}
	}
	return false
}

// ComputeDateStatus classifies a single calendar date from the items' rules
// and completion history. It depends only on its arguments and the clock.
func (s *ChallengeService) ComputeDateStatus(date time.Time, items []model.TodoItem) model.DateStatus {
	return s.computeStatus(date, items, true)
}

// computeStatus is ComputeDateStatus with the first-success gate optional, so
// the first-success scan itself does not recurse into it.
func (s *ChallengeService) computeStatus(date time.Time, items []model.TodoItem, gated bool) model.DateStatus {
	now := s.clock.Now()
	dateKey := s.frame.DayKey(date)
	todayKey := s.frame.DayKey(now)

	// Future dates always show no challenge.
	if dateKey > todayKey {
		return model.StatusNoChallenge
	}

	required := s.RequiredItemsFor(date, items)
	if len(required) == 0 {
		return model.StatusNoChallenge
	}

	// Dates before the first-ever success are not held against the user.
	if gated {
		if first := s.FirstSuccessDate(items); first != nil && dateKey < s.frame.DayKey(*first) {
			return model.StatusNoChallenge
		}
	}

	completed := 0
	onDate := true
	for _, item := range required {
		c, ok := item.Recurring.CompletionFor(dateKey, item.ID)
		if !ok || !c.Completed {
			continue
		}
		completed++
		if s.frame.DayKey(c.Timestamp) != dateKey {
			onDate = false
		}
	}

	if completed == len(required) {
		if onDate {
			return model.StatusSuccess
		}
		return model.StatusRescued
	}

	if s.frame.DaysBetween(date, now) <= rescueWindowDays {
		return model.StatusPending
	}

	for _, item := range required {
		if c, ok := item.Recurring.CompletionFor(dateKey, item.ID); !ok || !c.Completed {
			return model.StatusFailed
		}
	}
	// Full completion is handled above, so reaching this point means the
	// completion records are inconsistent.
	log.Printf("[warn] inconsistent completion records for %s", dateKey)
	return model.StatusRescued
}

// FirstSuccessDate returns the earliest challenge date whose ungated status is
// success, scanning from the 2020-01-01 epoch through today inclusive. The
// scan is O(days since epoch), so the result is memoized until Invalidate.
func (s *ChallengeService) FirstSuccessDate(items []model.TodoItem) *time.Time {
	s.mu.Lock()
	if s.firstSuccessValid {
		first := s.firstSuccess
		s.mu.Unlock()
		return first
	}
	s.mu.Unlock()

	first := s.scanFirstSuccess(items)

	s.mu.Lock()
	s.firstSuccess = first
	s.firstSuccessValid = true
	s.mu.Unlock()
	return first
}

func (s *ChallengeService) scanFirstSuccess(items []model.TodoItem) *time.Time {
	if len(items) == 0 {
		return nil
	}
	today := s.frame.StartOfDay(s.clock.Now())
	for d := s.frame.Date(historyEpochYear, time.January, 1); !d.After(today); d = d.AddDate(0, 0, 1) {
		if !s.IsChallengeDate(d, items) {
			continue
		}
		if s.computeStatus(d, items, false) == model.StatusSuccess {
			first := d
			return &first
		}
	}
	return nil
}

// Invalidate drops the memoized first-success date. Called on every
// recurring-item mutation and on day rollover, together with the recompute.
func (s *ChallengeService) Invalidate() {
	s.mu.Lock()
	s.firstSuccess = nil
	s.firstSuccessValid = false
	s.mu.Unlock()
}

// RecomputeWindow re-derives statuses for the month containing center plus one
// month either side, merging them into the status cache, and refreshes the
// per-month challenge-day cache for the same window.
func (s *ChallengeService) RecomputeWindow(ctx context.Context, center time.Time) error {
	col, err := s.todoRepo.Load(ctx)
	if err != nil {
		return err
	}
	items := col.RecurringItems

	s.Invalidate()

	statuses, err := s.statusRepo.LoadStatuses(ctx)
	if err != nil {
		log.Printf("[warn] load status cache: %v", err)
		statuses = make(map[string]model.DateStatus)
	}
	challengeDays, err := s.statusRepo.LoadChallengeDays(ctx)
	if err != nil {
		log.Printf("[warn] load challenge-day cache: %v", err)
		challengeDays = make(map[string][]string)
	}

	base := s.frame.StartOfDay(center)
	for offset := -1; offset <= 1; offset++ {
		first := s.frame.Date(base.Year(), base.Month()+time.Month(offset), 1)
		days := []string{}
		for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
			key := s.frame.DayKey(d)
			statuses[key] = s.computeStatus(d, items, true)
			if s.IsChallengeDate(d, items) {
				days = append(days, key)
			}
		}
		challengeDays[first.Format(monthKeyLayout)] = days
	}

	// A failed cache write leaves the calendar stale until the next recompute;
	// it must not fail the mutation that triggered it.
	if err := s.statusRepo.SaveStatuses(ctx, statuses); err != nil {
		log.Printf("[warn] save status cache: %v", err)
	}
	if err := s.statusRepo.SaveChallengeDays(ctx, challengeDays); err != nil {
		log.Printf("[warn] save challenge-day cache: %v", err)
	}
	return nil
}

// StatusFor returns the status of a single date, serving from the cache when
// possible and falling back to direct computation on a miss.
func (s *ChallengeService) StatusFor(ctx context.Context, date time.Time) (model.DateStatus, error) {
	statuses, err := s.statusRepo.LoadStatuses(ctx)
	if err != nil {
		log.Printf("[warn] load status cache: %v", err)
	} else if status, ok := statuses[s.frame.DayKey(date)]; ok {
		return status, nil
	}

	col, err := s.todoRepo.Load(ctx)
	if err != nil {
		return model.StatusNoChallenge, err
	}
	return s.ComputeDateStatus(date, col.RecurringItems), nil
}

// ChallengeDaysForMonth returns the challenge day keys of one month, serving
// from the per-month cache when possible.
func (s *ChallengeService) ChallengeDaysForMonth(ctx context.Context, year int, month time.Month) ([]string, error) {
	first := s.frame.Date(year, month, 1)
	monthKey := first.Format(monthKeyLayout)

	cache, err := s.statusRepo.LoadChallengeDays(ctx)
	if err != nil {
		log.Printf("[warn] load challenge-day cache: %v", err)
		cache = make(map[string][]string)
	} else if days, ok := cache[monthKey]; ok {
		return days, nil
	}

	col, err := s.todoRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	days := []string{}
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		if s.IsChallengeDate(d, col.RecurringItems) {
			days = append(days, s.frame.DayKey(d))
		}
	}
	cache[monthKey] = days
	if err := s.statusRepo.SaveChallengeDays(ctx, cache); err != nil {
		log.Printf("[warn] save challenge-day cache: %v", err)
	}
	return days, nil
}

// MonthStatuses recomputes the window around the given month and returns its
// day-key to status mapping, for calendar rendering.
func (s *ChallengeService) MonthStatuses(ctx context.Context, year int, month time.Month) (map[string]model.DateStatus, error) {
	if err := s.RecomputeWindow(ctx, s.frame.Date(year, month, 1)); err != nil {
		return nil, err
	}
	statuses, err := s.statusRepo.LoadStatuses(ctx)
	if err != nil {
		return nil, err
	}
	prefix := s.frame.Date(year, month, 1).Format(monthKeyLayout) + "-"
	out := make(map[string]model.DateStatus)
	for key, status := range statuses {
		if strings.HasPrefix(key, prefix) {
			out[key] = status
		}
	}
	return out, nil
}
