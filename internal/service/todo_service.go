package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"lifetiles/internal/model"
	"lifetiles/internal/repository"
	"lifetiles/internal/schedule"
)

// RecurringInput carries the fields needed to create a recurring item.
type RecurringInput struct {
	Name         string
	Frequency    model.Frequency
	Weekdays     []int
	MonthlyDates []int
	AnchorDate   *time.Time
}

// TodoService wraps to-do list business logic. Every recurring-item mutation
// saves the collection and re-derives the calendar window around today.
type TodoService struct {
	todoRepo  *repository.TodoRepository
	challenge *ChallengeService
	clock     schedule.Clock
	frame     schedule.Frame
}

func NewTodoService(todoRepo *repository.TodoRepository, challenge *ChallengeService, clock schedule.Clock, frame schedule.Frame) *TodoService {
	return &TodoService{todoRepo: todoRepo, challenge: challenge, clock: clock, frame: frame}
}

func (s *TodoService) List(ctx context.Context) (model.TodoCollection, error) {
	return s.todoRepo.Load(ctx)
}

// CreateSingle adds a one-off item.
func (s *TodoService) CreateSingle(ctx context.Context, name string) (*model.TodoItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	col, err := s.todoRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	item := model.TodoItem{
		ID:      uuid.NewString(),
		Name:    name,
		Created: now,
		Updated: now,
	}
	col.SingleItems = append(col.SingleItems, item)

	if err := s.todoRepo.Save(ctx, col); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateRecurring adds a recurring item and recomputes the calendar window.
func (s *TodoService) CreateRecurring(ctx context.Context, input RecurringInput) (*model.TodoItem, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	now := s.clock.Now()
	rule, err := buildRule(input, now)
	if err != nil {
		return nil, err
	}

	col, err := s.todoRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	item := model.TodoItem{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Created:   now,
		Updated:   now,
		Recurring: rule,
	}
	col.RecurringItems = append(col.RecurringItems, item)

	if err := s.todoRepo.Save(ctx, col); err != nil {
		return nil, err
	}
	s.recompute(ctx)
	return &item, nil
}

func buildRule(input RecurringInput, now time.Time) (*model.RecurrenceRule, error) {
	rule := &model.RecurrenceRule{
		Frequency:          input.Frequency,
		PerDateCompletions: make(map[string]model.Completion),
	}

	switch input.Frequency {
	case model.FrequencyWeekly:
		if len(input.Weekdays) == 0 {
			return nil, fmt.Errorf("weekly rule needs at least one weekday")
		}
		rule.Weekdays = validWeekdays(input.Weekdays)
	case model.FrequencyBiweekly:
		if len(input.Weekdays) == 0 {
			return nil, fmt.Errorf("biweekly rule needs at least one weekday")
		}
		rule.Weekdays = validWeekdays(input.Weekdays)
		anchor := now
		if input.AnchorDate != nil {
			anchor = *input.AnchorDate
		}
		rule.AnchorDate = &anchor
	case model.FrequencyMonthly:
		for _, d := range input.MonthlyDates {
			if d >= 1 && d <= 31 {
				rule.MonthlyDates = append(rule.MonthlyDates, d)
			}
		}
		if len(rule.MonthlyDates) == 0 {
			return nil, fmt.Errorf("monthly rule needs at least one day of month (1-31)")
		}
	default:
		return nil, fmt.Errorf("unknown frequency %q", input.Frequency)
	}
	return rule, nil
}

func validWeekdays(days []int) []int {
	var out []int
	for _, d := range days {
		if d >= 0 && d <= 6 {
			out = append(out, d)
		}
	}
	return out
}

// Rename changes an item's name in either list.
func (s *TodoService) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}

	col, err := s.todoRepo.Load(ctx)
	if err != nil {
		return err
	}
	item, _ := locate(&col, id)
	if item == nil {
		return fmt.Errorf("item %s not found", id)
	}
	item.Name = name
	item.Updated = s.clock.Now()
	return s.todoRepo.Save(ctx, col)
}

// SetCompleted toggles an item's completion. For recurring items the toggle
// also records (or clears) the per-date completion entry for the given day,
// so late completions of past due dates can still rescue them.
func (s *TodoService) SetCompleted(ctx context.Context, id string, date time.Time, completed bool) error {
	col, err := s.todoRepo.Load(ctx)
	if err != nil {
		return err
	}
	item, recurring := locate(&col, id)
	if item == nil {
		return fmt.Errorf("item %s not found", id)
	}

	now := s.clock.Now()
	item.Completed = completed
	item.Updated = now

	if recurring && item.Recurring != nil {
		if item.Recurring.PerDateCompletions == nil {
			item.Recurring.PerDateCompletions = make(map[string]model.Completion)
		}
		key := model.CompletionKey(s.frame.DayKey(date), item.ID)
		if completed {
			item.Recurring.PerDateCompletions[key] = model.Completion{Completed: true, Timestamp: now}
		} else {
			delete(item.Recurring.PerDateCompletions, key)
		}
	}

	if err := s.todoRepo.Save(ctx, col); err != nil {
		return err
	}
	if recurring {
		s.recompute(ctx)
	}
	return nil
}

// ToggleArchive flips a recurring item's archive flag, stamping or clearing
// the archive date. Archived rules stop generating due dates.
func (s *TodoService) ToggleArchive(ctx context.Context, id string) (bool, error) {
	col, err := s.todoRepo.Load(ctx)
	if err != nil {
		return false, err
	}
	item, recurring := locate(&col, id)
	if item == nil {
		return false, fmt.Errorf("item %s not found", id)
	}
	if !recurring || item.Recurring == nil {
		return false, fmt.Errorf("item %s is not recurring", id)
	}

	now := s.clock.Now()
	item.Recurring.Archived = !item.Recurring.Archived
	if item.Recurring.Archived {
		item.Recurring.ArchivedOn = &now
	} else {
		item.Recurring.ArchivedOn = nil
	}
	item.Updated = now

	if err := s.todoRepo.Save(ctx, col); err != nil {
		return false, err
	}
	s.recompute(ctx)
	return item.Recurring.Archived, nil
}

// Delete removes an item. Deleting a recurring item discards its completion
// history with it.
func (s *TodoService) Delete(ctx context.Context, id string) error {
	col, err := s.todoRepo.Load(ctx)
	if err != nil {
		return err
	}

	removedRecurring := false
	found := false
	for i, item := range col.SingleItems {
		if item.ID == id {
			col.SingleItems = append(col.SingleItems[:i], col.SingleItems[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		for i, item := range col.RecurringItems {
			if item.ID == id {
				col.RecurringItems = append(col.RecurringItems[:i], col.RecurringItems[i+1:]...)
				found = true
				removedRecurring = true
				break
			}
		}
	}
	if !found {
		return fmt.Errorf("item %s not found", id)
	}

	if err := s.todoRepo.Save(ctx, col); err != nil {
		return err
	}
	if removedRecurring {
		s.recompute(ctx)
	}
	return nil
}

// recompute refreshes the status window around today after a mutation. Cache
// refresh failures are logged, never surfaced to the mutating caller.
func (s *TodoService) recompute(ctx context.Context) {
	if err := s.challenge.RecomputeWindow(ctx, s.clock.Now()); err != nil {
		log.Printf("[warn] recompute statuses: %v", err)
	}
}

// locate returns a pointer into the collection for the item with id, and
// whether it lives in the recurring list.
func locate(col *model.TodoCollection, id string) (*model.TodoItem, bool) {
	for i := range col.SingleItems {
		if col.SingleItems[i].ID == id {
			return &col.SingleItems[i], false
		}
	}
	for i := range col.RecurringItems {
		if col.RecurringItems[i].ID == id {
			return &col.RecurringItems[i], true
		}
	}
	return nil, false
}
