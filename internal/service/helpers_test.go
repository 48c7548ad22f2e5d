package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lifetiles/internal/model"
	"lifetiles/internal/repository"
	"lifetiles/internal/schedule"
)

// fakeClock pins "now" so tests can simulate day rollovers.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// memKV is an in-memory stand-in for the gorm-backed store.
type memKV struct {
	data map[string]json.RawMessage
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]json.RawMessage)}
}

func (m *memKV) Get(_ context.Context, key string, out any) error {
	raw, ok := m.data[key]
	if !ok {
		return repository.ErrNotFound
	}
	return json.Unmarshal(raw, out)
}

func (m *memKV) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

type harness struct {
	clock      *fakeClock
	frame      schedule.Frame
	kv         *memKV
	todoRepo   *repository.TodoRepository
	statusRepo *repository.StatusRepository
	challenge  *ChallengeService
	todoSvc    *TodoService
}

func newHarness(now time.Time) *harness {
	kv := newMemKV()
	frame := schedule.NewFrame(schedule.DefaultOffsetMinutes)
	clock := &fakeClock{now: now}
	todoRepo := repository.NewTodoRepository(kv)
	statusRepo := repository.NewStatusRepository(kv)
	challenge := NewChallengeService(todoRepo, statusRepo, clock, frame)
	return &harness{
		clock:      clock,
		frame:      frame,
		kv:         kv,
		todoRepo:   todoRepo,
		statusRepo: statusRepo,
		challenge:  challenge,
		todoSvc:    NewTodoService(todoRepo, challenge, clock, frame),
	}
}

func (h *harness) seed(t *testing.T, col model.TodoCollection) {
	t.Helper()
	require.NoError(t, h.todoRepo.Save(context.Background(), col))
}

// setNow moves the clock and drops the first-success memo, as the midnight
// rollover would.
func (h *harness) setNow(now time.Time) {
	h.clock.now = now
	h.challenge.Invalidate()
}

// dailyItem builds a recurring item due every day of the week.
func dailyItem(id, name string) model.TodoItem {
	return model.TodoItem{
		ID:   id,
		Name: name,
		Recurring: &model.RecurrenceRule{
			Frequency:          model.FrequencyWeekly,
			Weekdays:           []int{0, 1, 2, 3, 4, 5, 6},
			PerDateCompletions: make(map[string]model.Completion),
		},
	}
}

// markDone records a completion for the frame day of due, stamped at.
func markDone(item *model.TodoItem, frame schedule.Frame, due, at time.Time) {
	key := model.CompletionKey(frame.DayKey(due), item.ID)
	item.Recurring.PerDateCompletions[key] = model.Completion{Completed: true, Timestamp: at}
}
