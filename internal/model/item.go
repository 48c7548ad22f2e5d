package model

import "time"

// Frequency selects how a recurrence rule generates due dates.
type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// Completion records one per-date completion of a recurring item.
type Completion struct {
	Completed bool      `json:"completed"`
	Timestamp time.Time `json:"timestamp"`
}

// RecurrenceRule describes when a recurring item is due.
// Weekdays applies to weekly/biweekly, MonthlyDates to monthly; AnchorDate is
// the week-parity origin required by biweekly rules.
type RecurrenceRule struct {
	Frequency          Frequency             `json:"frequency"`
	Weekdays           []int                 `json:"weekdays,omitempty"` // 0=Sunday .. 6=Saturday
	MonthlyDates       []int                 `json:"monthlyDates,omitempty"`
	AnchorDate         *time.Time            `json:"anchorDate,omitempty"`
	Archived           bool                  `json:"archived"`
	ArchivedOn         *time.Time            `json:"archivedOn,omitempty"`
	PerDateCompletions map[string]Completion `json:"perDateCompletions,omitempty"`
}

// CompletionKey builds the composite key for one item's completion on one day.
func CompletionKey(dayKey, itemID string) string {
	return dayKey + "_" + itemID
}

// CompletionFor looks up the completion record for the given day and item.
func (r *RecurrenceRule) CompletionFor(dayKey, itemID string) (Completion, bool) {
	if r == nil || r.PerDateCompletions == nil {
		return Completion{}, false
	}
	c, ok := r.PerDateCompletions[CompletionKey(dayKey, itemID)]
	return c, ok
}

// TodoItem is a single entry in the to-do list. Recurring is nil for one-off
// items. Completed reflects only the ad-hoc toggle for "today"; the historical
// record lives in the rule's PerDateCompletions.
type TodoItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Completed bool            `json:"completed"`
	Created   time.Time       `json:"created"`
	Updated   time.Time       `json:"updated"`
	Recurring *RecurrenceRule `json:"recurring,omitempty"`
}

// TodoCollection is the persisted to-do list document.
type TodoCollection struct {
	SingleItems    []TodoItem `json:"singleItems"`
	RecurringItems []TodoItem `json:"recurringItems"`
}
