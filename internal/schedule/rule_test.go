package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lifetiles/internal/model"
)

var testFrame = NewFrame(DefaultOffsetMinutes)

func TestIsDueWeekly(t *testing.T) {
	rule := &model.RecurrenceRule{
		Frequency: model.FrequencyWeekly,
		Weekdays:  []int{1}, // Monday
	}

	// Eight consecutive weeks crossing the March/April and April/May
	// boundaries.
	var due []string
	start := testFrame.Date(2024, time.March, 25) // a Monday
	for d := start; d.Before(start.AddDate(0, 0, 56)); d = d.AddDate(0, 0, 1) {
		if testFrame.IsDue(rule, d) {
			due = append(due, testFrame.DayKey(d))
		}
	}

	assert.Equal(t, []string{
		"2024-03-25", "2024-04-01", "2024-04-08", "2024-04-15",
		"2024-04-22", "2024-04-29", "2024-05-06", "2024-05-13",
	}, due)
}

func TestIsDueBiweeklyParity(t *testing.T) {
	anchor := testFrame.Date(2024, time.January, 1) // a Monday
	rule := &model.RecurrenceRule{
		Frequency:  model.FrequencyBiweekly,
		Weekdays:   []int{1},
		AnchorDate: &anchor,
	}

	assert.True(t, testFrame.IsDue(rule, testFrame.Date(2024, time.January, 1)), "anchor Monday")
	assert.False(t, testFrame.IsDue(rule, testFrame.Date(2024, time.January, 8)), "off week")
	assert.True(t, testFrame.IsDue(rule, testFrame.Date(2024, time.January, 15)), "two weeks later")
	assert.False(t, testFrame.IsDue(rule, testFrame.Date(2024, time.January, 7)), "Sunday of anchor week")

	// Dates before the anchor must floor toward negative infinity: the
	// Monday one week before the anchor sits in an odd relative week.
	assert.False(t, testFrame.IsDue(rule, testFrame.Date(2023, time.December, 25)))
	assert.True(t, testFrame.IsDue(rule, testFrame.Date(2023, time.December, 18)))
}

func TestIsDueBiweeklyMidWeekAnchor(t *testing.T) {
	// An anchor recorded mid-day still defines whole-day week parity.
	anchor := time.Date(2024, 1, 1, 14, 30, 0, 0, testFrame.Location())
	rule := &model.RecurrenceRule{
		Frequency:  model.FrequencyBiweekly,
		Weekdays:   []int{1},
		AnchorDate: &anchor,
	}

	assert.True(t, testFrame.IsDue(rule, testFrame.Date(2024, time.January, 1)))
	assert.False(t, testFrame.IsDue(rule, testFrame.Date(2024, time.January, 8)))
}

func TestIsDueMonthly(t *testing.T) {
	rule := &model.RecurrenceRule{
		Frequency:    model.FrequencyMonthly,
		MonthlyDates: []int{31},
	}

	// June has 30 days: day 31 simply never matches, no clamping.
	for d := testFrame.Date(2024, time.June, 1); d.Month() == time.June; d = d.AddDate(0, 0, 1) {
		assert.False(t, testFrame.IsDue(rule, d), "no due date in June for day 31")
	}
	assert.True(t, testFrame.IsDue(rule, testFrame.Date(2024, time.May, 31)))
	assert.True(t, testFrame.IsDue(rule, testFrame.Date(2024, time.July, 31)))
}

func TestIsDueArchiveGate(t *testing.T) {
	archivedOn := time.Date(2024, 6, 10, 15, 4, 0, 0, testFrame.Location())
	rule := &model.RecurrenceRule{
		Frequency:  model.FrequencyWeekly,
		Weekdays:   []int{0, 1, 2, 3, 4, 5, 6},
		Archived:   true,
		ArchivedOn: &archivedOn,
	}

	assert.True(t, testFrame.IsDue(rule, testFrame.Date(2024, time.June, 9)), "day before archive")
	assert.False(t, testFrame.IsDue(rule, testFrame.Date(2024, time.June, 10)), "archive day")
	assert.False(t, testFrame.IsDue(rule, testFrame.Date(2024, time.June, 11)), "after archive")
}

func TestIsDueMalformedRules(t *testing.T) {
	date := testFrame.Date(2024, time.June, 10)

	tests := []struct {
		name string
		rule *model.RecurrenceRule
	}{
		{"nil rule", nil},
		{"unknown frequency", &model.RecurrenceRule{Frequency: "yearly", Weekdays: []int{1}}},
		{"weekly without weekdays", &model.RecurrenceRule{Frequency: model.FrequencyWeekly}},
		{"biweekly without anchor", &model.RecurrenceRule{Frequency: model.FrequencyBiweekly, Weekdays: []int{1}}},
		{"biweekly without weekdays", &model.RecurrenceRule{Frequency: model.FrequencyBiweekly}},
		{"monthly without dates", &model.RecurrenceRule{Frequency: model.FrequencyMonthly}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, testFrame.IsDue(tt.rule, date))
		})
	}
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, int64(0), floorDiv(6, 7))
	assert.Equal(t, int64(1), floorDiv(7, 7))
	assert.Equal(t, int64(-1), floorDiv(-1, 7))
	assert.Equal(t, int64(-1), floorDiv(-7, 7))
	assert.Equal(t, int64(-2), floorDiv(-8, 7))
}
