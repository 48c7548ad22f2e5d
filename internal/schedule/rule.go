package schedule

import (
	"time"

	"lifetiles/internal/model"
)

const week = 7 * 24 * time.Hour

// IsDue reports whether the rule schedules the given calendar date.
// Malformed rules (missing weekday set, monthly dates or biweekly anchor) and
// unknown frequencies are never due.
func (f Frame) IsDue(rule *model.RecurrenceRule, date time.Time) bool {
	if rule == nil {
		return false
	}

	// Archived rules stop generating due dates from the archive day onward.
	if rule.Archived && rule.ArchivedOn != nil {
		if !f.StartOfDay(date).Before(f.StartOfDay(*rule.ArchivedOn)) {
			return false
		}
	}

	switch rule.Frequency {
	case model.FrequencyWeekly:
		return containsInt(rule.Weekdays, f.Weekday(date))
	case model.FrequencyBiweekly:
		if len(rule.Weekdays) == 0 || rule.AnchorDate == nil {
			return false
		}
		diff := f.StartOfDay(date).Sub(f.StartOfDay(*rule.AnchorDate))
		weeks := floorDiv(int64(diff), int64(week))
		return weeks%2 == 0 && containsInt(rule.Weekdays, f.Weekday(date))
	case model.FrequencyMonthly:
		return containsInt(rule.MonthlyDates, f.DayOfMonth(date))
	default:
		return false
	}
}

// floorDiv divides flooring toward negative infinity, so dates before a
// biweekly anchor land in the correct relative week.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func containsInt(set []int, v int) bool {
	for _, n := range set {
		if n == v {
			return true
		}
	}
	return false
}
