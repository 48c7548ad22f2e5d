package schedule

import (
	"fmt"
	"time"
)

// DefaultOffsetMinutes is the fixed UTC+8 evaluation offset.
const DefaultOffsetMinutes = 480

const dayKeyLayout = "2006-01-02"

// Frame fixes the timezone offset used for all day-boundary arithmetic, so
// "day" means the same thing regardless of the caller's locale.
type Frame struct {
	loc *time.Location
}

// NewFrame builds an evaluation frame at the given offset east of UTC.
func NewFrame(offsetMinutes int) Frame {
	mins := offsetMinutes % 60
	if mins < 0 {
		mins = -mins
	}
	name := fmt.Sprintf("UTC%+d:%02d", offsetMinutes/60, mins)
	return Frame{loc: time.FixedZone(name, offsetMinutes*60)}
}

// Location returns the frame's fixed zone.
func (f Frame) Location() *time.Location {
	return f.loc
}

// DayKey formats t as YYYY-MM-DD in the frame.
func (f Frame) DayKey(t time.Time) string {
	return t.In(f.loc).Format(dayKeyLayout)
}

// Weekday returns the frame weekday of t, Sunday=0.
func (f Frame) Weekday(t time.Time) int {
	return int(t.In(f.loc).Weekday())
}

// DayOfMonth returns the frame day-of-month of t.
func (f Frame) DayOfMonth(t time.Time) int {
	return t.In(f.loc).Day()
}

// StartOfDay truncates t to the frame's day boundary.
func (f Frame) StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(f.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, f.loc)
}

// Date builds midnight of the given frame calendar day. Out-of-range values
// normalize the way time.Date does.
func (f Frame) Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, f.loc)
}

// DaysBetween returns the whole-day difference between the frame days of from
// and to. A fixed zone has no DST, so every day is exactly 24 hours.
func (f Frame) DaysBetween(from, to time.Time) int {
	return int(f.StartOfDay(to).Sub(f.StartOfDay(from)) / (24 * time.Hour))
}
