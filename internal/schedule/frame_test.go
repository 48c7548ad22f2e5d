package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayKeyUsesEvaluationFrame(t *testing.T) {
	// 20:00 UTC is already the next day at UTC+8.
	instant := time.Date(2024, 6, 9, 20, 0, 0, 0, time.UTC)

	utc8 := NewFrame(480)
	assert.Equal(t, "2024-06-10", utc8.DayKey(instant))
	assert.Equal(t, 1, utc8.Weekday(instant), "2024-06-10 is a Monday")
	assert.Equal(t, 10, utc8.DayOfMonth(instant))

	utc := NewFrame(0)
	assert.Equal(t, "2024-06-09", utc.DayKey(instant))
	assert.Equal(t, 0, utc.Weekday(instant), "2024-06-09 is a Sunday")
}

func TestStartOfDay(t *testing.T) {
	f := NewFrame(DefaultOffsetMinutes)
	instant := time.Date(2024, 6, 10, 15, 4, 5, 0, f.Location())

	start := f.StartOfDay(instant)
	assert.Equal(t, f.Date(2024, time.June, 10), start)
	assert.True(t, start.Equal(f.StartOfDay(start)), "start of day is a fixed point")
}

func TestDaysBetween(t *testing.T) {
	f := NewFrame(DefaultOffsetMinutes)

	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{
			name: "same day",
			from: time.Date(2024, 6, 10, 1, 0, 0, 0, f.Location()),
			to:   time.Date(2024, 6, 10, 23, 0, 0, 0, f.Location()),
			want: 0,
		},
		{
			name: "adjacent days across midnight",
			from: time.Date(2024, 6, 9, 23, 0, 0, 0, f.Location()),
			to:   time.Date(2024, 6, 10, 1, 0, 0, 0, f.Location()),
			want: 1,
		},
		{
			name: "negative when to precedes from",
			from: time.Date(2024, 6, 10, 0, 0, 0, 0, f.Location()),
			to:   time.Date(2024, 6, 6, 12, 0, 0, 0, f.Location()),
			want: -4,
		},
		{
			name: "month boundary",
			from: time.Date(2024, 5, 30, 12, 0, 0, 0, f.Location()),
			to:   time.Date(2024, 6, 2, 12, 0, 0, 0, f.Location()),
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.DaysBetween(tt.from, tt.to))
		})
	}
}
