package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var berlin = mustLoadLocation("Europe/Berlin")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func mustEvent(t *testing.T, name string, schedule Schedule, startTime string, durationMin int, pre []int) *EventDefinition {
	t.Helper()
	ev, err := NewEventDefinition(name, schedule, startTime, durationMin, pre)
	require.NoError(t, err)
	return ev
}

func TestNewEventDefinition(t *testing.T) {
	weekly := NewRecurringSchedule([]time.Weekday{time.Monday})

	tests := []struct {
		name        string
		eventName   string
		schedule    Schedule
		startTime   string
		durationMin int
		wantErr     bool
	}{
		{name: "valid", eventName: "Raid Night", schedule: weekly, startTime: "20:00", durationMin: 90},
		{name: "name trimmed but required", eventName: "   ", schedule: weekly, startTime: "20:00", wantErr: true},
		{name: "bad start time", eventName: "Raid", schedule: weekly, startTime: "25:00", wantErr: true},
		{name: "negative duration", eventName: "Raid", schedule: weekly, startTime: "20:00", durationMin: -1, wantErr: true},
		{name: "bad schedule", eventName: "Raid", schedule: Schedule{Kind: ScheduleRecurring}, startTime: "20:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := NewEventDefinition(tt.eventName, tt.schedule, tt.startTime, tt.durationMin, nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "raid night", ev.Key())
			assert.Equal(t, "20:00", ev.StartTime)
		})
	}
}

func TestEventDefinition_StartTimeNormalized(t *testing.T) {
	ev := mustEvent(t, "Raid", NewRecurringSchedule([]time.Weekday{time.Monday}), "9:05", 60, nil)
	assert.Equal(t, "09:05", ev.StartTime)
}

func TestEventDefinition_NextOccurrence(t *testing.T) {
	// 2025-03-03 is a Monday.
	monday := time.Date(2025, 3, 3, 12, 0, 0, 0, berlin)

	tests := []struct {
		name   string
		event  *EventDefinition
		ref    time.Time
		want   time.Time
		wantOK bool
	}{
		{
			name:   "recurring later same day",
			event:  mustEvent(t, "Raid", NewRecurringSchedule([]time.Weekday{time.Monday}), "20:00", 60, nil),
			ref:    monday,
			want:   time.Date(2025, 3, 3, 20, 0, 0, 0, berlin),
			wantOK: true,
		},
		{
			name:   "recurring already passed today rolls a week",
			event:  mustEvent(t, "Raid", NewRecurringSchedule([]time.Weekday{time.Monday}), "08:00", 60, nil),
			ref:    monday,
			want:   time.Date(2025, 3, 10, 8, 0, 0, 0, berlin),
			wantOK: true,
		},
		{
			name:   "recurring next matching weekday",
			event:  mustEvent(t, "Raid", NewRecurringSchedule([]time.Weekday{time.Thursday}), "20:00", 60, nil),
			ref:    monday,
			want:   time.Date(2025, 3, 6, 20, 0, 0, 0, berlin),
			wantOK: true,
		},
		{
			name:   "recurring exact start still counts",
			event:  mustEvent(t, "Raid", NewRecurringSchedule([]time.Weekday{time.Monday}), "12:00", 60, nil),
			ref:    monday,
			want:   monday,
			wantOK: true,
		},
		{
			name:   "one-time in the future",
			event:  mustEvent(t, "Launch", NewOneTimeSchedule("2025-03-08"), "18:30", 0, nil),
			ref:    monday,
			want:   time.Date(2025, 3, 8, 18, 30, 0, 0, berlin),
			wantOK: true,
		},
		{
			name:   "one-time exhausted",
			event:  mustEvent(t, "Launch", NewOneTimeSchedule("2025-03-01"), "18:30", 0, nil),
			ref:    monday,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.event.NextOccurrence(tt.ref)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
			}
		})
	}
}

func TestEventDefinition_OccursOn(t *testing.T) {
	monday := time.Date(2025, 3, 3, 19, 45, 0, 0, berlin)

	recurring := mustEvent(t, "Raid", NewRecurringSchedule([]time.Weekday{time.Monday, time.Wednesday}), "20:00", 60, nil)
	start, ok := recurring.OccursOn(monday)
	require.True(t, ok)
	assert.True(t, start.Equal(time.Date(2025, 3, 3, 20, 0, 0, 0, berlin)))

	tuesday := monday.AddDate(0, 0, 1)
	_, ok = recurring.OccursOn(tuesday)
	assert.False(t, ok)

	oneTime := mustEvent(t, "Launch", NewOneTimeSchedule("2025-03-03"), "20:00", 0, nil)
	start, ok = oneTime.OccursOn(monday)
	require.True(t, ok)
	assert.True(t, start.Equal(time.Date(2025, 3, 3, 20, 0, 0, 0, berlin)))

	_, ok = oneTime.OccursOn(tuesday)
	assert.False(t, ok)
}

func TestEventDefinition_ExpiredBy(t *testing.T) {
	oneTime := mustEvent(t, "Launch", NewOneTimeSchedule("2025-03-01"), "20:00", 0, nil)

	// Same calendar date is not expired, even after the start time.
	sameDay := time.Date(2025, 3, 1, 23, 59, 0, 0, berlin)
	assert.False(t, oneTime.ExpiredBy(sameDay))

	nextDay := time.Date(2025, 3, 2, 0, 0, 0, 0, berlin)
	assert.True(t, oneTime.ExpiredBy(nextDay))

	recurring := mustEvent(t, "Raid", NewRecurringSchedule([]time.Weekday{time.Monday}), "20:00", 60, nil)
	assert.False(t, recurring.ExpiredBy(nextDay.AddDate(10, 0, 0)))
}
