package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// EventDefinition describes a scheduled guild event: when it occurs, how long
// it runs, and which reminders precede it. Definitions are validated when an
// admin creates them; the scheduler assumes stored definitions are well-formed.
type EventDefinition struct {
	Name            string   `json:"name"`
	Schedule        Schedule `json:"schedule"`
	StartTime       string   `json:"start_time"` // "HH:MM", bot timezone
	DurationMinutes int      `json:"duration_min"`
	PreReminders    []int    `json:"pre_reminders,omitempty"` // minutes before start
	MentionRoleID   string   `json:"mention_role_id,omitempty"`
	ChannelID       string   `json:"channel_id,omitempty"`
	Description     string   `json:"description,omitempty"`
}

// NewEventDefinition builds and validates an event definition.
func NewEventDefinition(name string, schedule Schedule, startTime string, durationMin int, preReminders []int) (*EventDefinition, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: event name is required", ErrInvalidInput)
	}
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	h, m, err := ParseStartTime(startTime)
	if err != nil {
		return nil, err
	}
	if durationMin < 0 {
		return nil, fmt.Errorf("%w: duration must not be negative", ErrInvalidInput)
	}
	return &EventDefinition{
		Name:            name,
		Schedule:        schedule,
		StartTime:       fmt.Sprintf("%02d:%02d", h, m),
		DurationMinutes: durationMin,
		PreReminders:    preReminders,
	}, nil
}

// Key is the catalog key for the event: the lowercase name.
func (e *EventDefinition) Key() string {
	return strings.ToLower(e.Name)
}

// NextOccurrence returns the next start instant >= ref, in ref's location.
// For recurring events it scans ref's date through seven days ahead; for
// one-time events it returns the single instant or false once exhausted.
func (e *EventDefinition) NextOccurrence(ref time.Time) (time.Time, bool) {
	h, m, err := ParseStartTime(e.StartTime)
	if err != nil {
		return time.Time{}, false
	}
	loc := ref.Location()
	switch e.Schedule.Kind {
	case ScheduleOneTime:
		d, err := time.ParseInLocation(DateLayout, e.Schedule.Date, loc)
		if err != nil {
			return time.Time{}, false
		}
		at := time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, loc)
		if at.Before(ref) {
			return time.Time{}, false
		}
		return at, true
	case ScheduleRecurring:
		for add := 0; add <= 7; add++ {
			day := ref.AddDate(0, 0, add)
			if !e.Schedule.ContainsWeekday(day.Weekday()) {
				continue
			}
			at := time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, loc)
			if at.Before(ref) {
				continue
			}
			return at, true
		}
	}
	return time.Time{}, false
}

// OccursOn reports whether the event has an occurrence on ref's calendar
// date, returning the resolved start instant in ref's location.
func (e *EventDefinition) OccursOn(ref time.Time) (time.Time, bool) {
	h, m, err := ParseStartTime(e.StartTime)
	if err != nil {
		return time.Time{}, false
	}
	loc := ref.Location()
	switch e.Schedule.Kind {
	case ScheduleOneTime:
		if e.Schedule.Date != ref.Format(DateLayout) {
			return time.Time{}, false
		}
	case ScheduleRecurring:
		if !e.Schedule.ContainsWeekday(ref.Weekday()) {
			return time.Time{}, false
		}
	default:
		return time.Time{}, false
	}
	return time.Date(ref.Year(), ref.Month(), ref.Day(), h, m, 0, 0, loc), true
}

// ExpiredBy reports whether a one-time event's date is strictly before ref's
// calendar date. Recurring events never expire.
func (e *EventDefinition) ExpiredBy(ref time.Time) bool {
	if e.Schedule.Kind != ScheduleOneTime {
		return false
	}
	d, err := time.ParseInLocation(DateLayout, e.Schedule.Date, ref.Location())
	if err != nil {
		return false
	}
	refDate := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	return d.Before(refDate)
}

// GuildConfig holds one guild's announce channel and event catalog,
// keyed by lowercase event name.
type GuildConfig struct {
	GuildID           string                      `json:"guild_id"`
	AnnounceChannelID string                      `json:"announce_channel_id,omitempty"`
	Events            map[string]*EventDefinition `json:"events"`
}

// NewGuildConfig returns an empty config for the guild.
func NewGuildConfig(guildID string) *GuildConfig {
	return &GuildConfig{GuildID: guildID, Events: make(map[string]*EventDefinition)}
}

// GuildConfigRepository persists the guild-config document as a whole.
type GuildConfigRepository interface {
	Load(ctx context.Context) (map[string]*GuildConfig, error)
	Save(ctx context.Context, cfgs map[string]*GuildConfig) error
}
