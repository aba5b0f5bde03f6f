package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ScheduleKind discriminates the two schedule variants.
type ScheduleKind string

const (
	ScheduleRecurring ScheduleKind = "recurring"
	ScheduleOneTime   ScheduleKind = "one_time"
)

// DateLayout is the calendar-date format used for one-time schedules.
const DateLayout = "2006-01-02"

// Schedule is a tagged union: a recurring weekday set or a single calendar
// date. Exactly one variant is populated; Validate enforces the exclusion.
type Schedule struct {
	Kind     ScheduleKind   `json:"kind"`
	Weekdays []time.Weekday `json:"weekdays,omitempty"`
	Date     string         `json:"date,omitempty"`
}

// NewRecurringSchedule returns a recurring schedule over the given weekdays.
func NewRecurringSchedule(weekdays []time.Weekday) Schedule {
	return Schedule{Kind: ScheduleRecurring, Weekdays: sortedWeekdays(weekdays)}
}

// NewOneTimeSchedule returns a one-time schedule for the given date string
// in DateLayout form.
func NewOneTimeSchedule(date string) Schedule {
	return Schedule{Kind: ScheduleOneTime, Date: date}
}

// Validate checks that exactly one variant is populated and well-formed.
func (s Schedule) Validate() error {
	switch s.Kind {
	case ScheduleRecurring:
		if len(s.Weekdays) == 0 {
			return fmt.Errorf("%w: recurring schedule needs at least one weekday", ErrInvalidInput)
		}
		if s.Date != "" {
			return fmt.Errorf("%w: recurring schedule must not carry a date", ErrInvalidInput)
		}
	case ScheduleOneTime:
		if s.Date == "" {
			return fmt.Errorf("%w: one-time schedule needs a date", ErrInvalidInput)
		}
		if len(s.Weekdays) != 0 {
			return fmt.Errorf("%w: one-time schedule must not carry weekdays", ErrInvalidInput)
		}
		if _, err := time.Parse(DateLayout, s.Date); err != nil {
			return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown schedule kind %q", ErrInvalidInput, s.Kind)
	}
	return nil
}

// ContainsWeekday reports whether the recurring set includes the weekday.
func (s Schedule) ContainsWeekday(d time.Weekday) bool {
	for _, w := range s.Weekdays {
		if w == d {
			return true
		}
	}
	return false
}

// weekdayTokens maps user input tokens to Go weekdays. Numeric tokens are
// ISO-style with 0=Monday .. 6=Sunday, matching the admin command syntax.
var weekdayTokens = map[string]time.Weekday{
	"mon": time.Monday, "monday": time.Monday, "0": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday, "1": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday, "2": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday, "3": time.Thursday,
	"fri": time.Friday, "friday": time.Friday, "4": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday, "5": time.Saturday,
	"sun": time.Sunday, "sunday": time.Sunday, "6": time.Sunday,
}

// ParseWeekdays parses a comma-separated weekday list such as "Mon,Wed,Sat"
// or "0,3,5" (0=Mon..6=Sun) into a sorted, deduplicated weekday set.
func ParseWeekdays(s string) ([]time.Weekday, error) {
	seen := make(map[time.Weekday]struct{})
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" {
			continue
		}
		d, ok := weekdayTokens[token]
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q, use Mon..Sun or 0..6 (0=Mon)", ErrInvalidInput, token)
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: no weekdays parsed", ErrInvalidInput)
	}
	return sortedWeekdays(days), nil
}

// ParseStartTime parses a 24h "HH:MM" clock string.
func ParseStartTime(s string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: start time must be 'HH:MM' 24h", ErrInvalidInput)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: start time must be 'HH:MM' 24h", ErrInvalidInput)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: start time must be 'HH:MM' 24h", ErrInvalidInput)
	}
	return hour, minute, nil
}

// ParsePreReminders parses a comma-separated minutes list such as "30,10,5".
// Non-positive values are dropped; the result is sorted and deduplicated.
// An empty string yields an empty set.
func ParsePreReminders(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	seen := make(map[int]struct{})
	var mins []int
	for _, part := range strings.Split(s, ",") {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}
		m, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("%w: pre-reminder %q is not a number of minutes", ErrInvalidInput, token)
		}
		if m <= 0 {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		mins = append(mins, m)
	}
	sort.Ints(mins)
	return mins, nil
}

// ParseDate parses a "YYYY-MM-DD" calendar date.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return t.Format(DateLayout), nil
}

// isoIndex orders weekdays Monday-first for display and sorting.
func isoIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func sortedWeekdays(days []time.Weekday) []time.Weekday {
	out := append([]time.Weekday(nil), days...)
	sort.Slice(out, func(i, j int) bool { return isoIndex(out[i]) < isoIndex(out[j]) })
	return out
}
