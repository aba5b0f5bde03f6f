// Package render builds displayable cards and notification lines from
// domain state. Everything here is a pure function of its inputs.
package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"flammebot/internal/domain"
)

// FieldLimit is the host platform's per-field character limit.
const FieldLimit = 1024

// Placeholder is shown for empty buckets instead of omitting the field.
const Placeholder = "—"

// NameResolver turns a member ID into its display form (usually a mention).
type NameResolver func(memberID string) string

// Summary renders a sign-up board into its summary card. Yes buckets come
// first in fixed Tank/Heal/DPS order, maybe entries follow in insertion
// order annotated with the role label recorded at click time, then the
// declined list.
func Summary(e *domain.RSVPEntry, name NameResolver) domain.Card {
	if name == nil {
		name = domain.Mention
	}
	card := domain.Card{
		Title:       "📅 " + e.Title,
		Description: boardDescription(e),
		ImageURL:    e.ImageURL,
		Footer:      "Use the buttons below to sign up.",
	}
	if e.Closed {
		card.Footer = "Sign-ups are closed."
	}

	bucketMeta := []struct {
		action domain.VoteAction
		label  string
	}{
		{domain.VoteTank, "🛡️ Tank"},
		{domain.VoteHeal, "💚 Heal"},
		{domain.VoteDPS, "🗡️ DPS"},
	}
	for _, b := range bucketMeta {
		ids := e.Yes[string(b.action)]
		card.Fields = append(card.Fields, domain.CardField{
			Name:   fmt.Sprintf("%s (%d)", b.label, len(ids)),
			Value:  memberList(ids, name),
			Inline: true,
		})
	}

	maybeLines := make([]string, 0, len(e.MaybeOrder))
	for _, id := range e.MaybeOrder {
		line := name(id)
		if label := e.Maybe[id]; label != "" {
			line += " (" + label + ")"
		}
		maybeLines = append(maybeLines, line)
	}
	card.Fields = append(card.Fields, domain.CardField{
		Name:  fmt.Sprintf("❔ Maybe (%d)", len(maybeLines)),
		Value: joinOrPlaceholder(maybeLines),
	})
	card.Fields = append(card.Fields, domain.CardField{
		Name:  fmt.Sprintf("❌ Declined (%d)", len(e.No)),
		Value: memberList(e.No, name),
	})

	if e.TargetRoleID != "" {
		card.Fields = append(card.Fields, domain.CardField{
			Name:  "🎯 Target group",
			Value: domain.RoleMention(e.TargetRoleID),
		})
	}
	return card
}

func boardDescription(e *domain.RSVPEntry) string {
	var b strings.Builder
	if e.Description != "" {
		b.WriteString(e.Description)
		b.WriteString("\n\n")
	}
	b.WriteString("🕒 Time: ")
	b.WriteString(e.When.Format("Mon, 02.01.2006 15:04"))
	return b.String()
}

func memberList(ids []string, name NameResolver) string {
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, name(id))
	}
	return joinOrPlaceholder(lines)
}

func joinOrPlaceholder(lines []string) string {
	if len(lines) == 0 {
		return Placeholder
	}
	return Truncate(strings.Join(lines, "\n"))
}

// Truncate clips a rendered value to the platform field limit. Truncation
// is preferred over omitting the field.
func Truncate(s string) string {
	if len(s) <= FieldLimit {
		return s
	}
	cut := s[:FieldLimit-len("…")]
	// Do not split a multi-byte rune at the boundary.
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut + "…"
}

// PreReminder is the notification sent a fixed number of minutes before an
// occurrence starts.
func PreReminder(e *domain.EventDefinition, start time.Time, minutes int) string {
	line := fmt.Sprintf("⏳ **%s** starts in **%d min** (%s).", e.Name, minutes, start.Format("15:04"))
	return withRoleMention(line, e.MentionRoleID)
}

// StartNotice is the notification sent at the occurrence start.
func StartNotice(e *domain.EventDefinition, start time.Time) string {
	end := start.Add(time.Duration(e.DurationMinutes) * time.Minute)
	line := fmt.Sprintf("🚀 **%s** is live now! Runs until %s.", e.Name, end.Format("15:04"))
	return withRoleMention(line, e.MentionRoleID)
}

// TestPing is the manual notification for an event, no schedule check.
func TestPing(e *domain.EventDefinition) string {
	return withRoleMention(fmt.Sprintf("🔔 **%s** — test ping", e.Name), e.MentionRoleID)
}

func withRoleMention(line, roleID string) string {
	if roleID == "" {
		return line
	}
	return line + " " + domain.RoleMention(roleID)
}

// EventLine renders one catalog entry for the event listing.
func EventLine(e *domain.EventDefinition) string {
	var when string
	switch e.Schedule.Kind {
	case domain.ScheduleOneTime:
		when = e.Schedule.Date
	default:
		names := make([]string, 0, len(e.Schedule.Weekdays))
		for _, d := range e.Schedule.Weekdays {
			names = append(names, d.String()[:3])
		}
		when = strings.Join(names, ",")
	}
	pre := Placeholder
	if len(e.PreReminders) > 0 {
		parts := make([]string, 0, len(e.PreReminders))
		for _, m := range e.PreReminders {
			parts = append(parts, fmt.Sprintf("%d", m))
		}
		pre = strings.Join(parts, ", ")
	}
	role := Placeholder
	if e.MentionRoleID != "" {
		role = domain.RoleMention(e.MentionRoleID)
	}
	return fmt.Sprintf("• **%s** — %s %s (%d min), Pre: %s, Role: %s",
		e.Name, when, e.StartTime, e.DurationMinutes, pre, role)
}
