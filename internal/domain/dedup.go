package domain

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DedupKindStart marks the notification sent at the occurrence start.
const DedupKindStart = "start"

// DedupKindPre marks a pre-reminder sent the given minutes before start.
func DedupKindPre(minutes int) string {
	return "pre" + strconv.Itoa(minutes)
}

// dedupTimeLayout encodes the occurrence instant without colons so the key
// splits cleanly on ':' from the right.
const dedupTimeLayout = "20060102T150405-0700"

// DedupKey identifies one notification for one occurrence of one event.
// A key is written to the post log at most once.
func DedupKey(guildID, eventName string, start time.Time, kind string) string {
	return guildID + ":" + strings.ToLower(eventName) + ":" + start.Format(dedupTimeLayout) + ":" + kind
}

// DedupLog is the set of notification keys already posted.
type DedupLog map[string]struct{}

func (l DedupLog) Contains(key string) bool {
	_, ok := l[key]
	return ok
}

func (l DedupLog) Add(key string) {
	l[key] = struct{}{}
}

// Keys returns the logged keys in sorted order, the persisted form.
func (l DedupLog) Keys() []string {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Prune drops keys whose embedded occurrence instant is older than the
// retention window before now, and returns how many were removed. Keys
// whose instant cannot be parsed are kept: a stale key is harmless, a
// re-fired notification is not.
func (l DedupLog) Prune(now time.Time, retention time.Duration) int {
	cutoff := now.Add(-retention)
	removed := 0
	for k := range l {
		at, ok := dedupKeyTime(k)
		if !ok {
			continue
		}
		if at.Before(cutoff) {
			delete(l, k)
			removed++
		}
	}
	return removed
}

// dedupKeyTime extracts the occurrence instant from a key. The event name
// may itself contain colons, so the instant is read from the right.
func dedupKeyTime(key string) (time.Time, bool) {
	parts := strings.Split(key, ":")
	if len(parts) < 4 {
		return time.Time{}, false
	}
	at, err := time.Parse(dedupTimeLayout, parts[len(parts)-2])
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}

// PostLogRepository persists the dedup log as a sorted key array.
type PostLogRepository interface {
	Load(ctx context.Context) (DedupLog, error)
	Save(ctx context.Context, log DedupLog) error
}
