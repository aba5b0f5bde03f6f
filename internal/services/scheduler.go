package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"flammebot/internal/domain"
	"flammebot/internal/render"
)

// DefaultDedupRetention bounds the post log: keys whose occurrence is older
// than this are pruned each tick.
const DefaultDedupRetention = 30 * 24 * time.Hour

// SchedulerService evaluates the event catalog once per tick and posts
// pre-reminders and start notifications exactly once per occurrence.
type SchedulerService struct {
	catalog    domain.GuildConfigRepository
	catalogSvc *CatalogService
	postLog    domain.PostLogRepository
	messenger  domain.Messenger
	directory  domain.GuildDirectory
	loc        *time.Location
	retention  time.Duration
	logger     *slog.Logger

	mu sync.Mutex // serializes ticks
}

// NewSchedulerService creates a SchedulerService with the given
// repositories and collaborators. Catalog mutations (expiry cleanup) go
// through catalogSvc so they serialize with admin writes; the repository is
// used for reads only.
func NewSchedulerService(
	catalog domain.GuildConfigRepository,
	catalogSvc *CatalogService,
	postLog domain.PostLogRepository,
	messenger domain.Messenger,
	directory domain.GuildDirectory,
	loc *time.Location,
	logger *slog.Logger,
) *SchedulerService {
	return &SchedulerService{
		catalog:    catalog,
		catalogSvc: catalogSvc,
		postLog:    postLog,
		messenger:  messenger,
		directory:  directory,
		loc:        loc,
		retention:  DefaultDedupRetention,
		logger:     logger,
	}
}

// RunTick performs one scheduler pass at the given instant. The instant is
// truncated to the whole minute in the bot timezone; pre/start comparisons
// are exact-minute equality, so the tick period must not exceed a minute.
// A send failure for one event never aborts the rest of the tick, and the
// dedup key stays recorded either way: delivery is at most once, a missed
// minute is never caught up.
func (s *SchedulerService) RunTick(ctx context.Context, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now = now.In(s.loc).Truncate(time.Minute)

	// Expired one-time events are cleaned up regardless of whether their
	// notifications ever fired. The deletion runs under the catalog lock,
	// never against this tick's snapshot.
	if _, err := s.catalogSvc.PruneExpired(ctx, now); err != nil {
		return fmt.Errorf("prune expired events: %w", err)
	}

	cfgs, err := s.catalog.Load(ctx)
	if err != nil {
		return fmt.Errorf("load guild configs: %w", err)
	}
	log, err := s.postLog.Load(ctx)
	if err != nil {
		return fmt.Errorf("load post log: %w", err)
	}

	for _, gid := range sortedKeys(cfgs) {
		cfg := cfgs[gid]
		for _, key := range sortedEventKeys(cfg.Events) {
			ev := cfg.Events[key]

			if ev.ExpiredBy(now) {
				continue
			}

			channelID := ev.ChannelID
			if channelID == "" {
				channelID = cfg.AnnounceChannelID
			}
			if channelID == "" || !s.directory.ChannelExists(ctx, gid, channelID) {
				continue
			}

			start, ok := ev.OccursOn(now)
			if !ok {
				continue
			}

			for _, m := range ev.PreReminders {
				if !start.Add(-time.Duration(m) * time.Minute).Equal(now) {
					continue
				}
				key := domain.DedupKey(gid, ev.Name, start, domain.DedupKindPre(m))
				if log.Contains(key) {
					continue
				}
				log.Add(key)
				s.send(ctx, gid, channelID, render.PreReminder(ev, start, m))
			}

			if start.Equal(now) {
				key := domain.DedupKey(gid, ev.Name, start, domain.DedupKindStart)
				if !log.Contains(key) {
					log.Add(key)
					s.send(ctx, gid, channelID, render.StartNotice(ev, start))
				}
			}
		}
	}

	if pruned := log.Prune(now, s.retention); pruned > 0 {
		s.logger.Debug("pruned dedup log", "removed", pruned)
	}

	// Persist once per tick, not per event.
	if err := s.postLog.Save(ctx, log); err != nil {
		return fmt.Errorf("save post log: %w", err)
	}
	return nil
}

func (s *SchedulerService) send(ctx context.Context, guildID, channelID, content string) {
	if _, err := s.messenger.SendMessage(ctx, channelID, &domain.Message{Content: content}); err != nil {
		s.logger.Error("notification send failed", "guild", guildID, "channel", channelID, "err", err)
	}
}

// TestPing posts a test notification for the named event, bypassing the
// schedule and the dedup log.
func (s *SchedulerService) TestPing(ctx context.Context, guildID, name string) error {
	cfgs, err := s.catalog.Load(ctx)
	if err != nil {
		return fmt.Errorf("load guild configs: %w", err)
	}
	cfg, ok := cfgs[guildID]
	if !ok {
		return domain.ErrNotFound
	}
	ev, ok := cfg.Events[lowerKey(name)]
	if !ok {
		return domain.ErrNotFound
	}
	channelID := ev.ChannelID
	if channelID == "" {
		channelID = cfg.AnnounceChannelID
	}
	if channelID == "" || !s.directory.ChannelExists(ctx, guildID, channelID) {
		return domain.ErrNoChannel
	}
	if _, err := s.messenger.SendMessage(ctx, channelID, &domain.Message{Content: render.TestPing(ev)}); err != nil {
		return fmt.Errorf("send test ping: %w", err)
	}
	return nil
}

// IsRecoverable reports whether a tick error should be logged and the loop
// kept alive rather than treated as fatal.
func IsRecoverable(err error) bool {
	return err != nil && !errors.Is(err, context.Canceled)
}

func sortedKeys(m map[string]*domain.GuildConfig) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedEventKeys(m map[string]*domain.EventDefinition) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
