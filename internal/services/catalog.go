package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"flammebot/internal/domain"
)

// AddEventParams is the raw admin input for creating an event definition.
// Exactly one of Weekdays or Date must be set.
type AddEventParams struct {
	Name          string
	Weekdays      string // comma list, e.g. "Mon,Wed,Sat" or "0,3,5"
	Date          string // "YYYY-MM-DD" for one-time events
	StartTime     string // "HH:MM" 24h
	DurationMin   int
	PreReminders  string // comma minutes list, e.g. "30,10,5"
	MentionRoleID string
	ChannelID     string
	Description   string
}

// CatalogService owns the per-guild event catalog: admin-driven creation,
// replacement, and removal of event definitions.
type CatalogService struct {
	catalog domain.GuildConfigRepository
	logger  *slog.Logger

	mu sync.Mutex
}

// NewCatalogService creates a CatalogService with the given repository.
func NewCatalogService(catalog domain.GuildConfigRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, logger: logger}
}

// SetAnnounceChannel sets the guild's default notification channel.
func (s *CatalogService) SetAnnounceChannel(ctx context.Context, guildID, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfgs, err := s.catalog.Load(ctx)
	if err != nil {
		return fmt.Errorf("load guild configs: %w", err)
	}
	cfg := cfgs[guildID]
	if cfg == nil {
		cfg = domain.NewGuildConfig(guildID)
		cfgs[guildID] = cfg
	}
	cfg.AnnounceChannelID = channelID
	if err := s.catalog.Save(ctx, cfgs); err != nil {
		return fmt.Errorf("save guild configs: %w", err)
	}
	return nil
}

// AddEvent validates the raw input and stores the definition, replacing any
// existing event with the same lowercase name.
func (s *CatalogService) AddEvent(ctx context.Context, guildID string, p AddEventParams) (*domain.EventDefinition, error) {
	hasWeekdays := strings.TrimSpace(p.Weekdays) != ""
	hasDate := strings.TrimSpace(p.Date) != ""
	if hasWeekdays == hasDate {
		return nil, fmt.Errorf("%w: give either weekdays or a date, not both", domain.ErrInvalidInput)
	}

	var schedule domain.Schedule
	if hasWeekdays {
		days, err := domain.ParseWeekdays(p.Weekdays)
		if err != nil {
			return nil, err
		}
		schedule = domain.NewRecurringSchedule(days)
	} else {
		date, err := domain.ParseDate(p.Date)
		if err != nil {
			return nil, err
		}
		schedule = domain.NewOneTimeSchedule(date)
	}

	pre, err := domain.ParsePreReminders(p.PreReminders)
	if err != nil {
		return nil, err
	}

	ev, err := domain.NewEventDefinition(p.Name, schedule, p.StartTime, p.DurationMin, pre)
	if err != nil {
		return nil, err
	}
	ev.MentionRoleID = p.MentionRoleID
	ev.ChannelID = p.ChannelID
	ev.Description = p.Description

	s.mu.Lock()
	defer s.mu.Unlock()

	cfgs, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load guild configs: %w", err)
	}
	cfg := cfgs[guildID]
	if cfg == nil {
		cfg = domain.NewGuildConfig(guildID)
		cfgs[guildID] = cfg
	}
	cfg.Events[ev.Key()] = ev
	if err := s.catalog.Save(ctx, cfgs); err != nil {
		return nil, fmt.Errorf("save guild configs: %w", err)
	}
	s.logger.Info("event stored", "guild", guildID, "event", ev.Name, "kind", ev.Schedule.Kind)
	return ev, nil
}

// RemoveEvent deletes an event by name.
func (s *CatalogService) RemoveEvent(ctx context.Context, guildID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfgs, err := s.catalog.Load(ctx)
	if err != nil {
		return fmt.Errorf("load guild configs: %w", err)
	}
	cfg := cfgs[guildID]
	if cfg == nil {
		return domain.ErrNotFound
	}
	key := lowerKey(name)
	if _, ok := cfg.Events[key]; !ok {
		return domain.ErrNotFound
	}
	delete(cfg.Events, key)
	if err := s.catalog.Save(ctx, cfgs); err != nil {
		return fmt.Errorf("save guild configs: %w", err)
	}
	return nil
}

// PruneExpired deletes one-time events whose date lies strictly before now
// and reports how many were removed. It re-loads the catalog itself so the
// whole load-delete-save span runs under the catalog lock and cannot
// overwrite a concurrent admin mutation.
func (s *CatalogService) PruneExpired(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfgs, err := s.catalog.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load guild configs: %w", err)
	}
	removed := 0
	for guildID, cfg := range cfgs {
		for key, ev := range cfg.Events {
			if ev.ExpiredBy(now) {
				delete(cfg.Events, key)
				removed++
				s.logger.Info("expired one-time event removed", "guild", guildID, "event", ev.Name)
			}
		}
	}
	if removed == 0 {
		return 0, nil
	}
	if err := s.catalog.Save(ctx, cfgs); err != nil {
		return 0, fmt.Errorf("save guild configs: %w", err)
	}
	return removed, nil
}

// ListEvents returns the guild's event definitions sorted by name.
func (s *CatalogService) ListEvents(ctx context.Context, guildID string) ([]*domain.EventDefinition, error) {
	cfgs, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load guild configs: %w", err)
	}
	cfg := cfgs[guildID]
	if cfg == nil || len(cfg.Events) == 0 {
		return []*domain.EventDefinition{}, nil
	}
	out := make([]*domain.EventDefinition, 0, len(cfg.Events))
	for _, ev := range cfg.Events {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out, nil
}

func lowerKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
