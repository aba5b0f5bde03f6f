package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"flammebot/internal/domain"
	"flammebot/internal/render"
)

// CreateBoardParams describes a new sign-up board.
type CreateBoardParams struct {
	GuildID      string
	ChannelID    string
	Title        string
	Description  string
	When         time.Time
	ImageURL     string
	TargetRoleID string
	NotifyDM     bool // fan out DM invitations to target-role members
}

// RSVPService maintains sign-up boards: posting the summary card, applying
// button votes across the mutually exclusive buckets, and re-rendering the
// card in place.
type RSVPService struct {
	store     domain.RSVPStoreRepository
	roleCfg   domain.RSVPConfigRepository
	messenger domain.Messenger
	directory domain.GuildDirectory
	logger    *slog.Logger

	mu sync.Mutex // serializes load-mutate-persist spans across votes
}

// NewRSVPService creates an RSVPService with the given repositories and
// collaborators.
func NewRSVPService(
	store domain.RSVPStoreRepository,
	roleCfg domain.RSVPConfigRepository,
	messenger domain.Messenger,
	directory domain.GuildDirectory,
	logger *slog.Logger,
) *RSVPService {
	return &RSVPService{
		store:     store,
		roleCfg:   roleCfg,
		messenger: messenger,
		directory: directory,
		logger:    logger,
	}
}

// CreateBoard posts an empty summary card and persists the entry under the
// returned message ID. With NotifyDM set and a target role configured, every
// role member gets a DM carrying the vote buttons; per-member DM failures
// are logged and do not fail the creation.
func (s *RSVPService) CreateBoard(ctx context.Context, p CreateBoardParams) (messageID string, dmSent int, err error) {
	entry := domain.NewRSVPEntry(p.GuildID, p.ChannelID, p.Title, p.Description, p.When)
	entry.ImageURL = p.ImageURL
	entry.TargetRoleID = p.TargetRoleID

	card := render.Summary(entry, s.resolver(ctx, p.GuildID))
	messageID, err = s.messenger.SendMessage(ctx, p.ChannelID, &domain.Message{
		Card:    &card,
		Buttons: domain.ButtonsRSVP,
	})
	if err != nil {
		return "", 0, fmt.Errorf("post board: %w", err)
	}

	s.mu.Lock()
	store, err := s.store.Load(ctx)
	if err == nil {
		store[messageID] = entry
		err = s.store.Save(ctx, store)
	}
	s.mu.Unlock()
	if err != nil {
		return "", 0, fmt.Errorf("persist board: %w", err)
	}

	if p.NotifyDM && p.TargetRoleID != "" {
		dmSent = s.fanOut(ctx, p.GuildID, p.TargetRoleID, messageID, entry)
	}
	return messageID, dmSent, nil
}

func (s *RSVPService) fanOut(ctx context.Context, guildID, roleID, messageID string, entry *domain.RSVPEntry) int {
	members, err := s.directory.RoleMembers(ctx, guildID, roleID)
	if err != nil {
		s.logger.Error("resolve target role members failed", "guild", guildID, "role", roleID, "err", err)
		return 0
	}
	invite := fmt.Sprintf("📅 **%s** — %s. Sign up with the buttons below.",
		entry.Title, entry.When.Format("Mon, 02.01.2006 15:04"))
	sent := 0
	for _, uid := range members {
		_, err := s.messenger.SendDirectMessage(ctx, uid, &domain.Message{
			Content:   invite,
			Buttons:   domain.ButtonsRSVP,
			ButtonRef: messageID,
		})
		if err != nil {
			s.logger.Debug("rsvp dm failed", "guild", guildID, "member", uid, "err", err)
			continue
		}
		sent++
	}
	return sent
}

// HandleButton applies a vote to the board behind messageID and refreshes
// the summary card. The bucket transition and the store write happen under
// the service lock; the card edit afterwards is best effort, a failed
// refresh never loses the vote. Returns a confirmation line for the member.
func (s *RSVPService) HandleButton(ctx context.Context, messageID string, action domain.VoteAction, member domain.Member) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.store.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load rsvp store: %w", err)
	}
	entry, ok := store[messageID]
	if !ok {
		return "", domain.ErrNotFound
	}
	if entry.Closed {
		return "", domain.ErrBoardClosed
	}

	// Resolve the maybe annotation before mutating, so the whole bucket
	// transition is a single in-memory step.
	maybeLabel := ""
	if action == domain.VoteMaybe {
		maybeLabel = s.memberLabel(ctx, entry.GuildID, member)
	}

	entry.ApplyVote(member.ID, action, maybeLabel)

	if err := s.store.Save(ctx, store); err != nil {
		return "", fmt.Errorf("save rsvp store: %w", err)
	}

	card := render.Summary(entry, s.resolver(ctx, entry.GuildID))
	if err := s.messenger.EditMessage(ctx, entry.ChannelID, messageID, &domain.Message{
		Card:    &card,
		Buttons: domain.ButtonsRSVP,
	}); err != nil {
		s.logger.Error("board refresh failed", "message", messageID, "err", err)
	}

	s.logAction(ctx, entry.GuildID, fmt.Sprintf("%s voted %s on %q", member.Display, action, entry.Title))
	return confirmation(action), nil
}

// CloseBoard stops accepting votes; the entry and its data are kept.
func (s *RSVPService) CloseBoard(ctx context.Context, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load rsvp store: %w", err)
	}
	entry, ok := store[messageID]
	if !ok {
		return domain.ErrNotFound
	}
	entry.Closed = true
	if err := s.store.Save(ctx, store); err != nil {
		return fmt.Errorf("save rsvp store: %w", err)
	}

	card := render.Summary(entry, s.resolver(ctx, entry.GuildID))
	if err := s.messenger.EditMessage(ctx, entry.ChannelID, messageID, &domain.Message{Card: &card}); err != nil {
		s.logger.Error("board refresh failed", "message", messageID, "err", err)
	}
	return nil
}

// ResendFor DMs the guild's open boards starting after now to a member,
// used when someone joins after the boards were posted. Returns how many
// were sent.
func (s *RSVPService) ResendFor(ctx context.Context, guildID, memberID string, now time.Time) (int, error) {
	store, err := s.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load rsvp store: %w", err)
	}
	sent := 0
	for messageID, entry := range store {
		if entry.GuildID != guildID || entry.Closed || entry.When.Before(now) {
			continue
		}
		invite := fmt.Sprintf("📅 **%s** — %s. Sign up with the buttons below.",
			entry.Title, entry.When.Format("Mon, 02.01.2006 15:04"))
		_, err := s.messenger.SendDirectMessage(ctx, memberID, &domain.Message{
			Content:   invite,
			Buttons:   domain.ButtonsRSVP,
			ButtonRef: messageID,
		})
		if err != nil {
			s.logger.Debug("rsvp resend dm failed", "guild", guildID, "member", memberID, "err", err)
			continue
		}
		sent++
	}
	return sent, nil
}

// SetRoleConfig stores the guild's Tank/Heal/DPS role IDs.
func (s *RSVPService) SetRoleConfig(ctx context.Context, guildID, tankID, healID, dpsID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfgs, err := s.roleCfg.Load(ctx)
	if err != nil {
		return fmt.Errorf("load rsvp config: %w", err)
	}
	cfg := cfgs[guildID]
	if cfg == nil {
		cfg = &domain.RoleLabelConfig{}
		cfgs[guildID] = cfg
	}
	cfg.TankRoleID = tankID
	cfg.HealRoleID = healID
	cfg.DPSRoleID = dpsID
	if err := s.roleCfg.Save(ctx, cfgs); err != nil {
		return fmt.Errorf("save rsvp config: %w", err)
	}
	return nil
}

// SetLogChannel stores the guild's optional RSVP action log channel.
func (s *RSVPService) SetLogChannel(ctx context.Context, guildID, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfgs, err := s.roleCfg.Load(ctx)
	if err != nil {
		return fmt.Errorf("load rsvp config: %w", err)
	}
	cfg := cfgs[guildID]
	if cfg == nil {
		cfg = &domain.RoleLabelConfig{}
		cfgs[guildID] = cfg
	}
	cfg.LogChannelID = channelID
	if err := s.roleCfg.Save(ctx, cfgs); err != nil {
		return fmt.Errorf("save rsvp config: %w", err)
	}
	return nil
}

// memberLabel resolves the member's combat role label for maybe
// annotations. Uses the roles carried on the member when present, falling
// back to a directory lookup (DM interactions carry no roles).
func (s *RSVPService) memberLabel(ctx context.Context, guildID string, member domain.Member) string {
	cfgs, err := s.roleCfg.Load(ctx)
	if err != nil {
		s.logger.Debug("load rsvp config failed", "guild", guildID, "err", err)
		cfgs = map[string]*domain.RoleLabelConfig{}
	}
	cfg := domain.RoleLabelConfig{}
	if c := cfgs[guildID]; c != nil {
		cfg = *c
	}
	roles := member.Roles
	if len(roles) == 0 {
		if fetched, err := s.directory.MemberRoles(ctx, guildID, member.ID); err == nil {
			roles = fetched
		}
	}
	return domain.ResolveRoleLabel(cfg, roles)
}

func (s *RSVPService) resolver(ctx context.Context, guildID string) render.NameResolver {
	return func(memberID string) string {
		return s.directory.MemberDisplay(ctx, guildID, memberID)
	}
}

func (s *RSVPService) logAction(ctx context.Context, guildID, text string) {
	cfgs, err := s.roleCfg.Load(ctx)
	if err != nil {
		return
	}
	cfg := cfgs[guildID]
	if cfg == nil || cfg.LogChannelID == "" {
		return
	}
	if _, err := s.messenger.SendMessage(ctx, cfg.LogChannelID, &domain.Message{Content: "[RSVP] " + text}); err != nil {
		s.logger.Debug("rsvp action log failed", "guild", guildID, "err", err)
	}
}

func confirmation(action domain.VoteAction) string {
	switch action {
	case domain.VoteTank, domain.VoteHeal, domain.VoteDPS:
		return fmt.Sprintf("Signed up as **%s**.", action)
	case domain.VoteMaybe:
		return "Marked as **Maybe**."
	case domain.VoteNo:
		return "Marked as **Declined**."
	}
	return "Updated."
}
