package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"flammebot/internal/domain"
)

// OnboardingService runs the welcome flow: a DM asking the new member for a
// category (and experience, for guild/alliance picks), a review card posted
// to the staff channel, and the accept/deny follow-up.
type OnboardingService struct {
	cfg       domain.OnboardingConfigRepository
	messenger domain.Messenger
	directory domain.GuildDirectory
	logger    *slog.Logger

	mu sync.Mutex
}

// NewOnboardingService creates an OnboardingService with the given
// repository and collaborators.
func NewOnboardingService(
	cfg domain.OnboardingConfigRepository,
	messenger domain.Messenger,
	directory domain.GuildDirectory,
	logger *slog.Logger,
) *OnboardingService {
	return &OnboardingService{cfg: cfg, messenger: messenger, directory: directory, logger: logger}
}

// Begin DMs the category prompt to a freshly joined member. Closed DMs are
// not an error; the member can still be onboarded manually.
func (s *OnboardingService) Begin(ctx context.Context, member domain.Member) {
	_, err := s.messenger.SendDirectMessage(ctx, member.ID, &domain.Message{
		Content:   "👋 **Welcome!**\nPlease pick a **category**. For guild/alliance picks I will also ask about your **experience**.",
		Buttons:   domain.ButtonsOnboardStart,
		ButtonRef: member.GuildID,
	})
	if err != nil {
		s.logger.Debug("onboarding dm failed", "guild", member.GuildID, "member", member.ID, "err", err)
	}
}

// SubmitCategory handles a category pick. Friend picks go straight to
// review; the others get the experience prompt, signalled by needsExperience.
func (s *OnboardingService) SubmitCategory(ctx context.Context, member domain.Member, category string) (needsExperience bool, err error) {
	switch category {
	case domain.CategoryGuildMember, domain.CategoryAllyMember:
		return true, nil
	case domain.CategoryFriend:
		return false, s.submitReview(ctx, member, category, "N/A")
	}
	return false, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, category)
}

// SubmitExperience completes the questionnaire: inexperienced members get
// the newbie role (best effort), then the review card goes to staff.
func (s *OnboardingService) SubmitExperience(ctx context.Context, member domain.Member, category, experience string) error {
	if experience != domain.ExperienceVeteran && experience != domain.ExperienceNewbie {
		return fmt.Errorf("%w: unknown experience %q", domain.ErrInvalidInput, experience)
	}
	if experience == domain.ExperienceNewbie {
		if cfg := s.guildConfig(ctx, member.GuildID); cfg.NewbieRoleID != "" {
			if err := s.directory.AssignRole(ctx, member.GuildID, member.ID, cfg.NewbieRoleID); err != nil {
				s.logger.Debug("newbie role assign failed", "guild", member.GuildID, "member", member.ID, "err", err)
			}
		}
	}
	return s.submitReview(ctx, member, category, experience)
}

func (s *OnboardingService) submitReview(ctx context.Context, member domain.Member, category, experience string) error {
	cfg := s.guildConfig(ctx, member.GuildID)
	if cfg.ReviewChannelID == "" {
		// No review channel yet; tell the member instead of dropping the
		// request silently.
		if _, err := s.messenger.SendDirectMessage(ctx, member.ID, &domain.Message{
			Content: "⚠️ Your request cannot be reviewed right now (no review channel configured).",
		}); err != nil {
			s.logger.Debug("onboarding dm failed", "member", member.ID, "err", err)
		}
		return domain.ErrNoChannel
	}
	body := fmt.Sprintf("**Onboarding review:** %s\n**Category:** %s\n**Experience:** %s",
		domain.Mention(member.ID), category, experience)
	_, err := s.messenger.SendMessage(ctx, cfg.ReviewChannelID, &domain.Message{
		Content:   body,
		Buttons:   domain.ButtonsReview,
		ButtonRef: member.ID + ":" + category,
	})
	if err != nil {
		return fmt.Errorf("post onboarding review: %w", err)
	}
	return nil
}

// Accept grants the category role (matched by role name) and welcomes the
// member by DM. Only admins may accept.
func (s *OnboardingService) Accept(ctx context.Context, admin domain.Member, guildID, memberID, category string) error {
	if !admin.IsAdmin {
		return domain.ErrForbidden
	}
	if roleID, ok := s.directory.RoleByName(ctx, guildID, category); ok {
		if err := s.directory.AssignRole(ctx, guildID, memberID, roleID); err != nil {
			s.logger.Debug("category role assign failed", "guild", guildID, "member", memberID, "err", err)
		}
	}
	if _, err := s.messenger.SendDirectMessage(ctx, memberID, &domain.Message{
		Content: fmt.Sprintf("🎉 Welcome! You were accepted as **%s**.", category),
	}); err != nil {
		s.logger.Debug("accept dm failed", "member", memberID, "err", err)
	}
	return nil
}

// Deny notifies the member by DM. Only admins may deny.
func (s *OnboardingService) Deny(ctx context.Context, admin domain.Member, guildID, memberID string) error {
	if !admin.IsAdmin {
		return domain.ErrForbidden
	}
	if _, err := s.messenger.SendDirectMessage(ctx, memberID, &domain.Message{
		Content: "❌ Your request was denied.",
	}); err != nil {
		s.logger.Debug("deny dm failed", "member", memberID, "err", err)
	}
	return nil
}

// SetReviewChannel stores the staff review channel for the guild.
func (s *OnboardingService) SetReviewChannel(ctx context.Context, guildID, channelID string) error {
	return s.updateConfig(ctx, guildID, func(c *domain.OnboardingConfig) {
		c.ReviewChannelID = channelID
	})
}

// SetNewbieRole stores the role handed to inexperienced members.
func (s *OnboardingService) SetNewbieRole(ctx context.Context, guildID, roleID string) error {
	return s.updateConfig(ctx, guildID, func(c *domain.OnboardingConfig) {
		c.NewbieRoleID = roleID
	})
}

func (s *OnboardingService) updateConfig(ctx context.Context, guildID string, apply func(*domain.OnboardingConfig)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfgs, err := s.cfg.Load(ctx)
	if err != nil {
		return fmt.Errorf("load onboarding config: %w", err)
	}
	cfg := cfgs[guildID]
	if cfg == nil {
		cfg = &domain.OnboardingConfig{}
		cfgs[guildID] = cfg
	}
	apply(cfg)
	if err := s.cfg.Save(ctx, cfgs); err != nil {
		return fmt.Errorf("save onboarding config: %w", err)
	}
	return nil
}

func (s *OnboardingService) guildConfig(ctx context.Context, guildID string) domain.OnboardingConfig {
	cfgs, err := s.cfg.Load(ctx)
	if err != nil {
		s.logger.Debug("load onboarding config failed", "guild", guildID, "err", err)
		return domain.OnboardingConfig{}
	}
	if c := cfgs[guildID]; c != nil {
		return *c
	}
	return domain.OnboardingConfig{}
}
