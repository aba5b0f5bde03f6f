package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"flammebot/internal/domain"
	"flammebot/internal/render"
	"flammebot/internal/services"
)

// Custom ID prefixes for component dispatch.
const (
	idPrefixRSVP    = "rsvp"
	idPrefixOnboard = "onboard"
	idPrefixReview  = "review"
)

// categoryKeys maps compact custom-ID tokens to onboarding categories.
var categoryKeys = map[string]string{
	"guild":  domain.CategoryGuildMember,
	"ally":   domain.CategoryAllyMember,
	"friend": domain.CategoryFriend,
}

func categoryKey(category string) string {
	for k, v := range categoryKeys {
		if v == category {
			return k
		}
	}
	return "friend"
}

// Handler wires slash commands and component presses to the services.
type Handler struct {
	adapter    *Adapter
	catalog    *services.CatalogService
	scheduler  *services.SchedulerService
	rsvp       *services.RSVPService
	onboarding *services.OnboardingService
	loc        *time.Location
	logger     *slog.Logger
}

// NewHandler creates the interaction handler.
func NewHandler(
	adapter *Adapter,
	catalog *services.CatalogService,
	scheduler *services.SchedulerService,
	rsvp *services.RSVPService,
	onboarding *services.OnboardingService,
	loc *time.Location,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		adapter:    adapter,
		catalog:    catalog,
		scheduler:  scheduler,
		rsvp:       rsvp,
		onboarding: onboarding,
		loc:        loc,
		logger:     logger,
	}
}

// Register attaches the gateway handlers to the session.
func (h *Handler) Register() {
	h.adapter.session.AddHandler(h.onReady)
	h.adapter.session.AddHandler(h.onInteraction)
	h.adapter.session.AddHandler(h.onMemberJoin)
}

func (h *Handler) onReady(s *discordgo.Session, r *discordgo.Ready) {
	h.logger.Info("gateway ready", "user", r.User.Username, "guilds", len(r.Guilds))
	if _, err := s.ApplicationCommandBulkOverwrite(r.User.ID, "", commandDefinitions()); err != nil {
		h.logger.Error("command sync failed", "err", err)
	}
}

func (h *Handler) onMemberJoin(s *discordgo.Session, e *discordgo.GuildMemberAdd) {
	if e.User == nil || e.User.Bot {
		return
	}
	ctx := context.Background()
	member := domain.Member{ID: e.User.ID, GuildID: e.GuildID, Display: domain.Mention(e.User.ID)}
	h.onboarding.Begin(ctx, member)
	if _, err := h.rsvp.ResendFor(ctx, e.GuildID, e.User.ID, time.Now()); err != nil {
		h.logger.Debug("rsvp resend failed", "guild", e.GuildID, "member", e.User.ID, "err", err)
	}
}

func (h *Handler) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		h.handleCommand(ctx, s, i)
	case discordgo.InteractionMessageComponent:
		h.handleComponent(ctx, s, i)
	}
}

// member builds the domain member for the interacting user. In DMs there is
// no guild member payload, only the user.
func (h *Handler) member(i *discordgo.InteractionCreate) domain.Member {
	if i.Member != nil && i.Member.User != nil {
		m := domain.Member{
			ID:      i.Member.User.ID,
			GuildID: i.GuildID,
			Display: domain.Mention(i.Member.User.ID),
			IsAdmin: i.Member.Permissions&(discordgo.PermissionAdministrator|discordgo.PermissionManageServer) != 0,
		}
		if guild, err := h.adapter.session.State.Guild(i.GuildID); err == nil {
			names := make(map[string]string, len(guild.Roles))
			for _, r := range guild.Roles {
				names[r.ID] = r.Name
			}
			for _, id := range i.Member.Roles {
				m.Roles = append(m.Roles, domain.Role{ID: id, Name: names[id]})
			}
		}
		return m
	}
	if i.User != nil {
		return domain.Member{ID: i.User.ID, Display: domain.Mention(i.User.ID)}
	}
	return domain.Member{}
}

func (h *Handler) handleCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	member := h.member(i)
	opts := optionMap(data.Options)

	switch data.Name {
	case "set_announce_channel":
		h.adminGate(s, i, member, func() (string, error) {
			ch := opts["channel"].ChannelValue(nil)
			if err := h.catalog.SetAnnounceChannel(ctx, i.GuildID, ch.ID); err != nil {
				return "", err
			}
			return fmt.Sprintf("✅ Announce channel set to <#%s>.", ch.ID), nil
		})
	case "add_event":
		h.adminGate(s, i, member, func() (string, error) {
			p := services.AddEventParams{
				Name:        stringOpt(opts, "name"),
				Weekdays:    stringOpt(opts, "weekdays"),
				StartTime:   stringOpt(opts, "start_time"),
				DurationMin: int(intOpt(opts, "duration_min")),
			}
			p.PreReminders = stringOpt(opts, "pre_reminders")
			p.Description = stringOpt(opts, "description")
			if o, ok := opts["mention_role"]; ok {
				p.MentionRoleID = o.RoleValue(nil, "").ID
			}
			if o, ok := opts["channel"]; ok {
				p.ChannelID = o.ChannelValue(nil).ID
			}
			ev, err := h.catalog.AddEvent(ctx, i.GuildID, p)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("✅ Event **%s** stored.\n%s", ev.Name, render.EventLine(ev)), nil
		})
	case "add_onetime_event":
		h.adminGate(s, i, member, func() (string, error) {
			p := services.AddEventParams{
				Name:        stringOpt(opts, "name"),
				Date:        stringOpt(opts, "date"),
				StartTime:   stringOpt(opts, "start_time"),
				DurationMin: int(intOpt(opts, "duration_min")),
			}
			p.PreReminders = stringOpt(opts, "pre_reminders")
			p.Description = stringOpt(opts, "description")
			if o, ok := opts["mention_role"]; ok {
				p.MentionRoleID = o.RoleValue(nil, "").ID
			}
			if o, ok := opts["channel"]; ok {
				p.ChannelID = o.ChannelValue(nil).ID
			}
			ev, err := h.catalog.AddEvent(ctx, i.GuildID, p)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("✅ One-time event **%s** stored for %s.", ev.Name, ev.Schedule.Date), nil
		})
	case "list_events":
		h.respondWith(s, i, func() (string, error) {
			events, err := h.catalog.ListEvents(ctx, i.GuildID)
			if err != nil {
				return "", err
			}
			if len(events) == 0 {
				return "ℹ️ No events configured.", nil
			}
			lines := make([]string, 0, len(events))
			for _, ev := range events {
				lines = append(lines, render.EventLine(ev))
			}
			return render.Truncate(strings.Join(lines, "\n")), nil
		})
	case "remove_event":
		h.adminGate(s, i, member, func() (string, error) {
			name := stringOpt(opts, "name")
			if err := h.catalog.RemoveEvent(ctx, i.GuildID, name); err != nil {
				return "", err
			}
			return fmt.Sprintf("✅ Event **%s** removed.", name), nil
		})
	case "test_event_ping":
		h.respondWith(s, i, func() (string, error) {
			if err := h.scheduler.TestPing(ctx, i.GuildID, stringOpt(opts, "name")); err != nil {
				return "", err
			}
			return "✅ Test ping sent.", nil
		})
	case "raid_create":
		h.adminGate(s, i, member, func() (string, error) {
			when, err := time.ParseInLocation("2006-01-02 15:04", stringOpt(opts, "when"), h.loc)
			if err != nil {
				return "", fmt.Errorf("%w: when must be 'YYYY-MM-DD HH:MM'", domain.ErrInvalidInput)
			}
			p := services.CreateBoardParams{
				GuildID:     i.GuildID,
				ChannelID:   opts["channel"].ChannelValue(nil).ID,
				Title:       stringOpt(opts, "title"),
				Description: stringOpt(opts, "description"),
				When:        when,
				ImageURL:    stringOpt(opts, "image_url"),
				NotifyDM:    boolOpt(opts, "notify_dm"),
			}
			if o, ok := opts["target_role"]; ok {
				p.TargetRoleID = o.RoleValue(nil, "").ID
			}
			_, dmSent, err := h.rsvp.CreateBoard(ctx, p)
			if err != nil {
				return "", err
			}
			if p.NotifyDM {
				return fmt.Sprintf("✅ Board posted, %d DM invitations sent.", dmSent), nil
			}
			return "✅ Board posted.", nil
		})
	case "raid_set_roles":
		h.adminGate(s, i, member, func() (string, error) {
			err := h.rsvp.SetRoleConfig(ctx, i.GuildID,
				opts["tank_role"].RoleValue(nil, "").ID,
				opts["heal_role"].RoleValue(nil, "").ID,
				opts["dps_role"].RoleValue(nil, "").ID,
			)
			if err != nil {
				return "", err
			}
			return "✅ Combat roles stored.", nil
		})
	case "raid_set_log_channel":
		h.adminGate(s, i, member, func() (string, error) {
			ch := opts["channel"].ChannelValue(nil)
			if err := h.rsvp.SetLogChannel(ctx, i.GuildID, ch.ID); err != nil {
				return "", err
			}
			return fmt.Sprintf("✅ Log channel set to <#%s>.", ch.ID), nil
		})
	case "raid_close":
		h.adminGate(s, i, member, func() (string, error) {
			if err := h.rsvp.CloseBoard(ctx, stringOpt(opts, "message_id")); err != nil {
				return "", err
			}
			return "✅ Sign-ups closed.", nil
		})
	case "onboarding_set_channel":
		h.adminGate(s, i, member, func() (string, error) {
			ch := opts["channel"].ChannelValue(nil)
			if err := h.onboarding.SetReviewChannel(ctx, i.GuildID, ch.ID); err != nil {
				return "", err
			}
			return fmt.Sprintf("✅ Review channel set to <#%s>.", ch.ID), nil
		})
	case "onboarding_set_newbie":
		h.adminGate(s, i, member, func() (string, error) {
			role := opts["role"].RoleValue(nil, "")
			if err := h.onboarding.SetNewbieRole(ctx, i.GuildID, role.ID); err != nil {
				return "", err
			}
			return "✅ Newbie role stored.", nil
		})
	case "onboarding_test":
		h.adminGate(s, i, member, func() (string, error) {
			h.onboarding.Begin(ctx, member)
			return "✉️ Onboarding DM sent (check your inbox).", nil
		})
	}
}

func (h *Handler) handleComponent(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	parts := strings.Split(i.MessageComponentData().CustomID, ":")
	member := h.member(i)

	switch parts[0] {
	case idPrefixRSVP:
		if len(parts) < 2 {
			return
		}
		action, ok := domain.ParseVoteAction(parts[1])
		if !ok {
			return
		}
		// Board presses carry the message itself; DM presses embed the
		// board message ID in the custom ID.
		messageID := ""
		if len(parts) >= 3 {
			messageID = parts[2]
		} else if i.Message != nil {
			messageID = i.Message.ID
		}
		reply, err := h.rsvp.HandleButton(ctx, messageID, action, member)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.respond(s, i, "This event is no longer available.")
		case errors.Is(err, domain.ErrBoardClosed):
			h.respond(s, i, "Sign-ups for this event are closed.")
		case err != nil:
			h.logger.Error("vote failed", "message", messageID, "err", err)
			h.respond(s, i, "❌ Unexpected error, please try again.")
		default:
			h.respond(s, i, reply)
		}
	case idPrefixOnboard:
		h.handleOnboardComponent(ctx, s, i, member, parts)
	case idPrefixReview:
		h.handleReviewComponent(ctx, s, i, member, parts)
	}
}

func (h *Handler) handleOnboardComponent(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, member domain.Member, parts []string) {
	if len(parts) < 4 {
		return
	}
	switch parts[1] {
	case "cat":
		category, ok := categoryKeys[parts[2]]
		if !ok {
			return
		}
		member.GuildID = parts[3]
		needsExperience, err := h.onboarding.SubmitCategory(ctx, member, category)
		if err != nil {
			h.respondEdit(s, i, "❌ Something went wrong, please try again.", nil)
			return
		}
		if needsExperience {
			h.respondEdit(s, i,
				fmt.Sprintf("You picked **%s**.\nAre you **experienced** or **inexperienced**?", category),
				buttonComponents(domain.ButtonsOnboardExp, member.GuildID+":"+parts[2]))
			return
		}
		h.respondEdit(s, i, "✅ Thanks! Your request was sent to the guild leadership.", nil)
	case "exp":
		// onboard:exp:<guild>:<catkey>:<veteran|newbie>
		if len(parts) < 5 {
			return
		}
		member.GuildID = parts[2]
		category := categoryKeys[parts[3]]
		experience := domain.ExperienceVeteran
		if parts[4] == "newbie" {
			experience = domain.ExperienceNewbie
		}
		if err := h.onboarding.SubmitExperience(ctx, member, category, experience); err != nil {
			h.respondEdit(s, i, "❌ Something went wrong, please try again.", nil)
			return
		}
		h.respondEdit(s, i, "✅ Thanks! Your request was sent to the guild leadership.", nil)
	}
}

func (h *Handler) handleReviewComponent(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, member domain.Member, parts []string) {
	// review:accept:<memberID>:<category> | review:deny:<memberID>
	if len(parts) < 3 {
		return
	}
	targetID := parts[2]
	var err error
	reply := ""
	switch parts[1] {
	case "accept":
		category := domain.CategoryFriend
		if len(parts) >= 4 {
			category = strings.Join(parts[3:], ":")
		}
		err = h.onboarding.Accept(ctx, member, i.GuildID, targetID, category)
		reply = fmt.Sprintf("✅ %s accepted.", domain.Mention(targetID))
	case "deny":
		err = h.onboarding.Deny(ctx, member, i.GuildID, targetID)
		reply = "Denied."
	default:
		return
	}
	if errors.Is(err, domain.ErrForbidden) {
		h.respond(s, i, "Only admins can do that.")
		return
	}
	if err != nil {
		h.logger.Error("review action failed", "member", targetID, "err", err)
		h.respond(s, i, "❌ Unexpected error.")
		return
	}
	h.respond(s, i, reply)
}

// adminGate runs fn only for members with Administrator or Manage Server.
func (h *Handler) adminGate(s *discordgo.Session, i *discordgo.InteractionCreate, member domain.Member, fn func() (string, error)) {
	if !member.IsAdmin {
		h.respond(s, i, "❌ You need Administrator or Manage Server permissions.")
		return
	}
	h.respondWith(s, i, fn)
}

func (h *Handler) respondWith(s *discordgo.Session, i *discordgo.InteractionCreate, fn func() (string, error)) {
	reply, err := fn()
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		h.respond(s, i, "❌ "+err.Error())
	case errors.Is(err, domain.ErrNotFound):
		h.respond(s, i, "❌ Not found.")
	case errors.Is(err, domain.ErrNoChannel):
		h.respond(s, i, "❌ No announce channel configured. Use /set_announce_channel.")
	case err != nil:
		h.logger.Error("command failed", "err", err)
		h.respond(s, i, "❌ Unexpected error.")
	default:
		h.respond(s, i, reply)
	}
}

func (h *Handler) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.Debug("interaction respond failed", "err", err)
	}
}

// respondEdit replaces the prompt message the button lived on, used in the
// onboarding DM flow.
func (h *Handler) respondEdit(s *discordgo.Session, i *discordgo.InteractionCreate, content string, components []discordgo.MessageComponent) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
		},
	})
	if err != nil {
		h.logger.Debug("interaction respond failed", "err", err)
	}
}

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	out := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, o := range opts {
		out[o.Name] = o
	}
	return out
}

func stringOpt(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if o, ok := opts[name]; ok {
		return o.StringValue()
	}
	return ""
}

func intOpt(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	if o, ok := opts[name]; ok {
		return o.IntValue()
	}
	return 0
}

func boolOpt(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) bool {
	if o, ok := opts[name]; ok {
		return o.BoolValue()
	}
	return false
}
