// Package discord adapts the bot's collaborator interfaces onto a
// discordgo session. Everything here is transport glue; the vote and
// schedule logic lives in the services.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"flammebot/internal/domain"
)

// Adapter wraps a discordgo session and implements domain.Messenger and
// domain.GuildDirectory.
type Adapter struct {
	session *discordgo.Session
	logger  *slog.Logger
}

// New creates a session for the bot token. Open must be called before use.
func New(token string, logger *slog.Logger) (*Adapter, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages
	return &Adapter{session: session, logger: logger}, nil
}

// Open connects the gateway session.
func (a *Adapter) Open() error {
	if err := a.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	return nil
}

// Close shuts the gateway session down.
func (a *Adapter) Close() error {
	return a.session.Close()
}

// SendMessage implements domain.Messenger.
func (a *Adapter) SendMessage(ctx context.Context, channelID string, msg *domain.Message) (string, error) {
	sent, err := a.session.ChannelMessageSendComplex(channelID, buildSend(msg))
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	return sent.ID, nil
}

// EditMessage implements domain.Messenger.
func (a *Adapter) EditMessage(ctx context.Context, channelID, messageID string, msg *domain.Message) error {
	edit := discordgo.NewMessageEdit(channelID, messageID)
	if msg.Content != "" {
		edit.SetContent(msg.Content)
	}
	if msg.Card != nil {
		edit.SetEmbed(cardToEmbed(msg.Card))
	}
	if _, err := a.session.ChannelMessageEditComplex(edit); err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

// SendDirectMessage implements domain.Messenger.
func (a *Adapter) SendDirectMessage(ctx context.Context, userID string, msg *domain.Message) (string, error) {
	dm, err := a.session.UserChannelCreate(userID)
	if err != nil {
		return "", fmt.Errorf("open dm channel: %w", err)
	}
	return a.SendMessage(ctx, dm.ID, msg)
}

// ChannelExists implements domain.GuildDirectory.
func (a *Adapter) ChannelExists(ctx context.Context, guildID, channelID string) bool {
	ch, err := a.session.State.Channel(channelID)
	if err != nil {
		ch, err = a.session.Channel(channelID)
	}
	return err == nil && ch != nil && ch.GuildID == guildID
}

// RoleByName implements domain.GuildDirectory.
func (a *Adapter) RoleByName(ctx context.Context, guildID, name string) (string, bool) {
	guild, err := a.session.State.Guild(guildID)
	if err != nil {
		return "", false
	}
	for _, r := range guild.Roles {
		if strings.EqualFold(r.Name, name) {
			return r.ID, true
		}
	}
	return "", false
}

// MemberRoles implements domain.GuildDirectory.
func (a *Adapter) MemberRoles(ctx context.Context, guildID, memberID string) ([]domain.Role, error) {
	member, err := a.session.GuildMember(guildID, memberID)
	if err != nil {
		return nil, fmt.Errorf("fetch guild member: %w", err)
	}
	guild, err := a.session.State.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("guild state: %w", err)
	}
	names := make(map[string]string, len(guild.Roles))
	for _, r := range guild.Roles {
		names[r.ID] = r.Name
	}
	roles := make([]domain.Role, 0, len(member.Roles))
	for _, id := range member.Roles {
		roles = append(roles, domain.Role{ID: id, Name: names[id]})
	}
	return roles, nil
}

// RoleMembers implements domain.GuildDirectory. Relies on the members
// intent having filled the state cache.
func (a *Adapter) RoleMembers(ctx context.Context, guildID, roleID string) ([]string, error) {
	guild, err := a.session.State.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("guild state: %w", err)
	}
	members := guild.Members
	if len(members) == 0 {
		members, err = a.session.GuildMembers(guildID, "", 1000)
		if err != nil {
			return nil, fmt.Errorf("list guild members: %w", err)
		}
	}
	var out []string
	for _, m := range members {
		if m.User != nil && m.User.Bot {
			continue
		}
		for _, id := range m.Roles {
			if id == roleID {
				out = append(out, m.User.ID)
				break
			}
		}
	}
	return out, nil
}

// MemberDisplay implements domain.GuildDirectory. Mentions resolve
// client-side, so no lookup is needed.
func (a *Adapter) MemberDisplay(ctx context.Context, guildID, memberID string) string {
	return domain.Mention(memberID)
}

// AssignRole implements domain.GuildDirectory.
func (a *Adapter) AssignRole(ctx context.Context, guildID, memberID, roleID string) error {
	if err := a.session.GuildMemberRoleAdd(guildID, memberID, roleID); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}

func buildSend(msg *domain.Message) *discordgo.MessageSend {
	out := &discordgo.MessageSend{Content: msg.Content}
	if msg.Card != nil {
		out.Embeds = []*discordgo.MessageEmbed{cardToEmbed(msg.Card)}
	}
	if comps := buttonComponents(msg.Buttons, msg.ButtonRef); comps != nil {
		out.Components = comps
	}
	return out
}

func cardToEmbed(c *domain.Card) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       c.Title,
		Description: c.Description,
		Color:       0x5865F2,
	}
	for _, f := range c.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	if c.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: c.ImageURL}
	}
	if c.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: c.Footer}
	}
	return embed
}
