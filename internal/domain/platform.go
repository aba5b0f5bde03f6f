package domain

import "context"

// Member is the pressing/joining user as handed in by the transport.
type Member struct {
	ID      string
	GuildID string
	Display string
	Roles   []Role
	IsAdmin bool // Administrator or Manage Server on the guild
}

// Mention renders a platform mention for a member ID.
func Mention(memberID string) string {
	return "<@" + memberID + ">"
}

// RoleMention renders a platform mention for a role ID.
func RoleMention(roleID string) string {
	return "<@&" + roleID + ">"
}

// ButtonSet names the interactive component row attached to a message.
type ButtonSet string

const (
	ButtonsNone         ButtonSet = ""
	ButtonsRSVP         ButtonSet = "rsvp"
	ButtonsOnboardStart ButtonSet = "onboard_start"
	ButtonsOnboardExp   ButtonSet = "onboard_exp"
	ButtonsReview       ButtonSet = "review"
)

// CardField is one labeled section of a summary card.
type CardField struct {
	Name   string
	Value  string
	Inline bool
}

// Card is a displayable summary: the platform-agnostic shape of an embed.
type Card struct {
	Title       string
	Description string
	Fields      []CardField
	ImageURL    string
	Footer      string
}

// Message is an outbound message body. Either Content or Card (or both)
// may be set; Buttons names the component row the transport should attach,
// with ButtonRef carrying the board/member reference encoded in custom IDs.
type Message struct {
	Content   string
	Card      *Card
	Buttons   ButtonSet
	ButtonRef string
}

// Messenger sends and edits messages on the chat platform. Failures are
// reported, never retried; delivery is at most once.
type Messenger interface {
	SendMessage(ctx context.Context, channelID string, msg *Message) (messageID string, err error)
	EditMessage(ctx context.Context, channelID, messageID string, msg *Message) error
	SendDirectMessage(ctx context.Context, userID string, msg *Message) (messageID string, err error)
}

// GuildDirectory resolves live guild state. References stored in documents
// are resolved lazily through this interface at use time, never cached as
// objects, since the referenced channel or role may have been deleted.
type GuildDirectory interface {
	ChannelExists(ctx context.Context, guildID, channelID string) bool
	RoleByName(ctx context.Context, guildID, name string) (roleID string, ok bool)
	MemberRoles(ctx context.Context, guildID, memberID string) ([]Role, error)
	RoleMembers(ctx context.Context, guildID, roleID string) ([]string, error)
	MemberDisplay(ctx context.Context, guildID, memberID string) string
	AssignRole(ctx context.Context, guildID, memberID, roleID string) error
}
