package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"flammebot/internal/domain"
)

// buttonComponents builds the component rows for a message. ref carries
// per-message state so a press can be dispatched without a lookup:
// for RSVP DM copies the board message ID, for onboarding prompts the
// guild ID (plus category for the experience step), for review cards
// "<memberID>:<category>".
func buttonComponents(set domain.ButtonSet, ref string) []discordgo.MessageComponent {
	switch set {
	case domain.ButtonsRSVP:
		suffix := ""
		if ref != "" {
			suffix = ":" + ref
		}
		return []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				button("🛡️ Tank", discordgo.PrimaryButton, "rsvp:TANK"+suffix),
				button("💚 Heal", discordgo.SuccessButton, "rsvp:HEAL"+suffix),
				button("🗡️ DPS", discordgo.DangerButton, "rsvp:DPS"+suffix),
			}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				button("❔ Maybe", discordgo.SecondaryButton, "rsvp:MAYBE"+suffix),
				button("❌ Decline", discordgo.SecondaryButton, "rsvp:NO"+suffix),
			}},
		}
	case domain.ButtonsOnboardStart:
		return []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				button(domain.CategoryGuildMember, discordgo.PrimaryButton, "onboard:cat:guild:"+ref),
				button(domain.CategoryAllyMember, discordgo.SecondaryButton, "onboard:cat:ally:"+ref),
				button(domain.CategoryFriend, discordgo.SecondaryButton, "onboard:cat:friend:"+ref),
			}},
		}
	case domain.ButtonsOnboardExp:
		// ref is "<guildID>:<catkey>".
		return []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				button(domain.ExperienceVeteran, discordgo.PrimaryButton, "onboard:exp:"+ref+":veteran"),
				button(domain.ExperienceNewbie, discordgo.SecondaryButton, "onboard:exp:"+ref+":newbie"),
			}},
		}
	case domain.ButtonsReview:
		memberID := ref
		if idx := strings.Index(ref, ":"); idx >= 0 {
			memberID = ref[:idx]
		}
		return []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				button("✅ Accept", discordgo.SuccessButton, "review:accept:"+ref),
				button("❌ Deny", discordgo.DangerButton, "review:deny:"+memberID),
			}},
		}
	default:
		return nil
	}
}

func button(label string, style discordgo.ButtonStyle, customID string) discordgo.Button {
	return discordgo.Button{Label: label, Style: style, CustomID: customID}
}
