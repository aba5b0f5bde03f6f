package discord

import "github.com/bwmarrin/discordgo"

func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "set_announce_channel",
			Description: "Set the default channel for event reminders",
			Options: []*discordgo.ApplicationCommandOption{
				channelOpt("channel", "Channel for reminders", true),
			},
		},
		{
			Name:        "add_event",
			Description: "Add or replace a recurring event",
			Options: []*discordgo.ApplicationCommandOption{
				stringOptDef("name", "Event name (case-insensitive key)", true),
				stringOptDef("weekdays", "Weekdays, e.g. mon,wed,fri or 0,2,4", true),
				stringOptDef("start_time", "Start time HH:MM (24h)", true),
				intOptDef("duration_min", "Duration in minutes", true),
				stringOptDef("pre_reminders", "Reminder offsets in minutes, e.g. 60,15", false),
				roleOpt("mention_role", "Role to mention in reminders", false),
				channelOpt("channel", "Override channel for this event", false),
				stringOptDef("description", "Shown in reminders", false),
			},
		},
		{
			Name:        "add_onetime_event",
			Description: "Add or replace a one-time event",
			Options: []*discordgo.ApplicationCommandOption{
				stringOptDef("name", "Event name (case-insensitive key)", true),
				stringOptDef("date", "Date YYYY-MM-DD", true),
				stringOptDef("start_time", "Start time HH:MM (24h)", true),
				intOptDef("duration_min", "Duration in minutes", true),
				stringOptDef("pre_reminders", "Reminder offsets in minutes, e.g. 60,15", false),
				roleOpt("mention_role", "Role to mention in reminders", false),
				channelOpt("channel", "Override channel for this event", false),
				stringOptDef("description", "Shown in reminders", false),
			},
		},
		{
			Name:        "list_events",
			Description: "List all configured events",
		},
		{
			Name:        "remove_event",
			Description: "Remove an event by name",
			Options: []*discordgo.ApplicationCommandOption{
				stringOptDef("name", "Event name", true),
			},
		},
		{
			Name:        "test_event_ping",
			Description: "Send a test ping for an event to its channel",
			Options: []*discordgo.ApplicationCommandOption{
				stringOptDef("name", "Event name", true),
			},
		},
		{
			Name:        "raid_create",
			Description: "Post a sign-up board",
			Options: []*discordgo.ApplicationCommandOption{
				channelOpt("channel", "Channel for the board", true),
				stringOptDef("title", "Board title", true),
				stringOptDef("when", "Start 'YYYY-MM-DD HH:MM'", true),
				stringOptDef("description", "Board description", false),
				stringOptDef("image_url", "Image shown on the card", false),
				roleOpt("target_role", "Target group for the board", false),
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "notify_dm",
					Description: "DM every member of the target role",
				},
			},
		},
		{
			Name:        "raid_set_roles",
			Description: "Map server roles to Tank/Heal/DPS labels",
			Options: []*discordgo.ApplicationCommandOption{
				roleOpt("tank_role", "Tank role", true),
				roleOpt("heal_role", "Heal role", true),
				roleOpt("dps_role", "DPS role", true),
			},
		},
		{
			Name:        "raid_set_log_channel",
			Description: "Set the channel for sign-up audit lines",
			Options: []*discordgo.ApplicationCommandOption{
				channelOpt("channel", "Log channel", true),
			},
		},
		{
			Name:        "raid_close",
			Description: "Close sign-ups on a board",
			Options: []*discordgo.ApplicationCommandOption{
				stringOptDef("message_id", "Message ID of the board", true),
			},
		},
		{
			Name:        "onboarding_set_channel",
			Description: "Set the channel where join requests are reviewed",
			Options: []*discordgo.ApplicationCommandOption{
				channelOpt("channel", "Review channel", true),
			},
		},
		{
			Name:        "onboarding_set_newbie",
			Description: "Set the role granted to inexperienced joiners",
			Options: []*discordgo.ApplicationCommandOption{
				roleOpt("role", "Newbie role", true),
			},
		},
		{
			Name:        "onboarding_test",
			Description: "Send yourself the onboarding DM",
		},
	}
}

func stringOptDef(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

func intOptDef(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

func channelOpt(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionChannel,
		Name:        name,
		Description: description,
		Required:    required,
		ChannelTypes: []discordgo.ChannelType{
			discordgo.ChannelTypeGuildText,
			discordgo.ChannelTypeGuildNews,
		},
	}
}

func roleOpt(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionRole,
		Name:        name,
		Description: description,
		Required:    required,
	}
}
