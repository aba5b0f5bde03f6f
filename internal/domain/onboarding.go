package domain

import "context"

// Onboarding categories a new member can pick in the welcome DM.
const (
	CategoryGuildMember = "Guild member"
	CategoryAllyMember  = "Alliance member"
	CategoryFriend      = "Friend"
)

// Experience answers for guild/alliance picks.
const (
	ExperienceVeteran = "Experienced"
	ExperienceNewbie  = "Inexperienced"
)

// OnboardingConfig holds a guild's review channel and the role handed to
// inexperienced members. JSON field names match the persisted document.
type OnboardingConfig struct {
	ReviewChannelID string `json:"accept_ch,omitempty"`
	NewbieRoleID    string `json:"newbie_role,omitempty"`
}

// OnboardingConfigRepository persists per-guild onboarding configuration.
type OnboardingConfigRepository interface {
	Load(ctx context.Context) (map[string]*OnboardingConfig, error)
	Save(ctx context.Context, cfgs map[string]*OnboardingConfig) error
}
