package domain

import (
	"context"
	"strings"
)

// Role labels shown on summary cards and maybe annotations.
const (
	LabelTank = "Tank"
	LabelHeal = "Heal"
	LabelDPS  = "DPS"
)

// Role is a guild role as seen on a member.
type Role struct {
	ID   string
	Name string
}

// RoleLabelConfig maps a guild's combat roles to role IDs, plus an optional
// log channel for RSVP action lines. JSON field names match the persisted
// rsvp config document.
type RoleLabelConfig struct {
	TankRoleID   string `json:"TANK,omitempty"`
	HealRoleID   string `json:"HEAL,omitempty"`
	DPSRoleID    string `json:"DPS,omitempty"`
	LogChannelID string `json:"LOG_CH,omitempty"`
}

// ResolveRoleLabel derives a member's combat role label from its guild
// roles: configured role IDs win, then a case-insensitive substring match
// on role names ("dd" counts as DPS). Priority is Tank > Heal > DPS; an
// empty string means unresolved. Stateless, recomputed on demand.
func ResolveRoleLabel(cfg RoleLabelConfig, roles []Role) string {
	for _, r := range roles {
		if cfg.TankRoleID != "" && r.ID == cfg.TankRoleID {
			return LabelTank
		}
	}
	for _, r := range roles {
		if cfg.HealRoleID != "" && r.ID == cfg.HealRoleID {
			return LabelHeal
		}
	}
	for _, r := range roles {
		if cfg.DPSRoleID != "" && r.ID == cfg.DPSRoleID {
			return LabelDPS
		}
	}
	for _, r := range roles {
		if strings.Contains(strings.ToLower(r.Name), "tank") {
			return LabelTank
		}
	}
	for _, r := range roles {
		if strings.Contains(strings.ToLower(r.Name), "heal") {
			return LabelHeal
		}
	}
	for _, r := range roles {
		name := strings.ToLower(r.Name)
		if strings.Contains(name, "dps") || strings.Contains(name, "dd") {
			return LabelDPS
		}
	}
	return ""
}

// RSVPConfigRepository persists per-guild role label configuration.
type RSVPConfigRepository interface {
	Load(ctx context.Context) (map[string]*RoleLabelConfig, error)
	Save(ctx context.Context, cfgs map[string]*RoleLabelConfig) error
}
