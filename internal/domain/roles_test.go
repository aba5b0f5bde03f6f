package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRoleLabel(t *testing.T) {
	cfg := RoleLabelConfig{TankRoleID: "rt", HealRoleID: "rh", DPSRoleID: "rd"}

	tests := []struct {
		name  string
		cfg   RoleLabelConfig
		roles []Role
		want  string
	}{
		{
			name:  "configured id match",
			cfg:   cfg,
			roles: []Role{{ID: "rd", Name: "Damage"}},
			want:  LabelDPS,
		},
		{
			name:  "configured id beats name match",
			cfg:   cfg,
			roles: []Role{{ID: "rh", Name: "Main Tank"}},
			want:  LabelHeal,
		},
		{
			name:  "tank wins over heal on ids",
			cfg:   cfg,
			roles: []Role{{ID: "rh"}, {ID: "rt"}},
			want:  LabelTank,
		},
		{
			name:  "name substring fallback",
			roles: []Role{{ID: "x", Name: "Healer Squad"}},
			want:  LabelHeal,
		},
		{
			name:  "dd counts as dps",
			roles: []Role{{ID: "x", Name: "Main DD"}},
			want:  LabelDPS,
		},
		{
			name:  "name matching is case-insensitive",
			roles: []Role{{ID: "x", Name: "TANKS"}},
			want:  LabelTank,
		},
		{
			name:  "tank beats heal on names",
			roles: []Role{{ID: "a", Name: "heal"}, {ID: "b", Name: "tank"}},
			want:  LabelTank,
		},
		{
			name:  "unresolved",
			roles: []Role{{ID: "x", Name: "Moderator"}},
			want:  "",
		},
		{
			name: "no roles",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveRoleLabel(tt.cfg, tt.roles))
		})
	}
}
