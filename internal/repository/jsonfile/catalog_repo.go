package jsonfile

import (
	"context"
	"path/filepath"
	"sync"

	"flammebot/internal/domain"
)

// GuildConfigRepo stores the per-guild event catalog in guild_configs.json.
type GuildConfigRepo struct {
	path string
	mu   sync.Mutex
}

// NewGuildConfigRepo creates a repository rooted at the data directory.
func NewGuildConfigRepo(dataDir string) *GuildConfigRepo {
	return &GuildConfigRepo{path: filepath.Join(dataDir, "guild_configs.json")}
}

func (r *GuildConfigRepo) Load(ctx context.Context) (map[string]*domain.GuildConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfgs := make(map[string]*domain.GuildConfig)
	if err := readDoc(r.path, &cfgs); err != nil {
		return nil, err
	}
	for gid, cfg := range cfgs {
		if cfg.GuildID == "" {
			cfg.GuildID = gid
		}
		if cfg.Events == nil {
			cfg.Events = make(map[string]*domain.EventDefinition)
		}
	}
	return cfgs, nil
}

func (r *GuildConfigRepo) Save(ctx context.Context, cfgs map[string]*domain.GuildConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return writeDoc(r.path, cfgs)
}
