package jsonfile

import (
	"context"
	"path/filepath"
	"sync"

	"flammebot/internal/domain"
)

// OnboardingConfigRepo stores per-guild onboarding configuration in
// onboarding_cfg.json.
type OnboardingConfigRepo struct {
	path string
	mu   sync.Mutex
}

// NewOnboardingConfigRepo creates a repository rooted at the data directory.
func NewOnboardingConfigRepo(dataDir string) *OnboardingConfigRepo {
	return &OnboardingConfigRepo{path: filepath.Join(dataDir, "onboarding_cfg.json")}
}

func (r *OnboardingConfigRepo) Load(ctx context.Context) (map[string]*domain.OnboardingConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfgs := make(map[string]*domain.OnboardingConfig)
	if err := readDoc(r.path, &cfgs); err != nil {
		return nil, err
	}
	return cfgs, nil
}

func (r *OnboardingConfigRepo) Save(ctx context.Context, cfgs map[string]*domain.OnboardingConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return writeDoc(r.path, cfgs)
}
