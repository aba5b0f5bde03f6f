package jsonfile

import (
	"context"
	"path/filepath"
	"sync"

	"flammebot/internal/domain"
)

// RSVPStoreRepo stores sign-up boards in event_rsvp.json keyed by the
// summary message ID.
type RSVPStoreRepo struct {
	path string
	mu   sync.Mutex
}

// NewRSVPStoreRepo creates a repository rooted at the data directory.
func NewRSVPStoreRepo(dataDir string) *RSVPStoreRepo {
	return &RSVPStoreRepo{path: filepath.Join(dataDir, "event_rsvp.json")}
}

func (r *RSVPStoreRepo) Load(ctx context.Context) (map[string]*domain.RSVPEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	store := make(map[string]*domain.RSVPEntry)
	if err := readDoc(r.path, &store); err != nil {
		return nil, err
	}
	for _, e := range store {
		e.Normalize()
	}
	return store, nil
}

func (r *RSVPStoreRepo) Save(ctx context.Context, store map[string]*domain.RSVPEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return writeDoc(r.path, store)
}

// RSVPConfigRepo stores per-guild role label configuration in
// event_rsvp_cfg.json.
type RSVPConfigRepo struct {
	path string
	mu   sync.Mutex
}

// NewRSVPConfigRepo creates a repository rooted at the data directory.
func NewRSVPConfigRepo(dataDir string) *RSVPConfigRepo {
	return &RSVPConfigRepo{path: filepath.Join(dataDir, "event_rsvp_cfg.json")}
}

func (r *RSVPConfigRepo) Load(ctx context.Context) (map[string]*domain.RoleLabelConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfgs := make(map[string]*domain.RoleLabelConfig)
	if err := readDoc(r.path, &cfgs); err != nil {
		return nil, err
	}
	return cfgs, nil
}

func (r *RSVPConfigRepo) Save(ctx context.Context, cfgs map[string]*domain.RoleLabelConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return writeDoc(r.path, cfgs)
}
