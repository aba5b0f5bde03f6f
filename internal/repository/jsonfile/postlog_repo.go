package jsonfile

import (
	"context"
	"path/filepath"
	"sync"

	"flammebot/internal/domain"
)

// PostLogRepo stores the notification dedup log in post_log.json as a
// sorted array of key strings.
type PostLogRepo struct {
	path string
	mu   sync.Mutex
}

// NewPostLogRepo creates a repository rooted at the data directory.
func NewPostLogRepo(dataDir string) *PostLogRepo {
	return &PostLogRepo{path: filepath.Join(dataDir, "post_log.json")}
}

func (r *PostLogRepo) Load(ctx context.Context) (domain.DedupLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var keys []string
	if err := readDoc(r.path, &keys); err != nil {
		return nil, err
	}
	log := make(domain.DedupLog, len(keys))
	for _, k := range keys {
		log.Add(k)
	}
	return log, nil
}

func (r *PostLogRepo) Save(ctx context.Context, log domain.DedupLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return writeDoc(r.path, log.Keys())
}
