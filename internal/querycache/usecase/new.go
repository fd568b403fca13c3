package usecase

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"query-gateway/internal/model"
	"query-gateway/internal/querycache"
	"query-gateway/internal/querycache/repository"
	"query-gateway/pkg/log"
)

// DefaultLRUSize is the number of cache entries kept in memory in front of the repository.
const DefaultLRUSize = 100

// Options configures the cache use case.
type Options struct {
	// Enabled turns lookups on. Feedback is recorded either way.
	Enabled bool
	LRUSize int
}

type implUseCase struct {
	repo    repository.Repository
	front   *lru.Cache[string, model.CacheEntry]
	enabled bool
	l       log.Logger
	now     func() time.Time
}

var _ querycache.Store = (*implUseCase)(nil)

// New creates the cache use case over repo.
func New(repo repository.Repository, opt Options, l log.Logger) (*implUseCase, error) {
	size := opt.LRUSize
	if size <= 0 {
		size = DefaultLRUSize
	}
	front, err := lru.New[string, model.CacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &implUseCase{
		repo:    repo,
		front:   front,
		enabled: opt.Enabled,
		l:       l,
		now:     time.Now,
	}, nil
}
