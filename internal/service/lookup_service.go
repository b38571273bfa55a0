package service

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/samudata/samudata-api/internal/models"
	appErrors "github.com/samudata/samudata-api/pkg/errors"
)

const (
	lookupCacheLayer = "lru"
	categoriesKey    = "categories"
	regionsKey       = "regions"
)

type lookupStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListRegions(ctx context.Context) ([]models.Region, error)
}

// LookupService serves the seeded category and region tables from a per-process TTL cache.
type LookupService struct {
	repo       lookupStore
	categories *expirable.LRU[string, []models.Category]
	regions    *expirable.LRU[string, []models.Region]
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewLookupService constructs the service. A non-positive size disables caching.
func NewLookupService(repo lookupStore, size int, ttl time.Duration, metrics *MetricsService, logger *zap.Logger) *LookupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &LookupService{repo: repo, metrics: metrics, logger: logger}
	if size > 0 {
		svc.categories = expirable.NewLRU[string, []models.Category](size, nil, ttl)
		svc.regions = expirable.NewLRU[string, []models.Region](size, nil, ttl)
	}
	return svc
}

// Categories returns every category ordered by name.
func (s *LookupService) Categories(ctx context.Context) ([]models.Category, error) {
	if s.categories != nil {
		if cached, ok := s.categories.Get(categoriesKey); ok {
			s.metrics.RecordCacheOperation(lookupCacheLayer, true, 0)
			return cached, nil
		}
		s.metrics.RecordCacheOperation(lookupCacheLayer, false, 0)
	}
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load categories")
	}
	if s.categories != nil {
		s.categories.Add(categoriesKey, categories)
	}
	return categories, nil
}

// Regions returns every region ordered by name.
func (s *LookupService) Regions(ctx context.Context) ([]models.Region, error) {
	if s.regions != nil {
		if cached, ok := s.regions.Get(regionsKey); ok {
			s.metrics.RecordCacheOperation(lookupCacheLayer, true, 0)
			return cached, nil
		}
		s.metrics.RecordCacheOperation(lookupCacheLayer, false, 0)
	}
	regions, err := s.repo.ListRegions(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load regions")
	}
	if s.regions != nil {
		s.regions.Add(regionsKey, regions)
	}
	return regions, nil
}

// CategoryExists reports whether id refers to a seeded category.
func (s *LookupService) CategoryExists(ctx context.Context, id int) (bool, error) {
	categories, err := s.Categories(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range categories {
		if c.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// RegionExists reports whether id refers to a seeded region.
func (s *LookupService) RegionExists(ctx context.Context, id int) (bool, error) {
	regions, err := s.Regions(ctx)
	if err != nil {
		return false, err
	}
	for _, r := range regions {
		if r.ID == id {
			return true, nil
		}
	}
	return false, nil
}
