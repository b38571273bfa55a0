package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samudata/samudata-api/internal/models"
	"github.com/samudata/samudata-api/internal/repository"
	appErrors "github.com/samudata/samudata-api/pkg/errors"
)

// memFileRepo mimics the files table including the partial unique index on active hashes.
type memFileRepo struct {
	mu            sync.Mutex
	records       map[int64]*models.FileRecord
	categoryNames map[int]string
	nextID        int64
	createErr     error
	lastFilter    models.FileFilter
	statsCalls    int
}

func newMemFileRepo() *memFileRepo {
	return &memFileRepo{
		records:       make(map[int64]*models.FileRecord),
		categoryNames: map[int]string{1: "tangkap", 2: "budidaya"},
	}
}

func (r *memFileRepo) Create(ctx context.Context, rec *models.FileRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.records {
		if existing.Status == models.FileStatusActive && existing.FileHash == rec.FileHash {
			return repository.ErrDuplicateHash
		}
	}
	r.nextID++
	rec.ID = r.nextID
	rec.Status = models.FileStatusActive
	rec.CreatedAt = time.Now().Add(time.Duration(r.nextID) * time.Second)
	copy := *rec
	r.records[rec.ID] = &copy
	return nil
}

func (r *memFileRepo) ExistsActiveHash(ctx context.Context, hash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.Status == models.FileStatusActive && rec.FileHash == hash {
			return true, nil
		}
	}
	return false, nil
}

func (r *memFileRepo) GetActive(ctx context.Context, id int64) (*models.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.Status != models.FileStatusActive {
		return nil, sql.ErrNoRows
	}
	copy := *rec
	return &copy, nil
}

func (r *memFileRepo) List(ctx context.Context, filter models.FileFilter) ([]models.FileListItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = filter
	items := make([]models.FileListItem, 0)
	for _, rec := range r.records {
		if rec.Status != models.FileStatusActive {
			continue
		}
		name := r.categoryNames[rec.CategoryID]
		if filter.Category != "" && name != filter.Category {
			continue
		}
		if filter.RegionID > 0 && rec.RegionID != filter.RegionID {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(rec.Title), needle) && !strings.Contains(strings.ToLower(rec.Description), needle) {
				continue
			}
		}
		items = append(items, models.FileListItem{FileRecord: *rec, CategoryName: name})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

func (r *memFileRepo) Stats(ctx context.Context) (*models.FileStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statsCalls++
	stats := &models.FileStats{}
	counts := make(map[int]int)
	for _, rec := range r.records {
		if rec.Status != models.FileStatusActive {
			continue
		}
		counts[rec.CategoryID]++
		stats.TotalFiles++
		stats.TotalSize += rec.FileSize
		stats.RecentUploads = append(stats.RecentUploads, models.RecentUpload{Title: rec.Title})
	}
	for id, name := range r.categoryNames {
		stats.Categories = append(stats.Categories, models.CategoryCount{Name: name, Count: counts[id]})
	}
	return stats, nil
}

func (r *memFileRepo) mutateActive(id int64, fn func(*models.FileRecord)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.Status != models.FileStatusActive {
		return sql.ErrNoRows
	}
	fn(rec)
	return nil
}

func (r *memFileRepo) IncrementDownload(ctx context.Context, id int64) error {
	return r.mutateActive(id, func(rec *models.FileRecord) { rec.DownloadCount++ })
}

func (r *memFileRepo) ToggleFavorite(ctx context.Context, id int64) error {
	return r.mutateActive(id, func(rec *models.FileRecord) { rec.IsFavorite = !rec.IsFavorite })
}

func (r *memFileRepo) Archive(ctx context.Context, id int64) error {
	return r.mutateActive(id, func(rec *models.FileRecord) { rec.IsArchived = true })
}

func (r *memFileRepo) SoftDelete(ctx context.Context, id int64) error {
	return r.mutateActive(id, func(rec *models.FileRecord) { rec.Status = models.FileStatusDeleted })
}

func (r *memFileRepo) Update(ctx context.Context, id int64, edit models.FileEdit) error {
	return r.mutateActive(id, func(rec *models.FileRecord) {
		rec.Title = edit.Title
		rec.Description = edit.Description
		rec.Tags = edit.Tags
	})
}

func (r *memFileRepo) activeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, rec := range r.records {
		if rec.Status == models.FileStatusActive {
			n++
		}
	}
	return n
}

type recordedActivity struct {
	fileID *int64
	action models.AccessAction
	actor  models.Actor
}

type activityStub struct {
	mu      sync.Mutex
	entries []recordedActivity
	err     error
}

func (a *activityStub) Record(ctx context.Context, fileID *int64, action models.AccessAction) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.entries = append(a.entries, recordedActivity{fileID: fileID, action: action, actor: models.ActorFromContext(ctx)})
	return nil
}

func (a *activityStub) count(action models.AccessAction) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, e := range a.entries {
		if e.action == action {
			n++
		}
	}
	return n
}

type limitsStub struct {
	limits models.UploadLimits
	err    error
	calls  int
}

func (l *limitsStub) UploadLimits(ctx context.Context) (models.UploadLimits, error) {
	l.calls++
	return l.limits, l.err
}

type lookupStub struct {
	categories map[int]bool
	regions    map[int]bool
}

func (l lookupStub) CategoryExists(ctx context.Context, id int) (bool, error) {
	return l.categories[id], nil
}

func (l lookupStub) RegionExists(ctx context.Context, id int) (bool, error) {
	return l.regions[id], nil
}

type cacheRepoStub struct {
	mu      sync.Mutex
	values  map[string][]byte
	deleted []string
	getErr  error
}

func newCacheRepoStub() *cacheRepoStub {
	return &cacheRepoStub{values: make(map[string][]byte)}
}

func (c *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return c.getErr
	}
	raw, ok := c.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	return nil
}

func (c *cacheRepoStub) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.values, key)
		c.deleted = append(c.deleted, key)
	}
	return nil
}
