package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/samudata/samudata-api/internal/dto"
	"github.com/samudata/samudata-api/internal/models"
	appErrors "github.com/samudata/samudata-api/pkg/errors"
)

type fileStore interface {
	List(ctx context.Context, filter models.FileFilter) ([]models.FileListItem, error)
	GetActive(ctx context.Context, id int64) (*models.FileRecord, error)
	Stats(ctx context.Context) (*models.FileStats, error)
	IncrementDownload(ctx context.Context, id int64) error
	ToggleFavorite(ctx context.Context, id int64) error
	Archive(ctx context.Context, id int64) error
	SoftDelete(ctx context.Context, id int64) error
	Update(ctx context.Context, id int64, edit models.FileEdit) error
}

type payloadLocator interface {
	Exists(filename string) bool
}

var errFileNotFound = appErrors.Clone(appErrors.ErrNotFound, "File not found")

// FileService answers listing, statistics and download queries and applies metadata mutations.
type FileService struct {
	repo      fileStore
	storage   payloadLocator
	cache     *CacheService
	metrics   *MetricsService
	audit     auditTrail
	validator *validator.Validate
	statsTTL  time.Duration
	logger    *zap.Logger
}

// NewFileService constructs the service.
func NewFileService(repo fileStore, storage payloadLocator, recorder activityRecorder, cache *CacheService, metrics *MetricsService, statsTTL time.Duration, logger *zap.Logger) *FileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileService{
		repo:      repo,
		storage:   storage,
		cache:     cache,
		metrics:   metrics,
		audit:     auditTrail{recorder: recorder, metrics: metrics, logger: logger},
		validator: newValidator(),
		statsTTL:  statsTTL,
		logger:    logger,
	}
}

// List returns active files matching every provided filter, newest first.
func (s *FileService) List(ctx context.Context, q dto.FileListQuery) ([]models.FileListItem, error) {
	if q.Limit < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "limit must not be negative")
	}
	if q.Region < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "region must be a positive id")
	}
	items, err := s.repo.List(ctx, models.FileFilter{
		Category: strings.TrimSpace(q.Category),
		RegionID: q.Region,
		Search:   q.Search,
		Limit:    q.Limit,
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load files")
	}
	return items, nil
}

// Stats aggregates the active files.
func (s *FileService) Stats(ctx context.Context) (*models.FileStats, error) {
	var cached models.FileStats
	if hit, _ := s.cache.Get(ctx, CacheKeyFileStats, &cached); hit {
		return &cached, nil
	}
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to get statistics")
	}
	_ = s.cache.Set(ctx, CacheKeyFileStats, stats, s.statsTTL)
	return stats, nil
}

// Download resolves an active file with its payload, counts the download and records it once.
func (s *FileService) Download(ctx context.Context, id int64) (*models.FileDownload, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "File ID is required")
	}
	rec, err := s.repo.GetActive(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errFileNotFound
		}
		return nil, appErrors.Internal(err, "failed to load file")
	}
	if !s.storage.Exists(rec.Filename) {
		s.logger.Warn("payload missing for active file", zap.Int64("file_id", rec.ID), zap.String("filename", rec.Filename))
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Physical file not found")
	}
	if err := s.repo.IncrementDownload(ctx, rec.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errFileNotFound
		}
		return nil, appErrors.Internal(err, "failed to update download count")
	}
	s.audit.append(ctx, rec.ID, models.AccessActionDownload)
	s.metrics.RecordDownload()
	return &models.FileDownload{
		ID:               rec.ID,
		Filename:         rec.Filename,
		FilePath:         rec.FilePath,
		OriginalFilename: rec.OriginalFilename,
		MimeType:         rec.MimeType,
		FileSize:         rec.FileSize,
	}, nil
}

// ToggleFavorite flips the favorite flag.
func (s *FileService) ToggleFavorite(ctx context.Context, id int64) error {
	if err := s.mutate(ctx, id, "failed to update favorite", s.repo.ToggleFavorite); err != nil {
		return err
	}
	s.audit.append(ctx, id, models.AccessActionUpdate)
	return nil
}

// Archive sets the archived flag.
func (s *FileService) Archive(ctx context.Context, id int64) error {
	if err := s.mutate(ctx, id, "failed to archive file", s.repo.Archive); err != nil {
		return err
	}
	s.audit.append(ctx, id, models.AccessActionUpdate)
	return nil
}

// Delete soft-deletes the file. Its payload stays in the content store.
func (s *FileService) Delete(ctx context.Context, id int64) error {
	if err := s.mutate(ctx, id, "failed to delete file", s.repo.SoftDelete); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, CacheKeyFileStats)
	s.audit.append(ctx, id, models.AccessActionDelete)
	s.logger.Info("file deleted", zap.Int64("file_id", id))
	return nil
}

// Edit rewrites title, description and tags of an active file.
func (s *FileService) Edit(ctx context.Context, req dto.EditFileRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err)
	}
	edit := models.FileEdit{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Tags:        dto.ParseTags(req.Tags),
	}
	update := func(ctx context.Context, id int64) error { return s.repo.Update(ctx, id, edit) }
	if err := s.mutate(ctx, req.FileID, "failed to update file", update); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, CacheKeyFileStats)
	s.audit.append(ctx, req.FileID, models.AccessActionUpdate)
	return nil
}

func (s *FileService) mutate(ctx context.Context, id int64, failure string, fn func(context.Context, int64) error) error {
	if id <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "File ID is required")
	}
	if err := fn(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errFileNotFound
		}
		return appErrors.Internal(err, failure)
	}
	return nil
}
