package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samudata/samudata-api/internal/dto"
	"github.com/samudata/samudata-api/internal/models"
	"github.com/samudata/samudata-api/internal/repository"
	appErrors "github.com/samudata/samudata-api/pkg/errors"
)

const (
	defaultMimeType = "application/octet-stream"

	// Column widths of files.original_filename and files.mime_type.
	maxOriginalFilenameLength = 255
	maxMimeTypeLength         = 150
)

type uploadStore interface {
	Create(ctx context.Context, rec *models.FileRecord) error
	ExistsActiveHash(ctx context.Context, hash string) (bool, error)
}

type contentStore interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Digest(filename string) (string, error)
	Delete(filename string) error
}

type uploadLimitsProvider interface {
	UploadLimits(ctx context.Context) (models.UploadLimits, error)
}

type lookupChecker interface {
	CategoryExists(ctx context.Context, id int) (bool, error)
	RegionExists(ctx context.Context, id int) (bool, error)
}

// UploadPayload is the binary part of an upload as received by the transport.
type UploadPayload struct {
	Filename string
	Size     int64
	MimeType string
	Content  io.Reader
	// TransportErr is set when the transport could not deliver the file part intact.
	TransportErr error
}

// IngestionService validates, stores and deduplicates uploaded documents.
type IngestionService struct {
	repo      uploadStore
	storage   contentStore
	limits    uploadLimitsProvider
	lookups   lookupChecker
	cache     *CacheService
	metrics   *MetricsService
	audit     auditTrail
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	newName   func(ext string, at time.Time) string
}

// NewIngestionService constructs the service.
func NewIngestionService(repo uploadStore, storage contentStore, limits uploadLimitsProvider, lookups lookupChecker, recorder activityRecorder, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *IngestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestionService{
		repo:      repo,
		storage:   storage,
		limits:    limits,
		lookups:   lookups,
		cache:     cache,
		metrics:   metrics,
		audit:     auditTrail{recorder: recorder, metrics: metrics, logger: logger},
		validator: newValidator(),
		logger:    logger,
		now:       time.Now,
		newName:   storageName,
	}
}

// Upload runs the ingestion workflow and returns the new file id.
func (s *IngestionService) Upload(ctx context.Context, meta dto.UploadFileRequest, payload UploadPayload) (int64, error) {
	id, err := s.upload(ctx, meta, payload)
	switch {
	case err == nil:
		s.metrics.RecordUpload(UploadOutcomeAccepted, payload.Size)
	case errors.Is(err, appErrors.ErrDuplicate):
		s.metrics.RecordUpload(UploadOutcomeDuplicate, 0)
	case errors.Is(err, appErrors.ErrValidation):
		s.metrics.RecordUpload(UploadOutcomeRejected, 0)
	default:
		s.metrics.RecordUpload(UploadOutcomeFailed, 0)
	}
	return id, err
}

func (s *IngestionService) upload(ctx context.Context, meta dto.UploadFileRequest, payload UploadPayload) (int64, error) {
	if payload.Content == nil && payload.TransportErr == nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "No file uploaded")
	}
	if err := s.validator.Struct(meta); err != nil {
		return 0, validationError(err)
	}

	limits, err := s.limits.UploadLimits(ctx)
	if err != nil {
		return 0, err
	}
	if payload.Size > limits.MaxFileSize {
		return 0, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("File size exceeds maximum allowed size of %d bytes", limits.MaxFileSize))
	}
	ext := normalizeExtension(filepath.Ext(payload.Filename))
	if !limits.Allows(ext) {
		return 0, appErrors.Clone(appErrors.ErrValidation, "File type not allowed")
	}
	originalName := filepath.Base(payload.Filename)
	if utf8.RuneCountInString(originalName) > maxOriginalFilenameLength {
		return 0, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("Filename must be at most %d characters", maxOriginalFilenameLength))
	}
	if payload.TransportErr != nil {
		return 0, appErrors.Wrap(payload.TransportErr, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "File upload error")
	}
	if err := s.ensureLookups(ctx, meta); err != nil {
		return 0, err
	}
	uploadDate, err := s.resolveUploadDate(meta.UploadDate)
	if err != nil {
		return 0, err
	}

	storedName := s.newName(ext, s.now())
	path, err := s.storage.SaveStream(storedName, payload.Content)
	if err != nil {
		return 0, appErrors.Internal(err, "Failed to move uploaded file")
	}
	hash, err := s.storage.Digest(storedName)
	if err != nil {
		s.discard(storedName)
		return 0, appErrors.Internal(err, "failed to hash uploaded file")
	}
	duplicate, err := s.repo.ExistsActiveHash(ctx, hash)
	if err != nil {
		s.discard(storedName)
		return 0, appErrors.Internal(err, "failed to check for duplicates")
	}
	if duplicate {
		s.discard(storedName)
		return 0, appErrors.ErrDuplicate
	}

	actor := models.ActorFromContext(ctx)
	mimeType := strings.TrimSpace(payload.MimeType)
	if mimeType == "" || utf8.RuneCountInString(mimeType) > maxMimeTypeLength {
		mimeType = defaultMimeType
	}
	rec := &models.FileRecord{
		Title:            strings.TrimSpace(meta.Title),
		Description:      strings.TrimSpace(meta.Description),
		Filename:         storedName,
		OriginalFilename: originalName,
		FilePath:         path,
		FileSize:         payload.Size,
		MimeType:         mimeType,
		FileHash:         hash,
		CategoryID:       meta.CategoryID,
		RegionID:         meta.RegionID,
		UploaderName:     strings.TrimSpace(meta.UploaderName),
		UploaderEmail:    strings.TrimSpace(meta.UploaderEmail),
		UploadDate:       uploadDate,
		Tags:             dto.ParseTags(meta.Tags),
		Metadata: models.JSONMap{
			"ip_address": actor.IPAddress,
			"user_agent": actor.UserAgent,
		},
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		s.discard(storedName)
		if errors.Is(err, repository.ErrDuplicateHash) {
			return 0, appErrors.ErrDuplicate
		}
		return 0, appErrors.Internal(err, "Failed to save file metadata")
	}

	s.cache.Invalidate(ctx, CacheKeyFileStats)
	s.audit.append(ctx, rec.ID, models.AccessActionUpload)
	s.logger.Info("file uploaded",
		zap.Int64("file_id", rec.ID),
		zap.String("filename", storedName),
		zap.Int64("size", rec.FileSize))
	return rec.ID, nil
}

func (s *IngestionService) ensureLookups(ctx context.Context, meta dto.UploadFileRequest) error {
	ok, err := s.lookups.CategoryExists(ctx, meta.CategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, "category_id does not exist")
	}
	ok, err = s.lookups.RegionExists(ctx, meta.RegionID)
	if err != nil {
		return err
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, "region_id does not exist")
	}
	return nil
}

func (s *IngestionService) resolveUploadDate(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		y, m, d := s.now().UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "upload_date must be a date in YYYY-MM-DD format")
	}
	return date, nil
}

func (s *IngestionService) discard(storedName string) {
	if err := s.storage.Delete(storedName); err != nil {
		s.logger.Error("failed to remove stored payload", zap.String("filename", storedName), zap.Error(err))
	}
}

// storageName is independent of the client filename: a random UUID plus the unix time.
func storageName(ext string, at time.Time) string {
	name := fmt.Sprintf("%s_%d", uuid.NewString(), at.Unix())
	if ext != "" {
		name += "." + ext
	}
	return name
}
