package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/samudata/samudata-api/internal/dto"
	"github.com/samudata/samudata-api/internal/models"
	appErrors "github.com/samudata/samudata-api/pkg/errors"
	"github.com/samudata/samudata-api/pkg/export"
)

const (
	dateLayout           = "2006-01-02"
	defaultLogWindowDays = 30
	exportFormatCSV      = "csv"
	exportFormatPDF      = "pdf"
	missingFileLabel     = "File not found"
	systemUserLabel      = "System"
)

var exportHeaders = []string{"Time", "Action", "File", "User", "IP Address"}

type accessLogStore interface {
	Create(ctx context.Context, entry *models.AccessLogEntry) error
	List(ctx context.Context, filter models.AccessLogFilter) ([]models.AccessLogView, error)
	Stats(ctx context.Context) (*models.AccessLogStats, error)
}

// Exporter renders a dataset into a downloadable document.
type Exporter interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportFile is a rendered log export.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ActivityLogService appends and reads the audit trail.
type ActivityLogService struct {
	repo      accessLogStore
	cache     *CacheService
	exporters map[string]Exporter
	statsTTL  time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewActivityLogService constructs the service with CSV and PDF exporters.
func NewActivityLogService(repo accessLogStore, cache *CacheService, statsTTL time.Duration, logger *zap.Logger) *ActivityLogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityLogService{
		repo:  repo,
		cache: cache,
		exporters: map[string]Exporter{
			exportFormatCSV: export.NewCSVExporter(),
			exportFormatPDF: export.NewPDFExporter(),
		},
		statsTTL: statsTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Record appends one row for the actor on ctx. Callers decide what to do with the error.
func (s *ActivityLogService) Record(ctx context.Context, fileID *int64, action models.AccessAction) error {
	if !action.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown log action %q", action))
	}
	actor := models.ActorFromContext(ctx)
	entry := &models.AccessLogEntry{
		FileID:     fileID,
		Action:     action,
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
		AccessedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return appErrors.Internal(err, "failed to record activity")
	}
	s.cache.Invalidate(ctx, CacheKeyAccessLogStats)
	return nil
}

// Query returns rows for the inclusive date range, newest first.
func (s *ActivityLogService) Query(ctx context.Context, q dto.AccessLogQuery) ([]models.AccessLogView, error) {
	filter, err := s.resolveFilter(q)
	if err != nil {
		return nil, err
	}
	logs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load activity logs")
	}
	return logs, nil
}

// Statistics counts rows by action and rows recorded today.
func (s *ActivityLogService) Statistics(ctx context.Context) (*models.AccessLogStats, error) {
	var cached models.AccessLogStats
	if hit, _ := s.cache.Get(ctx, CacheKeyAccessLogStats, &cached); hit {
		return &cached, nil
	}
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load activity statistics")
	}
	_ = s.cache.Set(ctx, CacheKeyAccessLogStats, stats, s.statsTTL)
	return stats, nil
}

// Export renders the same rows as Query. Unresolved files and uploaders use placeholder labels.
func (s *ActivityLogService) Export(ctx context.Context, q dto.AccessLogQuery) (*ExportFile, error) {
	format := strings.ToLower(strings.TrimSpace(q.Format))
	if format == "" {
		format = exportFormatCSV
	}
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	filter, err := s.resolveFilter(q)
	if err != nil {
		return nil, err
	}
	logs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load activity logs")
	}

	rows := make([][]string, 0, len(logs))
	for _, log := range logs {
		rows = append(rows, []string{
			log.AccessedAt.Format("2006-01-02 15:04:05"),
			string(log.Action),
			orPlaceholder(log.FileTitle, missingFileLabel),
			orPlaceholder(log.UploaderName, systemUserLabel),
			log.IPAddress,
		})
	}
	start, end := filter.StartDate.Format(dateLayout), filter.EndDate.Format(dateLayout)
	content, err := exporter.Render(export.Dataset{
		Title:   fmt.Sprintf("Activity log %s to %s", start, end),
		Headers: exportHeaders,
		Rows:    rows,
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("activity_log_%s_%s.%s", start, end, exporter.Extension()),
		ContentType: exporter.ContentType(),
		Content:     content,
	}, nil
}

func (s *ActivityLogService) resolveFilter(q dto.AccessLogQuery) (models.AccessLogFilter, error) {
	today := s.now().UTC()
	end, err := parseDateOr(q.EndDate, today)
	if err != nil {
		return models.AccessLogFilter{}, appErrors.Clone(appErrors.ErrValidation, "end_date must be a date in YYYY-MM-DD format")
	}
	start, err := parseDateOr(q.StartDate, today.AddDate(0, 0, -defaultLogWindowDays))
	if err != nil {
		return models.AccessLogFilter{}, appErrors.Clone(appErrors.ErrValidation, "start_date must be a date in YYYY-MM-DD format")
	}
	if start.After(end) {
		return models.AccessLogFilter{}, appErrors.Clone(appErrors.ErrValidation, "start_date must not be after end_date")
	}
	action := models.AccessAction(strings.TrimSpace(q.Action))
	if action != "" && !action.Valid() {
		return models.AccessLogFilter{}, appErrors.Clone(appErrors.ErrValidation, "action_filter is not a known action")
	}
	return models.AccessLogFilter{StartDate: start, EndDate: end, Action: action}, nil
}

func parseDateOr(raw string, fallback time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		y, m, d := fallback.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(dateLayout, raw)
}

func orPlaceholder(value *string, placeholder string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return placeholder
	}
	return *value
}
