package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/samudata/samudata-api/internal/models"
	appErrors "github.com/samudata/samudata-api/pkg/errors"
)

type settingStore interface {
	ListByKeys(ctx context.Context, keys []string) ([]models.Setting, error)
	Upsert(ctx context.Context, setting *models.Setting) error
}

// SettingsDefaults apply when the settings table has no usable row for a key.
type SettingsDefaults struct {
	MaxFileSize       int64
	AllowedExtensions []string
}

// SettingsService reads upload limits from the settings table on every call.
type SettingsService struct {
	repo     settingStore
	defaults SettingsDefaults
	logger   *zap.Logger
}

// NewSettingsService constructs the service.
func NewSettingsService(repo settingStore, defaults SettingsDefaults, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaults.MaxFileSize <= 0 {
		defaults.MaxFileSize = 50 * 1024 * 1024
	}
	return &SettingsService{repo: repo, defaults: defaults, logger: logger}
}

// UploadLimits returns the current size limit and extension allow-list.
func (s *SettingsService) UploadLimits(ctx context.Context) (models.UploadLimits, error) {
	limits := models.UploadLimits{
		MaxFileSize:       s.defaults.MaxFileSize,
		AllowedExtensions: extensionSet(s.defaults.AllowedExtensions),
	}
	rows, err := s.repo.ListByKeys(ctx, []string{models.SettingAllowedExtensions, models.SettingMaxFileSize})
	if err != nil {
		return models.UploadLimits{}, appErrors.Internal(err, "failed to load upload settings")
	}
	for _, row := range rows {
		switch row.Key {
		case models.SettingMaxFileSize:
			size, err := parseMaxFileSize(row.Value)
			if err != nil {
				s.logger.Warn("ignoring invalid setting", zap.String("key", row.Key), zap.Error(err))
				continue
			}
			limits.MaxFileSize = size
		case models.SettingAllowedExtensions:
			exts, err := parseExtensions(row.Value)
			if err != nil {
				s.logger.Warn("ignoring invalid setting", zap.String("key", row.Key), zap.Error(err))
				continue
			}
			limits.AllowedExtensions = extensionSet(exts)
		}
	}
	return limits, nil
}

// Set validates and stores one upload setting.
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	var normalized string
	switch key {
	case models.SettingMaxFileSize:
		size, err := parseMaxFileSize(value)
		if err != nil {
			return appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		normalized = strconv.FormatInt(size, 10)
	case models.SettingAllowedExtensions:
		exts, err := parseExtensions(value)
		if err != nil {
			return appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		raw, err := json.Marshal(exts)
		if err != nil {
			return appErrors.Internal(err, "failed to encode extensions")
		}
		normalized = string(raw)
	default:
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown setting %q", key))
	}
	if err := s.repo.Upsert(ctx, &models.Setting{Key: key, Value: normalized}); err != nil {
		return appErrors.Internal(err, "failed to store setting")
	}
	s.logger.Info("setting updated", zap.String("key", key), zap.String("value", normalized))
	return nil
}

func parseMaxFileSize(raw string) (int64, error) {
	size, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("max_file_size must be an integer byte count")
	}
	if size <= 0 {
		return 0, fmt.Errorf("max_file_size must be positive")
	}
	return size, nil
}

// parseExtensions accepts a JSON array or a comma separated list.
func parseExtensions(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	var values []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return nil, fmt.Errorf("allowed_extensions is not a JSON array: %w", err)
		}
	} else {
		values = strings.Split(raw, ",")
	}
	exts := make([]string, 0, len(values))
	for _, v := range values {
		if ext := normalizeExtension(v); ext != "" {
			exts = append(exts, ext)
		}
	}
	if len(exts) == 0 {
		return nil, fmt.Errorf("allowed_extensions is empty")
	}
	return exts, nil
}

func normalizeExtension(raw string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), "."))
}

func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		if e := normalizeExtension(ext); e != "" {
			set[e] = struct{}{}
		}
	}
	return set
}
