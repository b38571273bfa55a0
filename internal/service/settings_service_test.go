package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samudata/samudata-api/internal/models"
	appErrors "github.com/samudata/samudata-api/pkg/errors"
)

type settingRepoStub struct {
	rows     map[string]string
	upserted []models.Setting
	err      error
}

func (r *settingRepoStub) ListByKeys(ctx context.Context, keys []string) ([]models.Setting, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []models.Setting
	for _, key := range keys {
		if v, ok := r.rows[key]; ok {
			out = append(out, models.Setting{Key: key, Value: v})
		}
	}
	return out, nil
}

func (r *settingRepoStub) Upsert(ctx context.Context, setting *models.Setting) error {
	r.upserted = append(r.upserted, *setting)
	if r.rows == nil {
		r.rows = map[string]string{}
	}
	r.rows[setting.Key] = setting.Value
	return nil
}

func TestSettingsServiceFallsBackToDefaults(t *testing.T) {
	svc := NewSettingsService(&settingRepoStub{}, SettingsDefaults{MaxFileSize: 100, AllowedExtensions: []string{".PDF", "doc"}}, nil)

	limits, err := svc.UploadLimits(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(100), limits.MaxFileSize)
	assert.True(t, limits.Allows("pdf"))
	assert.True(t, limits.Allows("doc"))
	assert.False(t, limits.Allows("exe"))
}

func TestSettingsServiceReadsRows(t *testing.T) {
	repo := &settingRepoStub{rows: map[string]string{
		models.SettingMaxFileSize:       "2048",
		models.SettingAllowedExtensions: `["pdf","xlsx"]`,
	}}
	svc := NewSettingsService(repo, SettingsDefaults{MaxFileSize: 100, AllowedExtensions: []string{"doc"}}, nil)

	limits, err := svc.UploadLimits(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2048), limits.MaxFileSize)
	assert.True(t, limits.Allows("xlsx"))
	assert.False(t, limits.Allows("doc"))

	repo.rows[models.SettingAllowedExtensions] = "csv, .TXT"
	repo.rows[models.SettingMaxFileSize] = "lots"
	limits, err = svc.UploadLimits(context.Background())
	require.NoError(t, err)
	assert.True(t, limits.Allows("txt"))
	assert.Equal(t, int64(100), limits.MaxFileSize)
}

func TestSettingsServiceStoreFailure(t *testing.T) {
	svc := NewSettingsService(&settingRepoStub{err: errors.New("timeout")}, SettingsDefaults{}, nil)
	_, err := svc.UploadLimits(context.Background())
	require.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestSettingsServiceSetNormalizes(t *testing.T) {
	repo := &settingRepoStub{}
	svc := NewSettingsService(repo, SettingsDefaults{}, nil)

	require.NoError(t, svc.Set(context.Background(), models.SettingAllowedExtensions, "PDF, .docx"))
	require.Len(t, repo.upserted, 1)
	assert.Equal(t, `["pdf","docx"]`, repo.upserted[0].Value)

	require.ErrorIs(t, svc.Set(context.Background(), models.SettingMaxFileSize, "-5"), appErrors.ErrValidation)
	require.ErrorIs(t, svc.Set(context.Background(), "theme", "dark"), appErrors.ErrValidation)
}
