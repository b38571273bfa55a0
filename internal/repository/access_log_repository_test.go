package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samudata/samudata-api/internal/models"
)

func TestAccessLogRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAccessLogRepository(db)
	fileID := int64(4)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO file_access_logs")).
		WithArgs(&fileID, models.AccessActionDownload, "10.0.0.1", "curl", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	entry := &models.AccessLogEntry{FileID: &fileID, Action: models.AccessActionDownload, IPAddress: "10.0.0.1", UserAgent: "curl"}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.Equal(t, int64(11), entry.ID)
	assert.False(t, entry.AccessedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessLogRepositoryListRangeAndAction(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAccessLogRepository(db)
	title := "Tuna"
	rows := sqlmock.NewRows([]string{"id", "file_id", "action", "ip_address", "user_agent", "accessed_at", "file_title", "original_filename", "uploader_name"}).
		AddRow(2, 4, "upload", "10.0.0.1", "curl", time.Now(), title, "tuna.pdf", "Sari").
		AddRow(1, nil, "upload", "10.0.0.2", "curl", time.Now(), nil, nil, nil)
	mock.ExpectQuery(`WHERE DATE\(l\.accessed_at AT TIME ZONE 'UTC'\) BETWEEN \$1 AND \$2 AND l\.action = \$3 ORDER BY l\.accessed_at DESC, l\.id DESC LIMIT 1000`).
		WithArgs("2024-01-01", "2024-01-31", models.AccessActionUpload).
		WillReturnRows(rows)

	logs, err := repo.List(context.Background(), models.AccessLogFilter{
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Action:    models.AccessActionUpload,
	})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.NotNil(t, logs[0].FileTitle)
	assert.Equal(t, "Tuna", *logs[0].FileTitle)
	assert.Nil(t, logs[1].FileID)
	assert.Nil(t, logs[1].FileTitle)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessLogRepositoryStats(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAccessLogRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("DATE(accessed_at AT TIME ZONE 'UTC') = DATE(NOW() AT TIME ZONE 'UTC')")).
		WillReturnRows(sqlmock.NewRows([]string{"total_uploads", "total_downloads", "total_views", "today_activities"}).AddRow(3, 5, 1, 2))

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.AccessLogStats{TotalUploads: 3, TotalDownloads: 5, TotalViews: 1, TodayActivities: 2}, *stats)
	require.NoError(t, mock.ExpectationsWereMet())
}
