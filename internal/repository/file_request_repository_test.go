package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samudata/samudata-api/internal/models"
)

func TestFileRequestRepositoryCreateForcesPending(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewFileRequestRepository(db)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO file_requests")).
		WithArgs("Data produksi", "", "budidaya", models.RequestPriorityHigh, nil, "Andi", models.RequestStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(3, now, now))

	req := &models.FileRequest{
		Title:         "Data produksi",
		Category:      "budidaya",
		Priority:      models.RequestPriorityHigh,
		RequesterName: "Andi",
		Status:        models.RequestStatusCompleted,
	}
	require.NoError(t, repo.Create(context.Background(), req))
	assert.Equal(t, int64(3), req.ID)
	assert.Equal(t, models.RequestStatusPending, req.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFileRequestRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewFileRequestRepository(db)
	rows := sqlmock.NewRows([]string{"id", "title", "description", "category", "priority", "deadline", "requester_name", "status", "created_at", "updated_at"}).
		AddRow(1, "Data", "", "tangkap", "low", nil, "Andi", "approved", time.Now(), time.Now())
	mock.ExpectQuery(`FROM file_requests WHERE status = \$1 AND category = \$2 ORDER BY created_at DESC`).
		WithArgs(models.RequestStatusApproved, "tangkap").
		WillReturnRows(rows)

	items, err := repo.List(context.Background(), models.FileRequestFilter{Status: models.RequestStatusApproved, Category: "tangkap"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Deadline)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFileRequestRepositoryCountByStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewFileRequestRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).AddRow("pending", 2))

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[models.RequestStatus]int{models.RequestStatusPending: 2}, counts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFileRequestRepositoryUpdateStatusConditional(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewFileRequestRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND status = $2")).
		WithArgs(int64(1), models.RequestStatusPending, models.RequestStatusApproved).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateStatus(context.Background(), 1, models.RequestStatusPending, models.RequestStatusApproved))

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND status = $2")).
		WithArgs(int64(1), models.RequestStatusPending, models.RequestStatusRejected).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.UpdateStatus(context.Background(), 1, models.RequestStatusPending, models.RequestStatusRejected)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
