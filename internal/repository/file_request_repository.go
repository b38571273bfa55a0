package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/samudata/samudata-api/internal/models"
)

const fileRequestColumns = `id, title, description, category, priority, deadline, requester_name, status, created_at, updated_at`

// FileRequestRepository persists request tickets.
type FileRequestRepository struct {
	db *sqlx.DB
}

// NewFileRequestRepository constructs the repository.
func NewFileRequestRepository(db *sqlx.DB) *FileRequestRepository {
	return &FileRequestRepository{db: db}
}

// Create inserts a ticket in the pending state regardless of req.Status.
func (r *FileRequestRepository) Create(ctx context.Context, req *models.FileRequest) error {
	req.Status = models.RequestStatusPending
	const query = `INSERT INTO file_requests (title, description, category, priority, deadline, requester_name, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at, updated_at`
	if err := r.db.QueryRowxContext(ctx, query,
		req.Title, req.Description, req.Category, req.Priority, req.Deadline, req.RequesterName, req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt); err != nil {
		return fmt.Errorf("create file request: %w", err)
	}
	return nil
}

// GetByID fetches one ticket.
func (r *FileRequestRepository) GetByID(ctx context.Context, id int64) (*models.FileRequest, error) {
	query := `SELECT ` + fileRequestColumns + ` FROM file_requests WHERE id = $1`
	var req models.FileRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// List returns tickets matching the optional equality filters, newest first.
func (r *FileRequestRepository) List(ctx context.Context, filter models.FileRequestFilter) ([]models.FileRequest, error) {
	builder := strings.Builder{}
	builder.WriteString(`SELECT ` + fileRequestColumns + ` FROM file_requests`)
	args := make([]interface{}, 0, 3)
	conditions := make([]string, 0, 3)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY created_at DESC, id DESC")

	requests := make([]models.FileRequest, 0)
	if err := r.db.SelectContext(ctx, &requests, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list file requests: %w", err)
	}
	return requests, nil
}

// CountByStatus groups tickets by status. Statuses without rows are absent from the map.
func (r *FileRequestRepository) CountByStatus(ctx context.Context) (map[models.RequestStatus]int, error) {
	const query = `SELECT status, COUNT(*) AS count FROM file_requests GROUP BY status`
	var rows []struct {
		Status models.RequestStatus `db:"status"`
		Count  int                  `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count file requests: %w", err)
	}
	counts := make(map[models.RequestStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// UpdateStatus moves a ticket from one status to another. It returns sql.ErrNoRows when the
// ticket is missing or no longer in the from status.
func (r *FileRequestRepository) UpdateStatus(ctx context.Context, id int64, from, to models.RequestStatus) error {
	const query = `UPDATE file_requests SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, query, id, from, to)
	if err != nil {
		return fmt.Errorf("update file request status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check file request rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
