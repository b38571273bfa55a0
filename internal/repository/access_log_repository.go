package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/samudata/samudata-api/internal/models"
)

const dateLayout = "2006-01-02"

// AccessLogRepository appends and reads audit rows.
type AccessLogRepository struct {
	db *sqlx.DB
}

// NewAccessLogRepository constructs the repository.
func NewAccessLogRepository(db *sqlx.DB) *AccessLogRepository {
	return &AccessLogRepository{db: db}
}

// Create appends a row. AccessedAt defaults to now when zero.
func (r *AccessLogRepository) Create(ctx context.Context, entry *models.AccessLogEntry) error {
	if entry.AccessedAt.IsZero() {
		entry.AccessedAt = time.Now().UTC()
	}
	const query = `INSERT INTO file_access_logs (file_id, action, ip_address, user_agent, accessed_at)
	VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, entry.FileID, entry.Action, entry.IPAddress, entry.UserAgent, entry.AccessedAt).
		Scan(&entry.ID); err != nil {
		return fmt.Errorf("create access log: %w", err)
	}
	return nil
}

// List returns rows whose date falls inside the inclusive range, newest first, capped at MaxAccessLogRows.
func (r *AccessLogRepository) List(ctx context.Context, filter models.AccessLogFilter) ([]models.AccessLogView, error) {
	builder := strings.Builder{}
	builder.WriteString(`SELECT l.id, l.file_id, l.action, l.ip_address, l.user_agent, l.accessed_at,
	       f.title AS file_title, f.original_filename, f.uploader_name
	FROM file_access_logs l
	LEFT JOIN files f ON l.file_id = f.id
	WHERE DATE(l.accessed_at AT TIME ZONE 'UTC') BETWEEN $1 AND $2`)
	args := []interface{}{filter.StartDate.Format(dateLayout), filter.EndDate.Format(dateLayout)}
	if filter.Action != "" {
		args = append(args, filter.Action)
		builder.WriteString(fmt.Sprintf(" AND l.action = $%d", len(args)))
	}
	builder.WriteString(fmt.Sprintf(" ORDER BY l.accessed_at DESC, l.id DESC LIMIT %d", models.MaxAccessLogRows))

	rows := make([]models.AccessLogView, 0)
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list access logs: %w", err)
	}
	return rows, nil
}

// Stats counts rows by action and rows recorded today.
func (r *AccessLogRepository) Stats(ctx context.Context) (*models.AccessLogStats, error) {
	const query = `SELECT
	    COUNT(*) FILTER (WHERE action = 'upload') AS total_uploads,
	    COUNT(*) FILTER (WHERE action = 'download') AS total_downloads,
	    COUNT(*) FILTER (WHERE action = 'view') AS total_views,
	    COUNT(*) FILTER (WHERE DATE(accessed_at AT TIME ZONE 'UTC') = DATE(NOW() AT TIME ZONE 'UTC')) AS today_activities
	FROM file_access_logs`
	var stats models.AccessLogStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("access log stats: %w", err)
	}
	return &stats, nil
}
