package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/samudata/samudata-api/internal/models"
)

const (
	uniqueViolation      = "23505"
	activeHashConstraint = "ux_files_hash_active"
	recentUploadsLimit   = 10
)

// ErrDuplicateHash signals that an active row already carries the content digest.
var ErrDuplicateHash = errors.New("active file with the same content hash exists")

const fileColumns = `f.id, f.title, f.description, f.filename, f.original_filename, f.file_path, f.file_size,
       f.mime_type, f.file_hash, f.category_id, f.region_id, f.uploader_name, f.uploader_email, f.upload_date,
       f.tags, f.metadata, f.status, f.is_favorite, f.is_archived, f.download_count, f.created_at, f.updated_at`

// FileRepository persists file metadata rows.
type FileRepository struct {
	db *sqlx.DB
}

// NewFileRepository constructs the repository.
func NewFileRepository(db *sqlx.DB) *FileRepository {
	return &FileRepository{db: db}
}

// Create inserts a new active record and fills its generated id and timestamps.
func (r *FileRepository) Create(ctx context.Context, rec *models.FileRecord) error {
	const query = `INSERT INTO files
	(title, description, filename, original_filename, file_path, file_size, mime_type, file_hash,
	 category_id, region_id, uploader_name, uploader_email, upload_date, tags, metadata, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 'active')
	RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query,
		rec.Title, rec.Description, rec.Filename, rec.OriginalFilename, rec.FilePath, rec.FileSize, rec.MimeType, rec.FileHash,
		rec.CategoryID, rec.RegionID, rec.UploaderName, rec.UploaderEmail, rec.UploadDate, rec.Tags, rec.Metadata,
	)
	if err := row.Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == activeHashConstraint {
			return ErrDuplicateHash
		}
		return fmt.Errorf("create file: %w", err)
	}
	rec.Status = models.FileStatusActive
	return nil
}

// ExistsActiveHash reports whether an active row already has the digest.
func (r *FileRepository) ExistsActiveHash(ctx context.Context, hash string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM files WHERE file_hash = $1 AND status = 'active')`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, hash); err != nil {
		return false, fmt.Errorf("check file hash: %w", err)
	}
	return exists, nil
}

// GetActive loads one active record; absent or deleted rows yield sql.ErrNoRows.
func (r *FileRepository) GetActive(ctx context.Context, id int64) (*models.FileRecord, error) {
	query := `SELECT ` + fileColumns + ` FROM files f WHERE f.id = $1 AND f.status = 'active'`
	var rec models.FileRecord
	if err := r.db.GetContext(ctx, &rec, query, id); err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns active records joined with lookup names, newest first.
func (r *FileRepository) List(ctx context.Context, filter models.FileFilter) ([]models.FileListItem, error) {
	builder := strings.Builder{}
	builder.WriteString(`SELECT ` + fileColumns + `, c.display_name AS category_name, r.name AS region_name
	FROM files f
	JOIN categories c ON f.category_id = c.id
	JOIN regions r ON f.region_id = r.id`)
	args := make([]interface{}, 0, 4)
	conditions := []string{"f.status = 'active'"}

	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("c.name = $%d", len(args)))
	}
	if filter.RegionID > 0 {
		args = append(args, filter.RegionID)
		conditions = append(conditions, fmt.Sprintf("r.id = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		conditions = append(conditions, fmt.Sprintf("(f.title ILIKE $%d OR f.description ILIKE $%d)", len(args), len(args)))
	}

	builder.WriteString(" WHERE ")
	builder.WriteString(strings.Join(conditions, " AND "))
	builder.WriteString(" ORDER BY f.created_at DESC, f.id DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		builder.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}

	items := make([]models.FileListItem, 0)
	if err := r.db.SelectContext(ctx, &items, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return items, nil
}

// IncrementDownload bumps the counter atomically for an active row.
func (r *FileRepository) IncrementDownload(ctx context.Context, id int64) error {
	return r.execActive(ctx, "increment download count",
		`UPDATE files SET download_count = download_count + 1 WHERE id = $1 AND status = 'active'`, id)
}

// ToggleFavorite flips the favorite flag of an active row.
func (r *FileRepository) ToggleFavorite(ctx context.Context, id int64) error {
	return r.execActive(ctx, "toggle favorite",
		`UPDATE files SET is_favorite = NOT is_favorite, updated_at = NOW() WHERE id = $1 AND status = 'active'`, id)
}

// Archive sets the archived flag of an active row.
func (r *FileRepository) Archive(ctx context.Context, id int64) error {
	return r.execActive(ctx, "archive file",
		`UPDATE files SET is_archived = TRUE, updated_at = NOW() WHERE id = $1 AND status = 'active'`, id)
}

// SoftDelete marks an active row as deleted. There is no way back.
func (r *FileRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.execActive(ctx, "soft delete file",
		`UPDATE files SET status = 'deleted', updated_at = NOW() WHERE id = $1 AND status = 'active'`, id)
}

// Update rewrites the editable metadata of an active row.
func (r *FileRepository) Update(ctx context.Context, id int64, edit models.FileEdit) error {
	return r.execActive(ctx, "update file",
		`UPDATE files SET title = $2, description = $3, tags = $4, updated_at = NOW() WHERE id = $1 AND status = 'active'`,
		id, edit.Title, edit.Description, edit.Tags)
}

// Stats aggregates active rows.
func (r *FileRepository) Stats(ctx context.Context) (*models.FileStats, error) {
	stats := &models.FileStats{
		Categories:    make([]models.CategoryCount, 0),
		RecentUploads: make([]models.RecentUpload, 0),
	}

	const byCategory = `SELECT c.name, c.display_name, COUNT(f.id) AS count
	FROM categories c
	LEFT JOIN files f ON c.id = f.category_id AND f.status = 'active'
	GROUP BY c.id, c.name, c.display_name
	ORDER BY c.name ASC`
	if err := r.db.SelectContext(ctx, &stats.Categories, byCategory); err != nil {
		return nil, fmt.Errorf("count files by category: %w", err)
	}

	const totals = `SELECT COUNT(*) AS total_files, COALESCE(SUM(file_size), 0) AS total_size FROM files WHERE status = 'active'`
	var agg struct {
		TotalFiles int   `db:"total_files"`
		TotalSize  int64 `db:"total_size"`
	}
	if err := r.db.GetContext(ctx, &agg, totals); err != nil {
		return nil, fmt.Errorf("sum files: %w", err)
	}
	stats.TotalFiles = agg.TotalFiles
	stats.TotalSize = agg.TotalSize

	recent := fmt.Sprintf(`SELECT f.title, f.original_filename, c.display_name AS category, r.name AS region, f.created_at
	FROM files f
	JOIN categories c ON f.category_id = c.id
	JOIN regions r ON f.region_id = r.id
	WHERE f.status = 'active'
	ORDER BY f.created_at DESC, f.id DESC
	LIMIT %d`, recentUploadsLimit)
	if err := r.db.SelectContext(ctx, &stats.RecentUploads, recent); err != nil {
		return nil, fmt.Errorf("list recent uploads: %w", err)
	}
	return stats, nil
}

// ReferencedFilenames returns the subset of stored names that any row (active or deleted) points at.
func (r *FileRepository) ReferencedFilenames(ctx context.Context, names []string) (map[string]struct{}, error) {
	result := make(map[string]struct{}, len(names))
	if len(names) == 0 {
		return result, nil
	}
	var found []string
	if err := r.db.SelectContext(ctx, &found, `SELECT filename FROM files WHERE filename = ANY($1)`, pq.Array(names)); err != nil {
		return nil, fmt.Errorf("lookup stored filenames: %w", err)
	}
	for _, name := range found {
		result[name] = struct{}{}
	}
	return result, nil
}

func (r *FileRepository) execActive(ctx context.Context, op, query string, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check %s rows: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func escapeLike(raw string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(raw)
}
