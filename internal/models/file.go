package models

import "time"

// FileStatus is the soft-delete state of a file record.
type FileStatus string

const (
	FileStatusActive  FileStatus = "active"
	FileStatusDeleted FileStatus = "deleted"
)

// FileRecord represents one uploaded document row.
type FileRecord struct {
	ID               int64      `db:"id" json:"id"`
	Title            string     `db:"title" json:"title"`
	Description      string     `db:"description" json:"description"`
	Filename         string     `db:"filename" json:"stored_filename"`
	OriginalFilename string     `db:"original_filename" json:"original_filename"`
	FilePath         string     `db:"file_path" json:"-"`
	FileSize         int64      `db:"file_size" json:"file_size"`
	MimeType         string     `db:"mime_type" json:"mime_type"`
	FileHash         string     `db:"file_hash" json:"file_hash"`
	CategoryID       int        `db:"category_id" json:"category_id"`
	RegionID         int        `db:"region_id" json:"region_id"`
	UploaderName     string     `db:"uploader_name" json:"uploader_name"`
	UploaderEmail    string     `db:"uploader_email" json:"uploader_email"`
	UploadDate       time.Time  `db:"upload_date" json:"upload_date"`
	Tags             StringList `db:"tags" json:"tags"`
	Metadata         JSONMap    `db:"metadata" json:"metadata"`
	Status           FileStatus `db:"status" json:"status"`
	IsFavorite       bool       `db:"is_favorite" json:"is_favorite"`
	IsArchived       bool       `db:"is_archived" json:"is_archived"`
	DownloadCount    int        `db:"download_count" json:"download_count"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// FileListItem is a file row joined with its lookup display names.
type FileListItem struct {
	FileRecord
	CategoryName string `db:"category_name" json:"category_name"`
	RegionName   string `db:"region_name" json:"region_name"`
}

// FileFilter narrows listing queries. Zero values disable a filter.
type FileFilter struct {
	Category string
	RegionID int
	Search   string
	Limit    int
}

// FileEdit carries the editable metadata fields.
type FileEdit struct {
	Title       string
	Description string
	Tags        StringList
}

// CategoryCount is the number of active files in one category.
type CategoryCount struct {
	Name        string `db:"name" json:"name"`
	DisplayName string `db:"display_name" json:"display_name"`
	Count       int    `db:"count" json:"count"`
}

// RecentUpload summarises one of the newest active uploads.
type RecentUpload struct {
	Title            string    `db:"title" json:"title"`
	OriginalFilename string    `db:"original_filename" json:"original_filename"`
	Category         string    `db:"category" json:"category"`
	Region           string    `db:"region" json:"region"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// FileStats aggregates the active repository contents.
type FileStats struct {
	Categories    []CategoryCount `json:"categories"`
	TotalFiles    int             `json:"total_files"`
	TotalSize     int64           `json:"total_size"`
	RecentUploads []RecentUpload  `json:"recent_uploads"`
}

// FileDownload is what a caller needs to stream a payload.
type FileDownload struct {
	ID               int64  `json:"-"`
	Filename         string `json:"-"`
	FilePath         string `json:"file_path"`
	OriginalFilename string `json:"original_filename"`
	MimeType         string `json:"mime_type"`
	FileSize         int64  `json:"file_size"`
}
