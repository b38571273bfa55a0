package dto

import (
	"strings"
	"time"

	"github.com/samudata/samudata-api/internal/models"
)

// UploadFileRequest contains metadata submitted alongside a file upload.
type UploadFileRequest struct {
	Title         string `form:"title" json:"title" validate:"required,max=255"`
	Description   string `form:"description" json:"description"`
	CategoryID    int    `form:"category_id" json:"category_id" validate:"required,gt=0"`
	RegionID      int    `form:"region_id" json:"region_id" validate:"required,gt=0"`
	UploaderName  string `form:"uploader_name" json:"uploader_name" validate:"required,max=150"`
	UploaderEmail string `form:"uploader_email" json:"uploader_email" validate:"omitempty,email,max=150"`
	UploadDate    string `form:"upload_date" json:"upload_date" validate:"omitempty,datetime=2006-01-02"`
	Tags          string `form:"tags" json:"tags"`
}

// EditFileRequest carries the editable metadata of a file.
type EditFileRequest struct {
	FileID      int64  `form:"file_id" validate:"required,gt=0"`
	Title       string `form:"title" validate:"required,max=255"`
	Description string `form:"description"`
	Tags        string `form:"tags"`
}

// FileListQuery captures the listing filters.
type FileListQuery struct {
	Category string `form:"category"`
	Region   int    `form:"region"`
	Search   string `form:"search"`
	Limit    int    `form:"limit"`
}

// FileListItem is the listing shape consumed by the dashboard.
type FileListItem struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Filename      string    `json:"filename"`
	Size          int64     `json:"size"`
	Category      string    `json:"category"`
	Region        string    `json:"region"`
	Uploader      string    `json:"uploader"`
	UploadDate    string    `json:"upload_date"`
	DownloadCount int       `json:"download_count"`
	IsFavorite    bool      `json:"is_favorite"`
	CreatedAt     time.Time `json:"created_at"`
	Tags          []string  `json:"tags"`
}

// NewFileListItem formats a joined row for the listing.
func NewFileListItem(item models.FileListItem) FileListItem {
	tags := []string(item.Tags)
	if tags == nil {
		tags = []string{}
	}
	return FileListItem{
		ID:            item.ID,
		Title:         item.Title,
		Description:   item.Description,
		Filename:      item.OriginalFilename,
		Size:          item.FileSize,
		Category:      item.CategoryName,
		Region:        item.RegionName,
		Uploader:      item.UploaderName,
		UploadDate:    item.UploadDate.Format("2006-01-02"),
		DownloadCount: item.DownloadCount,
		IsFavorite:    item.IsFavorite,
		CreatedAt:     item.CreatedAt,
		Tags:          tags,
	}
}

// UploadResponse is returned after a successful upload.
type UploadResponse struct {
	Success bool   `json:"success"`
	FileID  int64  `json:"file_id"`
	Message string `json:"message"`
}

// DownloadInfoResponse describes a payload ready for streaming.
type DownloadInfoResponse struct {
	Success          bool   `json:"success"`
	FilePath         string `json:"file_path"`
	OriginalFilename string `json:"original_filename"`
	MimeType         string `json:"mime_type"`
	FileSize         int64  `json:"file_size"`
}

// ParseTags splits a comma separated tag field, trimming blanks.
func ParseTags(raw string) models.StringList {
	tags := models.StringList{}
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
