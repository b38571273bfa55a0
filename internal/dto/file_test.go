package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/samudata/samudata-api/internal/models"
)

func TestParseTags(t *testing.T) {
	assert.Equal(t, models.StringList{"tuna", "cakalang"}, ParseTags(" tuna, ,cakalang,"))
	assert.Equal(t, models.StringList{}, ParseTags(""))
}

func TestNewFileListItemUsesOriginalFilename(t *testing.T) {
	item := NewFileListItem(models.FileListItem{
		FileRecord: models.FileRecord{
			ID:               3,
			Filename:         "a1b2_1700000000.pdf",
			OriginalFilename: "laporan.pdf",
			UploadDate:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		},
		CategoryName: "Perikanan Tangkap",
	})
	assert.Equal(t, "laporan.pdf", item.Filename)
	assert.Equal(t, "2024-05-01", item.UploadDate)
	assert.Equal(t, []string{}, item.Tags)
	assert.Equal(t, "Perikanan Tangkap", item.Category)
}
