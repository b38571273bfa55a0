package models

import "time"

// Setting keys consulted by the ingestion workflow.
const (
	SettingAllowedExtensions = "allowed_extensions"
	SettingMaxFileSize       = "max_file_size"
)

// Setting is a key/value configuration row.
type Setting struct {
	Key         string    `db:"setting_key" json:"key"`
	Value       string    `db:"setting_value" json:"value"`
	Description string    `db:"description" json:"description"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// UploadLimits is the validated view of the upload settings.
type UploadLimits struct {
	MaxFileSize       int64
	AllowedExtensions map[string]struct{}
}

// Allows reports whether ext (lower case, without dot) is on the allow-list.
func (l UploadLimits) Allows(ext string) bool {
	_, ok := l.AllowedExtensions[ext]
	return ok
}
