package models

import (
	"context"
	"time"
)

// AccessAction enumerates what an access-log row records.
type AccessAction string

const (
	AccessActionUpload   AccessAction = "upload"
	AccessActionDownload AccessAction = "download"
	AccessActionView     AccessAction = "view"
	AccessActionUpdate   AccessAction = "update"
	AccessActionDelete   AccessAction = "delete"
)

// Valid reports whether the action is one of the known kinds.
func (a AccessAction) Valid() bool {
	switch a {
	case AccessActionUpload, AccessActionDownload, AccessActionView, AccessActionUpdate, AccessActionDelete:
		return true
	default:
		return false
	}
}

// MaxAccessLogRows caps a single log query.
const MaxAccessLogRows = 1000

// AccessLogEntry is one append-only audit row.
type AccessLogEntry struct {
	ID         int64        `db:"id" json:"id"`
	FileID     *int64       `db:"file_id" json:"file_id"`
	Action     AccessAction `db:"action" json:"action"`
	IPAddress  string       `db:"ip_address" json:"ip_address"`
	UserAgent  string       `db:"user_agent" json:"user_agent"`
	AccessedAt time.Time    `db:"accessed_at" json:"accessed_at"`
}

// AccessLogView is a log row joined with the file it refers to, when it still resolves.
type AccessLogView struct {
	AccessLogEntry
	FileTitle        *string `db:"file_title" json:"file_title"`
	OriginalFilename *string `db:"original_filename" json:"original_filename"`
	UploaderName     *string `db:"uploader_name" json:"uploader_name"`
}

// AccessLogFilter selects log rows by inclusive calendar dates.
type AccessLogFilter struct {
	StartDate time.Time
	EndDate   time.Time
	Action    AccessAction
}

// AccessLogStats counts log rows.
type AccessLogStats struct {
	TotalUploads    int `db:"total_uploads" json:"total_uploads"`
	TotalDownloads  int `db:"total_downloads" json:"total_downloads"`
	TotalViews      int `db:"total_views" json:"total_views"`
	TodayActivities int `db:"today_activities" json:"today_activities"`
}

// Actor identifies the client behind a request for audit rows.
type Actor struct {
	IPAddress string
	UserAgent string
}

type actorKey struct{}

// WithActor stores the request actor on ctx.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored on ctx, or the zero Actor.
func ActorFromContext(ctx context.Context) Actor {
	if ctx == nil {
		return Actor{}
	}
	actor, _ := ctx.Value(actorKey{}).(Actor)
	return actor
}
