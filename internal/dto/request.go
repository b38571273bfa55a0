package dto

// CreateFileRequestRequest is the payload of a new request ticket.
type CreateFileRequestRequest struct {
	Title         string `form:"title" validate:"required,max=255"`
	Description   string `form:"description"`
	Category      string `form:"category" validate:"max=50"`
	Priority      string `form:"priority" validate:"omitempty,oneof=low medium high"`
	Deadline      string `form:"deadline" validate:"omitempty,datetime=2006-01-02"`
	RequesterName string `form:"requester_name" validate:"required,max=150"`
}

// UpdateRequestStatusRequest moves a ticket to a new status.
type UpdateRequestStatusRequest struct {
	RequestID int64  `form:"request_id" validate:"required,gt=0"`
	Status    string `form:"status" validate:"required,oneof=pending approved completed rejected"`
}

// FileRequestQuery captures the request listing filters.
type FileRequestQuery struct {
	Status   string `form:"status_filter"`
	Priority string `form:"priority_filter"`
	Category string `form:"category_filter"`
}

// AccessLogQuery captures the log listing and export parameters.
type AccessLogQuery struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Action    string `form:"action_filter"`
	Format    string `form:"format"`
}
