package models

import "time"

// RequestStatus is the lifecycle state of a file request ticket.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusCompleted RequestStatus = "completed"
	RequestStatusRejected  RequestStatus = "rejected"
)

// RequestStatuses lists every status in display order.
var RequestStatuses = []RequestStatus{
	RequestStatusPending,
	RequestStatusApproved,
	RequestStatusCompleted,
	RequestStatusRejected,
}

// requestTransitions is the set of allowed (from, to) pairs. Completed and rejected are terminal.
var requestTransitions = map[RequestStatus]map[RequestStatus]struct{}{
	RequestStatusPending: {
		RequestStatusApproved: {},
		RequestStatusRejected: {},
	},
	RequestStatusApproved: {
		RequestStatusCompleted: {},
	},
}

// Valid reports whether the status is one of the known states.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusCompleted, RequestStatusRejected:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	_, ok := requestTransitions[s][next]
	return ok
}

// RequestPriority ranks a ticket.
type RequestPriority string

const (
	RequestPriorityLow    RequestPriority = "low"
	RequestPriorityMedium RequestPriority = "medium"
	RequestPriorityHigh   RequestPriority = "high"
)

// FileRequest is a "please upload this" ticket.
type FileRequest struct {
	ID            int64           `db:"id" json:"id"`
	Title         string          `db:"title" json:"title"`
	Description   string          `db:"description" json:"description"`
	Category      string          `db:"category" json:"category"`
	Priority      RequestPriority `db:"priority" json:"priority"`
	Deadline      *time.Time      `db:"deadline" json:"deadline"`
	RequesterName string          `db:"requester_name" json:"requester_name"`
	Status        RequestStatus   `db:"status" json:"status"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// FileRequestFilter holds optional equality filters.
type FileRequestFilter struct {
	Status   RequestStatus
	Priority RequestPriority
	Category string
}
