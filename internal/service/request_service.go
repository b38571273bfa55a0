package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/samudata/samudata-api/internal/dto"
	"github.com/samudata/samudata-api/internal/models"
	appErrors "github.com/samudata/samudata-api/pkg/errors"
)

type fileRequestStore interface {
	Create(ctx context.Context, req *models.FileRequest) error
	GetByID(ctx context.Context, id int64) (*models.FileRequest, error)
	List(ctx context.Context, filter models.FileRequestFilter) ([]models.FileRequest, error)
	CountByStatus(ctx context.Context) (map[models.RequestStatus]int, error)
	UpdateStatus(ctx context.Context, id int64, from, to models.RequestStatus) error
}

// RequestService manages "please upload this" tickets.
type RequestService struct {
	repo      fileRequestStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRequestService constructs the service.
func NewRequestService(repo fileRequestStore, logger *zap.Logger) *RequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestService{repo: repo, validator: newValidator(), logger: logger}
}

// Create registers a ticket. The stored status is always pending.
func (s *RequestService) Create(ctx context.Context, req dto.CreateFileRequestRequest) (*models.FileRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	priority := models.RequestPriority(req.Priority)
	if priority == "" {
		priority = models.RequestPriorityMedium
	}
	ticket := &models.FileRequest{
		Title:         strings.TrimSpace(req.Title),
		Description:   strings.TrimSpace(req.Description),
		Category:      strings.TrimSpace(req.Category),
		Priority:      priority,
		RequesterName: strings.TrimSpace(req.RequesterName),
	}
	if req.Deadline != "" {
		deadline, err := time.Parse(dateLayout, req.Deadline)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "deadline must be a date in YYYY-MM-DD format")
		}
		ticket.Deadline = &deadline
	}
	if err := s.repo.Create(ctx, ticket); err != nil {
		return nil, appErrors.Internal(err, "failed to create request")
	}
	s.logger.Info("file request created", zap.Int64("request_id", ticket.ID), zap.String("priority", string(ticket.Priority)))
	return ticket, nil
}

// List returns tickets matching the optional filters, newest first.
func (s *RequestService) List(ctx context.Context, q dto.FileRequestQuery) ([]models.FileRequest, error) {
	requests, err := s.repo.List(ctx, models.FileRequestFilter{
		Status:   models.RequestStatus(strings.TrimSpace(q.Status)),
		Priority: models.RequestPriority(strings.TrimSpace(q.Priority)),
		Category: strings.TrimSpace(q.Category),
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load requests")
	}
	return requests, nil
}

// Statistics counts tickets per status. Every known status is present.
func (s *RequestService) Statistics(ctx context.Context) (map[string]int, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load request statistics")
	}
	stats := make(map[string]int, len(models.RequestStatuses))
	for _, status := range models.RequestStatuses {
		stats[string(status)] = counts[status]
	}
	return stats, nil
}

// UpdateStatus advances a ticket along the allowed transitions.
func (s *RequestService) UpdateStatus(ctx context.Context, req dto.UpdateRequestStatusRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err)
	}
	next := models.RequestStatus(req.Status)
	current, err := s.repo.GetByID(ctx, req.RequestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Request not found")
		}
		return appErrors.Internal(err, "failed to load request")
	}
	if !current.Status.CanTransitionTo(next) {
		return appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("cannot change request status from %s to %s", current.Status, next))
	}
	if err := s.repo.UpdateStatus(ctx, req.RequestID, current.Status, next); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrConflict, "request status was changed by another user")
		}
		return appErrors.Internal(err, "failed to update request status")
	}
	s.logger.Info("file request status updated",
		zap.Int64("request_id", req.RequestID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(next)))
	return nil
}
