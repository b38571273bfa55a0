package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/samudata/samudata-api/internal/models"
)

type activityRecorder interface {
	Record(ctx context.Context, fileID *int64, action models.AccessAction) error
}

// auditTrail appends activity rows on behalf of a primary operation. Append failures are
// logged and counted here and never reach the caller.
type auditTrail struct {
	recorder activityRecorder
	metrics  *MetricsService
	logger   *zap.Logger
}

func (a auditTrail) append(ctx context.Context, fileID int64, action models.AccessAction) {
	if a.recorder == nil {
		return
	}
	if err := a.recorder.Record(ctx, &fileID, action); err != nil {
		a.metrics.RecordAuditFailure()
		a.logger.Warn("activity log append failed",
			zap.Int64("file_id", fileID),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}
