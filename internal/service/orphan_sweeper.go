package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/samudata/samudata-api/pkg/errors"
)

const sweepBatchSize = 500

type orphanCandidates interface {
	ListOlderThan(ttl time.Duration) ([]string, error)
	Delete(filename string) error
}

type filenameReferences interface {
	ReferencedFilenames(ctx context.Context, names []string) (map[string]struct{}, error)
}

// SweepReport summarises one sweep run.
type SweepReport struct {
	Scanned int      `json:"scanned"`
	Orphans []string `json:"orphans"`
	Removed int      `json:"removed"`
}

// OrphanSweeper removes payloads that no file row references. Only payloads older than the
// grace period are considered so in-flight uploads are never touched.
type OrphanSweeper struct {
	storage orphanCandidates
	refs    filenameReferences
	grace   time.Duration
	metrics *MetricsService
	logger  *zap.Logger
}

// NewOrphanSweeper constructs the sweeper.
func NewOrphanSweeper(storage orphanCandidates, refs filenameReferences, grace time.Duration, metrics *MetricsService, logger *zap.Logger) *OrphanSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if grace <= 0 {
		grace = time.Hour
	}
	return &OrphanSweeper{storage: storage, refs: refs, grace: grace, metrics: metrics, logger: logger}
}

// Sweep finds unreferenced payloads and deletes them unless dryRun is set.
func (s *OrphanSweeper) Sweep(ctx context.Context, dryRun bool) (*SweepReport, error) {
	candidates, err := s.storage.ListOlderThan(s.grace)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to scan content store")
	}
	report := &SweepReport{Scanned: len(candidates), Orphans: make([]string, 0)}

	for start := 0; start < len(candidates); start += sweepBatchSize {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		end := start + sweepBatchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[start:end]
		referenced, err := s.refs.ReferencedFilenames(ctx, batch)
		if err != nil {
			return report, appErrors.Internal(err, "failed to check stored filenames")
		}
		for _, name := range batch {
			if _, ok := referenced[name]; ok {
				continue
			}
			report.Orphans = append(report.Orphans, name)
			if dryRun {
				continue
			}
			if err := s.storage.Delete(name); err != nil {
				s.logger.Warn("failed to remove orphan payload", zap.String("filename", name), zap.Error(err))
				continue
			}
			report.Removed++
		}
	}

	s.metrics.RecordOrphansRemoved(report.Removed)
	s.logger.Info("orphan sweep finished",
		zap.Int("scanned", report.Scanned),
		zap.Int("orphans", len(report.Orphans)),
		zap.Int("removed", report.Removed),
		zap.Bool("dry_run", dryRun))
	return report, nil
}
