// Package app wires repositories, services and handlers into a runnable server.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/samudata/samudata-api/internal/handler"
	"github.com/samudata/samudata-api/internal/repository"
	"github.com/samudata/samudata-api/internal/router"
	"github.com/samudata/samudata-api/internal/service"
	"github.com/samudata/samudata-api/pkg/config"
	"github.com/samudata/samudata-api/pkg/database"
	"github.com/samudata/samudata-api/pkg/jobs"
	"github.com/samudata/samudata-api/pkg/storage"
)

const (
	cacheKeyPrefix  = "samudata"
	sweepJobKind    = "sweep-orphans"
	sweepRetries    = 3
	sweepRetryDelay = time.Minute
)

// App holds the assembled components.
type App struct {
	Engine   *gin.Engine
	Metrics  *service.MetricsService
	Settings *service.SettingsService
	Sweeper  *service.OrphanSweeper
	Storage  *storage.LocalStorage

	logger *zap.Logger
}

// New assembles the application. cacheClient may be nil, in which case the stats cache is disabled.
func New(cfg *config.Config, db *sqlx.DB, cacheClient redis.UniversalClient, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	store, err := storage.NewLocalStorage(cfg.Storage.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	metrics := service.NewMetricsService()

	fileRepo := repository.NewFileRepository(db)
	lookupRepo := repository.NewLookupRepository(db)
	logRepo := repository.NewAccessLogRepository(db)
	requestRepo := repository.NewFileRequestRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	cacheRepo := repository.NewCacheRepository(cacheClient, cacheKeyPrefix)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.StatsTTL, log, cfg.Cache.Enabled && cacheClient != nil)
	settings := service.NewSettingsService(settingRepo, service.SettingsDefaults{
		MaxFileSize:       cfg.Storage.DefaultMaxFileSize,
		AllowedExtensions: cfg.Storage.DefaultAllowedExtensions,
	}, log)
	lookups := service.NewLookupService(lookupRepo, cfg.Cache.LookupSize, cfg.Cache.LookupTTL, metrics, log)
	activity := service.NewActivityLogService(logRepo, cacheSvc, cfg.Cache.StatsTTL, log)
	requests := service.NewRequestService(requestRepo, log)
	files := service.NewFileService(fileRepo, store, activity, cacheSvc, metrics, cfg.Cache.StatsTTL, log)
	ingestion := service.NewIngestionService(fileRepo, store, settings, lookups, activity, cacheSvc, metrics, log)
	sweeper := service.NewOrphanSweeper(store, fileRepo, cfg.Storage.OrphanGracePeriod, metrics, log)

	engine := router.New(cfg, log, metrics, router.Handlers{
		Files:    handler.NewFileHandler(files, lookups, activity, requests),
		Upload:   handler.NewUploadHandler(ingestion),
		Download: handler.NewDownloadHandler(files, store),
		Metrics:  handler.NewMetricsHandler(metrics, database.NewReadinessChecker(db)),
	})

	return &App{
		Engine:   engine,
		Metrics:  metrics,
		Settings: settings,
		Sweeper:  sweeper,
		Storage:  store,
		logger:   log,
	}, nil
}

// StartSweeper runs an orphan sweep every interval on a single-worker queue until the returned
// stop function is called or ctx ends. A non-positive interval disables it.
func (a *App) StartSweeper(ctx context.Context, interval time.Duration) (stop func()) {
	if interval <= 0 {
		return func() {}
	}
	queue := jobs.NewQueue(sweepJobKind, func(ctx context.Context, _ jobs.Job) error {
		_, err := a.Sweeper.Sweep(ctx, false)
		return err
	}, jobs.QueueConfig{Workers: 1, BufferSize: 1, MaxRetries: sweepRetries, RetryDelay: sweepRetryDelay, Logger: a.logger})
	queue.Start(ctx)

	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				if err := queue.Enqueue(jobs.Job{ID: uuid.NewString(), Kind: sweepJobKind}); err != nil {
					a.logger.Debug("orphan sweep skipped", zap.Error(err))
				}
			}
		}
	}()
	return func() {
		close(done)
		queue.Stop()
	}
}
