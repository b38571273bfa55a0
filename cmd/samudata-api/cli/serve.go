package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/samudata/samudata-api/internal/app"
	"github.com/samudata/samudata-api/pkg/cache"
	"github.com/samudata/samudata-api/pkg/database"
)

const shutdownTimeout = 15 * time.Second

// NewServeCommand starts the HTTP server.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.close()

	if rt.cfg.Migrations.AutoMigrate {
		if err := database.Migrate(rt.db, database.DirectionUp, rt.log); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	}

	var cacheClient redis.UniversalClient
	if rt.cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, rt.cfg.Redis)
		if err != nil {
			rt.log.Warn("redis unavailable, stats cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			cacheClient = client
		}
	}

	application, err := app.New(rt.cfg, rt.db, cacheClient, rt.log)
	if err != nil {
		return err
	}

	stopSweeper := application.StartSweeper(ctx, rt.cfg.Storage.OrphanSweepInterval)
	defer stopSweeper()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", rt.cfg.Port),
		Handler:           application.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		rt.log.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", rt.cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	rt.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
