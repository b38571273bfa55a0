package cli

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/samudata/samudata-api/pkg/config"
	"github.com/samudata/samudata-api/pkg/database"
	"github.com/samudata/samudata-api/pkg/logger"
)

// VersionInfo is stamped at build time.
type VersionInfo struct {
	Version string
	Commit  string
}

// NewRootCommand builds the root command. Running it without a subcommand serves HTTP.
func NewRootCommand(info VersionInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "samudata-api",
		Short:         "Samudata fisheries document repository",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	cmd.Version = fmt.Sprintf("%s.%s", info.Version, info.Commit)
	return cmd
}

// session carries what every subcommand needs.
type session struct {
	cfg *config.Config
	log *zap.Logger
	db  *sqlx.DB
}

func bootstrap() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		_ = logr.Sync()
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return &session{cfg: cfg, log: logr, db: db}, nil
}

func (r *session) close() {
	_ = r.db.Close()
	_ = r.log.Sync()
}
