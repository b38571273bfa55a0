package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samudata/samudata-api/internal/app"
)

// NewSweepCommand removes stored payloads that no file row references.
func NewSweepCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sweep-orphans",
		Short: "Remove stored payloads with no metadata row",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()

			application, err := app.New(rt.cfg, rt.db, nil, rt.log)
			if err != nil {
				return err
			}
			report, err := application.Sweeper.Sweep(cmd.Context(), dryRun)
			if err != nil {
				return fmt.Errorf("sweep orphans: %w", err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list orphans without deleting them")
	return cmd
}
