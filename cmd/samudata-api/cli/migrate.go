package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samudata/samudata-api/pkg/database"
)

// NewMigrateCommand applies or rolls back the embedded schema migrations.
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(database.DirectionUp), string(database.DirectionDown)},
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()

			if err := database.Migrate(rt.db, database.Direction(args[0]), rt.log); err != nil {
				return fmt.Errorf("migrate %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations %s complete\n", args[0])
			return nil
		},
	}
}
