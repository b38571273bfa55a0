package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samudata/samudata-api/internal/app"
)

// NewSettingsCommand manages the upload settings table.
func NewSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage upload settings",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Validate and store a setting (max_file_size, allowed_extensions)",
		Args:  cobra.ExactArgs(2),
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
			if err := application.Settings.Set(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", args[0])
			return nil
		},
	})
	return cmd
}
