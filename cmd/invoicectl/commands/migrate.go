package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"invoicestats/internal/storage"
)

func newMigrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations",
		Long: `Apply the embedded schema migrations and add the paid column to
invoices when it is missing. This is the same sequence invoicestats runs at
startup; running it twice is a no-op.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := storage.RunMigrations(cmd.Context(), opts.dbPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date: %s\n", opts.dbPath)
			return nil
		},
	}
}
