package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"invoicestats/internal/storage"
)

func newRenameTablesCmd(opts *options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rename-tables",
		Short: "Rename legacy singular tables to their current names",
		Long: `Rename company, client, invoice and invoice_item to companies, clients,
invoices and invoice_items in a single transaction.

A pair is skipped when the legacy table does not exist. An existing empty
target table is replaced; a target that holds rows aborts the whole rename
unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := storage.OpenDB(opts.dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			results, err := storage.RenameLegacyTables(cmd.Context(), db, force)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.Renamed {
					fmt.Fprintf(out, "renamed %s -> %s\n", r.Old, r.New)
				} else {
					fmt.Fprintf(out, "skipped %s: %s\n", r.Old, r.Reason)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "replace target tables even when they hold rows")
	return cmd
}
