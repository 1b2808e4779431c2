package commands

import (
	"github.com/spf13/cobra"

	"invoicestats/internal/cli"
	"invoicestats/internal/config"
	applog "invoicestats/internal/log"
)

// options are the flags shared by every subcommand.
type options struct {
	dbPath   string
	logLevel string
}

// NewRootCmd builds the invoicectl command tree.
func NewRootCmd() *cobra.Command {
	cfg := config.Load()
	opts := &options{}

	root := &cobra.Command{
		Use:   "invoicectl",
		Short: "Maintenance commands for the invoice database",
		Long: `invoicectl runs offline maintenance against the SQLite database that
invoicestats serves: schema migration, legacy table renames, schema
inspection and invoice PDF rendering.

The database path defaults to INVOICE_DB_PATH.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := cli.SetupLoggerTo(cmd.ErrOrStderr(), opts.logLevel).WithComponent(applog.ComponentCLI)
			cmd.SetContext(applog.NewContext(cmd.Context(), logger))
		},
	}

	root.PersistentFlags().StringVar(&opts.dbPath, "db", cfg.InvoiceDBPath, "path to the invoice database")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", cfg.LogLevel, "log level (debug|info|warn|error)")

	root.AddCommand(newMigrateCmd(opts))
	root.AddCommand(newInspectCmd(opts))
	root.AddCommand(newRenameTablesCmd(opts))
	root.AddCommand(newPDFCmd(opts))
	return root
}
