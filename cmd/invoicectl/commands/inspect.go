package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	applog "invoicestats/internal/log"
	"invoicestats/internal/storage"
)

func newInspectCmd(opts *options) *cobra.Command {
	var (
		asJSON  bool
		samples int
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Describe tables, columns and row counts",
		Long: `List every user table with its columns, row count and a few sample
rows. Nothing is migrated.

Examples:
  invoicectl inspect
  invoicectl inspect --json --samples 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if samples < 0 {
				return fmt.Errorf("--samples must be >= 0")
			}

			db, err := storage.OpenDB(opts.dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			tables, err := storage.InspectSchema(ctx, db, samples)
			if err != nil {
				return err
			}
			applog.FromContext(ctx).DebugContext(ctx, "Inspected schema",
				applog.FieldOperation, applog.OpInspect,
				applog.FieldDBPath, opts.dbPath,
				"tables", len(tables))

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(tables)
			}
			return printTables(cmd.OutOrStdout(), tables)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print machine-readable JSON")
	cmd.Flags().IntVar(&samples, "samples", 2, "sample rows per table")
	return cmd
}

func printTables(out io.Writer, tables []storage.TableReport) error {
	if len(tables) == 0 {
		_, err := fmt.Fprintln(out, "No tables found.")
		return err
	}

	for _, t := range tables {
		fmt.Fprintf(out, "%s (%d rows)\n", t.Name, t.Rows)

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, c := range t.Columns {
			fmt.Fprintf(tw, "  %s\t%s\n", c.Name, c.Type)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		for _, row := range t.Samples {
			keys := make([]string, 0, len(row))
			for k := range row {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			pairs := make([]string, 0, len(keys))
			for _, k := range keys {
				pairs = append(pairs, k+"="+row[k])
			}
			fmt.Fprintf(out, "  sample: %s\n", strings.Join(pairs, " "))
		}
		fmt.Fprintln(out)
	}
	return nil
}
