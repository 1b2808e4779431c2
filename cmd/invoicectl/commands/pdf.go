package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"invoicestats/internal/core"
	applog "invoicestats/internal/log"
	"invoicestats/internal/pdf"
	"invoicestats/internal/services"
	"invoicestats/internal/storage"
)

func newPDFCmd(opts *options) *cobra.Command {
	var (
		id      int64
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Render an invoice as PDF",
		Long: `Render one invoice with its line items as an A4 PDF.

Examples:
  invoicectl pdf --id 42 --out invoice-42.pdf
  invoicectl pdf --id 42 > invoice-42.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if id <= 0 {
				return fmt.Errorf("--id must be a positive invoice id")
			}

			repo, err := storage.OpenSQLiteRepository(cmd.Context(), opts.dbPath)
			if err != nil {
				return err
			}
			defer repo.Close()

			detail, err := services.NewReportService(repo).InvoiceDetail(cmd.Context(), id)
			if errors.Is(err, core.ErrNotFound) {
				return fmt.Errorf("invoice %d not found", id)
			}
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" && outPath != "-" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outPath, err)
				}
				defer f.Close()
				w = f
			}

			if err := pdf.NewRenderer().Render(w, detail); err != nil {
				return err
			}
			ctx := cmd.Context()
			applog.FromContext(ctx).InfoContext(ctx, "Rendered invoice PDF",
				applog.FieldOperation, applog.OpRender,
				applog.FieldInvoiceID, id,
				"items", len(detail.Items))
			if outPath != "" && outPath != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "invoice id")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")
	return cmd
}
