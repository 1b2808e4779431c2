// Package pdf renders invoices as printable A4 documents.
package pdf

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"invoicestats/internal/core"
)

// Renderer writes invoice documents.
type Renderer struct {
	compress bool
}

func NewRenderer() *Renderer {
	return &Renderer{compress: true}
}

var itemColumns = []struct {
	title string
	width float64
	align string
}{
	{"Description", 80, "L"},
	{"Qty", 20, "R"},
	{"Price", 30, "R"},
	{"Tax", 25, "R"},
	{"Line", 35, "R"},
}

// Render writes detail as a single PDF document to w.
func (r *Renderer) Render(w io.Writer, detail core.InvoiceDetail) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetTitle("Invoice "+detail.Number, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr("Invoice "+detail.Number))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	header := []struct{ label, value string }{
		{"Date", detail.Date},
		{"From", detail.CompanyName},
		{"Bill To", detail.ClientName},
		{"Status", paidLabel(detail.Paid)},
	}
	for _, h := range header {
		pdf.CellFormat(30, 7, h.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, tr(h.value), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range itemColumns {
		pdf.CellFormat(c.width, 8, c.title, "1", 0, c.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, it := range detail.Items {
		cells := []string{tr(it.Desc), formatQty(it.Qty), money(it.Price), money(it.Tax), money(it.Line)}
		for i, c := range itemColumns {
			pdf.CellFormat(c.width, 7, cells[i], "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(detail.Items) == 0 {
		pdf.CellFormat(190, 7, "No line items", "1", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	totals := []struct {
		label string
		value float64
	}{
		{"Subtotal", detail.Subtotal},
		{"Tax", detail.TaxTotal},
		{"Total", detail.Total},
	}
	for i, t := range totals {
		if i == len(totals)-1 {
			pdf.SetFont("Arial", "B", 11)
		}
		pdf.CellFormat(155, 7, t.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, money(t.value), "", 1, "R", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render invoice %d: %w", detail.ID, err)
	}
	return nil
}

func paidLabel(paid int) string {
	if paid == 1 {
		return "Paid"
	}
	return "Unpaid"
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", core.Round2(v))
}

func formatQty(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return fmt.Sprintf("%.2f", q)
}
