package core

import (
	"errors"
	"math"
	"time"
)

const (
	// DateLayout is the text form invoices store their issue date in.
	DateLayout = "2006-01-02"
	// MonthLayout labels monthly revenue buckets.
	MonthLayout = "2006-01"

	// RecentWindowDays bounds the "recent invoices" overview counter.
	RecentWindowDays = 30
	// RevenueWindowMonths bounds the monthly revenue series.
	RevenueWindowMonths = 6
	// TopClientsLimit caps the client ranking.
	TopClientsLimit = 10
)

type (
	// Client is the party an invoice is addressed to.
	Client struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Address string `json:"address"`
		Phone   string `json:"phone"`
		Email   string `json:"email"`
	}

	// Company issues invoices. Same shape as Client.
	Company struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Address string `json:"address"`
		Phone   string `json:"phone"`
		Email   string `json:"email"`
	}

	// Invoice is one row of the invoices table plus the names of the parties
	// it references. Paid is always 0 or 1.
	Invoice struct {
		ID          int64   `json:"id"`
		CompanyID   int64   `json:"company_id"`
		ClientID    int64   `json:"client_id"`
		Number      string  `json:"number"`
		Date        string  `json:"date"`
		Subtotal    float64 `json:"subtotal"`
		TaxTotal    float64 `json:"tax_total"`
		Total       float64 `json:"total"`
		Paid        int     `json:"paid"`
		ClientName  string  `json:"client_name"`
		CompanyName string  `json:"company_name"`
	}

	// InvoiceItem is a stored line of an invoice, in schema naming.
	InvoiceItem struct {
		ID          int64
		InvoiceID   int64
		Description string
		Quantity    float64
		Price       float64
		Tax         float64
		Total       float64
	}

	// LineItem is the external shape of an invoice item.
	LineItem struct {
		Desc  string  `json:"desc"`
		Qty   float64 `json:"qty"`
		Price float64 `json:"price"`
		Tax   float64 `json:"tax"`
		Line  float64 `json:"line"`
	}

	// InvoiceDetail is an invoice merged with its line items.
	InvoiceDetail struct {
		Invoice
		Items []LineItem `json:"items"`
	}
)

var (
	ErrNotFound = errors.New("not found")
)

// LineItem renames the stored columns to the external field names.
func (it InvoiceItem) LineItem() LineItem {
	return LineItem{
		Desc:  it.Description,
		Qty:   it.Quantity,
		Price: it.Price,
		Tax:   it.Tax,
		Line:  it.Total,
	}
}

// ExpectedTotal is quantity*price+tax. Stored totals are not required to match.
func (it InvoiceItem) ExpectedTotal() float64 {
	return it.Quantity*it.Price + it.Tax
}

// TotalMismatch reports whether the stored total differs from ExpectedTotal
// by more than half a cent.
func (it InvoiceItem) TotalMismatch() bool {
	return math.Abs(it.ExpectedTotal()-it.Total) > 0.005
}

// NewInvoiceDetail maps stored items to line items. Items is never nil so it
// encodes as an empty JSON array.
func NewInvoiceDetail(inv Invoice, items []InvoiceItem) InvoiceDetail {
	lines := make([]LineItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, it.LineItem())
	}
	return InvoiceDetail{Invoice: inv, Items: lines}
}

// RecentCutoff returns the inclusive lower bound date for recent invoices.
// Dates are taken in UTC whatever the location of now.
func RecentCutoff(now time.Time) string {
	return now.UTC().AddDate(0, 0, -RecentWindowDays).Format(DateLayout)
}

// RevenueCutoff returns the inclusive lower bound date for the monthly
// revenue series, in UTC.
func RevenueCutoff(now time.Time) string {
	return now.UTC().AddDate(0, -RevenueWindowMonths, 0).Format(DateLayout)
}
