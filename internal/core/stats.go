package core

// Overview is the headline counter set of the dashboard.
type Overview struct {
	TotalInvoices  int64   `json:"total_invoices"`
	TotalClients   int64   `json:"total_clients"`
	TotalCompanies int64   `json:"total_companies"`
	TotalRevenue   float64 `json:"total_revenue"`
	PaidInvoices   int64   `json:"paid_invoices"`
	UnpaidInvoices int64   `json:"unpaid_invoices"`
	RecentInvoices int64   `json:"recent_invoices"`
}

// PaymentStats splits invoices by paid flag.
type PaymentStats struct {
	PaidCount      int64   `json:"paid_count"`
	UnpaidCount    int64   `json:"unpaid_count"`
	TotalCount     int64   `json:"total_count"`
	PaidAmount     float64 `json:"paid_amount"`
	UnpaidAmount   float64 `json:"unpaid_amount"`
	PaidPercentage float64 `json:"paid_percentage"`
}

// MonthlyRevenue is one year-month bucket of the revenue series.
type MonthlyRevenue struct {
	Month        string  `json:"month"`
	Revenue      float64 `json:"revenue"`
	InvoiceCount int64   `json:"invoice_count"`
}

// ClientSpend ranks a client by what they were invoiced.
type ClientSpend struct {
	Name         string  `json:"name"`
	InvoiceCount int64   `json:"invoice_count"`
	TotalSpent   float64 `json:"total_spent"`
}

// WithPercentage fills PaidPercentage from the counts.
func (p PaymentStats) WithPercentage() PaymentStats {
	p.PaidPercentage = Percentage(p.PaidCount, p.TotalCount)
	return p
}
