package ports

import (
	"context"

	"invoicestats/internal/core"
)

// Ports consumed by the HTTP layer.
type (
	// StatsReader computes the dashboard aggregates.
	StatsReader interface {
		Overview(ctx context.Context) (core.Overview, error)
		PaymentStats(ctx context.Context) (core.PaymentStats, error)
		// MonthlyRevenue returns the trailing six months, ascending, without
		// empty months.
		MonthlyRevenue(ctx context.Context) ([]core.MonthlyRevenue, error)
		TopClients(ctx context.Context) ([]core.ClientSpend, error)
	}

	// InvoiceReader returns invoices. Missing ids yield core.ErrNotFound.
	InvoiceReader interface {
		InvoiceDetail(ctx context.Context, id int64) (core.InvoiceDetail, error)
		ListInvoices(ctx context.Context) ([]core.Invoice, error)
	}

	// DirectoryReader returns clients and companies.
	DirectoryReader interface {
		ListClients(ctx context.Context) ([]core.Client, error)
		GetClient(ctx context.Context, id int64) (core.Client, error)
		ListCompanies(ctx context.Context) ([]core.Company, error)
		GetCompany(ctx context.Context, id int64) (core.Company, error)
	}

	// HealthChecker reports whether the store is reachable.
	HealthChecker interface {
		Ping(ctx context.Context) error
	}
)
