package services

import (
	"context"
	"fmt"
	"time"

	"invoicestats/internal/core"
	applog "invoicestats/internal/log"
	"invoicestats/internal/ports"
)

// Store is the subset of storage.SQLiteRepository the reports read from.
type Store interface {
	Overview(ctx context.Context, recentSince string) (core.Overview, error)
	PaymentStats(ctx context.Context) (core.PaymentStats, error)
	MonthlyRevenue(ctx context.Context, since string) ([]core.MonthlyRevenue, error)
	TopClients(ctx context.Context, limit int) ([]core.ClientSpend, error)
	GetInvoice(ctx context.Context, id int64) (core.Invoice, []core.InvoiceItem, error)
	ListInvoices(ctx context.Context) ([]core.Invoice, error)
	ListClients(ctx context.Context) ([]core.Client, error)
	GetClient(ctx context.Context, id int64) (core.Client, error)
	ListCompanies(ctx context.Context) ([]core.Company, error)
	GetCompany(ctx context.Context, id int64) (core.Company, error)
}

// ReportService turns store reads into report values. Time windows are
// computed from its clock at call time.
type ReportService struct {
	store Store
	now   func() time.Time
}

var (
	_ ports.StatsReader     = (*ReportService)(nil)
	_ ports.InvoiceReader   = (*ReportService)(nil)
	_ ports.DirectoryReader = (*ReportService)(nil)
)

func NewReportService(store Store) *ReportService {
	return &ReportService{
		store: store,
		now:   time.Now,
	}
}

// WithClock replaces the clock, for tests and replays.
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

func (s *ReportService) Overview(ctx context.Context) (core.Overview, error) {
	ov, err := s.store.Overview(ctx, core.RecentCutoff(s.now()))
	if err != nil {
		return core.Overview{}, fmt.Errorf("read overview: %w", err)
	}
	return ov, nil
}

func (s *ReportService) PaymentStats(ctx context.Context) (core.PaymentStats, error) {
	ps, err := s.store.PaymentStats(ctx)
	if err != nil {
		return core.PaymentStats{}, fmt.Errorf("read payment stats: %w", err)
	}
	return ps.WithPercentage(), nil
}

func (s *ReportService) MonthlyRevenue(ctx context.Context) ([]core.MonthlyRevenue, error) {
	months, err := s.store.MonthlyRevenue(ctx, core.RevenueCutoff(s.now()))
	if err != nil {
		return nil, fmt.Errorf("read monthly revenue: %w", err)
	}
	if months == nil {
		months = []core.MonthlyRevenue{}
	}
	return months, nil
}

func (s *ReportService) TopClients(ctx context.Context) ([]core.ClientSpend, error) {
	clients, err := s.store.TopClients(ctx, core.TopClientsLimit)
	if err != nil {
		return nil, fmt.Errorf("read top clients: %w", err)
	}
	if clients == nil {
		clients = []core.ClientSpend{}
	}
	return clients, nil
}

// InvoiceDetail returns the invoice with its items in external naming.
// Stored line totals are returned as they are; disagreements with
// quantity*price+tax are only logged.
func (s *ReportService) InvoiceDetail(ctx context.Context, id int64) (core.InvoiceDetail, error) {
	inv, items, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return core.InvoiceDetail{}, fmt.Errorf("read invoice: %w", err)
	}

	logger := applog.FromContext(ctx).WithComponent(applog.ComponentInvoices)
	for _, it := range items {
		if it.TotalMismatch() {
			fields := applog.NewFields().WithInvoice(id).WithOperation(applog.OpRead)
			fields["item_id"] = it.ID
			fields["stored_total"] = it.Total
			fields["expected_total"] = it.ExpectedTotal()
			logger.WarnContext(ctx, "Invoice item total differs from quantity*price+tax", fields.ToSlice()...)
		}
	}

	return core.NewInvoiceDetail(inv, items), nil
}

func (s *ReportService) ListInvoices(ctx context.Context) ([]core.Invoice, error) {
	invoices, err := s.store.ListInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, nil
}

func (s *ReportService) ListClients(ctx context.Context) ([]core.Client, error) {
	clients, err := s.store.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

func (s *ReportService) GetClient(ctx context.Context, id int64) (core.Client, error) {
	c, err := s.store.GetClient(ctx, id)
	if err != nil {
		return core.Client{}, fmt.Errorf("read client: %w", err)
	}
	return c, nil
}

func (s *ReportService) ListCompanies(ctx context.Context) ([]core.Company, error) {
	companies, err := s.store.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}

func (s *ReportService) GetCompany(ctx context.Context, id int64) (core.Company, error) {
	c, err := s.store.GetCompany(ctx, id)
	if err != nil {
		return core.Company{}, fmt.Errorf("read company: %w", err)
	}
	return c, nil
}
