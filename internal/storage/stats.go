package storage

import (
	"context"
	"database/sql"
	"fmt"

	"invoicestats/internal/core"
)

// Invoices whose paid flag is anything but 1 count as unpaid, so the paid and
// unpaid sides always add up to the total.
const paymentStatsQuery = `
SELECT
    COALESCE(SUM(CASE WHEN paid = 1 THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN paid = 1 THEN 0 ELSE 1 END), 0),
    COUNT(*),
    COALESCE(SUM(CASE WHEN paid = 1 THEN COALESCE(total, 0) ELSE 0 END), 0.0),
    COALESCE(SUM(CASE WHEN paid = 1 THEN 0 ELSE COALESCE(total, 0) END), 0.0)
FROM invoices`

const monthlyRevenueQuery = `
SELECT strftime('%Y-%m', date) AS month,
       COALESCE(SUM(total), 0.0) AS revenue,
       COUNT(*) AS invoice_count
FROM invoices
WHERE date >= ? AND strftime('%Y-%m', date) IS NOT NULL
GROUP BY month
ORDER BY month`

const topClientsQuery = `
SELECT c.name,
       COUNT(i.id) AS invoice_count,
       COALESCE(SUM(i.total), 0.0) AS total_spent
FROM clients c
LEFT JOIN invoices i ON c.id = i.client_id
GROUP BY c.id, c.name
ORDER BY total_spent DESC, c.id ASC
LIMIT ?`

// Overview counts invoices, parties and revenue. recentSince is the inclusive
// YYYY-MM-DD lower bound for the recent counter.
func (r *SQLiteRepository) Overview(ctx context.Context, recentSince string) (core.Overview, error) {
	var ov core.Overview
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		counters := []struct {
			name  string
			query string
			args  []any
			dest  any
		}{
			{"count invoices", `SELECT COUNT(*) FROM invoices`, nil, &ov.TotalInvoices},
			{"count clients", `SELECT COUNT(*) FROM clients`, nil, &ov.TotalClients},
			{"count companies", `SELECT COUNT(*) FROM companies`, nil, &ov.TotalCompanies},
			{"sum revenue", `SELECT COALESCE(SUM(total), 0.0) FROM invoices`, nil, &ov.TotalRevenue},
			{"count paid invoices", `SELECT COUNT(*) FROM invoices WHERE paid = 1`, nil, &ov.PaidInvoices},
			{"count unpaid invoices", `SELECT COUNT(*) FROM invoices WHERE paid IS NOT 1`, nil, &ov.UnpaidInvoices},
			{"count recent invoices", `SELECT COUNT(*) FROM invoices WHERE date >= ?`, []any{recentSince}, &ov.RecentInvoices},
		}
		for _, c := range counters {
			if err := conn.QueryRowContext(ctx, c.query, c.args...).Scan(c.dest); err != nil {
				return fmt.Errorf("%s: %w", c.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return core.Overview{}, err
	}
	return ov, nil
}

// PaymentStats returns counts and amounts per paid flag. PaidPercentage is
// left for the caller.
func (r *SQLiteRepository) PaymentStats(ctx context.Context) (core.PaymentStats, error) {
	var ps core.PaymentStats
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		err := conn.QueryRowContext(ctx, paymentStatsQuery).Scan(
			&ps.PaidCount,
			&ps.UnpaidCount,
			&ps.TotalCount,
			&ps.PaidAmount,
			&ps.UnpaidAmount,
		)
		if err != nil {
			return fmt.Errorf("query payment stats: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.PaymentStats{}, err
	}
	return ps, nil
}

// MonthlyRevenue groups invoices dated on or after since by year-month,
// ascending. Months without invoices are absent.
func (r *SQLiteRepository) MonthlyRevenue(ctx context.Context, since string) ([]core.MonthlyRevenue, error) {
	out := []core.MonthlyRevenue{}
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, monthlyRevenueQuery, since)
		if err != nil {
			return fmt.Errorf("query monthly revenue: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var m core.MonthlyRevenue
			if err := rows.Scan(&m.Month, &m.Revenue, &m.InvoiceCount); err != nil {
				return fmt.Errorf("scan monthly revenue: %w", err)
			}
			out = append(out, m)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TopClients ranks clients by invoiced total, including clients with no
// invoices at zero.
func (r *SQLiteRepository) TopClients(ctx context.Context, limit int) ([]core.ClientSpend, error) {
	out := []core.ClientSpend{}
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, topClientsQuery, limit)
		if err != nil {
			return fmt.Errorf("query top clients: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var c core.ClientSpend
			if err := rows.Scan(&c.Name, &c.InvoiceCount, &c.TotalSpent); err != nil {
				return fmt.Errorf("scan top client: %w", err)
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
