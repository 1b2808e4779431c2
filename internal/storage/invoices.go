package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"invoicestats/internal/core"
)

const invoiceColumns = `
SELECT i.id,
       COALESCE(i.company_id, 0),
       COALESCE(i.client_id, 0),
       COALESCE(i.number, ''),
       COALESCE(i.date, ''),
       COALESCE(i.subtotal, 0.0),
       COALESCE(i.tax_total, 0.0),
       COALESCE(i.total, 0.0),
       CASE WHEN i.paid = 1 THEN 1 ELSE 0 END,
       COALESCE(cl.name, ''),
       COALESCE(co.name, '')
FROM invoices i
LEFT JOIN clients cl ON i.client_id = cl.id
LEFT JOIN companies co ON i.company_id = co.id`

const invoiceItemsQuery = `
SELECT id,
       COALESCE(invoice_id, 0),
       COALESCE(description, ''),
       COALESCE(quantity, 0.0),
       COALESCE(price, 0.0),
       COALESCE(tax, 0.0),
       COALESCE(total, 0.0)
FROM invoice_items
WHERE invoice_id = ?
ORDER BY id`

const partyColumns = `id, name, COALESCE(address, ''), COALESCE(phone, ''), COALESCE(email, '')`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (core.Invoice, error) {
	var inv core.Invoice
	err := row.Scan(
		&inv.ID,
		&inv.CompanyID,
		&inv.ClientID,
		&inv.Number,
		&inv.Date,
		&inv.Subtotal,
		&inv.TaxTotal,
		&inv.Total,
		&inv.Paid,
		&inv.ClientName,
		&inv.CompanyName,
	)
	return inv, err
}

// GetInvoice returns the invoice and its items read on one connection.
// A missing invoice yields core.ErrNotFound.
func (r *SQLiteRepository) GetInvoice(ctx context.Context, id int64) (core.Invoice, []core.InvoiceItem, error) {
	var (
		inv   core.Invoice
		items []core.InvoiceItem
	)
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		var err error
		inv, err = scanInvoice(conn.QueryRowContext(ctx, invoiceColumns+` WHERE i.id = ?`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("get invoice %d: %w", id, core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("get invoice %d: %w", id, err)
		}

		items, err = listInvoiceItems(ctx, conn, id)
		return err
	})
	if err != nil {
		return core.Invoice{}, nil, err
	}
	return inv, items, nil
}

func listInvoiceItems(ctx context.Context, conn *sql.Conn, invoiceID int64) ([]core.InvoiceItem, error) {
	rows, err := conn.QueryContext(ctx, invoiceItemsQuery, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("query invoice items: %w", err)
	}
	defer rows.Close()

	var items []core.InvoiceItem
	for rows.Next() {
		var it core.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Description, &it.Quantity, &it.Price, &it.Tax, &it.Total); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoice items: %w", err)
	}
	return items, nil
}

// ListInvoices returns every invoice, newest id first, without items.
func (r *SQLiteRepository) ListInvoices(ctx context.Context) ([]core.Invoice, error) {
	out := []core.Invoice{}
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, invoiceColumns+` ORDER BY i.id DESC`)
		if err != nil {
			return fmt.Errorf("query invoices: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			inv, err := scanInvoice(rows)
			if err != nil {
				return fmt.Errorf("scan invoice: %w", err)
			}
			out = append(out, inv)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLiteRepository) ListClients(ctx context.Context) ([]core.Client, error) {
	out := []core.Client{}
	err := r.listParties(ctx, "clients", func(id int64, name, address, phone, email string) {
		out = append(out, core.Client{ID: id, Name: name, Address: address, Phone: phone, Email: email})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLiteRepository) GetClient(ctx context.Context, id int64) (core.Client, error) {
	var c core.Client
	err := r.getParty(ctx, "clients", id, &c.ID, &c.Name, &c.Address, &c.Phone, &c.Email)
	return c, err
}

func (r *SQLiteRepository) ListCompanies(ctx context.Context) ([]core.Company, error) {
	out := []core.Company{}
	err := r.listParties(ctx, "companies", func(id int64, name, address, phone, email string) {
		out = append(out, core.Company{ID: id, Name: name, Address: address, Phone: phone, Email: email})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLiteRepository) GetCompany(ctx context.Context, id int64) (core.Company, error) {
	var c core.Company
	err := r.getParty(ctx, "companies", id, &c.ID, &c.Name, &c.Address, &c.Phone, &c.Email)
	return c, err
}

// listParties and getParty serve clients and companies, which share a
// shape. table is always one of the two constant names above.
func (r *SQLiteRepository) listParties(ctx context.Context, table string, add func(id int64, name, address, phone, email string)) error {
	return r.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, `SELECT `+partyColumns+` FROM `+table+` ORDER BY id`)
		if err != nil {
			return fmt.Errorf("query %s: %w", table, err)
		}
		defer rows.Close()

		for rows.Next() {
			var (
				id                          int64
				name, address, phone, email string
			)
			if err := rows.Scan(&id, &name, &address, &phone, &email); err != nil {
				return fmt.Errorf("scan %s: %w", table, err)
			}
			add(id, name, address, phone, email)
		}
		return rows.Err()
	})
}

func (r *SQLiteRepository) getParty(ctx context.Context, table string, id int64, dest ...any) error {
	return r.withConn(ctx, func(conn *sql.Conn) error {
		err := conn.QueryRowContext(ctx, `SELECT `+partyColumns+` FROM `+table+` WHERE id = ?`, id).Scan(dest...)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("get %s %d: %w", table, id, core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("get %s %d: %w", table, id, err)
		}
		return nil
	})
}
