package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(context.Background(), filepath.Join(t.TempDir(), "invoices.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func insertClient(t *testing.T, repo *SQLiteRepository, name string) int64 {
	t.Helper()
	res, err := repo.DB().Exec(`INSERT INTO clients (name, address, phone, email) VALUES (?, ?, ?, ?)`,
		name, name+" street 1", "555-0100", name+"@example.com")
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func insertCompany(t *testing.T, repo *SQLiteRepository, name string) int64 {
	t.Helper()
	res, err := repo.DB().Exec(`INSERT INTO companies (name) VALUES (?)`, name)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func insertInvoice(t *testing.T, repo *SQLiteRepository, companyID, clientID int64, number, date string, total float64, paid int) int64 {
	t.Helper()
	res, err := repo.DB().Exec(`INSERT INTO invoices (company_id, client_id, number, date, subtotal, tax_total, total, paid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		companyID, clientID, number, date, total*0.8, total*0.2, total, paid)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func insertItem(t *testing.T, repo *SQLiteRepository, invoiceID int64, desc string, qty, price, tax, total float64) {
	t.Helper()
	_, err := repo.DB().Exec(`INSERT INTO invoice_items (invoice_id, description, quantity, price, tax, total)
		VALUES (?, ?, ?, ?, ?, ?)`, invoiceID, desc, qty, price, tax, total)
	require.NoError(t, err)
}
