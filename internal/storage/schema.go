package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	applog "invoicestats/internal/log"
)

// Column is one entry of PRAGMA table_info.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TableReport describes a table for operators: its columns, row count and a
// few sample rows rendered as text.
type TableReport struct {
	Name    string              `json:"name"`
	Columns []Column            `json:"columns"`
	Rows    int64               `json:"rows"`
	Samples []map[string]string `json:"samples,omitempty"`
}

// LegacyTableNames maps the singular names used by early databases to the
// current ones.
var LegacyTableNames = []struct{ Old, New string }{
	{"company", "companies"},
	{"client", "clients"},
	{"invoice", "invoices"},
	{"invoice_item", "invoice_items"},
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// quoteIdent quotes a table name read back from sqlite_master.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func tableColumns(ctx context.Context, q queryer, table string) ([]Column, error) {
	rows, err := q.QueryContext(ctx, `SELECT name, type FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var c Column
		if err := rows.Scan(&c.Name, &c.Type); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func tableExists(ctx context.Context, q queryer, table string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n)
	return n > 0, err
}

func countRows(ctx context.Context, q queryer, table string) (int64, error) {
	var n int64
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+quoteIdent(table)).Scan(&n)
	return n, err
}

// InspectSchema lists user tables with their columns, row counts and up to
// sampleRows rows each.
func InspectSchema(ctx context.Context, db *sql.DB, sampleRows int) ([]TableReport, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	reports := make([]TableReport, 0, len(names))
	for _, name := range names {
		rep := TableReport{Name: name}
		if rep.Columns, err = tableColumns(ctx, db, name); err != nil {
			return nil, fmt.Errorf("columns of %s: %w", name, err)
		}
		if rep.Rows, err = countRows(ctx, db, name); err != nil {
			return nil, fmt.Errorf("count %s: %w", name, err)
		}
		if sampleRows > 0 && rep.Rows > 0 {
			if rep.Samples, err = sampleTable(ctx, db, name, sampleRows); err != nil {
				return nil, fmt.Errorf("sample %s: %w", name, err)
			}
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

func sampleTable(ctx context.Context, db *sql.DB, table string, limit int) ([]map[string]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT * FROM `+quoteIdent(table)+` LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]string, len(cols))
		for i, c := range cols {
			switch v := vals[i].(type) {
			case nil:
				row[c] = "NULL"
			case []byte:
				row[c] = string(v)
			default:
				row[c] = fmt.Sprint(v)
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// RenameResult reports what RenameLegacyTables did for one table pair.
type RenameResult struct {
	Old     string
	New     string
	Renamed bool
	Reason  string
}

// RenameLegacyTables moves singular legacy tables to their current names in a
// single transaction. A pair is skipped when the legacy table is absent. An
// existing target table is dropped only when it is empty, or when force is
// set. Afterwards the legacy schema fixes are applied so the renamed tables
// carry the paid column and report indexes.
func RenameLegacyTables(ctx context.Context, db *sql.DB, force bool) ([]RenameResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin rename: %w", err)
	}
	defer tx.Rollback()

	var results []RenameResult
	for _, pair := range LegacyTableNames {
		res := RenameResult{Old: pair.Old, New: pair.New}

		oldExists, err := tableExists(ctx, tx, pair.Old)
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", pair.Old, err)
		}
		if !oldExists {
			res.Reason = "legacy table absent"
			results = append(results, res)
			continue
		}

		newExists, err := tableExists(ctx, tx, pair.New)
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", pair.New, err)
		}
		if newExists {
			n, err := countRows(ctx, tx, pair.New)
			if err != nil {
				return nil, fmt.Errorf("count %s: %w", pair.New, err)
			}
			if n > 0 && !force {
				return nil, fmt.Errorf("target table %s has %d rows; refusing to replace it without force", pair.New, n)
			}
			if _, err := tx.ExecContext(ctx, `DROP TABLE `+quoteIdent(pair.New)); err != nil {
				return nil, fmt.Errorf("drop %s: %w", pair.New, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `ALTER TABLE `+quoteIdent(pair.Old)+` RENAME TO `+quoteIdent(pair.New)); err != nil {
			return nil, fmt.Errorf("rename %s to %s: %w", pair.Old, pair.New, err)
		}
		res.Renamed = true
		results = append(results, res)
		storageLogger(ctx).InfoContext(ctx, "Renamed legacy table",
			applog.FieldOperation, applog.OpRename,
			applog.FieldTable, pair.New,
			applog.FieldLegacyTable, pair.Old)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit rename: %w", err)
	}

	for _, res := range results {
		if res.Renamed {
			if err := EnsureLegacySchema(ctx, db); err != nil {
				return results, err
			}
			break
		}
	}
	return results, nil
}
