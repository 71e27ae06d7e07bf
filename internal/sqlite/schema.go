// Package sqlite implements the SQLite workbook backend.
// SQLite is the query engine; JSONL files in the workbook directory are the
// source of truth and are reloaded on every Attach.
package sqlite

// Schema DDL for the workbook tables.
const (
	createSheets = `CREATE TABLE sheets (
    sheet_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    created_at TEXT NOT NULL
);`

	createSheetRows = `CREATE TABLE sheet_rows (
    row_id INTEGER PRIMARY KEY AUTOINCREMENT,
    sheet_id TEXT NOT NULL,
    cells TEXT NOT NULL
);`
)

// Index DDL. Rows of a sheet are always read in row_id order.
const (
	idxSheetRowsSheet = `CREATE INDEX idx_sheet_rows_sheet ON sheet_rows(sheet_id, row_id);`
)

// schemaDDL lists all CREATE statements in execution order.
var schemaDDL = []string{
	createSheets,
	createSheetRows,
	idxSheetRowsSheet,
}
