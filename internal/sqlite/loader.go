package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
)

// loadAllJSONL reads sheets.jsonl and rows.jsonl from dir and inserts them
// into SQLite. Loading is transactional: all succeed or the database stays
// empty. Malformed lines, records with unknown sheets, and records that
// violate constraints are skipped. Unknown fields are ignored.
func loadAllJSONL(db *sql.DB, dir string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	sheets, err := readJSONL(filepath.Join(dir, sheetsJSONL))
	if err != nil {
		return err
	}
	known, err := insertSheets(tx, sheets)
	if err != nil {
		return fmt.Errorf("loading %s: %w", sheetsJSONL, err)
	}

	rows, err := readJSONL(filepath.Join(dir, rowsJSONL))
	if err != nil {
		return err
	}
	if err := insertRows(tx, rows, known); err != nil {
		return fmt.Errorf("loading %s: %w", rowsJSONL, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertSheets inserts sheet records and returns the set of loaded sheet ids.
func insertSheets(tx *sql.Tx, records []json.RawMessage) (map[string]bool, error) {
	stmt, err := tx.Prepare("INSERT INTO sheets (sheet_id, name, created_at) VALUES (?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("preparing sheet insert: %w", err)
	}
	defer stmt.Close()

	known := make(map[string]bool, len(records))
	for _, rec := range records {
		var s sheetJSON
		if err := json.Unmarshal(rec, &s); err != nil || s.SheetID == "" || s.Name == "" {
			continue
		}
		if _, err := stmt.Exec(s.SheetID, s.Name, s.CreatedAt); err != nil {
			// Duplicate ids or names keep the first record.
			continue
		}
		known[s.SheetID] = true
	}
	return known, nil
}

// insertRows inserts row records whose sheet is known. Row ids are kept so
// row order survives a reload.
func insertRows(tx *sql.Tx, records []json.RawMessage, known map[string]bool) error {
	stmt, err := tx.Prepare("INSERT INTO sheet_rows (row_id, sheet_id, cells) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing row insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var r rowJSON
		if err := json.Unmarshal(rec, &r); err != nil || r.RowID <= 0 || !known[r.SheetID] {
			continue
		}
		cells, err := encodeCells(r.Cells)
		if err != nil {
			continue
		}
		if _, err := stmt.Exec(r.RowID, r.SheetID, cells); err != nil {
			continue
		}
	}
	return nil
}
