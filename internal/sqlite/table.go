package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/contacts/pkg/types"
)

// Compile-time interface check.
var _ types.RowTable = (*sheetTable)(nil)

// sheetTable implements RowTable for one sheet. Row numbers are positions in
// row_id order, so deleting a row shifts the rows after it up by one.
type sheetTable struct {
	backend *Backend
	sheetID string
	name    string
}

func (t *sheetTable) Name() string { return t.name }

// ReadAll returns every row of the sheet in order.
func (t *sheetTable) ReadAll() ([]types.Row, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()

	if !t.backend.attached {
		return nil, types.ErrDetached
	}

	rows, err := t.backend.db.Query(
		"SELECT cells FROM sheet_rows WHERE sheet_id = ? ORDER BY row_id",
		t.sheetID,
	)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", t.name, err)
	}
	defer rows.Close()

	var out []types.Row
	for rows.Next() {
		var cells string
		if err := rows.Scan(&cells); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		row, err := decodeCells(cells)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// AppendRow adds a row after the last row of the sheet.
func (t *sheetTable) AppendRow(row types.Row) error {
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	if !t.backend.attached {
		return types.ErrDetached
	}

	cells, err := encodeCells(row)
	if err != nil {
		return err
	}
	if _, err := t.backend.db.Exec(
		"INSERT INTO sheet_rows (sheet_id, cells) VALUES (?, ?)",
		t.sheetID, cells,
	); err != nil {
		return fmt.Errorf("appending row: %w", err)
	}
	return t.backend.afterWriteLocked()
}

// ReplaceRange overwrites cells of row rowNum starting at column col.
func (t *sheetTable) ReplaceRange(rowNum, col int, cells []string) error {
	if col < 1 {
		return types.ErrInvalidColumn
	}

	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	if !t.backend.attached {
		return types.ErrDetached
	}

	rowID, current, err := t.rowAt(rowNum)
	if err != nil {
		return err
	}
	if need := col - 1 + len(cells); len(current) < need {
		padded := make(types.Row, need)
		copy(padded, current)
		current = padded
	}
	copy(current[col-1:], cells)

	encoded, err := encodeCells(current)
	if err != nil {
		return err
	}
	if _, err := t.backend.db.Exec(
		"UPDATE sheet_rows SET cells = ? WHERE row_id = ?",
		encoded, rowID,
	); err != nil {
		return fmt.Errorf("replacing row %d: %w", rowNum, err)
	}
	return t.backend.afterWriteLocked()
}

// DeleteRow removes row rowNum from the sheet.
func (t *sheetTable) DeleteRow(rowNum int) error {
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	if !t.backend.attached {
		return types.ErrDetached
	}

	rowID, _, err := t.rowAt(rowNum)
	if err != nil {
		return err
	}
	if _, err := t.backend.db.Exec("DELETE FROM sheet_rows WHERE row_id = ?", rowID); err != nil {
		return fmt.Errorf("deleting row %d: %w", rowNum, err)
	}
	return t.backend.afterWriteLocked()
}

// rowAt resolves a 1-based row number to its row_id and cells.
// The caller must hold the backend lock.
func (t *sheetTable) rowAt(rowNum int) (int64, types.Row, error) {
	if rowNum < 1 {
		return 0, nil, types.ErrRowNotFound
	}
	var rowID int64
	var cells string
	err := t.backend.db.QueryRow(
		"SELECT row_id, cells FROM sheet_rows WHERE sheet_id = ? ORDER BY row_id LIMIT 1 OFFSET ?",
		t.sheetID, rowNum-1,
	).Scan(&rowID, &cells)
	if err == sql.ErrNoRows {
		return 0, nil, types.ErrRowNotFound
	}
	if err != nil {
		return 0, nil, fmt.Errorf("locating row %d: %w", rowNum, err)
	}
	row, err := decodeCells(cells)
	if err != nil {
		return 0, nil, err
	}
	return rowID, row, nil
}
