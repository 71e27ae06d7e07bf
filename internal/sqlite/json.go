package sqlite

// JSON record structures that define the JSONL file format.

// sheetJSON represents a sheet in sheets.jsonl.
type sheetJSON struct {
	SheetID   string `json:"sheet_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// rowJSON represents one row in rows.jsonl. RowID orders rows within
// their sheet; row numbers are positions in that order.
type rowJSON struct {
	RowID   int64    `json:"row_id"`
	SheetID string   `json:"sheet_id"`
	Cells   []string `json:"cells"`
}
