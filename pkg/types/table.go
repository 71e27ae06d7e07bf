package types

import "errors"

// Row is one row of cells. Cells are stored as text; callers interpret them.
type Row []string

// Clone returns a copy of the row that does not share its backing array.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// RowTable is an ordered grid of rows addressed by 1-based row numbers,
// the way a spreadsheet addresses them. Row 1 is the header.
type RowTable interface {
	// Name returns the table name within its workbook.
	Name() string

	// ReadAll returns every row in order, header first. The returned rows
	// are copies; mutating them does not affect the table.
	ReadAll() ([]Row, error)

	// AppendRow adds a row after the last row.
	AppendRow(row Row) error

	// ReplaceRange overwrites len(cells) cells of row rowNum starting at
	// column col. Both are 1-based. The row is padded with empty cells when
	// it is shorter than col+len(cells)-1.
	// Returns ErrRowNotFound if rowNum is out of range.
	ReplaceRange(rowNum, col int, cells []string) error

	// DeleteRow removes row rowNum; later rows shift up by one.
	// Returns ErrRowNotFound if rowNum is out of range.
	DeleteRow(rowNum int) error
}

// Workbook is a persistent collection of named row tables.
// Callers attach to a backend, work with tables by name, and detach when done.
type Workbook interface {
	// Attach connects the Workbook to the backend described by config.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations return ErrDetached.
	Detach() error

	// Table returns the table with the given name.
	// Returns ErrTableNotFound if no such table exists.
	Table(name string) (RowTable, error)

	// InsertTable creates a new table holding a copy of rows.
	// Returns ErrTableExists if the name is taken.
	InsertTable(name string, rows []Row) (RowTable, error)

	// TableNames lists table names in creation order.
	TableNames() ([]string, error)
}

// Workbook and table errors.
var (
	ErrDetached        = errors.New("workbook is detached")
	ErrAlreadyAttached = errors.New("workbook is already attached")
	ErrTableNotFound   = errors.New("table not found")
	ErrTableExists     = errors.New("table already exists")
	ErrInvalidName     = errors.New("invalid table name")
	ErrRowNotFound     = errors.New("row not found")
	ErrInvalidColumn   = errors.New("invalid column")
)
