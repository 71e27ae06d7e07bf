// Package memory provides an in-memory Workbook used for tests and
// ephemeral sessions. Nothing is persisted; Detach discards every table.
package memory

import (
	"sync"

	"github.com/mesh-intelligence/contacts/pkg/types"
)

// Compile-time contract assertions.
var (
	_ types.Workbook = (*Workbook)(nil)
	_ types.RowTable = (*table)(nil)
)

// Workbook is a concurrency-safe in-memory types.Workbook.
type Workbook struct {
	mu       sync.RWMutex
	attached bool
	tables   map[string]*table
	order    []string
}

type table struct {
	wb   *Workbook
	name string
	rows []types.Row
}

// New returns a detached Workbook.
func New() *Workbook {
	return &Workbook{}
}

// NewAttached returns a Workbook that is ready to use.
func NewAttached() *Workbook {
	wb := New()
	wb.attached = true
	wb.tables = make(map[string]*table)
	return wb
}

// Attach validates config and starts an empty workbook. Returns
// ErrAlreadyAttached if already attached.
func (w *Workbook) Attach(config types.Config) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	w.attached = true
	w.tables = make(map[string]*table)
	w.order = nil
	return nil
}

// Detach drops every table. Detach is idempotent.
func (w *Workbook) Detach() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.attached = false
	w.tables = nil
	w.order = nil
	return nil
}

// Table returns the table with the given name, or ErrTableNotFound.
func (w *Workbook) Table(name string) (types.RowTable, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if !w.attached {
		return nil, types.ErrDetached
	}
	t, ok := w.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return t, nil
}

// InsertTable creates a table holding a copy of rows. Returns
// ErrTableExists if the name is taken.
func (w *Workbook) InsertTable(name string, rows []types.Row) (types.RowTable, error) {
	if name == "" {
		return nil, types.ErrInvalidName
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.attached {
		return nil, types.ErrDetached
	}
	if _, ok := w.tables[name]; ok {
		return nil, types.ErrTableExists
	}
	t := &table{wb: w, name: name, rows: cloneRows(rows)}
	w.tables[name] = t
	w.order = append(w.order, name)
	return t, nil
}

// TableNames lists table names in creation order.
func (w *Workbook) TableNames() ([]string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if !w.attached {
		return nil, types.ErrDetached
	}
	return append([]string(nil), w.order...), nil
}

// live reports whether t still belongs to an attached workbook.
// The caller must hold w.mu.
func (t *table) live() bool {
	return t.wb.attached && t.wb.tables[t.name] == t
}

func (t *table) Name() string { return t.name }

func (t *table) ReadAll() ([]types.Row, error) {
	t.wb.mu.RLock()
	defer t.wb.mu.RUnlock()

	if !t.live() {
		return nil, types.ErrDetached
	}
	return cloneRows(t.rows), nil
}

func (t *table) AppendRow(row types.Row) error {
	t.wb.mu.Lock()
	defer t.wb.mu.Unlock()

	if !t.live() {
		return types.ErrDetached
	}
	t.rows = append(t.rows, row.Clone())
	return nil
}

func (t *table) ReplaceRange(rowNum, col int, cells []string) error {
	if col < 1 {
		return types.ErrInvalidColumn
	}

	t.wb.mu.Lock()
	defer t.wb.mu.Unlock()

	if !t.live() {
		return types.ErrDetached
	}
	if rowNum < 1 || rowNum > len(t.rows) {
		return types.ErrRowNotFound
	}
	row := t.rows[rowNum-1]
	if need := col - 1 + len(cells); len(row) < need {
		padded := make(types.Row, need)
		copy(padded, row)
		row = padded
	}
	copy(row[col-1:], cells)
	t.rows[rowNum-1] = row
	return nil
}

func (t *table) DeleteRow(rowNum int) error {
	t.wb.mu.Lock()
	defer t.wb.mu.Unlock()

	if !t.live() {
		return types.ErrDetached
	}
	if rowNum < 1 || rowNum > len(t.rows) {
		return types.ErrRowNotFound
	}
	t.rows = append(t.rows[:rowNum-1], t.rows[rowNum:]...)
	return nil
}

func cloneRows(rows []types.Row) []types.Row {
	if rows == nil {
		return nil
	}
	out := make([]types.Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}
