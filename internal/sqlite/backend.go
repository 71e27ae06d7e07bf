package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/contacts/pkg/types"
)

// dbFileName is the SQLite file inside the workbook directory. It is rebuilt
// from JSONL on every Attach.
const dbFileName = "workbook.db"

// Compile-time interface check.
var _ types.Workbook = (*Backend)(nil)

// Backend implements the Workbook interface using SQLite as the query engine
// and JSONL files as the source of truth.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	dir      string // workbook directory: DataDir/WorkbookID
	db       *sql.DB

	syncStrategy string // effective sync strategy: immediate or on_close
	dirty        bool   // writes not yet persisted under on_close
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens the workbook named by config.WorkbookID under config.DataDir.
// Creates the workbook directory if it does not exist, initializes the SQLite
// schema, and loads the JSONL files.
// Returns ErrAlreadyAttached if already attached and ErrNotConfigured if the
// workbook id is empty.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if err := config.RequireWorkbook(); err != nil {
		return err
	}
	if err := validateWorkbookID(config.WorkbookID); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	dir := filepath.Join(dataDir, config.WorkbookID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating workbook dir: %w", err)
	}

	// The database is a cache of the JSONL files; start from a fresh schema.
	dbPath := filepath.Join(dir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening sqlite: %w", err)
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	if err := initJSONLFiles(dir); err != nil {
		db.Close()
		return err
	}
	if err := loadAllJSONL(db, dir); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.dir = dir
	b.config = config
	b.syncStrategy = config.Sync
	if b.syncStrategy == "" {
		b.syncStrategy = types.SyncImmediate
	}
	b.dirty = false
	b.attached = true
	return nil
}

// Detach releases all resources held by the backend. Under the on_close
// sync strategy it persists pending writes first. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.dirty {
		if err := b.persistLocked(); err != nil {
			return fmt.Errorf("flush pending writes: %w", err)
		}
	}

	if err := b.db.Close(); err != nil {
		return err
	}
	b.db = nil
	b.attached = false
	return nil
}

// Table returns the sheet with the given name.
func (b *Backend) Table(name string) (types.RowTable, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}

	var sheetID string
	err := b.db.QueryRow("SELECT sheet_id FROM sheets WHERE name = ?", name).Scan(&sheetID)
	if err == sql.ErrNoRows {
		return nil, types.ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up sheet %q: %w", name, err)
	}
	return &sheetTable{backend: b, sheetID: sheetID, name: name}, nil
}

// InsertTable creates a new sheet holding a copy of rows.
func (b *Backend) InsertTable(name string, rows []types.Row) (types.RowTable, error) {
	if name == "" {
		return nil, types.ErrInvalidName
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, types.ErrDetached
	}

	var exists bool
	err := b.db.QueryRow("SELECT 1 FROM sheets WHERE name = ?", name).Scan(&exists)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("checking sheet existence: %w", err)
	}
	if exists {
		return nil, types.ErrTableExists
	}

	tx, err := b.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	sheetID := newSheetID()
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.Exec(
		"INSERT INTO sheets (sheet_id, name, created_at) VALUES (?, ?, ?)",
		sheetID, name, createdAt,
	); err != nil {
		return nil, fmt.Errorf("inserting sheet: %w", err)
	}
	for _, row := range rows {
		cells, err := encodeCells(row)
		if err != nil {
			return nil, err
		}
		if _, err := tx.Exec(
			"INSERT INTO sheet_rows (sheet_id, cells) VALUES (?, ?)",
			sheetID, cells,
		); err != nil {
			return nil, fmt.Errorf("inserting row: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing sheet: %w", err)
	}

	if err := b.afterWriteLocked(); err != nil {
		return nil, err
	}
	return &sheetTable{backend: b, sheetID: sheetID, name: name}, nil
}

// TableNames lists sheet names in creation order.
func (b *Backend) TableNames() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}

	rows, err := b.db.Query("SELECT name FROM sheets ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("listing sheets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning sheet name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// afterWriteLocked persists JSONL immediately or marks the backend dirty,
// depending on the sync strategy. The caller must hold b.mu.
func (b *Backend) afterWriteLocked() error {
	if b.syncStrategy == types.SyncOnClose {
		b.dirty = true
		return nil
	}
	return b.persistLocked()
}

// persistLocked dumps every sheet and row from SQLite to the JSONL files.
// The caller must hold b.mu.
func (b *Backend) persistLocked() error {
	sheets, err := b.dumpSheets()
	if err != nil {
		return err
	}
	rows, err := b.dumpRows()
	if err != nil {
		return err
	}

	sheetRecords, err := marshalRecords(sheets)
	if err != nil {
		return fmt.Errorf("encoding sheets: %w", err)
	}
	rowRecords, err := marshalRecords(rows)
	if err != nil {
		return fmt.Errorf("encoding rows: %w", err)
	}
	if err := writeJSONL(filepath.Join(b.dir, sheetsJSONL), sheetRecords); err != nil {
		return fmt.Errorf("persisting %s: %w", sheetsJSONL, err)
	}
	if err := writeJSONL(filepath.Join(b.dir, rowsJSONL), rowRecords); err != nil {
		return fmt.Errorf("persisting %s: %w", rowsJSONL, err)
	}
	b.dirty = false
	return nil
}

func (b *Backend) dumpSheets() ([]sheetJSON, error) {
	rows, err := b.db.Query("SELECT sheet_id, name, created_at FROM sheets ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("querying sheets: %w", err)
	}
	defer rows.Close()

	var out []sheetJSON
	for rows.Next() {
		var s sheetJSON
		if err := rows.Scan(&s.SheetID, &s.Name, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning sheet: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (b *Backend) dumpRows() ([]rowJSON, error) {
	rows, err := b.db.Query("SELECT row_id, sheet_id, cells FROM sheet_rows ORDER BY row_id")
	if err != nil {
		return nil, fmt.Errorf("querying rows: %w", err)
	}
	defer rows.Close()

	var out []rowJSON
	for rows.Next() {
		var r rowJSON
		var cells string
		if err := rows.Scan(&r.RowID, &r.SheetID, &cells); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		decoded, err := decodeCells(cells)
		if err != nil {
			return nil, err
		}
		r.Cells = decoded
		out = append(out, r)
	}
	return out, rows.Err()
}

// validateWorkbookID rejects ids that are not a single path element.
func validateWorkbookID(id string) error {
	if id == "." || id == ".." || filepath.Base(id) != id {
		return fmt.Errorf("workbook id %q: %w", id, types.ErrInvalidName)
	}
	return nil
}

// newSheetID generates a UUID v7 for sheet ids.
func newSheetID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// encodeCells stores a row as a JSON array of strings.
func encodeCells(cells []string) (string, error) {
	if cells == nil {
		cells = []string{}
	}
	b, err := json.Marshal(cells)
	if err != nil {
		return "", fmt.Errorf("encoding cells: %w", err)
	}
	return string(b), nil
}

func decodeCells(s string) (types.Row, error) {
	var cells types.Row
	if err := json.Unmarshal([]byte(s), &cells); err != nil {
		return nil, fmt.Errorf("decoding cells: %w", err)
	}
	return cells, nil
}
