package types

import "errors"

// Config holds backend selection and parameters for Workbook.Attach.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// WorkbookID is the storage handle naming the workbook to open.
	// An empty handle means the directory has not been set up yet.
	WorkbookID string `json:"workbook_id" yaml:"workbook_id"`

	// SheetName is the table holding contacts. Defaults to DefaultSheetName.
	SheetName string `json:"sheet_name" yaml:"sheet_name"`

	// Sync selects when the sqlite backend writes its JSONL files.
	// Empty means SyncImmediate.
	Sync string `json:"sync" yaml:"sync"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Sync strategies for the sqlite backend.
const (
	SyncImmediate = "immediate"
	SyncOnClose   = "on_close"
)

// DefaultSheetName is the contact table used when Config.SheetName is empty.
const DefaultSheetName = "Contacts"

// Config validation errors.
var (
	ErrBackendEmpty        = errors.New("backend must not be empty")
	ErrBackendUnknown      = errors.New("unknown backend")
	ErrSyncStrategyUnknown = errors.New("unknown sync strategy")
	ErrNotConfigured       = errors.New("workbook id is not configured; run contacts init first")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendMemory: true,
}

var knownSyncStrategies = map[string]bool{
	"":            true,
	SyncImmediate: true,
	SyncOnClose:   true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure. An empty WorkbookID is not a validation error;
// use RequireWorkbook where the handle is needed.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if !knownSyncStrategies[c.Sync] {
		return ErrSyncStrategyUnknown
	}
	return nil
}

// RequireWorkbook returns ErrNotConfigured when no workbook handle is set.
func (c Config) RequireWorkbook() error {
	if c.WorkbookID == "" {
		return ErrNotConfigured
	}
	return nil
}

// Sheet returns the configured contact sheet name or DefaultSheetName.
func (c Config) Sheet() string {
	if c.SheetName == "" {
		return DefaultSheetName
	}
	return c.SheetName
}
