package directory

import "github.com/mesh-intelligence/contacts/pkg/types"

// Result is the outcome of a mutating operation. Mutating operations never
// return a bare error; a failure sets Success to false and carries the
// classified error in Err (match it with errors.Is against the kinds in
// package types).
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
	Err     error  `json:"-"`
}

// AddResult reports the id assigned by Add.
type AddResult struct {
	Result
	ID int `json:"id,omitempty"`
}

// ExportResult holds CSV text and a suggested file name.
type ExportResult struct {
	Result
	Data     string `json:"data,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// ImportResult aggregates the outcome of an import. Success is true as soon
// as the input has at least one candidate row, even if every row failed.
type ImportResult struct {
	Result
	BatchID      string   `json:"batch_id,omitempty"`
	Imported     int      `json:"imported"`
	Errors       int      `json:"errors"`
	ErrorDetails []string `json:"error_details,omitempty"`
}

// BackupResult names the snapshot sheet written by Backup.
type BackupResult struct {
	Result
	Snapshot string `json:"snapshot,omitempty"`
}

// ClearResult names the snapshot holding the rows that ClearAll removed.
type ClearResult struct {
	Result
	Snapshot string `json:"snapshot,omitempty"`
}

func succeeded(message string) Result {
	return Result{Success: true, Message: message}
}

func failed(err error) Result {
	return Result{
		Message: err.Error(),
		Kind:    types.KindName(err),
		Err:     err,
	}
}
