// Package sqlite provides the public API for the SQLite workbook backend.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/contacts/internal/sqlite"
	"github.com/mesh-intelligence/contacts/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend:    types.BackendSQLite,
//	    DataDir:    ".contacts-db",
//	    WorkbookID: "team",
//	})
//	defer backend.Detach()
func NewBackend() types.Workbook {
	return sqlite.NewBackend()
}
