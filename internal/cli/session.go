package cli

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/contacts/internal/directory"
	"github.com/mesh-intelligence/contacts/internal/paths"
	"github.com/mesh-intelligence/contacts/pkg/sqlite"
	"github.com/mesh-intelligence/contacts/pkg/types"
)

// errEphemeralBackend rejects the memory backend, which would drop every
// write when the process exits.
var errEphemeralBackend = errors.New("backend memory keeps no data between runs; use sqlite")

// newWorkbook returns a detached workbook for backend.
func newWorkbook(backend string) (types.Workbook, error) {
	switch backend {
	case types.BackendSQLite:
		return sqlite.NewBackend(), nil
	case types.BackendMemory:
		return nil, errEphemeralBackend
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, backend)
	}
}

// resolvedConfig returns the backend configuration with the data directory
// resolved.
func (a *app) resolvedConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.dataDir, a.cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	return a.storeConfig(dataDir), nil
}

// withStore attaches the configured workbook, runs fn against a store over
// it, and detaches. A detach failure is reported when fn succeeded.
func (a *app) withStore(fn func(*directory.Store) error) error {
	cfg, err := a.resolvedConfig()
	if err != nil {
		return err
	}
	return a.withStoreConfig(cfg, fn)
}

func (a *app) withStoreConfig(cfg types.Config, fn func(*directory.Store) error) (err error) {
	if err := cfg.RequireWorkbook(); err != nil {
		return sysError(types.WrapError(types.ErrConfiguration, "opening contact directory", err))
	}
	wb, err := newWorkbook(cfg.Backend)
	if err != nil {
		return sysError(types.WrapError(types.ErrConfiguration, "opening contact directory", err))
	}
	if err := wb.Attach(cfg); err != nil {
		return sysError(fmt.Errorf("attach workbook %s: %w", cfg.WorkbookID, err))
	}
	defer func() {
		if derr := wb.Detach(); derr != nil && err == nil {
			err = sysError(fmt.Errorf("detach workbook: %w", derr))
		}
	}()

	store, err := directory.New(wb, cfg,
		directory.WithLogger(a.logger.With(zap.String("workbook", cfg.WorkbookID))),
	)
	if err != nil {
		return classify(err)
	}
	return fn(store)
}

// readError classifies the error of a read operation.
func readError(err error) error {
	if err == nil {
		return nil
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	return classify(err)
}
