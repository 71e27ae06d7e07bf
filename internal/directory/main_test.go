package directory

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mesh-intelligence/contacts/internal/memory"
	"github.com/mesh-intelligence/contacts/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2026, 10, 14, 9, 30, 0, 123_000_000, time.UTC)

func testConfig() types.Config {
	return types.Config{Backend: types.BackendMemory, WorkbookID: "test"}
}

// newTestStore returns a store over a fresh in-memory workbook and the
// observed logs.
func newTestStore(t *testing.T) (*Store, *memory.Workbook, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	wb := memory.NewAttached()
	s, err := New(wb, testConfig(),
		WithLogger(zap.New(core)),
		WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, err)
	return s, wb, logs
}

func mustAdd(t *testing.T, s *Store, name, email, division string) int {
	t.Helper()
	res := s.Add(name, email, division)
	require.True(t, res.Success, "add %s: %s", email, res.Message)
	return res.ID
}

// sheetRows reads the raw contact sheet.
func sheetRows(t *testing.T, wb types.Workbook, name string) []types.Row {
	t.Helper()
	tbl, err := wb.Table(name)
	require.NoError(t, err)
	rows, err := tbl.ReadAll()
	require.NoError(t, err)
	return rows
}

// failingWorkbook wraps a workbook and fails selected operations.
type failingWorkbook struct {
	types.Workbook
	failTable  bool
	failInsert bool
	failWrites bool
}

var errInjected = errors.New("injected failure")

func (f *failingWorkbook) Table(name string) (types.RowTable, error) {
	if f.failTable {
		return nil, errInjected
	}
	tbl, err := f.Workbook.Table(name)
	if err != nil {
		return nil, err
	}
	return &failingTable{RowTable: tbl, parent: f}, nil
}

func (f *failingWorkbook) InsertTable(name string, rows []types.Row) (types.RowTable, error) {
	if f.failInsert {
		return nil, errInjected
	}
	return f.Workbook.InsertTable(name, rows)
}

type failingTable struct {
	types.RowTable
	parent *failingWorkbook
}

func (t *failingTable) AppendRow(row types.Row) error {
	if t.parent.failWrites {
		return errInjected
	}
	return t.RowTable.AppendRow(row)
}

func (t *failingTable) DeleteRow(n int) error {
	if t.parent.failWrites {
		return errInjected
	}
	return t.RowTable.DeleteRow(n)
}
