package directory

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/contacts/pkg/types"
)

// ClearConfirmation is the exact token ClearAll requires.
const ClearConfirmation = "HAPUS_SEMUA_DATA"

// snapshotPrefix starts the name of every backup sheet.
const snapshotPrefix = "Backup_"

var snapshotStampReplacer = strings.NewReplacer(":", "-", ".", "-")

// snapshotName is Backup_ followed by the UTC ISO-8601 time with ':' and
// '.' replaced by '-', e.g. Backup_2026-10-14T09-30-00-123Z.
func snapshotName(t time.Time) string {
	return snapshotPrefix + snapshotStampReplacer.Replace(t.UTC().Format("2006-01-02T15:04:05.000Z"))
}

func isSnapshotName(name string) bool {
	return strings.HasPrefix(name, snapshotPrefix)
}

// Backup copies the contact sheet, header included, into a new sheet named
// after the current time and returns that name.
func (s *Store) Backup() BackupResult {
	name, err := s.backup()
	if err != nil {
		err = fmt.Errorf("backup failed: %w", err)
		s.logFailure("backup", err)
		return BackupResult{Result: failed(err)}
	}
	s.logger.Info("backup created", zap.String("snapshot", name))
	return BackupResult{Result: succeeded("backup created: " + name), Snapshot: name}
}

func (s *Store) backup() (string, error) {
	_, rows, err := s.load()
	if err != nil {
		return "", err
	}
	name := snapshotName(s.now())
	if _, err := s.workbook.InsertTable(name, rows); err != nil {
		return "", storageError("writing snapshot "+name, err)
	}
	return name, nil
}

// ClearAll deletes every data row and keeps the header. It is declined
// unless confirmation equals ClearConfirmation, and it backs the sheet up
// first; when the backup fails nothing is deleted.
func (s *Store) ClearAll(confirmation string) ClearResult {
	if confirmation != ClearConfirmation {
		err := types.NewError(types.ErrValidation, "invalid confirmation")
		s.logger.Warn("clear declined", zap.Error(err))
		return ClearResult{Result: failed(err)}
	}

	snapshot, err := s.backup()
	if err != nil {
		err = fmt.Errorf("clear failed: backup failed before clearing data: %w", err)
		s.logFailure("clear", err)
		return ClearResult{Result: failed(err)}
	}

	if err := s.clearRows(); err != nil {
		err = fmt.Errorf("clear failed: %w", err)
		s.logFailure("clear", err)
		return ClearResult{Result: failed(err), Snapshot: snapshot}
	}

	s.logger.Info("all contacts cleared", zap.String("snapshot", snapshot))
	return ClearResult{Result: succeeded("all data cleared"), Snapshot: snapshot}
}

// clearRows deletes data rows from the bottom up so row numbers stay valid.
func (s *Store) clearRows() error {
	tbl, rows, err := s.load()
	if err != nil {
		return err
	}
	for n := len(rows); n >= 2; n-- {
		if err := tbl.DeleteRow(n); err != nil {
			return storageError(fmt.Sprintf("deleting row %d", n), err)
		}
	}
	return nil
}
