package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/contacts/internal/directory"
)

// backupOutput is the JSON shape of backup.
type backupOutput struct {
	directory.BackupResult
	ArchiveKey string `json:"archive_key,omitempty"`
}

func newBackupCmd(a *app) *cobra.Command {
	var toArchive bool
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Copy the contact sheet into a timestamped snapshot sheet",
		Long: `Backup copies the contact sheet, header included, into a new sheet named
Backup_<timestamp>. With --archive the snapshot is also exported as CSV to the
configured archive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *directory.Store) error {
				res := s.Backup()
				out := backupOutput{BackupResult: res}
				if res.Success && toArchive {
					exported := s.ExportSheetCSV(res.Snapshot)
					if !exported.Success {
						return resultError(exported.Result)
					}
					key, err := a.archive(cmd.Context(), exported.Filename, exported.Data)
					if err != nil {
						return err
					}
					out.ArchiveKey = key
				}
				if err := a.report(cmd, res.Result, out, res.Message); err != nil {
					return err
				}
				if out.ArchiveKey != "" && !a.jsonMode {
					fmt.Fprintf(cmd.OutOrStdout(), "archived %s\n", out.ArchiveKey)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&toArchive, "archive", false, "also upload the snapshot as CSV to the configured archive")
	return cmd
}

func newBackupsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backups",
		Short: "List snapshot sheets, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *directory.Store) error {
				names, err := s.Snapshots()
				if err != nil {
					return readError(err)
				}
				if a.jsonMode {
					if names == nil {
						names = []string{}
					}
					return printJSON(cmd.OutOrStdout(), names)
				}
				if len(names) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No backups found.")
					return nil
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			})
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	var confirmation string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every contact after taking a backup",
		Long: fmt.Sprintf(`Clear backs up the contact sheet and then deletes every data row, keeping
the header. It refuses to run unless --confirm is exactly %s.
When the backup fails nothing is deleted.

Example:
  contacts clear --confirm %s`, directory.ClearConfirmation, directory.ClearConfirmation),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *directory.Store) error {
				res := s.ClearAll(confirmation)
				return a.report(cmd, res.Result, res, fmt.Sprintf("%s (backup %s)", res.Message, res.Snapshot))
			})
		},
	}
	cmd.Flags().StringVar(&confirmation, "confirm", "", "confirmation token")
	return cmd
}
