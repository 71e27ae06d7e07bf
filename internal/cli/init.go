package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/contacts/internal/directory"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init <workbook-id>",
		Short: "Set up the contact directory",
		Long: `Init opens (or creates) the workbook named by <workbook-id>, makes sure the
contact sheet exists with its header row, and records the handle in
config.yaml so later commands use it.

Example:
  contacts init team`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.resolvedConfig()
			if err != nil {
				return err
			}
			cfg.WorkbookID = args[0]

			err = a.withStoreConfig(cfg, func(s *directory.Store) error {
				_, err := s.List()
				return readError(err)
			})
			if err != nil {
				return err
			}
			if err := saveWorkbookID(a.configPath, cfg.WorkbookID); err != nil {
				return sysError(err)
			}

			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"workbook_id": cfg.WorkbookID,
					"sheet_name":  cfg.Sheet(),
					"data_dir":    cfg.DataDir,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Contact directory initialized (workbook %s, sheet %s)\n", cfg.WorkbookID, cfg.Sheet())
			return nil
		},
	}
}
