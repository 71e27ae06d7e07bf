// Package cli implements the contacts command-line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/contacts/internal/logging"
	"github.com/mesh-intelligence/contacts/internal/paths"
	"github.com/mesh-intelligence/contacts/pkg/contacts"
)

// app carries global flag values and loaded state for one command run.
type app struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool

	configPath string
	cfg        *viper.Viper
	logger     *zap.Logger
}

// NewRootCmd creates the top-level "contacts" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:     "contacts",
		Short:   "A contact directory kept in a local workbook",
		Long:    "contacts stores names, emails, and divisions in a contact sheet and\nsupports search, statistics, CSV import/export, backups, and clearing.",
		Version: contacts.Version,
		// Subcommand failures are reported once by Execute.
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default: $(CWD)/.contacts-db)")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output as JSON")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newListCmd(a),
		newAddCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newSearchCmd(a),
		newStatsCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newBackupCmd(a),
		newBackupsCmd(a),
		newClearCmd(a),
	)
	return root
}

// Execute runs the root command and exits with the code matching the
// failure: 1 for user errors, 2 for system errors.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "contacts:", err)
		os.Exit(ExitCode(err))
	}
}

// setup resolves the config directory, loads config.yaml, and builds the
// logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	a.cfg = v
	a.configPath = filepath.Join(configDir, configFileExt)

	logger, err := logging.New(logging.Options{
		Verbose: a.verbose,
		Console: v.GetString(cfgKeyLogFormat) != logFormatJSON,
	})
	if err != nil {
		return sysError(err)
	}
	a.logger = logger
	return nil
}
