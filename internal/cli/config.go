package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/contacts/internal/archive"
	"github.com/mesh-intelligence/contacts/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "CONTACTS"

	cfgKeyBackend    = "backend"
	cfgKeyDataDir    = "data_dir"
	cfgKeyWorkbookID = "workbook_id"
	cfgKeySheetName  = "sheet_name"
	cfgKeySync       = "sync"
	cfgKeyLogFormat  = "log_format"

	cfgKeyArchiveDriver    = "archive.driver"
	cfgKeyArchiveDir       = "archive.dir"
	cfgKeyArchiveBucket    = "archive.bucket"
	cfgKeyArchiveRegion    = "archive.region"
	cfgKeyArchiveEndpoint  = "archive.endpoint"
	cfgKeyArchivePathStyle = "archive.path_style"
	cfgKeyArchivePrefix    = "archive.prefix"

	logFormatJSON = "json"
)

// envKeys are the keys that CONTACTS_* variables override. data_dir is
// absent: CONTACTS_DATA_DIR ranks below config.yaml and is handled by
// paths.ResolveDataDir.
var envKeys = []string{
	cfgKeyBackend,
	cfgKeyWorkbookID,
	cfgKeySheetName,
	cfgKeySync,
	cfgKeyLogFormat,
	cfgKeyArchiveDriver,
	cfgKeyArchiveDir,
	cfgKeyArchiveBucket,
	cfgKeyArchiveRegion,
	cfgKeyArchiveEndpoint,
	cfgKeyArchivePathStyle,
	cfgKeyArchivePrefix,
}

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# contacts CLI configuration

# Storage backend. Only sqlite persists between runs.
backend: sqlite

# Workbook handle, written by "contacts init <workbook-id>"
# workbook_id:

# Contact sheet name
sheet_name: Contacts

# When the sqlite backend writes its JSONL files: immediate or on_close
sync: immediate

# Log encoding on stderr: console or json
log_format: console

# Data directory (optional; overridable by --data-dir)
# data_dir:

# Destination for "export --archive" and "backup --archive"
# archive:
#   driver: fs            # fs or s3
#   dir: ./contacts-archive
#   bucket: my-bucket
#   region: us-east-1
#   endpoint: http://localhost:9000
#   path_style: true
#   prefix: contacts
`

// loadConfig reads config.yaml from configDir, creating the directory and
// a default file on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeySheetName, types.DefaultSheetName)
	v.SetDefault(cfgKeySync, types.SyncImmediate)
	v.SetDefault(cfgKeyLogFormat, "console")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// saveWorkbookID records the workbook handle in config.yaml. Only the
// file's own settings are rewritten; environment overrides stay out of it.
func saveWorkbookID(path, workbookID string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	v.Set(cfgKeyWorkbookID, workbookID)
	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// storeConfig builds the backend configuration for dataDir.
func (a *app) storeConfig(dataDir string) types.Config {
	return types.Config{
		Backend:    a.cfg.GetString(cfgKeyBackend),
		DataDir:    dataDir,
		WorkbookID: a.cfg.GetString(cfgKeyWorkbookID),
		SheetName:  a.cfg.GetString(cfgKeySheetName),
		Sync:       a.cfg.GetString(cfgKeySync),
	}
}

func (a *app) archiveConfig() archive.Config {
	return archive.Config{
		Driver:    a.cfg.GetString(cfgKeyArchiveDriver),
		Dir:       a.cfg.GetString(cfgKeyArchiveDir),
		Bucket:    a.cfg.GetString(cfgKeyArchiveBucket),
		Region:    a.cfg.GetString(cfgKeyArchiveRegion),
		Endpoint:  a.cfg.GetString(cfgKeyArchiveEndpoint),
		PathStyle: a.cfg.GetBool(cfgKeyArchivePathStyle),
		Prefix:    a.cfg.GetString(cfgKeyArchivePrefix),
	}
}
