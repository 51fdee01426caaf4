// Package config provides configuration management for the touch-settings application.
// It uses Viper for configuration file handling and supports YAML format.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	apperrors "github.com/dtg01100/touch-settings/internal/errors"
	"github.com/dtg01100/touch-settings/pkg/utils"
)

const appName = "touch-settings"

// EnvPrefix prefixes environment overrides, e.g. TOUCH_SETTINGS_LOG_LEVEL.
const EnvPrefix = "TOUCH_SETTINGS"

// Themes are the accepted values of ui.theme.
var Themes = []string{"default", "charm", "dracula", "base16", "catppuccin"}

// Config represents the application configuration.
type Config struct {
	Version string      `mapstructure:"version"`
	DataDir string      `mapstructure:"data_dir"`
	Log     LogSettings `mapstructure:"log"`
	UI      UISettings  `mapstructure:"ui"`
	// RecentFiles lists the last files used by export and import.
	RecentFiles []string `mapstructure:"recent_files"`

	path string
	v    *viper.Viper
}

// LogSettings configures the log file.
type LogSettings struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
	JSON  bool   `mapstructure:"json"`
}

// UISettings configures the terminal interface.
type UISettings struct {
	Theme string `mapstructure:"theme"`
	// StartScreen is "menu" or the name of a settings domain.
	StartScreen string `mapstructure:"start_screen"`
	Mouse       bool   `mapstructure:"mouse"`
}

// getConfigDir returns the configuration directory path.
var getConfigDir = func() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := getConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the configuration from the default config file location.
// If the config file doesn't exist, the defaults are returned.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile reads the configuration from path, or from the default
// location when path is empty. A directory path selects the config.yaml
// inside it. Environment variables override the file.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	path = utils.ExpandHome(path)
	if utils.DirExists(path) {
		path = filepath.Join(path, "config.yaml")
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewConfigInvalidError("failed to read config file", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	cfg.path = path
	cfg.v = v
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.NewConfigInvalidError("failed to parse config", err)
	}
	if cfg.RecentFiles == nil {
		cfg.RecentFiles = []string{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Validate checks the values that have a closed set of options.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return apperrors.NewConfigInvalidError(fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level), nil)
	}
	if !validTheme(c.UI.Theme) {
		return apperrors.NewConfigInvalidError(fmt.Sprintf("ui.theme %q is not one of %s", c.UI.Theme, strings.Join(Themes, ", ")), nil)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return apperrors.NewConfigInvalidError("data_dir must not be empty", nil)
	}
	return nil
}

func validTheme(name string) bool {
	for _, t := range Themes {
		if t == name {
			return true
		}
	}
	return false
}

// DataPath returns the expanded data directory.
func (c *Config) DataPath() string {
	return utils.ExpandHome(c.DataDir)
}

// Save writes the configuration to the file it was loaded from.
// It uses an atomic write pattern: writes to a temp file first, then renames.
// A backup of the existing config is created before overwriting.
func (c *Config) Save() error {
	configPath := c.path
	if configPath == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		configPath = p
		c.path = p
	}

	if err := utils.EnsureDir(filepath.Dir(configPath)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	backupPath := configPath + ".bak"
	if _, err := os.Stat(configPath); err == nil {
		if err := createBackup(configPath, backupPath); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("version", c.Version)
	v.Set("data_dir", c.DataDir)
	v.Set("log.level", c.Log.Level)
	v.Set("log.file", c.Log.File)
	v.Set("log.json", c.Log.JSON)
	v.Set("ui.theme", c.UI.Theme)
	v.Set("ui.start_screen", c.UI.StartScreen)
	v.Set("ui.mouse", c.UI.Mouse)
	v.Set("recent_files", c.RecentFiles)

	tempPath := configPath + ".tmp.yaml"

	if err := v.WriteConfigAs(tempPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Watch calls fn with the reloaded configuration whenever the file
// changes on disk. Invalid edits are passed to onErr and otherwise ignored.
func (c *Config) Watch(fn func(*Config), onErr func(error)) {
	if c.v == nil {
		return
	}
	v := c.v
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next, err := decode(v)
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		next.path = c.path
		next.v = v
		fn(next)
	})
	v.WatchConfig()
}

// RestoreFromBackup restores the configuration at path from its backup
// file. An empty path selects the default location.
// Returns an error if no backup exists.
func RestoreFromBackup(path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	backupPath := path + ".bak"

	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("no backup file found")
	}

	if err := os.Rename(backupPath, path); err != nil {
		return fmt.Errorf("failed to restore from backup: %w", err)
	}

	return nil
}

// HasBackup returns true if a backup of the config at path exists.
func HasBackup(path string) (bool, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return false, err
		}
		path = p
	}

	_, err := os.Stat(path + ".bak")
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// createBackup creates a backup of the existing config file.
// It overwrites any existing backup to keep only the most recent one.
func createBackup(configPath, backupPath string) error {
	srcFile, err := os.Open(configPath)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat config file: %w", err)
	}

	dstFile, err := os.OpenFile(backupPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode())
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer dstFile.Close()

	if _, err := dstFile.ReadFrom(srcFile); err != nil {
		return fmt.Errorf("failed to copy config to backup: %w", err)
	}

	if err := dstFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync backup file: %w", err)
	}

	return nil
}

// AddRecentFile adds a path to the front of the recent files list,
// removes duplicates, and keeps only the 10 most recent paths.
func (c *Config) AddRecentFile(path string) {
	var result []string
	result = append(result, path)
	for _, p := range c.RecentFiles {
		if p != path {
			result = append(result, p)
		}
	}
	if len(result) > 10 {
		result = result[:10]
	}
	c.RecentFiles = result
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join("~", ".config", appName, "data")
	}
	return filepath.Join(dir, appName, "data")
}

// setDefaults sets default values in viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("version", "1.0")
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.json", false)
	v.SetDefault("ui.theme", "default")
	v.SetDefault("ui.start_screen", "menu")
	v.SetDefault("ui.mouse", true)
	v.SetDefault("recent_files", []string{})
}

// NewWithDefaults returns a Config holding the default values, bound to path.
func NewWithDefaults(path string) *Config {
	return &Config{
		Version: "1.0",
		DataDir: defaultDataDir(),
		Log: LogSettings{
			Level: "info",
		},
		UI: UISettings{
			Theme:       "default",
			StartScreen: "menu",
			Mouse:       true,
		},
		RecentFiles: []string{},
		path:        path,
	}
}
