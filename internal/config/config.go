package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/interactions-toolbox/toolbox/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Configuration keys.
const (
	KeyNamespaceDir     = "namespace.dir"
	KeyNamespacePrefix  = "namespace.prefix"
	KeyInstallerProgram = "installer.program"
	KeyInstallerArgs    = "installer.extra_args"
	KeyInstallerTries   = "installer.attempts"
	KeyLogLevel         = "log.level"
	KeyLogFormat        = "log.format"
	KeyToolboxFile      = "toolbox.file"
)

// Default values applied by Load.
const (
	DefaultInstallerProgram = "pip"
	DefaultLogLevel         = "warn"
	DefaultLogFormat        = "console"
	DefaultToolboxFile      = "toolbox.yaml"
	DefaultExtensionsDir    = "ext"
)

// Settings is a typed snapshot of the loaded configuration.
type Settings struct {
	NamespaceDir     string
	NamespacePrefix  string
	InstallerProgram string
	InstallerArgs    []string
	InstallAttempts  int
	LogLevel         string
	LogFormat        string
	ToolboxFile      string
}

// Dir returns the path to the Toolbox config directory (~/.toolbox/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.toolbox/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyNamespacePrefix, branding.NamespacePrefix())
	viper.SetDefault(KeyInstallerProgram, DefaultInstallerProgram)
	viper.SetDefault(KeyInstallerTries, 1)
	viper.SetDefault(KeyLogLevel, DefaultLogLevel)
	viper.SetDefault(KeyLogFormat, DefaultLogFormat)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file. Only keys
// already present in the file and the new key are written; defaults and
// environment overrides stay out of it.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	configFile := FilePath()

	file := viper.New()
	file.SetConfigFile(configFile)
	file.SetConfigType(fileType)
	if err := file.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading config file %s: %w", configFile, err)
	}
	file.Set(key, value)

	if err := file.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	viper.Set(key, value)
	return nil
}

// Current returns the typed settings, resolving paths the same way the
// individual path helpers do.
func Current() (Settings, error) {
	nsDir, err := NamespaceDir()
	if err != nil {
		return Settings{}, err
	}

	attempts := viper.GetInt(KeyInstallerTries)
	if attempts < 1 {
		attempts = 1
	}

	return Settings{
		NamespaceDir:     nsDir,
		NamespacePrefix:  viper.GetString(KeyNamespacePrefix),
		InstallerProgram: viper.GetString(KeyInstallerProgram),
		InstallerArgs:    viper.GetStringSlice(KeyInstallerArgs),
		InstallAttempts:  attempts,
		LogLevel:         viper.GetString(KeyLogLevel),
		LogFormat:        viper.GetString(KeyLogFormat),
		ToolboxFile:      ToolboxFile(),
	}, nil
}

// NamespaceDir returns the directory backing the extension namespace.
// It checks the TOOLBOX_EXTENSIONS environment variable first, then the
// namespace.dir config key, then falls back to ~/.toolbox/ext.
func NamespaceDir() (string, error) {
	if v := os.Getenv(branding.EnvVar("EXTENSIONS")); v != "" {
		return v, nil
	}
	if v := viper.GetString(KeyNamespaceDir); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, branding.HomeDir(), DefaultExtensionsDir), nil
}

// ToolboxFile returns the path of the declarative tool file.
// TOOLBOX_FILE wins over the toolbox.file config key; the default is
// toolbox.yaml in the working directory.
func ToolboxFile() string {
	if v := os.Getenv(branding.EnvVar("FILE")); v != "" {
		return v
	}
	if v := viper.GetString(KeyToolboxFile); v != "" {
		return v
	}
	return DefaultToolboxFile
}
