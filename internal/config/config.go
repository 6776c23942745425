// Package config resolves kookie settings from flags, environment and the
// optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/illarion/kookie/internal/logging"
	"github.com/illarion/kookie/internal/storage"
)

// Keys understood by Load.
const (
	KeyVault          = "vault"
	KeyHistory        = "history"
	KeyHistoryLimit   = "history_limit"
	KeyHistoryEnabled = "history_enabled"
	KeyLogLevel       = "log_level"
)

const (
	// EnvPrefix is prepended to upper-cased keys, e.g. KOOKIE_VAULT.
	EnvPrefix = "KOOKIE"

	dirName        = ".kookie"
	vaultFileName  = "vault.json"
	historySuffix  = ".history"
	configFileName = "config"
)

// Config holds resolved settings.
type Config struct {
	VaultPath      string
	HistoryPath    string
	HistoryLimit   int
	HistoryEnabled bool
	LogLevel       string
}

// Dir returns ~/.kookie.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	if dir, err := Dir(); err == nil {
		v.SetDefault(KeyVault, filepath.Join(dir, vaultFileName))
	}
	v.SetDefault(KeyHistoryLimit, storage.DefaultLimit)
	v.SetDefault(KeyHistoryEnabled, true)
	v.SetDefault(KeyLogLevel, "warn")
}

// ReadFile points v at cfgFile, or at ~/.kookie/config.yaml when cfgFile is
// empty, and reads it. A missing default file is not an error.
func ReadFile(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}
		return nil
	}

	dir, err := Dir()
	if err != nil {
		return nil
	}
	v.AddConfigPath(dir)
	v.SetConfigName(configFileName)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load builds a validated Config from v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		VaultPath:      expandHome(v.GetString(KeyVault)),
		HistoryPath:    expandHome(v.GetString(KeyHistory)),
		HistoryLimit:   v.GetInt(KeyHistoryLimit),
		HistoryEnabled: v.GetBool(KeyHistoryEnabled),
		LogLevel:       v.GetString(KeyLogLevel),
	}
	if cfg.HistoryPath == "" && cfg.VaultPath != "" {
		cfg.HistoryPath = cfg.VaultPath + historySuffix
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if c.VaultPath == "" {
		return fmt.Errorf("vault path is required")
	}
	if c.HistoryEnabled && c.HistoryPath == c.VaultPath {
		return fmt.Errorf("history path must differ from vault path")
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("history_limit must be at least 1, got %d", c.HistoryLimit)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
