package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configFile = ".mbrowse/config.toml"
	envPrefix  = "MBROWSE"
)

// Config holds application configuration.
type Config struct {
	Store StoreConfig
	UI    UIConfig
	Log   LogConfig
}

// StoreConfig locates the settings database and an optional settings file
// layered over it.
type StoreConfig struct {
	Path         string
	Driver       string
	SettingsFile string `mapstructure:"settings_file"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Locale  string
	Columns int
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// Path returns the config file location: $MBROWSE_CONFIG when set,
// otherwise .mbrowse/config.toml under baseDir.
func Path(baseDir string) string {
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(baseDir, configFile)
}

func newViper(baseDir string) *viper.Viper {
	v := viper.New()

	// default values
	v.SetDefault("store.path", filepath.Join(baseDir, ".mbrowse", "settings.db"))
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.settings_file", "")
	v.SetDefault("ui.locale", "en")
	v.SetDefault("ui.columns", 3)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")

	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads the config from disk. A missing file yields the defaults;
// environment variables (MBROWSE_UI_LOCALE, ...) override both.
func Load(baseDir string) (*Config, error) {
	v := newViper(baseDir)

	path := Path(baseDir)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.UI.Columns < 1 {
		cfg.UI.Columns = 1
	}
	return &cfg, nil
}

// Save writes the config to disk
func Save(baseDir string, cfg *Config) error {
	path := Path(baseDir)

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("store.path", cfg.Store.Path)
	v.Set("store.driver", cfg.Store.Driver)
	v.Set("store.settings_file", cfg.Store.SettingsFile)
	v.Set("ui.locale", cfg.UI.Locale)
	v.Set("ui.columns", cfg.UI.Columns)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
