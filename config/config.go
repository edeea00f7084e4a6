package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the top-level bookmgr configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	UI       UIConfig       `mapstructure:"ui" yaml:"ui"`
	Import   ImportConfig   `mapstructure:"import" yaml:"import"`
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig controls slog output. An empty File means stderr for commands
// and no logging at all while the TUI owns the terminal.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	NoColor bool `mapstructure:"no_color" yaml:"no_color"`
}

// ImportConfig holds importer settings.
type ImportConfig struct {
	PageSize int `mapstructure:"page_size" yaml:"page_size"`
}

// DefaultPageSize is the character budget of one imported plain-text page.
const DefaultPageSize = 1500

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "bookmgr", "config.yml")
}

// Path returns the config file in effect: explicit path, then
// BOOKMGR_CONFIG, then the default.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv("BOOKMGR_CONFIG"); p != "" {
		return p
	}
	return DefaultPath()
}

// Load reads the config from disk and the environment. A missing file is
// not an error; defaults apply.
func Load(explicit string) (*Config, error) {
	v := viper.New()

	v.SetDefault("database.path", defaultDatabasePath())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("ui.no_color", false)
	v.SetDefault("import.page_size", DefaultPageSize)

	v.SetEnvPrefix("BOOKMGR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(Path(explicit))
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Database.Path = ExpandHome(cfg.Database.Path)
	cfg.Log.File = ExpandHome(cfg.Log.File)
	if cfg.Import.PageSize <= 0 {
		cfg.Import.PageSize = DefaultPageSize
	}
	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no file or env is present.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: defaultDatabasePath()},
		Log:      LogConfig{Level: "info"},
		Import:   ImportConfig{PageSize: DefaultPageSize},
	}
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

// ParseLevel maps a config level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

// ExpandHome expands a leading ~/ in a path.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

func defaultDatabasePath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "bookmgr", "books.db")
}
