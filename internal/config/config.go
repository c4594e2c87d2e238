package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultServerURL = "http://localhost:8080"
	DefaultAPIRoot   = "/api"
	configFileName   = "config"
	configFileType   = "yaml"
	configDirName    = "libcat"
	envPrefix        = "LIBCAT"
)

// Config holds the application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Network NetworkConfig `mapstructure:"network"`
	UI      UIConfig      `mapstructure:"ui"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig locates the catalog API
type ServerConfig struct {
	URL             string `mapstructure:"url"`
	APIRoot         string `mapstructure:"api_root"`
	CredentialsFile string `mapstructure:"credentials_file"` // empty means the default location
}

// NetworkConfig holds request settings
type NetworkConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`    // 0 disables the timeout
	RateLimit float64       `mapstructure:"rate_limit"` // requests per second, 0 disables limiting
	RateBurst int           `mapstructure:"rate_burst"`
}

// UIConfig holds screen preferences
type UIConfig struct {
	Theme               string `mapstructure:"theme"`
	BooksPageSize       int    `mapstructure:"books_page_size"`
	ListPageSize        int    `mapstructure:"list_page_size"`
	GenrePageSize       int    `mapstructure:"genre_page_size"`
	RecommendationLimit int    `mapstructure:"recommendation_limit"`
	FocusedLimit        int    `mapstructure:"focused_limit"` // recommendations for a named genre or author
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // where the TUI logs; empty means <config dir>/libcat/libcat.log
}

// Keys lists every setting, in display order
var Keys = []string{
	"server.url",
	"server.api_root",
	"server.credentials_file",
	"network.timeout",
	"network.rate_limit",
	"network.rate_burst",
	"ui.theme",
	"ui.books_page_size",
	"ui.list_page_size",
	"ui.genre_page_size",
	"ui.recommendation_limit",
	"ui.focused_limit",
	"log.level",
	"log.file",
}

// Store wraps the viper instance the configuration is read from
type Store struct {
	v    *viper.Viper
	path string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.url", DefaultServerURL)
	v.SetDefault("server.api_root", DefaultAPIRoot)
	v.SetDefault("server.credentials_file", "")
	v.SetDefault("network.timeout", time.Duration(0))
	v.SetDefault("network.rate_limit", 0.0)
	v.SetDefault("network.rate_burst", 1)
	v.SetDefault("ui.theme", "dark")
	v.SetDefault("ui.books_page_size", 20)
	v.SetDefault("ui.list_page_size", 50)
	v.SetDefault("ui.genre_page_size", 20)
	v.SetDefault("ui.recommendation_limit", 15)
	v.SetDefault("ui.focused_limit", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Load reads the configuration. A .env file in the working directory is loaded
// first, then the config file (cfgFile, or the default location), then LIBCAT_*
// environment variables. A missing config file is not an error.
func Load(cfgFile string) (*Store, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, configFileName+"."+configFileType)
	}
	v.SetConfigFile(path)
	v.SetConfigType(configFileType)

	// Environment variable overrides
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	return &Store{v: v, path: path}, nil
}

// Path returns the config file location
func (s *Store) Path() string {
	return s.path
}

// Config decodes the current settings
func (s *Store) Config() (*Config, error) {
	var cfg Config
	if err := s.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.Server.CredentialsFile = expandPath(cfg.Server.CredentialsFile)
	return &cfg, nil
}

// Get returns a setting
func (s *Store) Get(key string) any {
	return s.v.Get(key)
}

// Set updates a setting and persists the config file
func (s *Store) Set(key, value string) error {
	if !knownKey(key) {
		return fmt.Errorf("unknown setting %q", key)
	}
	prev := s.v.Get(key)
	s.v.Set(key, value)

	if _, err := s.Config(); err != nil {
		s.v.Set(key, prev)
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	return s.v.WriteConfigAs(s.path)
}

func knownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Dir returns <user config dir>/libcat
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, configDirName), nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
