package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingCredentials is returned when one of the required Emby login values is absent.
var ErrMissingCredentials = errors.New("missing required variables")

// ErrInvalidServerURL is returned when EMBY_SERVER_URL is not an http(s) URL.
var ErrInvalidServerURL = errors.New("invalid server url")

// Config holds all application settings
type Config struct {
	Emby     EmbyConfig     `mapstructure:"emby"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Log      LogConfig      `mapstructure:"log"`
}

// EmbyConfig holds the media server login settings
type EmbyConfig struct {
	ServerURL      string        `mapstructure:"server_url"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LLMConfig holds the optional item limit shared with the MCP front end.
// The harness reads it but does not act on it.
type LLMConfig struct {
	MaxItems string `mapstructure:"max_items"`
}

// CacheConfig holds the client-side cache settings
type CacheConfig struct {
	LibraryTTL time.Duration `mapstructure:"library_ttl"`
}

// DefaultsConfig holds the prompt defaults offered when the operator presses enter.
type DefaultsConfig struct {
	Library         string `mapstructure:"library"`
	PlaylistID      string `mapstructure:"playlist_id"`
	PlaylistName    string `mapstructure:"playlist_name"`
	PlaylistItemIDs string `mapstructure:"playlist_item_ids"`
	UserIDs         string `mapstructure:"user_ids"`
	AccessLevel     string `mapstructure:"access_level"`
	SessionID       string `mapstructure:"session_id"`
	SessionItemIDs  string `mapstructure:"session_item_ids"`
	SessionCommand  string `mapstructure:"session_command"`
	SeekMillis      int    `mapstructure:"seek_milliseconds"`
}

// LogConfig holds the logging settings
type LogConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // text, json, nested
	Output     string `mapstructure:"output"`      // stderr, file, discard
	FilePath   string `mapstructure:"file_path"`   // log file path
	MaxSize    int    `mapstructure:"max_size"`    // megabytes
	MaxBackups int    `mapstructure:"max_backups"` // rotated files to keep
	MaxAge     int    `mapstructure:"max_age"`     // days
	Compress   bool   `mapstructure:"compress"`    // gzip rotated files
}

// Load reads configuration from v. A missing config file is not an error;
// credentials are validated later by Validate so callers decide the exit path.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	BindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Emby.ServerURL = strings.TrimSpace(cfg.Emby.ServerURL)
	cfg.Emby.Username = strings.TrimSpace(cfg.Emby.Username)
	return &cfg, nil
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("emby.server_url", "")
	v.SetDefault("emby.username", "")
	v.SetDefault("emby.password", "")
	v.SetDefault("emby.request_timeout", "30s")

	v.SetDefault("llm.max_items", "")

	v.SetDefault("cache.library_ttl", "5m")

	v.SetDefault("defaults.library", "")
	v.SetDefault("defaults.playlist_id", "")
	v.SetDefault("defaults.playlist_name", "")
	v.SetDefault("defaults.playlist_item_ids", "")
	v.SetDefault("defaults.user_ids", "")
	v.SetDefault("defaults.access_level", "ManageDelete")
	v.SetDefault("defaults.session_id", "")
	v.SetDefault("defaults.session_item_ids", "")
	v.SetDefault("defaults.session_command", "PlayNow")
	v.SetDefault("defaults.seek_milliseconds", 180000)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "file")
	v.SetDefault("log.file_path", "logs/embydebug.log")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 7)
	v.SetDefault("log.compress", true)
}

// BindEnv maps the plain environment variable names onto config keys.
func BindEnv(v *viper.Viper) {
	_ = v.BindEnv("emby.server_url", "EMBY_SERVER_URL")
	_ = v.BindEnv("emby.username", "EMBY_USERNAME")
	_ = v.BindEnv("emby.password", "EMBY_PASSWORD")
	_ = v.BindEnv("llm.max_items", "LLM_MAX_ITEMS")
}

// Validate checks that the login values are present and usable.
func (c EmbyConfig) Validate() error {
	var missing []string
	if c.ServerURL == "" {
		missing = append(missing, "EMBY_SERVER_URL")
	}
	if c.Username == "" {
		missing = append(missing, "EMBY_USERNAME")
	}
	if c.Password == "" {
		missing = append(missing, "EMBY_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return fmt.Errorf("%w: %q must start with http:// or https://", ErrInvalidServerURL, c.ServerURL)
	}
	return nil
}

// MaxItemCount parses LLM_MAX_ITEMS. ok is false when the value is unset.
func (c LLMConfig) MaxItemCount() (n int, ok bool, err error) {
	raw := strings.TrimSpace(c.MaxItems)
	if raw == "" {
		return 0, false, nil
	}
	n, err = strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false, fmt.Errorf("LLM_MAX_ITEMS must be a positive integer, got %q", raw)
	}
	return n, true, nil
}

// LoadDotEnv finds the nearest .env walking up from dir and loads it,
// overriding variables already present in the environment.
// It returns the file used, or "" when there is none.
func LoadDotEnv(dir string) (string, error) {
	path := findDotEnv(dir)
	if path == "" {
		return "", nil
	}
	if err := godotenv.Overload(path); err != nil {
		return path, fmt.Errorf("load %s: %w", path, err)
	}
	return path, nil
}

func findDotEnv(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ".env")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
