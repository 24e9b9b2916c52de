package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	appDir    = "bankcli"
	envPrefix = "BANKCLI"
)

// Keys understood in config files, the environment and overrides.
const (
	KeyBaseURL        = "base_url"
	KeyRequestTimeout = "request_timeout"
	KeyRefreshMargin  = "refresh_margin"
	KeyStorePath      = "store_path"
	KeyEphemeral      = "ephemeral"
	KeyRateCacheTTL   = "rate_cache_ttl"
	KeyHTTPCache      = "http_cache"
	KeyHTTPCacheDir   = "http_cache_dir"
	KeyUsersPerPage   = "users_per_page"
	KeyDebug          = "debug"
)

// Config holds runtime settings for the bankcli client.
type Config struct {
	// BaseURL is the API root every request path is appended to.
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// RefreshMargin is how long before expiry a session counts as near expiry.
	RefreshMargin time.Duration `mapstructure:"refresh_margin"`
	// StorePath is the SQLite file holding the persisted session.
	StorePath string `mapstructure:"store_path"`
	// Ephemeral keeps the session in memory only.
	Ephemeral    bool          `mapstructure:"ephemeral"`
	RateCacheTTL time.Duration `mapstructure:"rate_cache_ttl"`
	// HTTPCache enables the RFC 7234 caching transport; responses are kept
	// in HTTPCacheDir, or in memory when it is empty.
	HTTPCache    bool   `mapstructure:"http_cache"`
	HTTPCacheDir string `mapstructure:"http_cache_dir"`
	UsersPerPage int    `mapstructure:"users_per_page"`
	Debug        bool   `mapstructure:"debug"`
}

// Dir returns the per-user bankcli directory, falling back to the working
// directory when the platform has none.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, appDir)
}

// Defaults returns the built-in configuration.
func Defaults() map[string]any {
	return map[string]any{
		KeyBaseURL:        "http://localhost:8080/api",
		KeyRequestTimeout: 15 * time.Second,
		KeyRefreshMargin:  60 * time.Second,
		KeyStorePath:      filepath.Join(Dir(), "session.db"),
		KeyEphemeral:      false,
		KeyRateCacheTTL:   5 * time.Minute,
		KeyHTTPCache:      false,
		KeyHTTPCacheDir:   "",
		KeyUsersPerPage:   10,
		KeyDebug:          false,
	}
}

// Load builds a Config from defaults, the config file, the environment and
// overrides, in that order, and validates it. file may be empty.
func Load(file string, overrides map[string]any) (*Config, error) {
	v := viper.New()
	for k, val := range Defaults() {
		v.SetDefault(k, val)
	}

	if err := readFile(v, file); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	for k, val := range overrides {
		v.Set(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readFile(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", file, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.AddConfigPath(Dir())
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return errors.New("config: base_url must be set")
	case c.RequestTimeout <= 0:
		return errors.New("config: request_timeout must be positive")
	case c.RefreshMargin < 0:
		return errors.New("config: refresh_margin must not be negative")
	case c.RateCacheTTL < 0:
		return errors.New("config: rate_cache_ttl must not be negative")
	case c.UsersPerPage < 0:
		return errors.New("config: users_per_page must not be negative")
	case !c.Ephemeral && c.StorePath == "":
		return errors.New("config: store_path must be set unless ephemeral")
	}
	return nil
}
