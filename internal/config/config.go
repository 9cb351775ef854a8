// Package config provides configuration management for the application.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/amaumene/venusplay/internal/constants"
	"github.com/amaumene/venusplay/pkg/security"
)

// Config holds the application configuration.
// Values come from defaults, an optional config file, the environment and
// command line flags, later sources winning.
type Config struct {
	Upstream UpstreamConfig
	Cache    CacheConfig
	Catalog  CatalogConfig
	Server   ServerConfig
	Log      LogConfig
}

type UpstreamConfig struct {
	BaseURL        string
	Username       string
	Password       string
	Timeout        time.Duration
	Retries        int
	RetryDelay     time.Duration
	MaxConnections int
	RateLimit      int64
	RateBurst      int64
}

type CacheConfig struct {
	ListingTTL   time.Duration
	DetailTTL    time.Duration
	AggregateTTL time.Duration
	Size         int
}

type CatalogConfig struct {
	PageSize   int
	DeriveYear bool
}

type ServerConfig struct {
	Port string
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

// Keys exposed in config files, paired with their environment variable.
const (
	KeyUpstreamURL      = "upstream.base_url"
	KeyUpstreamUser     = "upstream.username"
	KeyUpstreamPass     = "upstream.password"
	KeyUpstreamTimeout  = "upstream.timeout"
	KeyUpstreamRetries  = "upstream.retries"
	KeyUpstreamDelay    = "upstream.retry_delay"
	KeyUpstreamMaxConns = "upstream.max_connections"
	KeyUpstreamRate     = "upstream.rate_limit"
	KeyUpstreamBurst    = "upstream.rate_burst"
	KeyListingTTL       = "cache.listing_ttl"
	KeyDetailTTL        = "cache.detail_ttl"
	KeyAggregateTTL     = "cache.aggregate_ttl"
	KeyCacheSize        = "cache.size"
	KeyPageSize         = "catalog.page_size"
	KeyDeriveYear       = "catalog.derive_year_from_release"
	KeyPort             = "server.port"
	KeyLogLevel         = "log.level"
	KeyLogFormat        = "log.format"
	KeyLogFile          = "log.file"
)

var envNames = map[string]string{
	KeyUpstreamURL:      "IPTV_API",
	KeyUpstreamUser:     "IPTV_USER",
	KeyUpstreamPass:     "IPTV_PASS",
	KeyUpstreamTimeout:  "IPTV_TIMEOUT",
	KeyUpstreamRetries:  "IPTV_RETRIES",
	KeyUpstreamDelay:    "IPTV_RETRY_DELAY",
	KeyUpstreamMaxConns: "IPTV_MAX_CONNECTIONS",
	KeyUpstreamRate:     "IPTV_RATE_LIMIT",
	KeyUpstreamBurst:    "IPTV_RATE_BURST",
	KeyListingTTL:       "CACHE_LISTING_TTL",
	KeyDetailTTL:        "CACHE_DETAIL_TTL",
	KeyAggregateTTL:     "CACHE_AGGREGATE_TTL",
	KeyCacheSize:        "CACHE_SIZE",
	KeyPageSize:         "PAGE_SIZE",
	KeyDeriveYear:       "DERIVE_YEAR_FROM_RELEASE",
	KeyPort:             "PORT",
	KeyLogLevel:         "LOG_LEVEL",
	KeyLogFormat:        "LOG_FORMAT",
	KeyLogFile:          "LOG_FILE",
}

var defaults = map[string]interface{}{
	KeyUpstreamURL:      constants.DefaultUpstreamURL,
	KeyUpstreamTimeout:  constants.UpstreamTimeout,
	KeyUpstreamRetries:  constants.UpstreamRetries,
	KeyUpstreamDelay:    constants.UpstreamRetryDelay,
	KeyUpstreamMaxConns: constants.UpstreamMaxConnections,
	KeyUpstreamRate:     constants.UpstreamRateLimit,
	KeyUpstreamBurst:    constants.UpstreamRateBurst,
	KeyListingTTL:       constants.ListingCacheTTL,
	KeyDetailTTL:        constants.DetailCacheTTL,
	KeyAggregateTTL:     constants.AggregateCacheTTL,
	KeyCacheSize:        constants.DefaultCacheSize,
	KeyPageSize:         constants.DefaultPageSize,
	KeyDeriveYear:       true,
	KeyPort:             constants.DefaultPort,
	KeyLogLevel:         constants.DefaultLogLevel,
	KeyLogFormat:        "text",
}

// Loader resolves a Config from its sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a Loader with defaults and environment bindings set.
func NewLoader() *Loader {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, env := range envNames {
		_ = v.BindEnv(key, env)
	}
	return &Loader{v: v}
}

// BindFlags lets command line flags override file and environment values.
// Flags that are not registered on fs are ignored.
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	bindings := map[string]string{
		"port":      KeyPort,
		"log-level": KeyLogLevel,
	}
	for flag, key := range bindings {
		f := fs.Lookup(flag)
		if f == nil {
			continue
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}
	return nil
}

// Load reads the optional config file and resolves the configuration.
// An empty file name skips the file. Returns an error if the configuration
// is invalid.
func (l *Loader) Load(file string) (*Config, error) {
	if file != "" {
		l.v.SetConfigFile(file)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	v := l.v
	cfg := &Config{
		Upstream: UpstreamConfig{
			BaseURL:        strings.TrimSpace(v.GetString(KeyUpstreamURL)),
			Username:       security.SanitizeCredential(v.GetString(KeyUpstreamUser)),
			Password:       security.SanitizeCredential(v.GetString(KeyUpstreamPass)),
			Timeout:        v.GetDuration(KeyUpstreamTimeout),
			Retries:        v.GetInt(KeyUpstreamRetries),
			RetryDelay:     v.GetDuration(KeyUpstreamDelay),
			MaxConnections: v.GetInt(KeyUpstreamMaxConns),
			RateLimit:      v.GetInt64(KeyUpstreamRate),
			RateBurst:      v.GetInt64(KeyUpstreamBurst),
		},
		Cache: CacheConfig{
			ListingTTL:   v.GetDuration(KeyListingTTL),
			DetailTTL:    v.GetDuration(KeyDetailTTL),
			AggregateTTL: v.GetDuration(KeyAggregateTTL),
			Size:         v.GetInt(KeyCacheSize),
		},
		Catalog: CatalogConfig{
			PageSize:   v.GetInt(KeyPageSize),
			DeriveYear: v.GetBool(KeyDeriveYear),
		},
		Server: ServerConfig{
			Port: strings.TrimSpace(v.GetString(KeyPort)),
		},
		Log: LogConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
			File:   v.GetString(KeyLogFile),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Load resolves the configuration from defaults, file and environment.
func Load(file string) (*Config, error) {
	return NewLoader().Load(file)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Upstream.BaseURL == "" {
		errs = append(errs, errors.New("upstream base url is required"))
	} else if u, err := url.Parse(c.Upstream.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("upstream base url is not a valid url: %s", c.Upstream.BaseURL))
	}
	if c.Upstream.Username == "" {
		errs = append(errs, errors.New("upstream username is required (IPTV_USER)"))
	}
	if c.Upstream.Timeout <= 0 {
		errs = append(errs, errors.New("upstream timeout must be positive"))
	}
	if c.Upstream.Retries < 0 {
		errs = append(errs, errors.New("upstream retries must not be negative"))
	}
	if c.Upstream.RetryDelay < 0 {
		errs = append(errs, errors.New("upstream retry delay must not be negative"))
	}
	if c.Catalog.PageSize < 1 {
		errs = append(errs, errors.New("page size must be positive"))
	}
	if c.Cache.ListingTTL <= 0 || c.Cache.DetailTTL <= 0 || c.Cache.AggregateTTL <= 0 {
		errs = append(errs, errors.New("cache ttls must be positive"))
	}
	if c.Cache.Size < 1 {
		errs = append(errs, errors.New("cache size must be positive"))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server port is required"))
	}

	return errors.Join(errs...)
}

// MaxTTL is the longest window any call site reads the cache with.
func (c *Config) MaxTTL() time.Duration {
	ttl := c.Cache.ListingTTL
	for _, d := range []time.Duration{c.Cache.DetailTTL, c.Cache.AggregateTTL} {
		if d > ttl {
			ttl = d
		}
	}
	return ttl
}
