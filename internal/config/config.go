// Package config loads and validates mirror configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Supported asset backends. An empty backend disables /static.
const (
	AssetsLocal = "local"
	AssetsGCS   = "gcs"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Assets   AssetsConfig   `mapstructure:"assets"`
	Site     SiteConfig     `mapstructure:"site"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	// Demo serves the built-in sample site instead of a database.
	Demo bool `mapstructure:"demo"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port                     int `mapstructure:"port"`
	RequestTimeoutSeconds    int `mapstructure:"request_timeout_seconds"`
	ReadHeaderTimeoutSeconds int `mapstructure:"read_header_timeout_seconds"`
}

// DatabaseConfig controls access to the dump database.
type DatabaseConfig struct {
	Driver              string        `mapstructure:"driver"`
	DSN                 string        `mapstructure:"dsn"`
	MaxConns            int32         `mapstructure:"max_conns"`
	MinConns            int32         `mapstructure:"min_conns"`
	MaxConnLifetime     time.Duration `mapstructure:"max_conn_lifetime"`
	QueryTimeoutSeconds int           `mapstructure:"query_timeout_seconds"`
	// Sites restricts serving to these names. Empty means every discovered site.
	Sites []string `mapstructure:"sites"`
}

// AssetsConfig selects where static files come from.
type AssetsConfig struct {
	Backend string `mapstructure:"backend"`
	Dir     string `mapstructure:"dir"`
	Bucket  string `mapstructure:"bucket"`
	Prefix  string `mapstructure:"prefix"`
}

// SiteConfig holds presentation defaults.
type SiteConfig struct {
	Default  string `mapstructure:"default"`
	Timezone string `mapstructure:"timezone"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk, environment and, when flags is non-nil,
// the command line. Only the "demo" flag is bound.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MIRROR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := v.BindEnv("server.port", "MIRROR_SERVER_PORT", "PORT"); err != nil {
		return Config{}, fmt.Errorf("bind port env: %w", err)
	}
	if flags != nil {
		if f := flags.Lookup("demo"); f != nil {
			if err := v.BindPFlag("demo", f); err != nil {
				return Config{}, fmt.Errorf("bind demo flag: %w", err)
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout_seconds", 30)
	v.SetDefault("server.read_header_timeout_seconds", 5)
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_conns", 0)
	v.SetDefault("database.min_conns", 0)
	v.SetDefault("database.max_conn_lifetime", "0s")
	v.SetDefault("database.query_timeout_seconds", 10)
	v.SetDefault("database.sites", []string{})
	v.SetDefault("assets.backend", "")
	v.SetDefault("assets.dir", "")
	v.SetDefault("assets.bucket", "")
	v.SetDefault("assets.prefix", "")
	v.SetDefault("site.default", "stackoverflow")
	v.SetDefault("site.timezone", "UTC")
	v.SetDefault("logging.development", true)
	v.SetDefault("demo", false)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Server.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("server.request_timeout_seconds must be > 0")
	}
	if c.Server.ReadHeaderTimeoutSeconds <= 0 {
		return fmt.Errorf("server.read_header_timeout_seconds must be > 0")
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver)
	}
	if !c.Demo && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn must be set unless demo mode is enabled")
	}
	if c.Database.QueryTimeoutSeconds <= 0 {
		return fmt.Errorf("database.query_timeout_seconds must be > 0")
	}
	if c.Database.MinConns < 0 || c.Database.MaxConns < 0 {
		return fmt.Errorf("database connection limits must be >= 0")
	}
	if c.Database.MaxConns > 0 && c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns must not exceed database.max_conns")
	}
	switch c.Assets.Backend {
	case "":
	case AssetsLocal:
		if c.Assets.Dir == "" {
			return fmt.Errorf("assets.dir must be set when assets.backend is %q", AssetsLocal)
		}
	case AssetsGCS:
		if c.Assets.Bucket == "" {
			return fmt.Errorf("assets.bucket must be set when assets.backend is %q", AssetsGCS)
		}
	default:
		return fmt.Errorf("assets.backend must be empty, %q or %q, got %q", AssetsLocal, AssetsGCS, c.Assets.Backend)
	}
	if c.Site.Default == "" {
		return fmt.Errorf("site.default must be set")
	}
	if _, err := time.LoadLocation(c.Site.Timezone); err != nil {
		return fmt.Errorf("site.timezone: %w", err)
	}
	return nil
}

// RequestTimeout bounds a single HTTP request.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}

// ReadHeaderTimeout bounds reading request headers.
func (c Config) ReadHeaderTimeout() time.Duration {
	return time.Duration(c.Server.ReadHeaderTimeoutSeconds) * time.Second
}

// QueryTimeout bounds a single store query.
func (c Config) QueryTimeout() time.Duration {
	return time.Duration(c.Database.QueryTimeoutSeconds) * time.Second
}
