package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. BILINGO_SERVER_PORT.
const EnvPrefix = "BILINGO"

// ConfigFlag names the flag that points at an explicit config file.
const ConfigFlag = "config"

// keys lists every configuration key so that environment variables are
// picked up even when neither a default nor a config file mentions them.
var keys = []string{
	"server.port",
	"server.log_level",
	"server.read_timeout_seconds",
	"server.write_timeout_seconds",
	"server.shutdown_timeout_seconds",
	"database.driver",
	"database.url",
	"database.max_open_conns",
	"database.max_idle_conns",
	"database.conn_max_lifetime_minutes",
	"auth.jwt_secret",
	"auth.token_lifetime_minutes",
	"study.default_session_size",
	"study.review_retries",
}

// flagKeys maps command-line flag names onto configuration keys.
var flagKeys = map[string]string{
	"port":            "server.port",
	"log-level":       "server.log_level",
	"database-driver": "database.driver",
	"database-url":    "database.url",
}

// setDefaults registers the built-in defaults on v.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 15)
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime_minutes", 5)
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("study.default_session_size", 20)
	v.SetDefault("study.review_retries", 3)
}

// RegisterFlags adds the flags understood by LoadWithFlags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(ConfigFlag, "", "path to a YAML config file (default ./config.yaml)")
	fs.Int("port", 0, "HTTP port to listen on")
	fs.String("log-level", "", "log level: debug, info, warn or error")
	fs.String("database-driver", "", "storage backend: postgres or sqlite")
	fs.String("database-url", "", "database connection string or SQLite file")
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadWithFlags(nil)
}

// LoadWithFlags behaves like Load but also honours flags registered with
// RegisterFlags. Only flags the user actually set override other sources.
func LoadWithFlags(fs *pflag.FlagSet) (*Config, error) {
	var configFile string
	if fs != nil {
		if f := fs.Lookup(ConfigFlag); f != nil && f.Changed {
			configFile = f.Value.String()
		}
	}

	v, err := newViper(configFile)
	if err != nil {
		return nil, err
	}

	if fs != nil {
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadAuth loads and validates only the auth section. Tools that sign tokens
// use it so they do not need a database or server configuration.
// An empty configFile means ./config.yaml when present.
func LoadAuth(configFile string) (AuthConfig, error) {
	v, err := newViper(configFile)
	if err != nil {
		return AuthConfig{}, err
	}

	// Unmarshal everything: UnmarshalKey ignores environment overrides of
	// nested keys.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return AuthConfig{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validator.New().Struct(cfg.Auth); err != nil {
		return AuthConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg.Auth, nil
}

// newViper returns a viper instance with defaults, the config file and
// environment bindings applied.
func newViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	return v, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
