// Package config loads uuidbench settings from flags, environment, an
// optional config file and built-in defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "UUIDBENCH"

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	DB     DBConfig     `mapstructure:"db"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DBConfig describes how to reach the database under test. URL may be a
// native DSN or carry a "jdbc:" prefix; for sqlite it is a file path.
type DBConfig struct {
	Driver         string        `mapstructure:"driver"`
	URL            string        `mapstructure:"url"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	MaxConns       int           `mapstructure:"max_conns"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"addr":        "server.addr",
	"db-driver":   "db.driver",
	"db-url":      "db.url",
	"db-user":     "db.user",
	"db-password": "db.password",
	"log-level":   "log.level",
	"log-json":    "log.json",
}

// envAliases are the variable names the original JDBC-based service read.
var envAliases = map[string]string{
	"db.url":      "JDBC_URL",
	"db.user":     "JDBC_USER",
	"db.password": "JDBC_PASSWORD",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("db.driver", DriverPostgres)
	v.SetDefault("db.url", "")
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.max_conns", 10)
	v.SetDefault("db.connect_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

// RegisterFlags adds the overridable settings to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("addr", "", "HTTP listen address")
	fs.String("db-driver", "", "Database driver: postgres, mysql, sqlite")
	fs.String("db-url", "", "Database URL or DSN (sqlite: file path)")
	fs.String("db-user", "", "Database user")
	fs.String("db-password", "", "Database password")
	fs.String("log-level", "", "Log level: debug, info, warn, error")
	fs.Bool("log-json", false, "Emit JSON logs")
}

// Load builds a Config. fs and file are both optional.
func Load(fs *pflag.FlagSet, file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, alias := range envAliases {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), alias); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.DB.URL = strings.TrimPrefix(strings.TrimSpace(cfg.DB.URL), "jdbc:")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.DB.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("db.driver: unsupported driver %q", c.DB.Driver))
	}
	if c.DB.URL == "" {
		errs = append(errs, errors.New("db.url: required"))
	}
	if c.DB.MaxConns <= 0 {
		errs = append(errs, fmt.Errorf("db.max_conns: must be positive, got %d", c.DB.MaxConns))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr: required"))
	}
	return errors.Join(errs...)
}
