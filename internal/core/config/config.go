package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host              string
	Port              int
	ReadTimeoutSec    int
	WriteTimeoutSec   int
	IdleTimeoutSec    int
	RequestTimeoutSec int
	MaxInFlight       int64
	MaxBodyMB         int64
	CORSOrigins       []string
}

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type Log struct {
	Level string
	JSON  bool
	// File enables lumberjack rotation next to stdout when set.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type JWT struct {
	Secret string
	Issuer string
	// 0 issues non-expiring tokens.
	AccessTokenTTLMin int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Cache struct {
	TTLSec int
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Bootstrap seeds the first admin account at startup. Skipped when
// AdminEmail is empty.
type Bootstrap struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
	AdminAddress  string
}

type Config struct {
	App       App
	Log       Log
	JWT       JWT
	DB        DB
	Redis     Redis `mapstructure:"redis"`
	Cache     Cache
	Bootstrap Bootstrap
}

const defaultPath = "./configs/config.local.yaml"

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "store-rating")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 5000)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 10)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.http.requestTimeoutSec", 10)
	v.SetDefault("app.http.maxInFlight", 300)
	v.SetDefault("app.http.maxBodyMB", 1)
	v.SetDefault("app.http.corsOrigins", []string{"*"})
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 5001)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.maxSizeMB", 100)
	v.SetDefault("log.maxBackups", 7)
	v.SetDefault("log.maxAgeDays", 30)
	v.SetDefault("log.compress", true)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "store-rating")
	v.SetDefault("jwt.accessTokenTTLMin", 1440)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "store-rating.db")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 10)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.autoMigrate", true)
	v.SetDefault("db.logLevel", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.ttlSec", 30)

	v.SetDefault("bootstrap.adminName", "")
	v.SetDefault("bootstrap.adminEmail", "")
	v.SetDefault("bootstrap.adminPassword", "")
	v.SetDefault("bootstrap.adminAddress", "")
}

// Load reads the YAML file at path (CONFIG_PATH, then the local default) and
// applies APP_* environment overrides, e.g. APP_JWT_SECRET. A missing file is
// fine as long as the environment supplies what Validate needs.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = defaultPath
		}
	}
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat config: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("config: jwt.secret is required (set APP_JWT_SECRET)")
	}
	if c.JWT.AccessTokenTTLMin < 0 {
		return errors.New("config: jwt.accessTokenTTLMin must be >= 0")
	}
	switch c.DB.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("config: unsupported db.driver %q", c.DB.Driver)
	}
	if c.Bootstrap.AdminEmail != "" && c.Bootstrap.AdminPassword == "" {
		return errors.New("config: bootstrap.adminPassword is required with bootstrap.adminEmail")
	}
	return nil
}

func (c *Config) IsProd() bool { return c.App.Env == "prod" || c.App.Env == "production" }
