package shared

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	DBDriver    string
	DBDSN       string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration
	RateLimit   float64
	RateBurst   int
}

// defaults mirror the environment variable names, lower-cased.
var defaults = map[string]any{
	"app_env":           "prod",
	"log_level":         "info",
	"http_addr":         ":8080",
	"metrics_addr":      ":9100",
	"db_driver":         "sqlite3",
	"db_dsn":            "staff.db",
	"redis_addr":        "",
	"redis_password":    "",
	"redis_db":          0,
	"cache_ttl_seconds": 900,
	"rate_limit_rps":    0.0,
	"rate_limit_burst":  20,
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, def := range defaults {
		v.SetDefault(k, def)
	}
	v.AutomaticEnv() // APP_ENV, DB_DSN, ...
	return v
}

// Load reads configuration from the environment.
func Load() Config {
	return fromViper(newViper())
}

// LoadFile layers a config file (yaml, json, toml) under the environment.
// An empty path is the same as Load.
func LoadFile(path string) (Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return fromViper(v), nil
}

func fromViper(v *viper.Viper) Config {
	c := Config{
		AppEnv:      v.GetString("app_env"),
		LogLevel:    v.GetString("log_level"),
		HTTPAddr:    v.GetString("http_addr"),
		MetricsAddr: v.GetString("metrics_addr"),
		DBDriver:    v.GetString("db_driver"),
		DBDSN:       v.GetString("db_dsn"),
		RedisAddr:   v.GetString("redis_addr"),
		RedisPass:   v.GetString("redis_password"),
		RedisDB:     v.GetInt("redis_db"),
		CacheTTL:    time.Duration(v.GetInt("cache_ttl_seconds")) * time.Second,
		RateLimit:   v.GetFloat64("rate_limit_rps"),
		RateBurst:   v.GetInt("rate_limit_burst"),
	}
	if c.RedisAddr == "" {
		log.Warn().Msg("REDIS_ADDR is empty; employee cache disabled")
	}
	return c
}
