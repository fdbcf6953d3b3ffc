package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "eventa"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Gateway  GatewayConfig
	Selector SelectorConfig
	Cron     CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"EVENTA_APP_ENV" required:"true"`
	Port         string `envconfig:"EVENTA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"EVENTA_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"EVENTA_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"EVENTA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"EVENTA_DB_DSN" required:"true"`

	MaxOpenConns    int           `envconfig:"EVENTA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"EVENTA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"EVENTA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"EVENTA_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"EVENTA_DB_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"EVENTA_REDIS_URL" required:"true"`
	Password     string        `envconfig:"EVENTA_REDIS_PASSWORD"`
	DB           int           `envconfig:"EVENTA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"EVENTA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EVENTA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EVENTA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EVENTA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EVENTA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// GatewayConfig points the reconciliation service at the external payment gateway.
type GatewayConfig struct {
	BaseURL string        `envconfig:"EVENTA_GATEWAY_BASE_URL" required:"true"`
	APIKey  string        `envconfig:"EVENTA_GATEWAY_API_KEY" required:"true"`
	Timeout time.Duration `envconfig:"EVENTA_GATEWAY_TIMEOUT" default:"10s"`
}

// SelectorConfig tunes the recommendation selector. The synonym map is
// configuration, not logic: SynonymsJSON overrides the built-in defaults with a
// JSON object of category -> accepted keywords.
type SelectorConfig struct {
	SynonymsJSON string `envconfig:"EVENTA_SELECTOR_SYNONYMS_JSON"`
}

// Synonyms decodes the override map, or returns nil when unset.
func (s SelectorConfig) Synonyms() (map[string][]string, error) {
	if strings.TrimSpace(s.SynonymsJSON) == "" {
		return nil, nil
	}
	var out map[string][]string
	if err := json.Unmarshal([]byte(s.SynonymsJSON), &out); err != nil {
		return nil, fmt.Errorf("parsing selector synonyms: %w", err)
	}
	return out, nil
}

type CronConfig struct {
	Interval       time.Duration `envconfig:"EVENTA_CRON_INTERVAL" default:"1h"`
	PendingTTLDays int           `envconfig:"EVENTA_CRON_PENDING_TTL_DAYS" default:"10"`
	LockTTL        time.Duration `envconfig:"EVENTA_CRON_LOCK_TTL" default:"2h"`
}
