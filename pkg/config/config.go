package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	DB      DBConfig
	Redis   RedisConfig
	Catalog CatalogConfig
	Clients ClientsConfig
	Account AccountConfig
	PubSub  PubSubConfig
	HTTP    HTTPConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field requirements envconfig cannot express.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory:
	case StorageRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("either %s or %s is required for the redis storage driver", EnvRedisURL, EnvRedisAddr)
		}
	case StorageSQLite, StoragePostgres:
		if strings.TrimSpace(c.DB.DSN) == "" {
			return fmt.Errorf("%s is required for the %s storage driver", EnvDBDSN, c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvStorageDriver, c.Storage.Driver)
	}
	if c.Catalog.CustomIDThreshold < 0 {
		return fmt.Errorf("%s must not be negative", EnvCatalogCustomThreshold)
	}
	if c.Clients.PageSize <= 0 {
		return fmt.Errorf("%s must be positive", EnvClientsPageSize)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"true"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type StorageConfig struct {
	Driver string `envconfig:"STOREFRONT_STORAGE_DRIVER" default:"sqlite"`
}

type DBConfig struct {
	DSN string `envconfig:"STOREFRONT_DB_DSN" default:"file:storefront.db?cache=shared"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
	// StateTTL expires device state that has not been written for this long. Zero keeps it forever.
	StateTTL time.Duration `envconfig:"STOREFRONT_REDIS_STATE_TTL" default:"0s"`
}

type CatalogConfig struct {
	BaseURL           string        `envconfig:"STOREFRONT_CATALOG_BASE_URL" default:"https://fakestoreapi.com"`
	Timeout           time.Duration `envconfig:"STOREFRONT_CATALOG_TIMEOUT" default:"10s"`
	Retries           uint64        `envconfig:"STOREFRONT_CATALOG_RETRIES" default:"0"`
	RetryBackoff      time.Duration `envconfig:"STOREFRONT_CATALOG_RETRY_BACKOFF" default:"250ms"`
	RemoteTTL         time.Duration `envconfig:"STOREFRONT_CATALOG_REMOTE_TTL" default:"5m"`
	TopLimit          int           `envconfig:"STOREFRONT_CATALOG_TOP_LIMIT" default:"5"`
	CustomIDThreshold int64         `envconfig:"STOREFRONT_CATALOG_CUSTOM_ID_THRESHOLD" default:"1000"`
	PlaceholderImage  string        `envconfig:"STOREFRONT_CATALOG_PLACEHOLDER_IMAGE" default:"https://via.placeholder.com/300"`
	DefaultCategory   string        `envconfig:"STOREFRONT_CATALOG_DEFAULT_CATEGORY" default:"custom"`
}

type ClientsConfig struct {
	PageSize int `envconfig:"STOREFRONT_CLIENTS_PAGE_SIZE" default:"10"`
}

type AccountConfig struct {
	FullName    string `envconfig:"STOREFRONT_ACCOUNT_NAME" default:"John Doe"`
	Email       string `envconfig:"STOREFRONT_ACCOUNT_EMAIL" default:"john.doe@example.com"`
	MemberSince string `envconfig:"STOREFRONT_ACCOUNT_MEMBER_SINCE" default:"January 2025"`
}

type PubSubConfig struct {
	ProjectID   string `envconfig:"STOREFRONT_GCP_PROJECT_ID"`
	EventsTopic string `envconfig:"STOREFRONT_PUBSUB_EVENTS_TOPIC"`
}

// Enabled reports whether change events should be published.
func (p PubSubConfig) Enabled() bool {
	return strings.TrimSpace(p.ProjectID) != "" && strings.TrimSpace(p.EventsTopic) != ""
}

type HTTPConfig struct {
	CORSOrigins     []string      `envconfig:"STOREFRONT_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	ReadTimeout     time.Duration `envconfig:"STOREFRONT_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"STOREFRONT_HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"STOREFRONT_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}
