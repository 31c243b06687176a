package config

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

const (
	EnvAppEnv                 = "STOREFRONT_APP_ENV"
	EnvPort                   = "STOREFRONT_APP_PORT"
	EnvLogLevel               = "STOREFRONT_LOG_LEVEL"
	EnvStorageDriver          = "STOREFRONT_STORAGE_DRIVER"
	EnvDBDSN                  = "STOREFRONT_DB_DSN"
	EnvRedisURL               = "STOREFRONT_REDIS_URL"
	EnvRedisAddr              = "STOREFRONT_REDIS_ADDR"
	EnvCatalogBaseURL         = "STOREFRONT_CATALOG_BASE_URL"
	EnvCatalogTimeout         = "STOREFRONT_CATALOG_TIMEOUT"
	EnvCatalogCustomThreshold = "STOREFRONT_CATALOG_CUSTOM_ID_THRESHOLD"
	EnvClientsPageSize        = "STOREFRONT_CLIENTS_PAGE_SIZE"
	EnvGCPProjectID           = "STOREFRONT_GCP_PROJECT_ID"
	EnvPubSubEventsTopic      = "STOREFRONT_PUBSUB_EVENTS_TOPIC"
	EnvCORSOrigins            = "STOREFRONT_CORS_ORIGINS"
)
