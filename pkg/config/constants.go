package config

const (
	EnvPrefix = "CARDAPIO"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "CARDAPIO_APP_ENV"
	EnvPort     = "CARDAPIO_APP_PORT"
	EnvLogLevel = "CARDAPIO_LOG_LEVEL"

	EnvDBDSN      = "CARDAPIO_DB_DSN"
	EnvDBHost     = "CARDAPIO_DB_HOST"
	EnvDBUser     = "CARDAPIO_DB_USER"
	EnvDBPassword = "CARDAPIO_DB_PASSWORD"
	EnvDBName     = "CARDAPIO_DB_NAME"
	EnvUseSQLite  = "CARDAPIO_USE_SQLITE"

	EnvRedisURL = "CARDAPIO_REDIS_URL"

	EnvFlowMaxAdditionalQty = "CARDAPIO_FLOW_MAX_ADDITIONAL_QTY"
	EnvFlowCatalogCacheTTL  = "CARDAPIO_FLOW_CATALOG_CACHE_TTL"
	EnvFlowQuickAddLimit    = "CARDAPIO_FLOW_QUICK_ADD_LIMIT"
	EnvFlowSessionTTL       = "CARDAPIO_FLOW_SESSION_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
