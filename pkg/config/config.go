package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Flow         FlowConfig
	Jobs         JobsConfig
	HTTP         HTTPConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Flow.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CARDAPIO_APP_ENV" required:"true"`
	Port         string `envconfig:"CARDAPIO_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CARDAPIO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CARDAPIO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN        string `envconfig:"CARDAPIO_DB_DSN"`
	SQLitePath string `envconfig:"CARDAPIO_SQLITE_PATH" default:"cardapio.db"`

	LegacyHost     string `envconfig:"CARDAPIO_DB_HOST"`
	LegacyPort     int    `envconfig:"CARDAPIO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CARDAPIO_DB_USER"`
	LegacyPassword string `envconfig:"CARDAPIO_DB_PASSWORD"`
	LegacyName     string `envconfig:"CARDAPIO_DB_NAME"`
	LegacySSLMode  string `envconfig:"CARDAPIO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CARDAPIO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CARDAPIO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CARDAPIO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CARDAPIO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CARDAPIO_REDIS_URL"`
	Address      string        `envconfig:"CARDAPIO_REDIS_ADDR"`
	Password     string        `envconfig:"CARDAPIO_REDIS_PASSWORD"`
	DB           int           `envconfig:"CARDAPIO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CARDAPIO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CARDAPIO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CARDAPIO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CARDAPIO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CARDAPIO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CARDAPIO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CARDAPIO_AUTO_MIGRATE" default:"false"`
}

// FlowConfig tunes the customization engine.
type FlowConfig struct {
	MaxAdditionalQty int           `envconfig:"CARDAPIO_FLOW_MAX_ADDITIONAL_QTY" default:"10"`
	CatalogCacheTTL  time.Duration `envconfig:"CARDAPIO_FLOW_CATALOG_CACHE_TTL" default:"5m"`
	QuickAddLimit    int           `envconfig:"CARDAPIO_FLOW_QUICK_ADD_LIMIT" default:"6"`
	SessionTTL       time.Duration `envconfig:"CARDAPIO_FLOW_SESSION_TTL" default:"30m"`
}

func (f FlowConfig) validate() error {
	if f.MaxAdditionalQty <= 0 {
		return fmt.Errorf("%s must be positive", EnvFlowMaxAdditionalQty)
	}
	if f.QuickAddLimit <= 0 {
		return fmt.Errorf("%s must be positive", EnvFlowQuickAddLimit)
	}
	if f.SessionTTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvFlowSessionTTL)
	}
	return nil
}

// JobsConfig tunes the background jobs of the API process.
type JobsConfig struct {
	SweepInterval     time.Duration `envconfig:"CARDAPIO_JOBS_SWEEP_INTERVAL" default:"1m"`
	CartRetention     time.Duration `envconfig:"CARDAPIO_JOBS_CART_RETENTION" default:"720h"`
	RetentionInterval time.Duration `envconfig:"CARDAPIO_JOBS_RETENTION_INTERVAL" default:"1h"`
	LockTTL           time.Duration `envconfig:"CARDAPIO_JOBS_LOCK_TTL" default:"55m"`
}

// HTTPConfig carries the edge settings of the public API.
type HTTPConfig struct {
	CORSOrigins       []string      `envconfig:"CARDAPIO_CORS_ORIGINS" default:"*"`
	SessionRateLimit  int           `envconfig:"CARDAPIO_SESSION_RATE_LIMIT" default:"30"`
	SessionRateWindow time.Duration `envconfig:"CARDAPIO_SESSION_RATE_WINDOW" default:"1m"`
	ShutdownTimeout   time.Duration `envconfig:"CARDAPIO_SHUTDOWN_TIMEOUT" default:"10s"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" || useSQLite {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
