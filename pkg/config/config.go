package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cart          CartConfig
	Checkout      CheckoutConfig
	Catalog       CatalogConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BEBIDAS_APP_ENV" required:"true"`
	Port         string `envconfig:"BEBIDAS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BEBIDAS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BEBIDAS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"BEBIDAS_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"BEBIDAS_DB_DSN"`
	Driver string `envconfig:"BEBIDAS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BEBIDAS_DB_HOST"`
	LegacyPort     int    `envconfig:"BEBIDAS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BEBIDAS_DB_USER"`
	LegacyPassword string `envconfig:"BEBIDAS_DB_PASSWORD"`
	LegacyName     string `envconfig:"BEBIDAS_DB_NAME"`
	LegacySSLMode  string `envconfig:"BEBIDAS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BEBIDAS_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"BEBIDAS_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"BEBIDAS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BEBIDAS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BEBIDAS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BEBIDAS_REDIS_ADDR"`
	Password     string        `envconfig:"BEBIDAS_REDIS_PASSWORD"`
	DB           int           `envconfig:"BEBIDAS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BEBIDAS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BEBIDAS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BEBIDAS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BEBIDAS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BEBIDAS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"BEBIDAS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"BEBIDAS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"BEBIDAS_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"BEBIDAS_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BEBIDAS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BEBIDAS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BEBIDAS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BEBIDAS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BEBIDAS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"BEBIDAS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"BEBIDAS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"BEBIDAS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BEBIDAS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BEBIDAS_AUTO_MIGRATE" default:"false"`
}

type CartConfig struct {
	SessionTTL    time.Duration `envconfig:"BEBIDAS_CART_SESSION_TTL" default:"12h"`
	SweepInterval time.Duration `envconfig:"BEBIDAS_CART_SWEEP_INTERVAL" default:"10m"`
}

type CheckoutConfig struct {
	HandoffBaseURL   string `envconfig:"BEBIDAS_CHECKOUT_HANDOFF_BASE_URL" default:"https://api.whatsapp.com/send"`
	DefaultPhone     string `envconfig:"BEBIDAS_CHECKOUT_DEFAULT_PHONE" default:"5511999999999"`
	StoreDisplayName string `envconfig:"BEBIDAS_CHECKOUT_STORE_NAME" default:"MR Bebidas"`
}

type CatalogConfig struct {
	DefaultLogoURL string `envconfig:"BEBIDAS_CATALOG_DEFAULT_LOGO_URL"`
	ChangeChannel  string `envconfig:"BEBIDAS_CATALOG_CHANGE_CHANNEL" default:"mrb:catalog:changed"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"BEBIDAS_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"BEBIDAS_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"BEBIDAS_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	CatalogTopic        string `envconfig:"BEBIDAS_PUBSUB_CATALOG_TOPIC" default:"mrb-catalog-events"`
	CatalogSubscription string `envconfig:"BEBIDAS_PUBSUB_CATALOG_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"BEBIDAS_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"BEBIDAS_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"BEBIDAS_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
