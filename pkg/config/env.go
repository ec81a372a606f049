package config

// EnvPrefix is the envconfig prefix shared by every binary.
const EnvPrefix = "BEBIDAS"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Env var names referenced outside struct tags (error messages, tests).
const (
	EnvAppEnv                 = "BEBIDAS_APP_ENV"
	EnvPort                   = "BEBIDAS_APP_PORT"
	EnvDBDSN                  = "BEBIDAS_DB_DSN"
	EnvDBHost                 = "BEBIDAS_DB_HOST"
	EnvDBUser                 = "BEBIDAS_DB_USER"
	EnvDBName                 = "BEBIDAS_DB_NAME"
	EnvRedisURL               = "BEBIDAS_REDIS_URL"
	EnvJWTSecret              = "BEBIDAS_JWT_SECRET"
	EnvJWTIssuer              = "BEBIDAS_JWT_ISSUER"
	EnvJWTExpMins             = "BEBIDAS_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "BEBIDAS_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
