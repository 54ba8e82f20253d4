package config

const (
	EnvPrefix = "NOTEWELL"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	DevJWTSecret = "notewell-dev-secret"
)

const (
	EnvAppEnv   = "NOTEWELL_APP_ENV"
	EnvPort     = "NOTEWELL_APP_PORT"
	EnvLogLevel = "NOTEWELL_LOG_LEVEL"

	EnvDBDSN             = "NOTEWELL_DB_DSN"
	EnvDBDriver          = "NOTEWELL_DB_DRIVER"
	EnvDBConnectTimeout  = "NOTEWELL_DB_CONNECT_TIMEOUT"
	EnvDBConnectAttempts = "NOTEWELL_DB_CONNECT_ATTEMPTS"
	EnvDBConnectBackoff  = "NOTEWELL_DB_CONNECT_BACKOFF"

	EnvRedisURL = "NOTEWELL_REDIS_URL"

	EnvJWTSecret         = "NOTEWELL_JWT_SECRET"
	EnvJWTIssuer         = "NOTEWELL_JWT_ISSUER"
	EnvSessionTTL        = "NOTEWELL_SESSION_TTL"
	EnvSessionRevocation = "NOTEWELL_SESSION_REVOCATION_ENABLED"

	EnvBcryptCost = "NOTEWELL_BCRYPT_COST"

	EnvOTPTTL      = "NOTEWELL_OTP_TTL"
	EnvOTPRollback = "NOTEWELL_OTP_ROLLBACK_ON_DELIVERY_FAILURE"

	EnvSMTPHost = "NOTEWELL_SMTP_HOST"

	EnvCompletionAPIKey = "NOTEWELL_COMPLETION_API_KEY"
	EnvCompletionModel  = "NOTEWELL_COMPLETION_MODEL"

	EnvAutoMigrate = "NOTEWELL_AUTO_MIGRATE"
)
