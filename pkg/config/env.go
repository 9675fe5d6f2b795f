package config

const (
	EnvPrefix = "ESTATEDESK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv = "ESTATEDESK_APP_ENV"
	EnvPort   = "ESTATEDESK_APP_PORT"

	EnvDBDSN    = "ESTATEDESK_DB_DSN"
	EnvDBDriver = "ESTATEDESK_DB_DRIVER"
	EnvDBHost   = "ESTATEDESK_DB_HOST"
	EnvDBUser   = "ESTATEDESK_DB_USER"
	EnvDBName   = "ESTATEDESK_DB_NAME"

	EnvRedisURL = "ESTATEDESK_REDIS_URL"

	EnvPreferencesBackend = "ESTATEDESK_PREFERENCES_BACKEND"
	EnvPreferencesKey     = "ESTATEDESK_PREFERENCES_STORAGE_KEY"
	EnvPreferencesFile    = "ESTATEDESK_PREFERENCES_FILE"

	EnvMediaMaxUploadMB = "ESTATEDESK_MAX_UPLOAD_MB"
	EnvMediaDir         = "ESTATEDESK_MEDIA_DIR"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
