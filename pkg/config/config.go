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
	Preferences  PreferencesConfig
	Media        MediaConfig
	Table        TableConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Preferences.validate(cfg.Redis); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ESTATEDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"ESTATEDESK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ESTATEDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ESTATEDESK_LOG_WARN_STACK" default:"false"`
	PublicURL    string `envconfig:"ESTATEDESK_PUBLIC_URL" default:"https://your-app.com"`
	CORSOrigins  string `envconfig:"ESTATEDESK_CORS_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// AllowedOrigins splits the comma separated CORS origin list.
func (a AppConfig) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(a.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

type DBConfig struct {
	DSN    string `envconfig:"ESTATEDESK_DB_DSN"`
	Driver string `envconfig:"ESTATEDESK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ESTATEDESK_DB_HOST"`
	LegacyPort     int    `envconfig:"ESTATEDESK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ESTATEDESK_DB_USER"`
	LegacyPassword string `envconfig:"ESTATEDESK_DB_PASSWORD"`
	LegacyName     string `envconfig:"ESTATEDESK_DB_NAME"`
	LegacySSLMode  string `envconfig:"ESTATEDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ESTATEDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ESTATEDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ESTATEDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ESTATEDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

// RedisConfig is optional; an empty URL and address disables redis.
type RedisConfig struct {
	URL          string        `envconfig:"ESTATEDESK_REDIS_URL"`
	Address      string        `envconfig:"ESTATEDESK_REDIS_ADDR"`
	Password     string        `envconfig:"ESTATEDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"ESTATEDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ESTATEDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ESTATEDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ESTATEDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ESTATEDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ESTATEDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

const (
	PreferencesBackendDB     = "db"
	PreferencesBackendRedis  = "redis"
	PreferencesBackendFile   = "file"
	PreferencesBackendMemory = "memory"
)

type PreferencesConfig struct {
	Backend    string `envconfig:"ESTATEDESK_PREFERENCES_BACKEND" default:"db"`
	StorageKey string `envconfig:"ESTATEDESK_PREFERENCES_STORAGE_KEY" default:"table-preferences-storage"`
	FilePath   string `envconfig:"ESTATEDESK_PREFERENCES_FILE" default:"data/table-preferences.json"`
}

func (p *PreferencesConfig) validate(redis RedisConfig) error {
	p.Backend = strings.ToLower(strings.TrimSpace(p.Backend))
	if p.Backend == "" {
		p.Backend = PreferencesBackendDB
	}
	switch p.Backend {
	case PreferencesBackendDB, PreferencesBackendFile, PreferencesBackendMemory:
	case PreferencesBackendRedis:
		if !redis.Enabled() {
			return fmt.Errorf("%s=redis requires %s", EnvPreferencesBackend, EnvRedisURL)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvPreferencesBackend, p.Backend)
	}
	if strings.TrimSpace(p.StorageKey) == "" {
		return fmt.Errorf("%s must not be empty", EnvPreferencesKey)
	}
	if p.Backend == PreferencesBackendFile && strings.TrimSpace(p.FilePath) == "" {
		return fmt.Errorf("%s is required for the file backend", EnvPreferencesFile)
	}
	return nil
}

type MediaConfig struct {
	MaxUploadMB int    `envconfig:"ESTATEDESK_MAX_UPLOAD_MB" default:"5"`
	MaxFiles    int    `envconfig:"ESTATEDESK_MEDIA_MAX_FILES" default:"5"`
	Dir         string `envconfig:"ESTATEDESK_MEDIA_DIR" default:"data/media"`
	PublicPath  string `envconfig:"ESTATEDESK_MEDIA_PUBLIC_PATH" default:"/media"`
}

type TableConfig struct {
	DefaultPageSize int `envconfig:"ESTATEDESK_TABLE_DEFAULT_PAGE_SIZE" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate  bool `envconfig:"ESTATEDESK_AUTO_MIGRATE" default:"false"`
	SeedDemoData bool `envconfig:"ESTATEDESK_SEED_DEMO_DATA" default:"true"`
	Idempotency  bool `envconfig:"ESTATEDESK_IDEMPOTENCY" default:"true"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	if db.IsSQLite() {
		db.DSN = "file:estatedesk.db?cache=shared"
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
