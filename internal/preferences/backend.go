package preferences

import (
	"fmt"

	"github.com/angelmondragon/estatedesk-backend/pkg/config"
	"github.com/angelmondragon/estatedesk-backend/pkg/redis"
	"gorm.io/gorm"
)

// BackendFor builds the durable backend selected by configuration.
func BackendFor(cfg config.PreferencesConfig, db *gorm.DB, rdb *redis.Client) (Backend, error) {
	switch cfg.Backend {
	case config.PreferencesBackendDB, "":
		return NewDBBackend(db)
	case config.PreferencesBackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis backend selected without a redis client")
		}
		return NewRedisBackend(rdb)
	case config.PreferencesBackendFile:
		return NewFileBackend(cfg.FilePath)
	case config.PreferencesBackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unsupported preferences backend %q", cfg.Backend)
	}
}
