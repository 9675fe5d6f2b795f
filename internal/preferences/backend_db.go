package preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/estatedesk-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBBackend stores the blob in the preference_blobs table, one row per
// storage key.
type DBBackend struct {
	db *gorm.DB
}

func NewDBBackend(db *gorm.DB) (*DBBackend, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &DBBackend{db: db}, nil
}

func (b *DBBackend) Load(ctx context.Context, storageKey string) ([]byte, error) {
	var row models.PreferenceBlob
	err := b.db.WithContext(ctx).Where("storage_key = ?", storageKey).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load preference blob: %w", err)
	}
	return []byte(row.Payload), nil
}

func (b *DBBackend) Save(ctx context.Context, storageKey string, payload []byte) error {
	row := models.PreferenceBlob{StorageKey: storageKey, Payload: string(payload)}
	err := b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save preference blob: %w", err)
	}
	return nil
}
