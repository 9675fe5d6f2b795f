package models

import "time"

// PreferenceBlob stores the serialized table preference map under one
// storage key.
type PreferenceBlob struct {
	StorageKey string    `gorm:"column:storage_key;primaryKey"`
	Payload    string    `gorm:"column:payload;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (PreferenceBlob) TableName() string { return "preference_blobs" }
