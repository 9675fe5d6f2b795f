package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a row of the public products catalogue served by the legacy
// REST boundary.
type Product struct {
	ID          uint            `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string          `gorm:"column:name;not null"`
	Slug        string          `gorm:"column:slug;not null;uniqueIndex:products_slug_key"`
	Description *string         `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null;default:0"`
	Stock       int             `gorm:"column:stock;not null;default:0"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Product) TableName() string { return "products" }
