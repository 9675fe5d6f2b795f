package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base is embedded by gorm-backed repositories.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx when one is given.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Tx runs fn inside a transaction. fn receives a Base bound to the
// transaction so nested repository calls share it.
func (b Base) Tx(ctx context.Context, fn func(tx Base) error) error {
	return b.DB(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Base{db: tx})
	})
}
