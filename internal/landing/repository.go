package landing

import (
	"context"

	"github.com/angelmondragon/estatedesk-backend/internal/repo"
	"github.com/angelmondragon/estatedesk-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists landing section configuration.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// List returns saved sections ordered by position.
func (r *Repository) List(ctx context.Context) ([]models.LandingSection, error) {
	var rows []models.LandingSection
	if err := r.DB(ctx).Order("position ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SaveAll upserts every section in one transaction.
func (r *Repository) SaveAll(ctx context.Context, rows []models.LandingSection) error {
	return r.Tx(ctx, func(tx repo.Base) error {
		for i := range rows {
			err := tx.DB(ctx).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"position", "is_visible", "heading", "subheading", "selected_items", "updated_at"}),
			}).Create(&rows[i]).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
