package product

import (
	"context"

	"github.com/angelmondragon/estatedesk-backend/internal/repo"
	"github.com/angelmondragon/estatedesk-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository wraps product persistence.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

// List returns every product, newest id first.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	if err := r.DB(ctx).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID returns gorm.ErrRecordNotFound when the product is missing.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Create(product).Error
}

// Save writes every column of an existing product.
func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Select("name", "slug", "description", "price", "stock").
		Updates(product).Error
}

// Delete removes the product. Deleting a missing id is not an error.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.DB(ctx).Delete(&models.Product{}, "id = ?", id).Error
}
