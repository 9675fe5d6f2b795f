package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/estatedesk-backend/pkg/db"
	"github.com/angelmondragon/estatedesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/estatedesk-backend/pkg/errors"
	"github.com/angelmondragon/estatedesk-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	msgNotFound       = "Product not found"
	msgNameSlug       = "name and slug required"
	msgInsertFailed   = "Insert failed"
	msgDuplicatedSlug = "slug already exists"
)

// Service exposes the public products catalogue.
type Service interface {
	ListProducts(ctx context.Context) ([]ProductSummaryDTO, error)
	GetProduct(ctx context.Context, id uint) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uint, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uint) error
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	logg     *logger.Logger
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *db.Client, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, dbClient: dbClient, logg: logg}, nil
}

func (s *service) ListProducts(ctx context.Context) ([]ProductSummaryDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return toSummaries(rows), nil
}

func (s *service) GetProduct(ctx context.Context, id uint) (*ProductDTO, error) {
	product, err := s.find(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return toDTO(product), nil
}

// CreateProduct inserts a product. Price and stock default to zero.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	slug := strings.TrimSpace(input.Slug)
	if name == "" || slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgNameSlug)
	}

	product := &models.Product{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		Price:       decimal.Zero,
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, msgInsertFailed).
				WithDetails(map[string]any{"detail": msgDuplicatedSlug})
		}
		s.logg.Error(s.logg.WithField(ctx, "slug", slug), "product.create.failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, msgInsertFailed).
			WithDetails(map[string]any{"detail": err.Error()})
	}

	// Reload so database defaults such as created_at come back as stored.
	created, err := s.find(ctx, s.repo, product.ID)
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", created.ID), "product.created")
	return toDTO(created), nil
}

// UpdateProduct applies a partial update. Keys absent from the input keep
// their stored value.
func (s *service) UpdateProduct(ctx context.Context, id uint, input UpdateProductInput) (*ProductDTO, error) {
	var updated *models.Product
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		product, err := s.find(ctx, txRepo, id)
		if err != nil {
			return err
		}

		if input.Name != nil {
			product.Name = *input.Name
		}
		if input.Slug != nil {
			product.Slug = *input.Slug
		}
		if input.HasDescription {
			product.Description = input.Description
		}
		if input.Price != nil {
			product.Price = *input.Price
		}
		if input.Stock != nil {
			product.Stock = *input.Stock
		}

		if err := txRepo.Save(ctx, product); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msgDuplicatedSlug)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", id), "product.updated")
	return toDTO(updated), nil
}

func (s *service) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", id), "product.deleted")
	return nil
}

func (s *service) find(ctx context.Context, repo *Repository, id uint) (*models.Product, error) {
	product, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return product, nil
}
