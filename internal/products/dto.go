package product

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/angelmondragon/estatedesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/estatedesk-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// ProductDTO is the wire shape of a single product.
type ProductDTO struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ProductSummaryDTO is the list row. Descriptions are only served on detail reads.
type ProductSummaryDTO struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
}

func toDTO(p *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
	}
}

func toSummaries(rows []models.Product) []ProductSummaryDTO {
	out := make([]ProductSummaryDTO, 0, len(rows))
	for _, p := range rows {
		out = append(out, ProductSummaryDTO{
			ID:        p.ID,
			Name:      p.Name,
			Slug:      p.Slug,
			Price:     p.Price,
			Stock:     p.Stock,
			CreatedAt: p.CreatedAt,
		})
	}
	return out
}

// CreateProductInput holds the payload to create a product.
type CreateProductInput struct {
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
}

// UpdateProductInput holds optional values for a partial update.
// Description distinguishes an explicit null from an absent key.
type UpdateProductInput struct {
	Name           *string
	Slug           *string
	Description    *string
	HasDescription bool
	Price          *decimal.Decimal
	Stock          *int
}

// ParseUpdateInput decodes a partial update body. Unknown keys are ignored.
// An empty or non-object body updates nothing.
func ParseUpdateInput(body []byte) (UpdateProductInput, error) {
	var input UpdateProductInput
	if len(bytes.TrimSpace(body)) == 0 {
		return input, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return input, nil
	}

	decode := func(key string, dst any) error {
		msg, ok := raw[key]
		if !ok || isNull(msg) {
			return nil
		}
		if err := json.Unmarshal(msg, dst); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+key)
		}
		return nil
	}

	if err := decode("name", &input.Name); err != nil {
		return input, err
	}
	if err := decode("slug", &input.Slug); err != nil {
		return input, err
	}
	if err := decode("price", &input.Price); err != nil {
		return input, err
	}
	if err := decode("stock", &input.Stock); err != nil {
		return input, err
	}
	if _, ok := raw["description"]; ok {
		input.HasDescription = true
		if err := decode("description", &input.Description); err != nil {
			return input, err
		}
	}
	return input, nil
}

func isNull(msg json.RawMessage) bool {
	return strings.TrimSpace(string(msg)) == "null"
}
