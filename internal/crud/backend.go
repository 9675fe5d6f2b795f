package crud

import (
	"context"

	"github.com/angelmondragon/estatedesk-backend/internal/table"
)

// Backend is the record collection a CRUD table edits.
type Backend interface {
	Records(ctx context.Context) []table.Record
	Find(ctx context.Context, id string) (table.Record, Values, error)
	Add(ctx context.Context, id string, values Values) (table.Record, error)
	Edit(ctx context.Context, id string, values Values) (table.Record, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int, error)
}
