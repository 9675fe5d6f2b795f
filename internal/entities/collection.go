package entities

import (
	"context"
	"fmt"

	"github.com/angelmondragon/estatedesk-backend/internal/crud"
	"github.com/angelmondragon/estatedesk-backend/internal/table"
)

// Row is an entity that can also be rendered by the generic table.
type Row[T any] interface {
	Entity[T]
	table.Record
}

// Codec maps a record to and from panel form values.
type Codec[T any] struct {
	Values func(item T) crud.Values
	// Apply copies form values onto item. Fields not present in the form
	// must be left alone.
	Apply func(item *T, values crud.Values)
}

// Collection exposes a Store as a crud.Backend.
type Collection[T any, PT Row[T]] struct {
	store *Store[T, PT]
	codec Codec[T]
}

func NewCollection[T any, PT Row[T]](store *Store[T, PT], codec Codec[T]) (*Collection[T, PT], error) {
	if store == nil {
		return nil, fmt.Errorf("entity store required")
	}
	if codec.Values == nil || codec.Apply == nil {
		return nil, fmt.Errorf("%s codec incomplete", store.Name())
	}
	return &Collection[T, PT]{store: store, codec: codec}, nil
}

func (c *Collection[T, PT]) Store() *Store[T, PT] { return c.store }

func (c *Collection[T, PT]) Records(context.Context) []table.Record {
	items := c.store.List()
	out := make([]table.Record, len(items))
	for i := range items {
		out[i] = PT(&items[i])
	}
	return out
}

func (c *Collection[T, PT]) Find(_ context.Context, id string) (table.Record, crud.Values, error) {
	item, err := c.store.Get(id)
	if err != nil {
		return nil, nil, err
	}
	return PT(&item), c.codec.Values(item), nil
}

func (c *Collection[T, PT]) Add(_ context.Context, id string, values crud.Values) (table.Record, error) {
	var item T
	c.codec.Apply(&item, values)
	PT(&item).EntityMeta().ID = id
	added, err := c.store.Add(item)
	if err != nil {
		return nil, err
	}
	return PT(&added), nil
}

func (c *Collection[T, PT]) Edit(_ context.Context, id string, values crud.Values) (table.Record, error) {
	edited, err := c.store.Update(id, func(item *T) {
		c.codec.Apply(item, values)
	})
	if err != nil {
		return nil, err
	}
	return PT(&edited), nil
}

func (c *Collection[T, PT]) Delete(_ context.Context, id string) error {
	return c.store.Delete(id)
}

func (c *Collection[T, PT]) DeleteMany(_ context.Context, ids []string) (int, error) {
	return c.store.DeleteMany(ids), nil
}
