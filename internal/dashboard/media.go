package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/angelmondragon/estatedesk-backend/internal/catalog"
	"github.com/angelmondragon/estatedesk-backend/internal/media"
	pkgerrors "github.com/angelmondragon/estatedesk-backend/pkg/errors"
	"github.com/angelmondragon/estatedesk-backend/pkg/logger"
	"go.uber.org/multierr"
)

// mediaOwner loads and stores the gallery items of one entity type.
type mediaOwner struct {
	slots []media.Slot
	load  func(id string) ([]media.Item, error)
	save  func(id string, items []media.Item) error
}

// MediaService edits the galleries of properties and maps. Every change is
// written back to the owning record, refreshing its timestamp.
type MediaService struct {
	owners map[string]mediaOwner
	blobs  media.BlobStore
	logg   *logger.Logger
	opts   []media.GalleryOption

	mu sync.Mutex
}

func NewMediaService(cat *catalog.Catalog, blobs media.BlobStore, logg *logger.Logger, opts ...media.GalleryOption) (*MediaService, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if blobs == nil {
		return nil, fmt.Errorf("blob store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	owners := map[string]mediaOwner{
		"properties": {
			slots: media.PropertySlots(),
			load: func(id string) ([]media.Item, error) {
				p, err := cat.Properties.Get(id)
				return p.Media, err
			},
			save: func(id string, items []media.Item) error {
				_, err := cat.Properties.Update(id, func(p *catalog.Property) { p.Media = items })
				return err
			},
		},
		"maps": {
			slots: media.MapSlots(),
			load: func(id string) ([]media.Item, error) {
				m, err := cat.Maps.Get(id)
				return m.Media, err
			},
			save: func(id string, items []media.Item) error {
				_, err := cat.Maps.Update(id, func(m *catalog.Map) { m.Media = items })
				return err
			},
		},
	}
	return &MediaService{owners: owners, blobs: blobs, logg: logg, opts: opts}, nil
}

func (s *MediaService) owner(entity string) (mediaOwner, error) {
	o, ok := s.owners[entity]
	if !ok {
		return mediaOwner{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s have no media", entity))
	}
	return o, nil
}

// withGallery opens the record's gallery, applies fn and persists the result
// when fn reports a change.
func (s *MediaService) withGallery(ctx context.Context, entity, id string, fn func(g *media.Gallery) (bool, error)) (*media.Gallery, error) {
	o, err := s.owner(entity)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := o.load(id)
	if err != nil {
		return nil, err
	}
	g, err := media.NewGallery(o.slots, items, s.blobs, s.logg, s.opts...)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open gallery")
	}
	changed, err := fn(g)
	if err != nil {
		return nil, multierr.Append(err, g.Close(ctx))
	}
	if !changed {
		return g, nil
	}
	committed := g.Commit()
	if err := o.save(id, committed); err != nil {
		if cerr := s.releaseOrphans(ctx, committed, items); cerr != nil {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"record_id": id, "error": cerr.Error()}), "gallery upload cleanup failed")
		}
		return nil, err
	}
	if err := s.releaseOrphans(ctx, items, committed); err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"record_id": id, "error": err.Error()}), "gallery blob cleanup failed")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"entity": entity, "record_id": id}), "gallery saved")
	return g, nil
}

// View returns the slots and items of a record's gallery.
func (s *MediaService) View(ctx context.Context, entity, id string) ([]media.SlotView, error) {
	g, err := s.withGallery(ctx, entity, id, func(*media.Gallery) (bool, error) { return false, nil })
	if err != nil {
		return nil, err
	}
	return g.View(), nil
}

func (s *MediaService) Upload(ctx context.Context, entity, id, slot string, uploads []media.Upload) (media.AddResult, []media.SlotView, error) {
	var result media.AddResult
	g, err := s.withGallery(ctx, entity, id, func(g *media.Gallery) (bool, error) {
		var err error
		result, err = g.Add(ctx, slot, uploads)
		return len(result.Added) > 0, err
	})
	if err != nil {
		return media.AddResult{}, nil, err
	}
	return result, g.View(), nil
}

func (s *MediaService) Remove(ctx context.Context, entity, id, itemID string) ([]media.SlotView, error) {
	g, err := s.withGallery(ctx, entity, id, func(g *media.Gallery) (bool, error) {
		return true, g.Remove(ctx, itemID)
	})
	if err != nil {
		return nil, err
	}
	return g.View(), nil
}

func (s *MediaService) TogglePrimary(ctx context.Context, entity, id, itemID string) ([]media.SlotView, error) {
	g, err := s.withGallery(ctx, entity, id, func(g *media.Gallery) (bool, error) {
		return true, g.TogglePrimary(itemID)
	})
	if err != nil {
		return nil, err
	}
	return g.View(), nil
}

// Move reorders an item. An invalid target leaves the record untouched.
func (s *MediaService) Move(ctx context.Context, entity, id, activeID, overID string) ([]media.SlotView, error) {
	g, err := s.withGallery(ctx, entity, id, func(g *media.Gallery) (bool, error) {
		return g.Move(activeID, overID), nil
	})
	if err != nil {
		return nil, err
	}
	return g.View(), nil
}

// releaseOrphans deletes the blobs of stored items no longer in the gallery.
func (s *MediaService) releaseOrphans(ctx context.Context, before, after []media.Item) error {
	kept := make(map[string]struct{}, len(after))
	for _, item := range after {
		kept[item.ID] = struct{}{}
	}
	var errs error
	for _, item := range before {
		if _, ok := kept[item.ID]; ok || item.BlobKey == "" {
			continue
		}
		errs = multierr.Append(errs, s.blobs.Delete(ctx, item.BlobKey))
	}
	return errs
}
