package media

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/angelmondragon/estatedesk-backend/internal/crud"
	pkgerrors "github.com/angelmondragon/estatedesk-backend/pkg/errors"
	"github.com/angelmondragon/estatedesk-backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

const (
	msgReplacing  = "Replacing existing file as only one file is allowed."
	msgOnlyOne    = "Only one file is allowed."
	msgMaxFiles   = "You can only upload a maximum of %d files."
	msgTooLarge   = "File %s is larger than %dMB."
	msgNotAllowed = "File %s is not an accepted type."
)

// AddResult lists the items created by Add and the notices to show.
type AddResult struct {
	Added   []Item        `json:"added"`
	Notices []crud.Notice `json:"notices,omitempty"`
}

// Gallery is the ordered media list of one record, split into slots. Among
// image and video items in slots showing the primary option, exactly one is
// primary whenever any exists.
type Gallery struct {
	slots []Slot
	blobs BlobStore
	logg  *logger.Logger
	newID func() string

	mu    sync.Mutex
	items []Item
}

type GalleryOption func(*Gallery)

// WithIDs overrides the item id generator.
func WithIDs(fn func() string) GalleryOption {
	return func(g *Gallery) { g.newID = fn }
}

// NewGallery builds a gallery over existing items. Items without a type get
// one inferred from their URL; items in unknown slots are dropped.
func NewGallery(slots []Slot, items []Item, blobs BlobStore, logg *logger.Logger, opts ...GalleryOption) (*Gallery, error) {
	if len(slots) == 0 {
		return nil, fmt.Errorf("at least one slot required")
	}
	if blobs == nil {
		return nil, fmt.Errorf("blob store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	g := &Gallery{slots: slices.Clone(slots), blobs: blobs, logg: logg, newID: uuid.NewString}
	for _, opt := range opts {
		opt(g)
	}
	for _, item := range items {
		if item.Slot == "" && len(slots) == 1 {
			item.Slot = slots[0].Name
		}
		if _, ok := g.slot(item.Slot); !ok {
			continue
		}
		if item.ID == "" {
			item.ID = g.newID()
		}
		if !item.Type.IsValid() {
			item.Type = TypeFromURL(item.URL)
		}
		if item.Name == "" {
			item.Name = NameFromURL(item.URL)
		}
		item.pending = false
		g.items = append(g.items, item)
	}
	g.normalizePrimary()
	return g, nil
}

func (g *Gallery) slot(name string) (Slot, bool) {
	for _, s := range g.slots {
		if s.Name == name {
			return s, true
		}
	}
	return Slot{}, false
}

func (g *Gallery) Slots() []Slot { return slices.Clone(g.slots) }

func (g *Gallery) eligible(item Item) bool {
	s, ok := g.slot(item.Slot)
	return ok && s.Options.ShowPrimaryOption && item.Type.CanBePrimary()
}

func (g *Gallery) normalizePrimary() {
	first := -1
	for i := range g.items {
		if !g.eligible(g.items[i]) {
			g.items[i].IsPrimary = false
			continue
		}
		if g.items[i].IsPrimary {
			if first >= 0 {
				g.items[i].IsPrimary = false
			} else {
				first = i
			}
		}
	}
	if first >= 0 {
		return
	}
	for i := range g.items {
		if g.eligible(g.items[i]) {
			g.items[i].IsPrimary = true
			return
		}
	}
}

// Items returns every item in display order.
func (g *Gallery) Items() []Item {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.items)
}

func (g *Gallery) ItemsInSlot(name string) []Item {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []Item
	for _, item := range g.items {
		if item.Slot == name {
			out = append(out, item)
		}
	}
	return out
}

// Primary returns the primary item, if any.
func (g *Gallery) Primary() (Item, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, item := range g.items {
		if item.IsPrimary {
			return item, true
		}
	}
	return Item{}, false
}

func (g *Gallery) countInSlot(name string) int {
	n := 0
	for _, item := range g.items {
		if item.Slot == name {
			n++
		}
	}
	return n
}

// Add uploads files into a slot. Files that are too large or of a type the
// slot does not accept are skipped with a notice. Exceeding the slot's file
// limit rejects the whole drop and leaves the gallery unchanged. A single-file
// slot replaces its existing item.
func (g *Gallery) Add(ctx context.Context, slotName string, uploads []Upload) (AddResult, error) {
	s, ok := g.slot(slotName)
	if !ok {
		return AddResult{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("media slot %q not found", slotName))
	}

	var (
		result   AddResult
		accepted []Upload
		types    []string
	)
	for _, u := range uploads {
		if limit := s.Options.maxBytes(); limit > 0 && u.size() > limit {
			result.Notices = append(result.Notices, *crud.Failure(fmt.Sprintf(msgTooLarge, u.Name, s.Options.MaxFileSizeMB)))
			continue
		}
		ct := detectContentType(u)
		if !s.Options.accepts(ct) {
			result.Notices = append(result.Notices, *crud.Failure(fmt.Sprintf(msgNotAllowed, u.Name)))
			continue
		}
		accepted = append(accepted, u)
		types = append(types, ct)
	}
	if len(accepted) == 0 {
		return result, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	existing := g.countInSlot(s.Name)
	replacing := false
	if !s.Options.AllowMultiple {
		if len(accepted) > 1 {
			return AddResult{}, pkgerrors.New(pkgerrors.CodeValidation, msgOnlyOne).WithDetails(map[string]any{"notices": result.Notices})
		}
		replacing = existing > 0
	} else if existing+len(accepted) > s.Options.maxFiles() {
		return AddResult{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf(msgMaxFiles, s.Options.maxFiles())).WithDetails(map[string]any{"notices": result.Notices})
	}

	added := make([]Item, 0, len(accepted))
	for i, u := range accepted {
		blob, err := g.blobs.Put(ctx, u.Name, types[i], u.Data)
		if err != nil {
			cleanup := g.release(ctx, added)
			return AddResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, multierr.Append(err, cleanup), "store upload")
		}
		added = append(added, Item{
			ID:      g.newID(),
			URL:     blob.URL,
			Name:    u.Name,
			Type:    typeFromContentType(types[i]),
			Slot:    s.Name,
			BlobKey: blob.Key,
			pending: true,
		})
	}

	if replacing {
		result.Notices = append([]crud.Notice{*crud.Warning(msgReplacing)}, result.Notices...)
		var superseded []Item
		g.items = slices.DeleteFunc(g.items, func(item Item) bool {
			if item.Slot == s.Name {
				superseded = append(superseded, item)
				return true
			}
			return false
		})
		if err := g.release(ctx, pendingOnly(superseded)); err != nil {
			g.logg.Warn(g.logg.WithFields(ctx, map[string]any{"slot": s.Name, "error": err.Error()}), "media.release_superseded_failed")
		}
	}
	g.items = append(g.items, added...)
	g.normalizePrimary()

	for _, item := range added {
		for _, current := range g.items {
			if current.ID == item.ID {
				result.Added = append(result.Added, current)
			}
		}
	}
	g.logg.Info(g.logg.WithFields(ctx, map[string]any{"slot": s.Name, "added": len(added)}), "media.added")
	return result, nil
}

func pendingOnly(items []Item) []Item {
	var out []Item
	for _, item := range items {
		if item.pending {
			out = append(out, item)
		}
	}
	return out
}

func (g *Gallery) release(ctx context.Context, items []Item) error {
	var errs error
	for _, item := range items {
		if item.BlobKey == "" {
			continue
		}
		errs = multierr.Append(errs, g.blobs.Delete(ctx, item.BlobKey))
	}
	return errs
}

// Remove deletes an item. A removed upload that has not been committed has
// its blob released.
func (g *Gallery) Remove(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := slices.IndexFunc(g.items, func(item Item) bool { return item.ID == id })
	if i < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "media item not found")
	}
	removed := g.items[i]
	g.items = slices.Delete(g.items, i, i+1)
	g.normalizePrimary()
	if removed.pending {
		if err := g.release(ctx, []Item{removed}); err != nil {
			g.logg.Warn(g.logg.WithFields(ctx, map[string]any{"media_id": id, "error": err.Error()}), "media.release_failed")
		}
	}
	return nil
}

// TogglePrimary makes the item the primary one. Selecting the current primary
// keeps it primary.
func (g *Gallery) TogglePrimary(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := slices.IndexFunc(g.items, func(item Item) bool { return item.ID == id })
	if i < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "media item not found")
	}
	if !g.eligible(g.items[i]) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "only images and videos can be primary")
	}
	for j := range g.items {
		g.items[j].IsPrimary = j == i
	}
	return nil
}

// Move places active at the position of over within the same slot. It
// reports false and changes nothing when over is unknown, equal to active or
// in another slot.
func (g *Gallery) Move(activeID, overID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	from := slices.IndexFunc(g.items, func(item Item) bool { return item.ID == activeID })
	to := slices.IndexFunc(g.items, func(item Item) bool { return item.ID == overID })
	if from < 0 || to < 0 || from == to || g.items[from].Slot != g.items[to].Slot {
		return false
	}
	item := g.items[from]
	g.items = slices.Delete(g.items, from, from+1)
	g.items = slices.Insert(g.items, to, item)
	g.normalizePrimary()
	return true
}

// Commit marks every upload as owned by the record and returns the items to
// persist.
func (g *Gallery) Commit() []Item {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.items {
		g.items[i].pending = false
	}
	return slices.Clone(g.items)
}

// Close releases the blobs of uploads that were never committed.
func (g *Gallery) Close(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	pending := pendingOnly(g.items)
	g.items = slices.DeleteFunc(g.items, func(item Item) bool { return item.pending })
	g.normalizePrimary()
	return g.release(ctx, pending)
}

// SlotView describes a slot for the upload control.
type SlotView struct {
	Slot
	Accepts string `json:"accepts"`
	Items   []Item `json:"items"`
	Full    bool   `json:"full"`
}

func (g *Gallery) View() []SlotView {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]SlotView, 0, len(g.slots))
	for _, s := range g.slots {
		v := SlotView{Slot: s, Accepts: describeTypes(s.Options.AllowedTypes), Items: []Item{}}
		for _, item := range g.items {
			if item.Slot == s.Name {
				v.Items = append(v.Items, item)
			}
		}
		v.Full = s.Options.AllowMultiple && len(v.Items) >= s.Options.maxFiles()
		out = append(out, v)
	}
	return out
}
