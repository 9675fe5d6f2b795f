package table

import (
	"context"

	"github.com/angelmondragon/estatedesk-backend/internal/preferences"
)

// pruneSelection drops ids no longer present in rows. Callers hold t.mu.
func (t *Table) pruneSelection(rows []Record) bool {
	if len(t.selection) == 0 {
		return false
	}
	present := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		present[r.GetID()] = struct{}{}
	}
	pruned := false
	for id := range t.selection {
		if _, ok := present[id]; !ok {
			delete(t.selection, id)
			pruned = true
		}
	}
	return pruned
}

// ToggleRow flips the selection of one row.
func (t *Table) ToggleRow(ctx context.Context, rows []Record, id string) (View, error) {
	return t.changeSelection(ctx, rows, func(_ pipeline) {
		for _, r := range rows {
			if r.GetID() != id {
				continue
			}
			if _, ok := t.selection[id]; ok {
				delete(t.selection, id)
			} else {
				t.selection[id] = struct{}{}
			}
			return
		}
	})
}

// SelectPage selects or clears every row on the current page.
func (t *Table) SelectPage(ctx context.Context, rows []Record, selected bool) (View, error) {
	return t.changeSelection(ctx, rows, func(p pipeline) {
		for _, r := range p.filtered[p.start:p.end] {
			if selected {
				t.selection[r.GetID()] = struct{}{}
			} else {
				delete(t.selection, r.GetID())
			}
		}
	})
}

// SelectAllFiltered selects every row that passes the current filters.
func (t *Table) SelectAllFiltered(ctx context.Context, rows []Record) (View, error) {
	return t.changeSelection(ctx, rows, func(p pipeline) {
		for _, r := range p.filtered {
			t.selection[r.GetID()] = struct{}{}
		}
	})
}

func (t *Table) ClearSelection(ctx context.Context, rows []Record) (View, error) {
	return t.changeSelection(ctx, rows, func(pipeline) {
		clear(t.selection)
	})
}

// Selected returns the selected records that pass the current filters, in
// display order.
func (t *Table) Selected(ctx context.Context, rows []Record) ([]Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pruneSelection(rows)
	p, err := t.run(ctx, rows)
	if err != nil {
		return nil, err
	}
	return t.selectedFrom(p.filtered), nil
}

func (t *Table) selectedFrom(filtered []Record) []Record {
	var out []Record
	for _, r := range filtered {
		if _, ok := t.selection[r.GetID()]; ok {
			out = append(out, r)
		}
	}
	return out
}

func (t *Table) changeSelection(ctx context.Context, rows []Record, fn func(pipeline)) (View, error) {
	if !t.prefs.Hydrated() {
		return View{Key: t.key, Loading: true, Message: preferences.LoadingMessage}, nil
	}
	t.mu.Lock()
	t.pruneSelection(rows)
	p, err := t.run(ctx, rows)
	if err != nil {
		t.mu.Unlock()
		return View{}, err
	}
	fn(p)
	view, _, err := t.render(ctx, rows)
	t.mu.Unlock()
	if err != nil {
		return View{}, err
	}
	t.notify(ctx, rows, view)
	return view, nil
}

func (t *Table) notify(ctx context.Context, rows []Record, view View) {
	if t.onSelection == nil {
		return
	}
	t.mu.Lock()
	p, err := t.run(ctx, rows)
	var selected []Record
	if err == nil {
		selected = t.selectedFrom(p.filtered)
	}
	t.mu.Unlock()
	if err != nil {
		t.logg.Warn(t.logg.WithField(t.ctx(ctx), "error", err.Error()), "table.selection_notify_failed")
		return
	}
	t.onSelection(ctx, selected, view)
}
