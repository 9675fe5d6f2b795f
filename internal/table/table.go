package table

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/angelmondragon/estatedesk-backend/internal/preferences"
	"github.com/angelmondragon/estatedesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/estatedesk-backend/pkg/errors"
	"github.com/angelmondragon/estatedesk-backend/pkg/logger"
	"github.com/angelmondragon/estatedesk-backend/pkg/pagination"
)

// SelectionFunc receives the selected records that pass the current filters
// and the view they were selected from.
type SelectionFunc func(ctx context.Context, selected []Record, view View)

type Options struct {
	// Key is the preference key, usually preferences.KeyFor(routePath).
	Key               string
	Columns           []Column
	OnSelectionChange SelectionFunc
}

// Table holds the per-view UI state that is not persisted (selection and
// filters) and reads the persisted layout from the preference store.
type Table struct {
	key     string
	columns []Column
	prefs   *preferences.Store
	logg    *logger.Logger

	mu            sync.Mutex
	selection     map[string]struct{}
	globalFilter  string
	columnFilters map[string]string
	onSelection   SelectionFunc
}

func New(prefs *preferences.Store, logg *logger.Logger, opts Options) (*Table, error) {
	if prefs == nil {
		return nil, fmt.Errorf("preference store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(opts.Key) == "" {
		return nil, fmt.Errorf("preference key required")
	}

	columns := []Column{selectColumn()}
	seen := map[string]bool{SelectColumnID: true}
	for _, c := range opts.Columns {
		if c.Kind == KindSelect {
			continue
		}
		if c.ID == "" || seen[c.ID] {
			return nil, fmt.Errorf("column id %q is empty or duplicated", c.ID)
		}
		if c.Kind == KindActions || c.Kind == KindIndex {
			c.Hideable = false
			c.Sortable = false
		}
		seen[c.ID] = true
		columns = append(columns, c)
	}

	return &Table{
		key:           opts.Key,
		columns:       columns,
		prefs:         prefs,
		logg:          logg,
		selection:     map[string]struct{}{},
		columnFilters: map[string]string{},
		onSelection:   opts.OnSelectionChange,
	}, nil
}

func (t *Table) Key() string { return t.key }

// Columns returns the descriptors including the synthetic select column.
func (t *Table) Columns() []Column {
	return slices.Clone(t.columns)
}

func (t *Table) column(id string) (Column, bool) {
	for _, c := range t.columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

func (t *Table) ctx(ctx context.Context) context.Context {
	return t.logg.WithView(ctx, t.key)
}

// Render produces the current page. Before the preference store hydrates it
// returns a loading view and touches no state.
func (t *Table) Render(ctx context.Context, rows []Record) (View, error) {
	if !t.prefs.Hydrated() {
		return View{Key: t.key, Loading: true, Message: preferences.LoadingMessage}, nil
	}

	t.mu.Lock()
	view, pruned, err := t.render(ctx, rows)
	t.mu.Unlock()
	if err != nil {
		return View{}, err
	}
	if pruned {
		t.notify(ctx, rows, view)
	}
	return view, nil
}

type pipeline struct {
	prefs    preferences.ViewPreferences
	ordered  []Record
	filtered []Record
	page     pagination.Params
	start    int
	end      int
}

func (t *Table) run(ctx context.Context, rows []Record) (pipeline, error) {
	prefs, err := t.prefs.Get(t.key)
	if err != nil {
		return pipeline{}, err
	}

	p := pipeline{prefs: prefs}
	p.ordered = applyRowOrder(rows, prefs.RowOrder)
	p.filtered = t.filter(p.ordered, prefs)
	t.sort(p.filtered, prefs.Sorting)

	requested := pagination.Params{PageIndex: prefs.Pagination.PageIndex, PageSize: prefs.Pagination.PageSize}
	p.page = pagination.Clamp(requested, len(p.filtered))
	if p.page != requested {
		clamped := preferences.Pagination{PageIndex: p.page.PageIndex, PageSize: p.page.PageSize}
		if err := t.prefs.Set(ctx, t.key, preferences.FieldPagination, clamped); err != nil {
			return pipeline{}, err
		}
		t.logg.Debug(t.logg.WithField(t.ctx(ctx), "page_index", p.page.PageIndex), "table.page_clamped")
	}
	p.start, p.end = pagination.Bounds(p.page, len(p.filtered))
	return p, nil
}

func (t *Table) render(ctx context.Context, rows []Record) (View, bool, error) {
	pruned := t.pruneSelection(rows)

	p, err := t.run(ctx, rows)
	if err != nil {
		return View{}, false, err
	}

	positions := make(map[string]int, len(p.ordered))
	for i, r := range p.ordered {
		positions[r.GetID()] = i
	}

	view := View{
		Key:          t.key,
		Sorting:      p.prefs.Sorting,
		GlobalFilter: t.globalFilter,
		PageIndex:    p.page.PageIndex,
		PageSize:     p.page.PageSize,
		PageCount:    pagination.PageCount(len(p.filtered), p.page.PageSize),
		PageSizes:    slices.Clone(pagination.PageSizes),
		TotalRows:    len(rows),
		FilteredRows: len(p.filtered),
	}
	view.CanPrev = view.PageIndex > 0
	view.CanNext = view.PageIndex < view.PageCount-1

	sortState := map[string]string{}
	for _, rule := range p.prefs.Sorting {
		sortState[rule.ColumnID] = string(rule.Direction)
	}
	var visible []Column
	for _, c := range t.columns {
		isVisible := !c.Hideable || p.prefs.IsColumnVisible(c.ID)
		view.Columns = append(view.Columns, ColumnView{Column: c, Visible: isVisible, SortState: sortState[c.ID]})
		if isVisible {
			visible = append(visible, c)
		}
	}

	page := p.filtered[p.start:p.end]
	view.AllPageSelected = len(page) > 0
	for _, r := range page {
		_, selected := t.selection[r.GetID()]
		if !selected {
			view.AllPageSelected = false
		}
		row := Row{ID: r.GetID(), Index: positions[r.GetID()] + 1, Selected: selected}
		if h, ok := r.(Highlighter); ok {
			row.Highlighted = h.Highlighted()
		}
		for _, c := range visible {
			row.Cells = append(row.Cells, cellFor(c, r, row))
		}
		view.Rows = append(view.Rows, row)
	}
	if len(view.Rows) == 0 {
		view.Message = EmptyMessage
	}

	for _, r := range p.filtered {
		if _, ok := t.selection[r.GetID()]; ok {
			view.SelectedCount++
		}
	}
	return view, pruned, nil
}

func cellFor(c Column, r Record, row Row) Cell {
	switch c.Kind {
	case KindSelect:
		return Cell{ColumnID: c.ID, Value: row.Selected, Display: strconv.FormatBool(row.Selected)}
	case KindIndex:
		return Cell{ColumnID: c.ID, Value: row.Index, Display: strconv.Itoa(row.Index)}
	case KindActions:
		return Cell{ColumnID: c.ID}
	}
	value, _ := r.Field(c.Accessor)
	return Cell{ColumnID: c.ID, Value: value, Display: Format(value, c.Renderer)}
}

// applyRowOrder moves rows named in order to the front, in that order.
// Unknown ids are ignored and unlisted rows keep their relative order.
func applyRowOrder(rows []Record, order []string) []Record {
	out := make([]Record, 0, len(rows))
	if len(order) == 0 {
		return append(out, rows...)
	}
	byID := make(map[string]Record, len(rows))
	for _, r := range rows {
		byID[r.GetID()] = r
	}
	placed := map[string]bool{}
	for _, id := range order {
		if r, ok := byID[id]; ok && !placed[id] {
			out = append(out, r)
			placed[id] = true
		}
	}
	for _, r := range rows {
		if !placed[r.GetID()] {
			out = append(out, r)
		}
	}
	return out
}

func (t *Table) filter(rows []Record, prefs preferences.ViewPreferences) []Record {
	global := strings.ToLower(strings.TrimSpace(t.globalFilter))
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		if global != "" && !t.matchesGlobal(r, global, prefs) {
			continue
		}
		if !t.matchesColumns(r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (t *Table) matchesGlobal(r Record, needle string, prefs preferences.ViewPreferences) bool {
	for _, c := range t.columns {
		if !c.HasAccessor() || (c.Hideable && !prefs.IsColumnVisible(c.ID)) {
			continue
		}
		value, _ := r.Field(c.Accessor)
		if strings.Contains(strings.ToLower(Format(value, c.Renderer)), needle) {
			return true
		}
	}
	return false
}

func (t *Table) matchesColumns(r Record) bool {
	for id, needle := range t.columnFilters {
		c, ok := t.column(id)
		if !ok {
			continue
		}
		value, _ := r.Field(c.Accessor)
		if !strings.Contains(strings.ToLower(Format(value, c.Renderer)), strings.ToLower(needle)) {
			return false
		}
	}
	return true
}

func (t *Table) sort(rows []Record, rules []preferences.SortRule) {
	if len(rules) == 0 {
		return
	}
	slices.SortStableFunc(rows, func(a, b Record) int {
		for _, rule := range rules {
			c, ok := t.column(rule.ColumnID)
			if !ok || !c.HasAccessor() {
				continue
			}
			av, aok := a.Field(c.Accessor)
			bv, bok := b.Field(c.Accessor)
			aEmpty, bEmpty := isEmpty(av, aok), isEmpty(bv, bok)
			switch {
			case aEmpty && bEmpty:
				continue
			case aEmpty:
				return 1
			case bEmpty:
				return -1
			}
			cmp := compareValues(av, bv, c.SortType)
			if rule.Direction == enums.SortDirectionDesc {
				cmp = -cmp
			}
			if cmp != 0 {
				return cmp
			}
		}
		return 0
	})
}

// CycleSort advances a column through unsorted, ascending and descending.
// Without multi the column replaces any other active rule.
func (t *Table) CycleSort(ctx context.Context, columnID string, multi bool) ([]preferences.SortRule, error) {
	c, ok := t.column(columnID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("column %q not found", columnID))
	}
	if !c.Sortable {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("column %q is not sortable", columnID))
	}
	prefs, err := t.prefs.Get(t.key)
	if err != nil {
		return nil, err
	}

	var current enums.SortDirection
	for _, rule := range prefs.Sorting {
		if rule.ColumnID == columnID {
			current = rule.Direction
		}
	}

	next := current.Toggle()
	rules := []preferences.SortRule{}
	if multi {
		rules = append(rules, prefs.Sorting...)
		idx := slices.IndexFunc(rules, func(r preferences.SortRule) bool { return r.ColumnID == columnID })
		switch {
		case next == "" && idx >= 0:
			rules = slices.Delete(rules, idx, idx+1)
		case idx >= 0:
			rules[idx].Direction = next
		default:
			rules = append(rules, preferences.SortRule{ColumnID: columnID, Direction: next})
		}
	} else if next != "" {
		rules = append(rules, preferences.SortRule{ColumnID: columnID, Direction: next})
	}

	if err := t.prefs.Set(ctx, t.key, preferences.FieldSorting, rules); err != nil {
		return nil, err
	}
	t.logg.Debug(t.logg.WithFields(t.ctx(ctx), map[string]any{"column": columnID, "direction": string(next)}), "table.sort_changed")
	return rules, nil
}

// SetSorting replaces the sort rules after checking every column is sortable.
func (t *Table) SetSorting(ctx context.Context, rules []preferences.SortRule) error {
	for _, rule := range rules {
		c, ok := t.column(rule.ColumnID)
		if !ok || !c.Sortable {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("column %q is not sortable", rule.ColumnID))
		}
	}
	if rules == nil {
		rules = []preferences.SortRule{}
	}
	return t.prefs.Set(ctx, t.key, preferences.FieldSorting, rules)
}

// SetPageIndex stores the requested page; Render clamps it against the data.
func (t *Table) SetPageIndex(ctx context.Context, pageIndex int) error {
	prefs, err := t.prefs.Get(t.key)
	if err != nil {
		return err
	}
	if pageIndex < 0 {
		pageIndex = 0
	}
	next := prefs.Pagination
	next.PageIndex = pageIndex
	return t.prefs.Set(ctx, t.key, preferences.FieldPagination, next)
}

// SetPageSize switches page size keeping the first row of the current page
// on screen.
func (t *Table) SetPageSize(ctx context.Context, pageSize int) error {
	if !pagination.IsOfferedSize(pageSize) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("page size %d is not offered", pageSize)).
			WithDetails(map[string]any{"pageSizes": pagination.PageSizes})
	}
	prefs, err := t.prefs.Get(t.key)
	if err != nil {
		return err
	}
	top := prefs.Pagination.PageIndex * prefs.Pagination.PageSize
	next := preferences.Pagination{PageIndex: top / pageSize, PageSize: pageSize}
	return t.prefs.Set(ctx, t.key, preferences.FieldPagination, next)
}

// SetColumnVisibility shows or hides a hideable column.
func (t *Table) SetColumnVisibility(ctx context.Context, columnID string, visible bool) error {
	c, ok := t.column(columnID)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("column %q not found", columnID))
	}
	if !c.Hideable {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("column %q cannot be hidden", columnID))
	}
	prefs, err := t.prefs.Get(t.key)
	if err != nil {
		return err
	}
	prefs.ColumnVisibility[columnID] = visible
	return t.prefs.Set(ctx, t.key, preferences.FieldColumnVisibility, prefs.ColumnVisibility)
}

// SetRowOrder stores a manual ordering; nil clears it.
func (t *Table) SetRowOrder(ctx context.Context, ids []string) error {
	return t.prefs.Set(ctx, t.key, preferences.FieldRowOrder, ids)
}

// Reset restores the persisted layout to defaults.
func (t *Table) Reset(ctx context.Context) error {
	if err := t.prefs.Reset(ctx, t.key); err != nil {
		return err
	}
	t.logg.Info(t.ctx(ctx), "table.view_reset")
	return nil
}

// SetGlobalFilter sets the case-insensitive search applied to visible text
// columns. Filters are not persisted.
func (t *Table) SetGlobalFilter(filter string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.globalFilter = filter
}

// SetColumnFilter narrows rows to those whose column contains value; an
// empty value removes the filter.
func (t *Table) SetColumnFilter(columnID, value string) error {
	c, ok := t.column(columnID)
	if !ok || !c.HasAccessor() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("column %q cannot be filtered", columnID))
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if strings.TrimSpace(value) == "" {
		delete(t.columnFilters, columnID)
		return nil
	}
	t.columnFilters[columnID] = value
	return nil
}
