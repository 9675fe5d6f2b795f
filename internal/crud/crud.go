package crud

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/angelmondragon/estatedesk-backend/internal/preferences"
	"github.com/angelmondragon/estatedesk-backend/internal/table"
	pkgerrors "github.com/angelmondragon/estatedesk-backend/pkg/errors"
	"github.com/angelmondragon/estatedesk-backend/pkg/logger"
	"github.com/google/uuid"
)

type Mode string

const (
	ModeAdd       Mode = "add"
	ModeEdit      Mode = "edit"
	ModeDuplicate Mode = "duplicate"
)

// Panel is the add/edit side sheet.
type Panel struct {
	Open        bool    `json:"open"`
	Mode        Mode    `json:"mode,omitempty"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	RecordID    string  `json:"recordId,omitempty"`
	Values      Values  `json:"values,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
}

// Confirmation is the dialog shown before a destructive action.
type Confirmation struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ConfirmLabel string `json:"confirmLabel"`
}

// RowClickFunc runs before the edit panel opens for a clicked row.
type RowClickFunc func(ctx context.Context, record table.Record) error

type Options struct {
	Key        string
	Title      string
	EntityName string
	// ExportName is the plural used for CSV file names and notices.
	ExportName string
	Columns    []table.Column
	Fields     []Field
	Backend    Backend
	Actions    []Action
	OnRowClick RowClickFunc
	DisableAdd bool
	NewID      func() string
}

// Table is a generic table with an add/edit panel, row actions and a bulk
// action bar.
type Table struct {
	grid       *table.Table
	backend    Backend
	logg       *logger.Logger
	title      string
	entity     string
	exportName string
	fields     []Field
	actions    []Action
	onRowClick RowClickFunc
	disableAdd bool
	newID      func() string

	mu    sync.Mutex
	panel Panel
}

func New(prefs *preferences.Store, logg *logger.Logger, opts Options) (*Table, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("crud backend required")
	}
	if strings.TrimSpace(opts.EntityName) == "" {
		return nil, fmt.Errorf("entity name required")
	}
	columns := append([]table.Column{}, opts.Columns...)
	if len(columns) == 0 || columns[len(columns)-1].Kind != table.KindActions {
		columns = append(columns, table.Actions())
	}
	grid, err := table.New(prefs, logg, table.Options{Key: opts.Key, Columns: columns})
	if err != nil {
		return nil, err
	}
	for _, a := range opts.Actions {
		if isBuiltinAction(a.ID) {
			return nil, fmt.Errorf("action id %q is reserved", a.ID)
		}
	}
	newID := opts.NewID
	if newID == nil {
		newID = func() string { return uuid.NewString() }
	}
	exportName := opts.ExportName
	if exportName == "" {
		exportName = opts.Title
	}
	return &Table{
		grid:       grid,
		backend:    opts.Backend,
		logg:       logg,
		title:      opts.Title,
		entity:     opts.EntityName,
		exportName: exportName,
		fields:     opts.Fields,
		actions:    opts.Actions,
		onRowClick: opts.OnRowClick,
		disableAdd: opts.DisableAdd,
		newID:      newID,
	}, nil
}

// Grid exposes the underlying generic table.
func (t *Table) Grid() *table.Table { return t.grid }

func (t *Table) EntityName() string { return t.entity }

func (t *Table) Fields() []Field { return append([]Field{}, t.fields...) }

func (t *Table) ctx(ctx context.Context) context.Context {
	return t.logg.WithEntity(t.logg.WithView(ctx, t.grid.Key()), t.entity)
}

// Render returns the current page of records.
func (t *Table) Render(ctx context.Context) (table.View, error) {
	return t.grid.Render(ctx, t.backend.Records(ctx))
}

type ColumnToggle struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Visible bool   `json:"visible"`
}

// Header is the bar above the table.
type Header struct {
	Title          string         `json:"title"`
	AddLabel       string         `json:"addLabel,omitempty"`
	ResetLabel     string         `json:"resetLabel"`
	CustomizeLabel string         `json:"customizeLabel"`
	Toggles        []ColumnToggle `json:"toggles"`
}

func (t *Table) Header(ctx context.Context) (Header, error) {
	h := Header{Title: t.title, ResetLabel: "Reset View", CustomizeLabel: "Customize Columns"}
	if !t.disableAdd {
		h.AddLabel = "Add New " + t.entity
	}
	view, err := t.Render(ctx)
	if err != nil {
		return Header{}, err
	}
	for _, c := range view.Columns {
		if c.Hideable && c.HasAccessor() {
			h.Toggles = append(h.Toggles, ColumnToggle{ID: c.ID, Label: c.Label(), Visible: c.Visible})
		}
	}
	return h, nil
}

// ResetView restores the persisted layout of this table.
func (t *Table) ResetView(ctx context.Context) error {
	return t.grid.Reset(ctx)
}

func (t *Table) Panel() Panel {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.panel
}

func (t *Table) addPanel(mode Mode, recordID string, values Values) Panel {
	return Panel{
		Open:        true,
		Mode:        mode,
		Title:       "Add New " + t.entity,
		Description: fmt.Sprintf("Add a new %s to your list.", strings.ToLower(t.entity)),
		RecordID:    recordID,
		Values:      values,
		Fields:      t.Fields(),
	}
}

func (t *Table) emptyValues() Values {
	values := make(Values, len(t.fields))
	for _, f := range t.fields {
		values[f.Name] = ""
	}
	return values
}

func (t *Table) requireEditable() error {
	if t.disableAdd {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("%s records cannot be added or edited here", strings.ToLower(t.entity)))
	}
	return nil
}

// OpenAdd opens an empty panel.
func (t *Table) OpenAdd(ctx context.Context) (Panel, error) {
	if err := t.requireEditable(); err != nil {
		return Panel{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.panel = t.addPanel(ModeAdd, "", t.emptyValues())
	t.logg.Debug(t.ctx(ctx), "crud.panel_add_opened")
	return t.panel, nil
}

// OpenEdit opens the panel pre-filled from an existing record.
func (t *Table) OpenEdit(ctx context.Context, id string) (Panel, error) {
	if err := t.requireEditable(); err != nil {
		return Panel{}, err
	}
	_, values, err := t.backend.Find(ctx, id)
	if err != nil {
		return Panel{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.panel = Panel{
		Open:        true,
		Mode:        ModeEdit,
		Title:       "Edit " + t.entity,
		Description: fmt.Sprintf("Make changes to your %s here.", strings.ToLower(t.entity)),
		RecordID:    id,
		Values:      values.clone(),
		Fields:      t.Fields(),
	}
	return t.panel, nil
}

// OpenDuplicate copies a record's values under a fresh id. Submitting the
// panel goes through the add path.
func (t *Table) OpenDuplicate(ctx context.Context, id string) (Panel, error) {
	if err := t.requireEditable(); err != nil {
		return Panel{}, err
	}
	_, values, err := t.backend.Find(ctx, id)
	if err != nil {
		return Panel{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.panel = t.addPanel(ModeDuplicate, t.newID(), values.clone())
	return t.panel, nil
}

// Close discards the panel without saving.
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.panel = Panel{}
}

// Submit validates the form and commits it through the backend. The panel
// stays open when validation fails.
func (t *Table) Submit(ctx context.Context, input Values) (table.Record, *Notice, error) {
	t.mu.Lock()
	panel := t.panel
	t.mu.Unlock()
	if !panel.Open {
		return nil, nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no panel is open")
	}

	values, err := Validate(t.fields, input)
	if err != nil {
		return nil, nil, err
	}

	ctx = t.ctx(ctx)
	var (
		record table.Record
		notice *Notice
	)
	switch panel.Mode {
	case ModeEdit:
		record, err = t.backend.Edit(ctx, panel.RecordID, values)
		notice = Success(t.entity + " updated successfully!")
	default:
		id := panel.RecordID
		if id == "" {
			id = t.newID()
		}
		record, err = t.backend.Add(ctx, id, values)
		notice = Success(t.entity + " added successfully!")
	}
	if err != nil {
		return nil, nil, err
	}

	t.mu.Lock()
	t.panel = Panel{}
	t.mu.Unlock()

	t.logg.Info(t.logg.WithFields(ctx, map[string]any{"mode": string(panel.Mode), "record_id": record.GetID()}), "crud.submitted")
	return record, notice, nil
}

// Delete removes one record once confirmed. Without confirmation it returns
// the dialog to show instead.
func (t *Table) Delete(ctx context.Context, id string, confirmed bool) (*Confirmation, *Notice, error) {
	if !confirmed {
		if _, _, err := t.backend.Find(ctx, id); err != nil {
			return nil, nil, err
		}
		return t.confirmation(), nil, nil
	}
	if err := t.backend.Delete(ctx, id); err != nil {
		return nil, nil, err
	}
	t.mu.Lock()
	if t.panel.Open && t.panel.Mode == ModeEdit && t.panel.RecordID == id {
		t.panel = Panel{}
	}
	t.mu.Unlock()
	t.logg.Info(t.logg.WithField(t.ctx(ctx), "record_id", id), "crud.deleted")
	return nil, Success(t.entity + " deleted."), nil
}

func (t *Table) confirmation() *Confirmation {
	return &Confirmation{
		Title:        "Are you absolutely sure?",
		Description:  fmt.Sprintf("This action cannot be undone. This will permanently delete this %s.", t.entity),
		ConfirmLabel: "Delete",
	}
}

// RowClick runs the row click hook and then opens the edit panel.
func (t *Table) RowClick(ctx context.Context, id string) (*Panel, error) {
	record, _, err := t.backend.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.onRowClick != nil {
		if err := t.onRowClick(ctx, record); err != nil {
			return nil, err
		}
	}
	if t.disableAdd {
		return nil, nil
	}
	panel, err := t.OpenEdit(ctx, id)
	if err != nil {
		return nil, err
	}
	return &panel, nil
}
