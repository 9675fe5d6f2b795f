package crud

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/angelmondragon/estatedesk-backend/internal/table"
	pkgerrors "github.com/angelmondragon/estatedesk-backend/pkg/errors"
)

// MinBulkSelection is the selection size at which the bulk bar appears.
const MinBulkSelection = 2

type BulkBar struct {
	Visible       bool         `json:"visible"`
	SelectedCount int          `json:"selectedCount"`
	Actions       []ActionView `json:"actions,omitempty"`
}

// Export is a generated download.
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}

func (t *Table) selected(ctx context.Context) ([]table.Record, table.View, error) {
	rows := t.backend.Records(ctx)
	selected, err := t.grid.Selected(ctx, rows)
	if err != nil {
		return nil, table.View{}, err
	}
	view, err := t.grid.Render(ctx, rows)
	if err != nil {
		return nil, table.View{}, err
	}
	return selected, view, nil
}

// Selection applies a selection change and returns the refreshed view.
// op is one of toggle, page, unpage, all, clear.
func (t *Table) Selection(ctx context.Context, op, id string) (table.View, error) {
	rows := t.backend.Records(ctx)
	switch op {
	case "toggle":
		return t.grid.ToggleRow(ctx, rows, id)
	case "page":
		return t.grid.SelectPage(ctx, rows, true)
	case "unpage":
		return t.grid.SelectPage(ctx, rows, false)
	case "all":
		return t.grid.SelectAllFiltered(ctx, rows)
	case "clear":
		return t.grid.ClearSelection(ctx, rows)
	default:
		return table.View{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown selection op %q", op))
	}
}

// BulkBar reports whether the bulk action bar is shown and its actions.
func (t *Table) BulkBar(ctx context.Context) (BulkBar, error) {
	selected, _, err := t.selected(ctx)
	if err != nil {
		return BulkBar{}, err
	}
	bar := BulkBar{SelectedCount: len(selected)}
	if len(selected) < MinBulkSelection {
		return bar, nil
	}
	bar.Visible = true
	bar.Actions = []ActionView{
		{ID: "delete", Label: fmt.Sprintf("Delete Selected (%d)", len(selected)), Destructive: true},
		{ID: "export-csv", Label: "As CSV"},
		{ID: "export-pdf", Label: "As PDF"},
	}
	return bar, nil
}

func (t *Table) requireBulk(selected []table.Record) error {
	if len(selected) < MinBulkSelection {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("select at least %d rows", MinBulkSelection))
	}
	return nil
}

// BulkDelete removes every selected record and clears the selection.
func (t *Table) BulkDelete(ctx context.Context) (int, *Notice, error) {
	selected, _, err := t.selected(ctx)
	if err != nil {
		return 0, nil, err
	}
	if err := t.requireBulk(selected); err != nil {
		return 0, nil, err
	}
	ids := make([]string, 0, len(selected))
	for _, r := range selected {
		ids = append(ids, r.GetID())
	}
	removed, err := t.backend.DeleteMany(ctx, ids)
	if err != nil {
		return 0, nil, err
	}
	if _, err := t.grid.ClearSelection(ctx, t.backend.Records(ctx)); err != nil {
		return removed, nil, err
	}
	t.logg.Info(t.logg.WithField(t.ctx(ctx), "removed", removed), "crud.bulk_deleted")
	return removed, Success(fmt.Sprintf("%d %s deleted.", removed, strings.ToLower(t.exportName))), nil
}

// ExportCSV writes the selected rows using the visible field-backed columns.
func (t *Table) ExportCSV(ctx context.Context) (Export, *Notice, error) {
	selected, view, err := t.selected(ctx)
	if err != nil {
		return Export{}, nil, err
	}
	if len(selected) == 0 {
		return Export{}, Warning("No rows selected for export."), nil
	}
	if err := t.requireBulk(selected); err != nil {
		return Export{}, nil, err
	}

	columns := view.VisibleAccessorColumns()
	body, err := EncodeCSV(columns, selected)
	if err != nil {
		return Export{}, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode csv export")
	}
	return Export{
		Filename:    strings.ToLower(t.exportName) + ".csv",
		ContentType: "text/csv; charset=utf-8",
		Body:        body,
	}, Success(t.exportName + " exported as CSV."), nil
}

// ExportPDF is not implemented beyond the notice.
func (t *Table) ExportPDF(ctx context.Context) (*Notice, error) {
	selected, _, err := t.selected(ctx)
	if err != nil {
		return nil, err
	}
	if err := t.requireBulk(selected); err != nil {
		return nil, err
	}
	return Info("Exporting as PDF..."), nil
}

// EncodeCSV renders a header of column labels followed by one line per
// record. Values containing commas, quotes or newlines are quoted.
func EncodeCSV(columns []table.Column, records []table.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, 0, len(columns))
	for _, c := range columns {
		header = append(header, c.Label())
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range records {
		line := make([]string, 0, len(columns))
		for _, c := range columns {
			value, _ := r.Field(c.Accessor)
			line = append(line, table.Format(value, c.Renderer))
		}
		if err := w.Write(line); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
