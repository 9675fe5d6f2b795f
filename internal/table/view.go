package table

import "github.com/angelmondragon/estatedesk-backend/internal/preferences"

// EmptyMessage is the body of a view with no rows to show.
const EmptyMessage = "No results."

type ColumnView struct {
	Column
	Visible   bool   `json:"visible"`
	SortState string `json:"sortState,omitempty"`
}

type Cell struct {
	ColumnID string `json:"columnId"`
	Value    any    `json:"value,omitempty"`
	Display  string `json:"display"`
}

type Row struct {
	ID          string `json:"id"`
	Index       int    `json:"index"`
	Selected    bool   `json:"selected"`
	Highlighted bool   `json:"highlighted"`
	Cells       []Cell `json:"cells"`
}

// View is the rendered state of a table for one request.
type View struct {
	Key     string `json:"key"`
	Loading bool   `json:"loading"`
	Message string `json:"message,omitempty"`

	Columns []ColumnView `json:"columns,omitempty"`
	Rows    []Row        `json:"rows,omitempty"`

	Sorting      []preferences.SortRule `json:"sorting,omitempty"`
	GlobalFilter string                 `json:"globalFilter,omitempty"`
	PageIndex    int                    `json:"pageIndex"`
	PageSize     int                    `json:"pageSize"`
	PageCount    int                    `json:"pageCount"`
	PageSizes    []int                  `json:"pageSizes,omitempty"`
	CanPrev      bool                   `json:"canPrev"`
	CanNext      bool                   `json:"canNext"`

	TotalRows       int  `json:"totalRows"`
	FilteredRows    int  `json:"filteredRows"`
	SelectedCount   int  `json:"selectedCount"`
	AllPageSelected bool `json:"allPageSelected"`
}

// VisibleAccessorColumns lists the visible columns backed by a record field,
// in display order.
func (v View) VisibleAccessorColumns() []Column {
	var out []Column
	for _, c := range v.Columns {
		if c.Visible && c.HasAccessor() {
			out = append(out, c.Column)
		}
	}
	return out
}
