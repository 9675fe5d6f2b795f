package table

// ColumnKind tags the variant of a column descriptor.
type ColumnKind string

const (
	KindSelect  ColumnKind = "select"
	KindIndex   ColumnKind = "index"
	KindText    ColumnKind = "text"
	KindCustom  ColumnKind = "custom"
	KindActions ColumnKind = "actions"
)

// Renderer picks how a custom column formats its raw value for display.
type Renderer string

const (
	RenderPlain    Renderer = ""
	RenderDateTime Renderer = "datetime"
	RenderTruncate Renderer = "truncate"
	RenderBool     Renderer = "bool"
	RenderCount    Renderer = "count"
	RenderBadge    Renderer = "badge"
)

// SortType picks the comparator used when sorting by a column.
type SortType string

const (
	SortText     SortType = "text"
	SortNumber   SortType = "number"
	SortDateTime SortType = "datetime"
)

const (
	SelectColumnID  = "select"
	IndexColumnID   = "index"
	ActionsColumnID = "actions"
)

// Column describes one table column. Accessor names the record field the
// column reads; select, index and actions columns have none.
type Column struct {
	ID       string     `json:"id"`
	Header   string     `json:"header"`
	Kind     ColumnKind `json:"kind"`
	Accessor string     `json:"accessor,omitempty"`
	Renderer Renderer   `json:"renderer,omitempty"`
	SortType SortType   `json:"sortType,omitempty"`
	Sortable bool       `json:"sortable"`
	Hideable bool       `json:"hideable"`
}

// Text is a sortable, hideable column reading the field of the same name.
func Text(id, header string) Column {
	return Column{ID: id, Header: header, Kind: KindText, Accessor: id, SortType: SortText, Sortable: true, Hideable: true}
}

// Number is a text column sorted numerically.
func Number(id, header string) Column {
	c := Text(id, header)
	c.SortType = SortNumber
	return c
}

// Custom formats its field through renderer.
func Custom(id, header string, renderer Renderer) Column {
	c := Text(id, header)
	c.Kind = KindCustom
	c.Renderer = renderer
	if renderer == RenderDateTime {
		c.SortType = SortDateTime
	}
	if renderer == RenderCount {
		c.SortType = SortNumber
	}
	return c
}

// Index shows the 1-based position of the row in the data set.
func Index() Column {
	return Column{ID: IndexColumnID, Header: "ID", Kind: KindIndex}
}

// Actions is the trailing per-row action menu column.
func Actions() Column {
	return Column{ID: ActionsColumnID, Header: "Actions", Kind: KindActions}
}

func selectColumn() Column {
	return Column{ID: SelectColumnID, Kind: KindSelect}
}

// HasAccessor reports whether the column maps to a record field.
func (c Column) HasAccessor() bool {
	return c.Accessor != "" && (c.Kind == KindText || c.Kind == KindCustom)
}

// Label is the header text, falling back to the id.
func (c Column) Label() string {
	if c.Header != "" {
		return c.Header
	}
	return c.ID
}
