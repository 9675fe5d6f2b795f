package preferences

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/angelmondragon/estatedesk-backend/pkg/enums"
	"github.com/angelmondragon/estatedesk-backend/pkg/pagination"
)

// KeySuffix is appended to a route path to build its preference key.
const KeySuffix = "-table-prefs"

// KeyFor returns the preference key of the table mounted at routePath.
func KeyFor(routePath string) string {
	return strings.TrimSpace(routePath) + KeySuffix
}

type SortRule struct {
	ColumnID  string              `json:"id"`
	Direction enums.SortDirection `json:"direction"`
}

type Pagination struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
}

// ViewPreferences is the persisted layout of a single table view.
// A nil RowOrder means no manual ordering is applied.
type ViewPreferences struct {
	ColumnVisibility map[string]bool `json:"columnVisibility"`
	Sorting          []SortRule      `json:"sorting"`
	Pagination       Pagination      `json:"pagination"`
	RowOrder         []string        `json:"rowOrder"`
}

// Defaults returns a fresh default preference record.
func Defaults() ViewPreferences {
	return ViewPreferences{
		ColumnVisibility: map[string]bool{},
		Sorting:          []SortRule{},
		Pagination:       Pagination{PageIndex: 0, PageSize: pagination.DefaultPageSize},
		RowOrder:         nil,
	}
}

// IsColumnVisible treats columns absent from the visibility map as visible.
func (v ViewPreferences) IsColumnVisible(columnID string) bool {
	visible, ok := v.ColumnVisibility[columnID]
	return !ok || visible
}

func (v ViewPreferences) clone() ViewPreferences {
	out := ViewPreferences{
		ColumnVisibility: make(map[string]bool, len(v.ColumnVisibility)),
		Sorting:          append([]SortRule{}, v.Sorting...),
		Pagination:       v.Pagination,
	}
	for k, visible := range v.ColumnVisibility {
		out.ColumnVisibility[k] = visible
	}
	if v.RowOrder != nil {
		out.RowOrder = append([]string{}, v.RowOrder...)
	}
	return out
}

// normalize fills the gaps a partially written blob may leave behind.
func (v ViewPreferences) normalize() ViewPreferences {
	if v.ColumnVisibility == nil {
		v.ColumnVisibility = map[string]bool{}
	}
	if v.Sorting == nil {
		v.Sorting = []SortRule{}
	}
	v.Pagination = normalizePagination(v.Pagination)
	return v
}

func normalizePagination(p Pagination) Pagination {
	p.PageSize = pagination.NormalizeSize(p.PageSize)
	if p.PageIndex < 0 {
		p.PageIndex = 0
	}
	return p
}

// Field names one of the four top-level preference fields.
type Field string

const (
	FieldColumnVisibility Field = "columnVisibility"
	FieldSorting          Field = "sorting"
	FieldPagination       Field = "pagination"
	FieldRowOrder         Field = "rowOrder"
)

var validFields = []Field{FieldColumnVisibility, FieldSorting, FieldPagination, FieldRowOrder}

func (f Field) IsValid() bool {
	for _, candidate := range validFields {
		if candidate == f {
			return true
		}
	}
	return false
}

func ParseField(value string) (Field, error) {
	for _, candidate := range validFields {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid preference field %q", value)
}

// DecodeValue unmarshals raw JSON into the Go type expected by field.
func DecodeValue(field Field, raw json.RawMessage) (any, error) {
	switch field {
	case FieldColumnVisibility:
		var v map[string]bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", field, err)
		}
		return v, nil
	case FieldSorting:
		var v []SortRule
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", field, err)
		}
		return v, nil
	case FieldPagination:
		var v Pagination
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", field, err)
		}
		return v, nil
	case FieldRowOrder:
		var v []string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", field, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("invalid preference field %q", field)
	}
}

// apply shallow-merges one field into prefs.
func apply(prefs ViewPreferences, field Field, value any) (ViewPreferences, error) {
	switch field {
	case FieldColumnVisibility:
		v, ok := value.(map[string]bool)
		if !ok {
			return prefs, fmt.Errorf("%s expects map[string]bool, got %T", field, value)
		}
		prefs.ColumnVisibility = make(map[string]bool, len(v))
		for k, visible := range v {
			prefs.ColumnVisibility[k] = visible
		}
	case FieldSorting:
		v, ok := value.([]SortRule)
		if !ok {
			return prefs, fmt.Errorf("%s expects []SortRule, got %T", field, value)
		}
		for _, rule := range v {
			if !rule.Direction.IsValid() {
				return prefs, fmt.Errorf("invalid sort direction %q for column %q", rule.Direction, rule.ColumnID)
			}
		}
		prefs.Sorting = append([]SortRule{}, v...)
	case FieldPagination:
		v, ok := value.(Pagination)
		if !ok {
			return prefs, fmt.Errorf("%s expects Pagination, got %T", field, value)
		}
		prefs.Pagination = normalizePagination(v)
	case FieldRowOrder:
		v, ok := value.([]string)
		if !ok && value != nil {
			return prefs, fmt.Errorf("%s expects []string, got %T", field, value)
		}
		if v == nil {
			prefs.RowOrder = nil
		} else {
			prefs.RowOrder = append([]string{}, v...)
		}
	default:
		return prefs, fmt.Errorf("invalid preference field %q", field)
	}
	return prefs, nil
}
