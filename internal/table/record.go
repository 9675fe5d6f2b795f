package table

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Record is a row the table can display. Ids must be unique and stable.
type Record interface {
	GetID() string
	Field(name string) (any, bool)
}

// Highlighter is implemented by records that should render emphasised.
type Highlighter interface {
	Highlighted() bool
}

// DateTimeLayout is used by the datetime renderer.
const DateTimeLayout = "Jan 2, 2006 3:04 PM"

const truncateAt = 50

// Format renders a raw field value for display.
func Format(value any, renderer Renderer) string {
	if value == nil {
		return ""
	}
	switch renderer {
	case RenderDateTime:
		if t, ok := asTime(value); ok {
			if t.IsZero() {
				return ""
			}
			return t.Format(DateTimeLayout)
		}
	case RenderTruncate:
		s := toString(value)
		if utf8.RuneCountInString(s) > truncateAt {
			return string([]rune(s)[:truncateAt]) + "..."
		}
		return s
	case RenderBool:
		if b, ok := value.(bool); ok {
			if b {
				return "Yes"
			}
			return "No"
		}
	case RenderCount:
		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map {
			return strconv.Itoa(rv.Len())
		}
	}
	return toString(value)
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

func asTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case string:
		t, err := time.Parse(time.RFC3339, v)
		return t, err == nil
	}
	return time.Time{}, false
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case float64:
		return v, true
	case decimal.Decimal:
		f, _ := v.Float64()
		return f, true
	case string:
		cleaned := strings.NewReplacer(",", "", " ", "").Replace(v)
		f, err := strconv.ParseFloat(cleaned, 64)
		return f, err == nil
	}
	return 0, false
}

// compareValues orders two present field values; strings compare
// case-insensitively.
func compareValues(a, b any, sortType SortType) int {
	switch sortType {
	case SortNumber:
		an, aok := asNumber(a)
		bn, bok := asNumber(b)
		if aok && bok {
			return compareFloat(an, bn)
		}
	case SortDateTime:
		at, aok := asTime(a)
		bt, bok := asTime(b)
		if aok && bok {
			return at.Compare(bt)
		}
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ab == bb:
				return 0
			case !ab:
				return -1
			default:
				return 1
			}
		}
	}
	if an, ok := asNumberStrict(a); ok {
		if bn, ok := asNumberStrict(b); ok {
			return compareFloat(an, bn)
		}
	}
	return strings.Compare(strings.ToLower(toString(a)), strings.ToLower(toString(b)))
}

// asNumberStrict accepts numeric Go types only, not numeric-looking strings.
func asNumberStrict(value any) (float64, bool) {
	if _, isString := value.(string); isString {
		return 0, false
	}
	return asNumber(value)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func isEmpty(value any, ok bool) bool {
	if !ok || value == nil {
		return true
	}
	if s, isString := value.(string); isString {
		return s == ""
	}
	return false
}
