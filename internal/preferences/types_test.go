package preferences

import (
	"encoding/json"
	"testing"

	"github.com/angelmondragon/estatedesk-backend/pkg/enums"
)

func TestKeyFor(t *testing.T) {
	if got := KeyFor("/admin/properties"); got != "/admin/properties-table-prefs" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestDecodeValue(t *testing.T) {
	v, err := DecodeValue(FieldSorting, json.RawMessage(`[{"id":"price","direction":"desc"}]`))
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	rules := v.([]SortRule)
	if len(rules) != 1 || rules[0].Direction != enums.SortDirectionDesc {
		t.Fatalf("unexpected rules %+v", rules)
	}

	v, err = DecodeValue(FieldRowOrder, json.RawMessage(`null`))
	if err != nil {
		t.Fatalf("DecodeValue null row order: %v", err)
	}
	if order := v.([]string); order != nil {
		t.Fatalf("expected nil row order, got %v", order)
	}

	if _, err := DecodeValue(FieldPagination, json.RawMessage(`"x"`)); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := DecodeValue("nope", json.RawMessage(`{}`)); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestApplyNormalizesPagination(t *testing.T) {
	prefs, err := apply(Defaults(), FieldPagination, Pagination{PageIndex: -3, PageSize: 0})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if prefs.Pagination.PageIndex != 0 || prefs.Pagination.PageSize != 10 {
		t.Fatalf("unexpected pagination %+v", prefs.Pagination)
	}
}

func TestParseField(t *testing.T) {
	if f, err := ParseField("rowOrder"); err != nil || f != FieldRowOrder {
		t.Fatalf("unexpected parse %q %v", f, err)
	}
	if _, err := ParseField("filters"); err == nil {
		t.Fatal("filters are not persisted")
	}
}
