package table

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFormatRenderers(t *testing.T) {
	at := time.Date(2025, 3, 4, 15, 30, 0, 0, time.UTC)
	if got := Format(at, RenderDateTime); got != "Mar 4, 2025 3:30 PM" {
		t.Fatalf("unexpected datetime %q", got)
	}
	if got := Format(time.Time{}, RenderDateTime); got != "" {
		t.Fatalf("zero time should render empty, got %q", got)
	}
	long := strings.Repeat("a", 60)
	if got := Format(long, RenderTruncate); len(got) != 53 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := Format(true, RenderBool); got != "Yes" {
		t.Fatalf("unexpected bool %q", got)
	}
	if got := Format([]string{"a", "b"}, RenderCount); got != "2" {
		t.Fatalf("unexpected count %q", got)
	}
	if got := Format(nil, RenderPlain); got != "" {
		t.Fatalf("nil should render empty, got %q", got)
	}
}

func TestCompareValues(t *testing.T) {
	if compareValues("apple", "Banana", SortText) >= 0 {
		t.Fatal("expected case-insensitive text ordering")
	}
	if compareValues("9", "10", SortNumber) >= 0 {
		t.Fatal("expected numeric ordering for number columns")
	}
	if compareValues(decimal.NewFromInt(5), decimal.NewFromInt(3), SortNumber) <= 0 {
		t.Fatal("expected decimals to compare numerically")
	}
	a := time.Now()
	if compareValues(a, a.Add(time.Minute), SortDateTime) >= 0 {
		t.Fatal("expected chronological ordering")
	}
	if compareValues(false, true, SortText) >= 0 {
		t.Fatal("false sorts before true")
	}
}
