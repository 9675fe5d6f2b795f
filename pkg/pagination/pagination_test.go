package pagination

import "testing"

func TestPageCount(t *testing.T) {
	cases := []struct {
		total, size, want int
	}{
		{0, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 0, 3},
		{120, 500, 3},
	}
	for _, tc := range cases {
		if got := PageCount(tc.total, tc.size); got != tc.want {
			t.Fatalf("PageCount(%d,%d)=%d want %d", tc.total, tc.size, got, tc.want)
		}
	}
}

func TestClampMovesToLastPage(t *testing.T) {
	got := Clamp(Params{PageIndex: 3, PageSize: 10}, 25)
	if got.PageIndex != 2 {
		t.Fatalf("expected clamp to page 2, got %d", got.PageIndex)
	}
	got = Clamp(Params{PageIndex: -1, PageSize: 10}, 25)
	if got.PageIndex != 0 {
		t.Fatalf("expected clamp to page 0, got %d", got.PageIndex)
	}
	got = Clamp(Params{PageIndex: 4, PageSize: 10}, 0)
	if got.PageIndex != 0 {
		t.Fatalf("empty data should clamp to page 0, got %d", got.PageIndex)
	}
}

func TestBounds(t *testing.T) {
	start, end := Bounds(Params{PageIndex: 2, PageSize: 10}, 25)
	if start != 20 || end != 25 {
		t.Fatalf("unexpected bounds %d-%d", start, end)
	}
	start, end = Bounds(Params{PageIndex: 0, PageSize: 10}, 0)
	if start != 0 || end != 0 {
		t.Fatalf("unexpected empty bounds %d-%d", start, end)
	}
}

func TestIsOfferedSize(t *testing.T) {
	if !IsOfferedSize(30) || IsOfferedSize(25) {
		t.Fatal("unexpected offered size result")
	}
}
