package crud

import (
	"bytes"
	"context"
	"encoding/csv"
	"reflect"
	"strings"
	"testing"

	"github.com/angelmondragon/estatedesk-backend/internal/table"
	"github.com/angelmondragon/estatedesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/estatedesk-backend/pkg/errors"
)

func TestBulkBarVisibility(t *testing.T) {
	ctx := context.Background()
	tbl := newUsersTable(t, seededBackend())

	if _, err := tbl.Selection(ctx, "toggle", "u1"); err != nil {
		t.Fatalf("Selection: %v", err)
	}
	bar, err := tbl.BulkBar(ctx)
	if err != nil {
		t.Fatalf("BulkBar: %v", err)
	}
	if bar.Visible {
		t.Fatal("bar hidden with one selected row")
	}

	if _, err := tbl.Selection(ctx, "toggle", "u2"); err != nil {
		t.Fatalf("Selection: %v", err)
	}
	bar, _ = tbl.BulkBar(ctx)
	if !bar.Visible || bar.Actions[0].Label != "Delete Selected (2)" {
		t.Fatalf("unexpected bar %+v", bar)
	}
	if _, err := tbl.Selection(ctx, "bogus", ""); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected unknown op to fail, got %v", err)
	}
}

func TestBulkDelete(t *testing.T) {
	ctx := context.Background()
	backend := seededBackend()
	tbl := newUsersTable(t, backend)

	if _, _, err := tbl.BulkDelete(ctx); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected bulk delete without selection to fail, got %v", err)
	}

	if _, err := tbl.Selection(ctx, "all", ""); err != nil {
		t.Fatalf("Selection: %v", err)
	}
	removed, notice, err := tbl.BulkDelete(ctx)
	if err != nil {
		t.Fatalf("BulkDelete: %v", err)
	}
	if removed != 3 || len(backend.rows) != 0 || notice.Message != "3 users deleted." {
		t.Fatalf("unexpected bulk delete result removed=%d notice=%+v", removed, notice)
	}
	bar, _ := tbl.BulkBar(ctx)
	if bar.SelectedCount != 0 {
		t.Fatal("selection should be cleared after bulk delete")
	}
}

func TestExportCSVUsesVisibleColumns(t *testing.T) {
	ctx := context.Background()
	tbl := newUsersTable(t, seededBackend())

	export, notice, err := tbl.ExportCSV(ctx)
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if notice.Level != enums.NoticeLevelWarning || notice.Message != "No rows selected for export." {
		t.Fatalf("unexpected empty export notice %+v", notice)
	}
	if export.Body != nil {
		t.Fatal("no body expected without selection")
	}

	if err := tbl.Grid().SetColumnVisibility(ctx, "status", false); err != nil {
		t.Fatalf("SetColumnVisibility: %v", err)
	}
	if _, err := tbl.Selection(ctx, "toggle", "u1"); err != nil {
		t.Fatalf("Selection: %v", err)
	}
	if _, err := tbl.Selection(ctx, "toggle", "u3"); err != nil {
		t.Fatalf("Selection: %v", err)
	}

	export, notice, err = tbl.ExportCSV(ctx)
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if export.Filename != "users.csv" || notice.Message != "Users exported as CSV." {
		t.Fatalf("unexpected export %s %+v", export.Filename, notice)
	}
	want := "Full Name,Email\nJohn Doe,john@example.com\nPeter Jones,\"peter, jr@example.com\"\n"
	if string(export.Body) != want {
		t.Fatalf("unexpected csv:\n%s", export.Body)
	}
}

func TestExportPDFIsNoticeOnly(t *testing.T) {
	ctx := context.Background()
	tbl := newUsersTable(t, seededBackend())
	if _, err := tbl.Selection(ctx, "page", ""); err != nil {
		t.Fatalf("Selection: %v", err)
	}
	notice, err := tbl.ExportPDF(ctx)
	if err != nil {
		t.Fatalf("ExportPDF: %v", err)
	}
	if notice.Level != enums.NoticeLevelInfo || notice.Message != "Exporting as PDF..." {
		t.Fatalf("unexpected notice %+v", notice)
	}
}

func TestEncodeCSVQuotesSpecialCharacters(t *testing.T) {
	cols := []table.Column{table.Text("fullName", "Name"), table.Text("email", "Email")}
	rows := []table.Record{user{id: "x", values: Values{"fullName": "Say \"hi\"", "email": "multi\nline"}}}
	body, err := EncodeCSV(cols, rows)
	if err != nil {
		t.Fatalf("EncodeCSV: %v", err)
	}
	if !strings.Contains(string(body), `"Say ""hi"""`) || !strings.Contains(string(body), "\"multi\nline\"") {
		t.Fatalf("unexpected quoting %q", body)
	}
}

func TestEncodeCSVRoundTripsThroughReader(t *testing.T) {
	cols := []table.Column{table.Text("fullName", "Name, full"), table.Text("email", "Email")}
	rows := []table.Record{
		user{id: "a", values: Values{"fullName": "Doe, John", "email": `say "hi"@example.com`}},
		user{id: "b", values: Values{"fullName": "line one\nline two", "email": `"quoted, and split"` + "\n"}},
	}
	body, err := EncodeCSV(cols, rows)
	if err != nil {
		t.Fatalf("EncodeCSV: %v", err)
	}

	got, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	want := [][]string{
		{"Name, full", "Email"},
		{"Doe, John", `say "hi"@example.com`},
		{"line one\nline two", `"quoted, and split"` + "\n"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestValidateTypedFields(t *testing.T) {
	_, err := Validate(userFields, Values{"fullName": "A", "email": "not-an-email"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected email validation failure, got %v", err)
	}
	values, err := Validate(userFields, Values{"fullName": " A ", "email": "a@b.co"})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if values["fullName"] != "A" || values["phone"] != "" {
		t.Fatalf("unexpected values %v", values)
	}
}
