package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/estatedesk-backend/api/responses"
	"github.com/angelmondragon/estatedesk-backend/api/validators"
	"github.com/angelmondragon/estatedesk-backend/internal/crud"
	"github.com/angelmondragon/estatedesk-backend/internal/dashboard"
	"github.com/angelmondragon/estatedesk-backend/internal/table"
	"github.com/angelmondragon/estatedesk-backend/pkg/logger"
)

// TableState is everything the admin page needs to draw one table.
type TableState struct {
	Header  crud.Header  `json:"header"`
	View    table.View   `json:"view"`
	BulkBar crud.BulkBar `json:"bulkBar"`
	Panel   crud.Panel   `json:"panel"`
}

// tableHandler resolves {entity} before calling fn.
func tableHandler(d *dashboard.Dashboard, logg *logger.Logger, fn func(w http.ResponseWriter, r *http.Request, t *crud.Table) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := d.Table(chi.URLParam(r, "entity"))
		if err == nil {
			err = fn(w, r, t)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
		}
	}
}

func writeTableState(w http.ResponseWriter, r *http.Request, t *crud.Table) error {
	state, err := tableState(r, t)
	if err != nil {
		return err
	}
	responses.WriteSuccess(w, state)
	return nil
}

func tableState(r *http.Request, t *crud.Table) (TableState, error) {
	ctx := r.Context()
	header, err := t.Header(ctx)
	if err != nil {
		return TableState{}, err
	}
	view, err := t.Render(ctx)
	if err != nil {
		return TableState{}, err
	}
	state := TableState{Header: header, View: view, Panel: t.Panel()}
	if !view.Loading {
		if state.BulkBar, err = t.BulkBar(ctx); err != nil {
			return TableState{}, err
		}
	}
	return state, nil
}

func TableView(d *dashboard.Dashboard, logg *logger.Logger) http.HandlerFunc {
	return tableHandler(d, logg, writeTableState)
}

type sortRequest struct {
	ColumnID string `json:"columnId" validate:"required"`
	Multi    bool   `json:"multi"`
}

// TableSort cycles the sort of one column, shift-click style when multi is set.
func TableSort(d *dashboard.Dashboard, logg *logger.Logger) http.HandlerFunc {
	return tableHandler(d, logg, func(w http.ResponseWriter, r *http.Request, t *crud.Table) error {
		var body sortRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		if _, err := t.Grid().CycleSort(r.Context(), body.ColumnID, body.Multi); err != nil {
			return err
		}
		return writeTableState(w, r, t)
	})
}

type paginationRequest struct {
	PageIndex *int `json:"pageIndex" validate:"omitempty,min=0"`
	PageSize  *int `json:"pageSize" validate:"omitempty,min=1"`
}

func TablePagination(d *dashboard.Dashboard, logg *logger.Logger) http.HandlerFunc {
	return tableHandler(d, logg, func(w http.ResponseWriter, r *http.Request, t *crud.Table) error {
		var body paginationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		// Page size first: it recomputes the page index.
		if body.PageSize != nil {
			if err := t.Grid().SetPageSize(r.Context(), *body.PageSize); err != nil {
				return err
			}
		}
		if body.PageIndex != nil {
			if err := t.Grid().SetPageIndex(r.Context(), *body.PageIndex); err != nil {
				return err
			}
		}
		return writeTableState(w, r, t)
	})
}

type columnVisibilityRequest struct {
	Visible *bool `json:"visible" validate:"required"`
}

func TableColumnVisibility(d *dashboard.Dashboard, logg *logger.Logger) http.HandlerFunc {
	return tableHandler(d, logg, func(w http.ResponseWriter, r *http.Request, t *crud.Table) error {
		var body columnVisibilityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		if err := t.Grid().SetColumnVisibility(r.Context(), chi.URLParam(r, "columnId"), *body.Visible); err != nil {
			return err
		}
		return writeTableState(w, r, t)
	})
}

type rowOrderRequest struct {
	IDs []string `json:"ids" validate:"required"`
}

func TableRowOrder(d *dashboard.Dashboard, logg *logger.Logger) http.HandlerFunc {
	return tableHandler(d, logg, func(w http.ResponseWriter, r *http.Request, t *crud.Table) error {
		var body rowOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		if err := t.Grid().SetRowOrder(r.Context(), body.IDs); err != nil {
			return err
		}
		return writeTableState(w, r, t)
	})
}

type filterRequest struct {
	Global  *string           `json:"global"`
	Columns map[string]string `json:"columns"`
}

// TableFilter sets the search box and per-column filters. Filters live for
// the process only.
func TableFilter(d *dashboard.Dashboard, logg *logger.Logger) http.HandlerFunc {
	return tableHandler(d, logg, func(w http.ResponseWriter, r *http.Request, t *crud.Table) error {
		var body filterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		if body.Global != nil {
			t.Grid().SetGlobalFilter(validators.SanitizeString(*body.Global, 200))
		}
		for columnID, value := range body.Columns {
			if err := t.Grid().SetColumnFilter(columnID, validators.SanitizeString(value, 200)); err != nil {
				return err
			}
		}
		return writeTableState(w, r, t)
	})
}

func TableReset(d *dashboard.Dashboard, logg *logger.Logger) http.HandlerFunc {
	return tableHandler(d, logg, func(w http.ResponseWriter, r *http.Request, t *crud.Table) error {
		if err := t.ResetView(r.Context()); err != nil {
			return err
		}
		return writeTableState(w, r, t)
	})
}

type selectionRequest struct {
	Op string `json:"op" validate:"required,oneof=toggle page unpage all clear"`
	ID string `json:"id" validate:"required_if=Op toggle"`
}

func TableSelection(d *dashboard.Dashboard, logg *logger.Logger) http.HandlerFunc {
	return tableHandler(d, logg, func(w http.ResponseWriter, r *http.Request, t *crud.Table) error {
		var body selectionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		if _, err := t.Selection(r.Context(), body.Op, body.ID); err != nil {
			return err
		}
		return writeTableState(w, r, t)
	})
}

func TablePanel(d *dashboard.Dashboard, logg *logger.Logger) http.HandlerFunc {
	return tableHandler(d, logg, func(w http.ResponseWriter, r *http.Request, t *crud.Table) error {
		responses.WriteSuccess(w, t.Panel())
		return nil
	})
}

func TableOpenAdd(d *dashboard.Dashboard, logg *logger.Logger) http.HandlerFunc {
	return tableHandler(d, logg, func(w http.ResponseWriter, r *http.Request, t *crud.Table) error {
		panel, err := t.OpenAdd(r.Context())
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, panel)
		return nil
	})
}

func TableOpenEdit(d *dashboard.Dashboard, logg *logger.Logger) http.HandlerFunc {
	return tableHandler(d, logg, func(w http.ResponseWriter, r *http.Request, t *crud.Table) error {
		panel, err := t.OpenEdit(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, panel)
		return nil
	})
}

func TableOpenDuplicate(d *dashboard.Dashboard, logg *logger.Logger) http.HandlerFunc {
	return tableHandler(d, logg, func(w http.ResponseWriter, r *http.Request, t *crud.Table) error {
		panel, err := t.OpenDuplicate(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, panel)
		return nil
	})
}

func TableClosePanel(d *dashboard.Dashboard, logg *logger.Logger) http.HandlerFunc {
	return tableHandler(d, logg, func(w http.ResponseWriter, r *http.Request, t *crud.Table) error {
		t.Close()
		responses.WriteSuccess(w, t.Panel())
		return nil
	})
}

type submitRequest struct {
	Values crud.Values `json:"values" validate:"required"`
}

type submitResponse struct {
	Record any          `json:"record"`
	Notice *crud.Notice `json:"notice"`
}

// TableSubmit saves the open panel. Adds and duplicates answer 201.
func TableSubmit(d *dashboard.Dashboard, logg *logger.Logger) http.HandlerFunc {
	return tableHandler(d, logg, func(w http.ResponseWriter, r *http.Request, t *crud.Table) error {
		var body submitRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		mode := t.Panel().Mode
		record, notice, err := t.Submit(r.Context(), body.Values)
		if err != nil {
			return err
		}
		status := http.StatusCreated
		if mode == crud.ModeEdit {
			status = http.StatusOK
		}
		responses.WriteSuccessStatus(w, status, submitResponse{Record: record, Notice: notice})
		return nil
	})
}

func TableRowClick(d *dashboard.Dashboard, logg *logger.Logger) http.HandlerFunc {
	return tableHandler(d, logg, func(w http.ResponseWriter, r *http.Request, t *crud.Table) error {
		panel, err := t.RowClick(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, map[string]any{"panel": panel})
		return nil
	})
}

func TableRowActions(d *dashboard.Dashboard, logg *logger.Logger) http.HandlerFunc {
	return tableHandler(d, logg, func(w http.ResponseWriter, r *http.Request, t *crud.Table) error {
		actions, err := t.RowActions(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, actions)
		return nil
	})
}

func TableRunAction(d *dashboard.Dashboard, logg *logger.Logger) http.HandlerFunc {
	return tableHandler(d, logg, func(w http.ResponseWriter, r *http.Request, t *crud.Table) error {
		outcome, err := t.RunAction(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "action"))
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, outcome)
		return nil
	})
}

type deleteResponse struct {
	Confirmation *crud.Confirmation `json:"confirmation,omitempty"`
	Notice       *crud.Notice       `json:"notice,omitempty"`
}

// TableDeleteRow answers with the confirmation dialog unless ?confirm=true.
func TableDeleteRow(d *dashboard.Dashboard, logg *logger.Logger) http.HandlerFunc {
	return tableHandler(d, logg, func(w http.ResponseWriter, r *http.Request, t *crud.Table) error {
		confirmed, err := validators.ParseQueryBool(r, "confirm")
		if err != nil {
			return err
		}
		confirmation, notice, err := t.Delete(r.Context(), chi.URLParam(r, "id"), confirmed)
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, deleteResponse{Confirmation: confirmation, Notice: notice})
		return nil
	})
}

func TableBulkBar(d *dashboard.Dashboard, logg *logger.Logger) http.HandlerFunc {
	return tableHandler(d, logg, func(w http.ResponseWriter, r *http.Request, t *crud.Table) error {
		bar, err := t.BulkBar(r.Context())
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, bar)
		return nil
	})
}

func TableBulkDelete(d *dashboard.Dashboard, logg *logger.Logger) http.HandlerFunc {
	return tableHandler(d, logg, func(w http.ResponseWriter, r *http.Request, t *crud.Table) error {
		deleted, notice, err := t.BulkDelete(r.Context())
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, map[string]any{"deleted": deleted, "notice": notice})
		return nil
	})
}

// TableExportCSV downloads the selected rows. The notice travels in a
// header because the body is the file. Without a selection only the notice
// is returned.
func TableExportCSV(d *dashboard.Dashboard, logg *logger.Logger) http.HandlerFunc {
	return tableHandler(d, logg, func(w http.ResponseWriter, r *http.Request, t *crud.Table) error {
		export, notice, err := t.ExportCSV(r.Context())
		if err != nil {
			return err
		}
		if export.Body == nil {
			responses.WriteSuccess(w, map[string]any{"notice": notice})
			return nil
		}
		if notice != nil {
			w.Header().Set("X-Notice", notice.Message)
		}
		responses.WriteFile(w, export.Filename, export.ContentType, export.Body)
		return nil
	})
}

func TableExportPDF(d *dashboard.Dashboard, logg *logger.Logger) http.HandlerFunc {
	return tableHandler(d, logg, func(w http.ResponseWriter, r *http.Request, t *crud.Table) error {
		notice, err := t.ExportPDF(r.Context())
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, map[string]any{"notice": notice})
		return nil
	})
}
