package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/estatedesk-backend/api/responses"
	"github.com/angelmondragon/estatedesk-backend/internal/dashboard"
	"github.com/angelmondragon/estatedesk-backend/pkg/logger"
)

func AdminOverview(d *dashboard.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, d.Overview())
	}
}

func AdminPages(d *dashboard.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, d.Pages())
	}
}

// AdminMarkQueryRead flags an inquiry as read without opening its panel.
func AdminMarkQueryRead(d *dashboard.Dashboard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := d.Catalog().MarkAsRead(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, q)
	}
}
