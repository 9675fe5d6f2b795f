package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/estatedesk-backend/api/responses"
	"github.com/angelmondragon/estatedesk-backend/api/validators"
	"github.com/angelmondragon/estatedesk-backend/internal/landing"
	"github.com/angelmondragon/estatedesk-backend/pkg/logger"
)

func LandingSections(svc *landing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Sections())
	}
}

func LandingAvailable(svc *landing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Available(chi.URLParam(r, "key"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if items == nil {
			items = []landing.Item{}
		}
		responses.WriteSuccess(w, items)
	}
}

type landingPatchRequest struct {
	IsVisible  *bool   `json:"isVisible"`
	Heading    *string `json:"heading" validate:"omitempty,max=200"`
	Subheading *string `json:"subheading" validate:"omitempty,max=500"`
}

func LandingUpdateSection(svc *landing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body landingPatchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sec, err := svc.UpdateSection(r.Context(), chi.URLParam(r, "key"), landing.Patch{
			IsVisible:  body.IsVisible,
			Heading:    body.Heading,
			Subheading: body.Subheading,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sec)
	}
}

type landingItemsRequest struct {
	IDs []string `json:"ids" validate:"required"`
}

func LandingSelectItems(svc *landing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body landingItemsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sec, err := svc.SelectItems(r.Context(), chi.URLParam(r, "key"), body.IDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sec)
	}
}

func LandingSave(svc *landing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notice, err := svc.Save(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"sections": svc.Sections(), "notice": notice})
	}
}

func LandingReset(svc *landing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notice := svc.Reset(r.Context())
		responses.WriteSuccess(w, map[string]any{"sections": svc.Sections(), "notice": notice})
	}
}

// LandingSeedDemo selects the demo items in every section without saving.
func LandingSeedDemo(svc *landing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.SeedDemo(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.Sections())
	}
}
