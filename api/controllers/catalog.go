package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/estatedesk-backend/api/responses"
	"github.com/angelmondragon/estatedesk-backend/api/validators"
	"github.com/angelmondragon/estatedesk-backend/internal/catalog"
	"github.com/angelmondragon/estatedesk-backend/internal/crud"
	"github.com/angelmondragon/estatedesk-backend/internal/landing"
	"github.com/angelmondragon/estatedesk-backend/pkg/logger"
)

func CatalogProperties(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, cat.Properties.List())
	}
}

func CatalogProperty(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := cat.Properties.Get(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, p)
	}
}

func CatalogFiles(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, cat.Files.List())
	}
}

func CatalogMaps(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, cat.Maps.List())
	}
}

func CatalogMap(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := cat.Maps.Get(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, m)
	}
}

// CatalogLanding serves the visible home page sections.
func CatalogLanding(svc *landing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Public())
	}
}

type inquiryRequest struct {
	PropertyTitle string `json:"propertyTitle" validate:"required,max=200"`
	Name          string `json:"name" validate:"required,max=120"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"max=40"`
	Message       string `json:"message" validate:"max=4000"`
}

// CatalogSubmitInquiry records a contact form submission as an unread query.
func CatalogSubmitInquiry(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body inquiryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		q, err := cat.SubmitInquiry(r.Context(), crud.Values{
			"propertyTitle": validators.SanitizeString(body.PropertyTitle, 200),
			"name":          validators.SanitizeString(body.Name, 120),
			"email":         validators.SanitizeString(body.Email, 254),
			"phone":         validators.SanitizeString(body.Phone, 40),
			"message":       validators.SanitizeString(body.Message, 4000),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, q)
	}
}
