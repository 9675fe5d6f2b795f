package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/estatedesk-backend/api/responses"
	"github.com/angelmondragon/estatedesk-backend/api/validators"
	"github.com/angelmondragon/estatedesk-backend/internal/preferences"
	pkgerrors "github.com/angelmondragon/estatedesk-backend/pkg/errors"
	"github.com/angelmondragon/estatedesk-backend/pkg/logger"
)

// PreferencesSnapshot returns every stored view, or one view with ?key=.
func PreferencesSnapshot(store *preferences.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !store.Hydrated() {
			responses.WriteError(r.Context(), logg, w, preferences.ErrNotHydrated)
			return
		}
		if key := r.URL.Query().Get("key"); key != "" {
			prefs, err := store.Get(key)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, prefs)
			return
		}
		responses.WriteSuccess(w, store.Snapshot())
	}
}

type preferenceUpdateRequest struct {
	Value json.RawMessage `json:"value" validate:"required"`
}

// PreferencesSet merges one field, e.g. PUT /preferences/sorting?key=....
func PreferencesSet(store *preferences.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, err := validators.RequireQuery(r, "key")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		field, err := preferences.ParseField(chi.URLParam(r, "field"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error()))
			return
		}
		var body preferenceUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		value, err := preferences.DecodeValue(field, body.Value)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid preference value"))
			return
		}
		if err := store.Set(r.Context(), key, field, value); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		prefs, err := store.Get(key)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, prefs)
	}
}

func PreferencesReset(store *preferences.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, err := validators.RequireQuery(r, "key")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := store.Reset(r.Context(), key); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		prefs, err := store.Get(key)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, prefs)
	}
}
