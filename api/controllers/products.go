package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/estatedesk-backend/api/responses"
	productsvc "github.com/angelmondragon/estatedesk-backend/internal/products"
	pkgerrors "github.com/angelmondragon/estatedesk-backend/pkg/errors"
	"github.com/angelmondragon/estatedesk-backend/pkg/logger"
)

const maxProductBody = 1 << 20

var (
	errIDRequired       = pkgerrors.New(pkgerrors.CodeValidation, "ID required")
	errMethodNotAllowed = pkgerrors.New(pkgerrors.CodeMethod, "Method not allowed")
	errProductNotFound  = pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
)

// Products serves /api/v1/products, where no id is present.
func Products(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			rows, err := svc.ListProducts(r.Context())
			if err != nil {
				responses.WriteLegacyError(r.Context(), logg, w, err)
				return
			}
			responses.WriteLegacy(w, http.StatusOK, rows)
		case http.MethodPost:
			createProduct(svc, logg, w, r)
		case http.MethodPut, http.MethodPatch, http.MethodDelete:
			responses.WriteLegacyError(r.Context(), logg, w, errIDRequired)
		default:
			responses.WriteLegacyError(r.Context(), logg, w, errMethodNotAllowed)
		}
	}
}

// Product serves /api/v1/products/{id}. Ids that are not positive integers
// never match a row.
func Product(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, idErr := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
		valid := idErr == nil && id > 0

		switch r.Method {
		case http.MethodGet:
			if !valid {
				responses.WriteLegacyError(r.Context(), logg, w, errProductNotFound)
				return
			}
			product, err := svc.GetProduct(r.Context(), uint(id))
			if err != nil {
				responses.WriteLegacyError(r.Context(), logg, w, err)
				return
			}
			responses.WriteLegacy(w, http.StatusOK, product)
		case http.MethodPost:
			createProduct(svc, logg, w, r)
		case http.MethodPut, http.MethodPatch:
			if !valid {
				responses.WriteLegacyError(r.Context(), logg, w, errProductNotFound)
				return
			}
			body, err := io.ReadAll(io.LimitReader(r.Body, maxProductBody))
			if err != nil {
				responses.WriteLegacyError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
				return
			}
			input, err := productsvc.ParseUpdateInput(body)
			if err != nil {
				responses.WriteLegacyError(r.Context(), logg, w, err)
				return
			}
			product, err := svc.UpdateProduct(r.Context(), uint(id), input)
			if err != nil {
				responses.WriteLegacyError(r.Context(), logg, w, err)
				return
			}
			responses.WriteLegacy(w, http.StatusOK, product)
		case http.MethodDelete:
			if valid {
				if err := svc.DeleteProduct(r.Context(), uint(id)); err != nil {
					responses.WriteLegacyError(r.Context(), logg, w, err)
					return
				}
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			responses.WriteLegacyError(r.Context(), logg, w, errMethodNotAllowed)
		}
	}
}

// LegacyNotFound answers unknown paths under the products boundary.
func LegacyNotFound(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteLegacyError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "Not found"))
	}
}

func createProduct(svc productsvc.Service, logg *logger.Logger, w http.ResponseWriter, r *http.Request) {
	var input productsvc.CreateProductInput
	body, err := io.ReadAll(io.LimitReader(r.Body, maxProductBody))
	if err == nil {
		// Malformed bodies are treated as empty and fail the name/slug check.
		if jsonErr := json.Unmarshal(body, &input); jsonErr != nil {
			input = productsvc.CreateProductInput{}
		}
	}
	product, err := svc.CreateProduct(r.Context(), input)
	if err != nil {
		responses.WriteLegacyError(r.Context(), logg, w, err)
		return
	}
	responses.WriteLegacy(w, http.StatusCreated, product)
}
