package controllers

import (
	"net/http"

	"github.com/angelmondragon/estatedesk-backend/api/responses"
)

// PublicPing answers the legacy liveness check with a bare body.
func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteLegacy(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
