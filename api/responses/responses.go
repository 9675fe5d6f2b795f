package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	pkgerrors "github.com/angelmondragon/estatedesk-backend/pkg/errors"
	"github.com/angelmondragon/estatedesk-backend/pkg/logger"
	"github.com/angelmondragon/estatedesk-backend/pkg/types"
)

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	typed, meta := classify(ctx, logg, err)

	payload := types.ErrorEnvelope{
		Error: types.APIError{
			Code:    string(typed.Code()),
			Message: publicMessage(typed, meta),
		},
	}

	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload.Error.Details = details
		}
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

// WriteLegacy writes a bare JSON body, without the data envelope, for the
// products boundary kept compatible with its existing clients.
func WriteLegacy(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data)
}

// WriteLegacyError writes {"error": message} with an optional "detail".
// Dependency failures surface as 500 the way the products API always has.
func WriteLegacyError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	typed, meta := classify(ctx, logg, err)

	payload := types.LegacyError{Error: typed.Message()}
	if payload.Error == "" {
		payload.Error = meta.PublicMessage
	}
	if details, ok := typed.Details().(map[string]any); ok {
		if detail, ok := details["detail"].(string); ok {
			payload.Detail = detail
		}
	}

	status := meta.HTTPStatus
	if typed.Code() == pkgerrors.CodeDependency {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, payload)
}

// WriteFile sends a download with an attachment disposition.
func WriteFile(w http.ResponseWriter, filename, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Printf(`{"level":"error","msg":"failed to write file response","err":"%v"}`, err)
	}
}

func classify(ctx context.Context, logg *logger.Logger, err error) (*pkgerrors.Error, pkgerrors.Metadata) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(typed.Code())

	if logg != nil {
		ctx = logg.WithFields(ctx, pkgerrors.Dump(err).LogFields())
		if meta.HTTPStatus >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(ctx, "request.rejected")
		}
	}
	return typed, meta
}

func publicMessage(typed *pkgerrors.Error, meta pkgerrors.Metadata) string {
	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeMethod,
		pkgerrors.CodeConflict,
		pkgerrors.CodeStateConflict,
		pkgerrors.CodeIdempotency,
		pkgerrors.CodeTooLarge:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}
	return msg
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
