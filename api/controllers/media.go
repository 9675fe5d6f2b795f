package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/estatedesk-backend/api/responses"
	"github.com/angelmondragon/estatedesk-backend/api/validators"
	"github.com/angelmondragon/estatedesk-backend/internal/dashboard"
	"github.com/angelmondragon/estatedesk-backend/internal/media"
	pkgerrors "github.com/angelmondragon/estatedesk-backend/pkg/errors"
	"github.com/angelmondragon/estatedesk-backend/pkg/logger"
)

// uploadFormField is the multipart field carrying the files.
const uploadFormField = "files"

// MediaController serves the galleries of one owner kind ("properties" or
// "maps"). The owner id comes from {id}.
type MediaController struct {
	svc        *dashboard.MediaService
	logg       *logger.Logger
	entity     string
	maxRequest int64
}

// NewMediaController caps a whole upload request at maxRequest bytes.
func NewMediaController(svc *dashboard.MediaService, logg *logger.Logger, entity string, maxRequest int64) *MediaController {
	return &MediaController{svc: svc, logg: logg, entity: entity, maxRequest: maxRequest}
}

func (c *MediaController) View() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := c.svc.View(r.Context(), c.entity, chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type uploadResponse struct {
	media.AddResult
	Slots []media.SlotView `json:"slots"`
}

// Upload adds multipart files to {slot}. Per-file rejections come back as
// notices; only whole-request failures are errors.
func (c *MediaController) Upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uploads, err := c.readUploads(w, r)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		result, view, err := c.svc.Upload(r.Context(), c.entity, chi.URLParam(r, "id"), chi.URLParam(r, "slot"), uploads)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, uploadResponse{AddResult: result, Slots: view})
	}
}

func (c *MediaController) readUploads(w http.ResponseWriter, r *http.Request) ([]media.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, c.maxRequest)
	if err := r.ParseMultipartForm(c.maxRequest); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeTooLarge, err, "upload too large").
				WithDetails(map[string]any{"limitBytes": tooLarge.Limit})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[uploadFormField]
	if len(headers) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no files uploaded").
			WithDetails(map[string]any{"field": uploadFormField})
	}

	uploads := make([]media.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload")
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload")
		}
		uploads = append(uploads, media.Upload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Data:        data,
		})
	}
	return uploads, nil
}

func (c *MediaController) Remove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := c.svc.Remove(r.Context(), c.entity, chi.URLParam(r, "id"), chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func (c *MediaController) TogglePrimary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := c.svc.TogglePrimary(r.Context(), c.entity, chi.URLParam(r, "id"), chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type moveRequest struct {
	ActiveID string `json:"activeId" validate:"required"`
	OverID   string `json:"overId"`
}

// Move reorders by drag and drop. Dropping over nothing is a no-op.
func (c *MediaController) Move() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body moveRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		view, err := c.svc.Move(r.Context(), c.entity, chi.URLParam(r, "id"), body.ActiveID, body.OverID)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
