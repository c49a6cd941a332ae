package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/madebuy/madebuy-backend/api/responses"
	"github.com/madebuy/madebuy-backend/api/validators"
	uploadsvc "github.com/madebuy/madebuy-backend/internal/uploads"
	pkgerrors "github.com/madebuy/madebuy-backend/pkg/errors"
	"github.com/madebuy/madebuy-backend/pkg/logger"
)

// multipart bodies buffer to disk past this threshold
const multipartMemoryLimit = 8 << 20

// PersonalizationUpload accepts a multipart personalization file and stores it.
// The form carries `file`, `pieceId`, `fieldId`, and optionally `sessionId`.
func PersonalizationUpload(svc uploadsvc.Service, logg *logger.Logger, maxUploadMB int) http.HandlerFunc {
	maxBytes := int64(maxUploadMB) * 1024 * 1024
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "upload service unavailable"))
			return
		}

		tenant, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// generous slack for the multipart framing around the file itself
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartMemoryLimit)
		if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart request"))
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		pieceID, err := validators.ParseUUIDParam(r.FormValue("pieceId"), "pieceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		fieldID := strings.TrimSpace(r.FormValue("fieldId"))
		if fieldID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "fieldId is required"))
			return
		}

		var sessionID *uuid.UUID
		if raw := strings.TrimSpace(r.FormValue("sessionId")); raw != "" {
			parsed, parseErr := validators.ParseUUIDParam(raw, "sessionId")
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, parseErr)
				return
			}
			sessionID = &parsed
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file is required"))
			return
		}
		defer file.Close()

		output, err := svc.Upload(r.Context(), uploadsvc.UploadInput{
			TenantID:  tenant,
			PieceID:   pieceID,
			FieldID:   fieldID,
			SessionID: sessionID,
			FileName:  header.Filename,
			MimeType:  header.Header.Get("Content-Type"),
			SizeBytes: header.Size,
			Body:      file,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, output)
	}
}
